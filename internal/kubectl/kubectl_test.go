package kubectl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"kfwd/internal/config"
)

func TestNew_PathFallback(t *testing.T) {
	t.Setenv(EnvKubectlPath, "")
	assert.Equal(t, "kubectl", New("").path)
	assert.Equal(t, "/opt/bin/kubectl", New("/opt/bin/kubectl").path)

	t.Setenv(EnvKubectlPath, "/env/kubectl")
	assert.Equal(t, "/env/kubectl", New("").path)
	// an explicit path beats the environment
	assert.Equal(t, "/opt/bin/kubectl", New("/opt/bin/kubectl").path)
}

func TestForwardArgs(t *testing.T) {
	tests := []struct {
		name   string
		target config.Target
		want   []string
	}{
		{
			name: "minimal",
			target: config.Target{
				Namespace: "default",
				Type:      config.ResourceService,
				Target:    "foo",
				Ports:     []config.PortMapping{{Remote: 80}},
			},
			want: []string{"port-forward", "-n", "default", "service/foo", ":80"},
		},
		{
			name: "full",
			target: config.Target{
				Context:     "prod-ctx",
				Cluster:     "prod",
				ListenAddrs: []string{"127.0.0.1", "[::1]"},
				Namespace:   "backend",
				Type:        config.ResourceDeployment,
				Target:      "api",
				Ports: []config.PortMapping{
					{Local: 5012, Remote: 80},
					{Remote: 8080},
				},
			},
			want: []string{
				"port-forward",
				"--context", "prod-ctx",
				"--cluster", "prod",
				"--address", "127.0.0.1,[::1]",
				"-n", "backend",
				"deployment/api",
				"5012:80", ":8080",
			},
		},
		{
			name: "pod",
			target: config.Target{
				Namespace: "default",
				Type:      config.ResourcePod,
				Target:    "worker-0",
				Ports:     []config.PortMapping{{Local: 9000, Remote: 9000}},
			},
			want: []string{"port-forward", "-n", "default", "pod/worker-0", "9000:9000"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, forwardArgs(&tc.target))
		})
	}
}

// mockKubeconfig swaps the kubeconfig loader for the duration of a test.
func mockKubeconfig(t *testing.T, cfg *clientcmdapi.Config) {
	t.Helper()
	orig := loadKubeconfig
	loadKubeconfig = func() (*clientcmdapi.Config, error) { return cfg, nil }
	t.Cleanup(func() { loadKubeconfig = orig })
}

func testKubeconfig() *clientcmdapi.Config {
	return &clientcmdapi.Config{
		CurrentContext: "dev-ctx",
		Contexts: map[string]*clientcmdapi.Context{
			"dev-ctx":    {Cluster: "dev"},
			"prod-ctx":   {Cluster: "prod"},
			"prod-admin": {Cluster: "prod"},
		},
	}
}

func TestCurrentContextAndCluster(t *testing.T) {
	mockKubeconfig(t, testKubeconfig())
	k := New("")

	ctx, err := k.CurrentContext()
	require.NoError(t, err)
	assert.Equal(t, "dev-ctx", ctx)

	cluster, err := k.CurrentCluster()
	require.NoError(t, err)
	assert.Equal(t, "dev", cluster)
}

func TestCurrentCluster_DanglingContext(t *testing.T) {
	cfg := testKubeconfig()
	cfg.CurrentContext = "gone"
	mockKubeconfig(t, cfg)

	cluster, err := New("").CurrentCluster()
	require.NoError(t, err)
	assert.Empty(t, cluster)
}

func TestClusterFromContext(t *testing.T) {
	mockKubeconfig(t, testKubeconfig())
	k := New("")

	cluster, err := k.ClusterFromContext("prod-ctx")
	require.NoError(t, err)
	assert.Equal(t, "prod", cluster)

	cluster, err = k.ClusterFromContext("missing")
	require.NoError(t, err)
	assert.Empty(t, cluster)
}

func TestContextFromCluster(t *testing.T) {
	mockKubeconfig(t, testKubeconfig())
	k := New("")

	context, err := k.ContextFromCluster("dev")
	require.NoError(t, err)
	assert.Equal(t, "dev-ctx", context)

	// two contexts point at "prod"; refuse to guess
	context, err = k.ContextFromCluster("prod")
	require.NoError(t, err)
	assert.Empty(t, context)

	context, err = k.ContextFromCluster("missing")
	require.NoError(t, err)
	assert.Empty(t, context)
}
