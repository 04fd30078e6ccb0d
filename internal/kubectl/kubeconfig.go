package kubectl

import (
	"fmt"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// For mocking in tests
var loadKubeconfig = func() (*clientcmdapi.Config, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	return rules.Load()
}

// CurrentContext returns the active context of the merged kubeconfig.
func (k *Kubectl) CurrentContext() (string, error) {
	cfg, err := loadKubeconfig()
	if err != nil {
		return "", fmt.Errorf("loading kubeconfig: %w", err)
	}
	return cfg.CurrentContext, nil
}

// CurrentCluster returns the cluster bound to the active context, or ""
// when the active context does not exist or names no cluster.
func (k *Kubectl) CurrentCluster() (string, error) {
	cfg, err := loadKubeconfig()
	if err != nil {
		return "", fmt.Errorf("loading kubeconfig: %w", err)
	}
	ctx, ok := cfg.Contexts[cfg.CurrentContext]
	if !ok {
		return "", nil
	}
	return ctx.Cluster, nil
}

// ClusterFromContext returns the cluster the named context is bound to, or
// "" when the context does not exist.
func (k *Kubectl) ClusterFromContext(context string) (string, error) {
	cfg, err := loadKubeconfig()
	if err != nil {
		return "", fmt.Errorf("loading kubeconfig: %w", err)
	}
	ctx, ok := cfg.Contexts[context]
	if !ok {
		return "", nil
	}
	return ctx.Cluster, nil
}

// ContextFromCluster returns the single context bound to the named cluster.
// Zero or multiple matches yield "".
func (k *Kubectl) ContextFromCluster(cluster string) (string, error) {
	cfg, err := loadKubeconfig()
	if err != nil {
		return "", fmt.Errorf("loading kubeconfig: %w", err)
	}
	var match string
	for name, ctx := range cfg.Contexts {
		if ctx.Cluster != cluster {
			continue
		}
		if match != "" {
			// Ambiguous; leave the decision to the user.
			return "", nil
		}
		match = name
	}
	return match, nil
}
