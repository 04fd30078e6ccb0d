package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"kfwd/internal/config"
	"kfwd/internal/kubectl"
	"kfwd/internal/selector"
)

// fakeClient answers kubeconfig queries from fixed maps and counts how often
// the current context/cluster pair is read.
type fakeClient struct {
	currentContext   string
	currentCluster   string
	currentErr       error
	clusterByContext map[string]string
	contextByCluster map[string]string
	currentCallCount int
}

func (f *fakeClient) Version() (string, error) { return "v1.33.0", nil }

func (f *fakeClient) CurrentContext() (string, error) {
	f.currentCallCount++
	return f.currentContext, f.currentErr
}

func (f *fakeClient) CurrentCluster() (string, error) {
	return f.currentCluster, f.currentErr
}

func (f *fakeClient) ClusterFromContext(context string) (string, error) {
	return f.clusterByContext[context], nil
}

func (f *fakeClient) ContextFromCluster(cluster string) (string, error) {
	return f.contextByCluster[cluster], nil
}

func (f *fakeClient) SpawnForward(config.Target) (kubectl.Process, error) {
	return nil, errors.New("not forwarding in tests")
}

func selections(targets ...config.Target) []selector.Selection {
	out := make([]selector.Selection, len(targets))
	for i, t := range targets {
		out[i] = selector.Selection{ID: config.TargetID(i), Target: t}
	}
	return out
}

func TestAutofill_BothSetLeftAlone(t *testing.T) {
	client := &fakeClient{clusterByContext: map[string]string{"ctx": "other"}}
	sel := selections(config.Target{Target: "api", Context: "ctx", Cluster: "clu"})

	Autofill(sel, client)
	assert.Equal(t, "ctx", sel[0].Target.Context)
	assert.Equal(t, "clu", sel[0].Target.Cluster)
	assert.Zero(t, client.currentCallCount)
}

func TestAutofill_ClusterFromContext(t *testing.T) {
	client := &fakeClient{clusterByContext: map[string]string{"prod-ctx": "prod"}}
	sel := selections(config.Target{Target: "api", Context: "prod-ctx"})

	Autofill(sel, client)
	assert.Equal(t, "prod", sel[0].Target.Cluster)
}

func TestAutofill_ContextFromCluster(t *testing.T) {
	client := &fakeClient{contextByCluster: map[string]string{"prod": "prod-ctx"}}
	sel := selections(config.Target{Target: "api", Cluster: "prod"})

	Autofill(sel, client)
	assert.Equal(t, "prod-ctx", sel[0].Target.Context)
}

func TestAutofill_AmbiguousLookupLeavesFieldUnset(t *testing.T) {
	// an empty answer models zero or multiple matches
	client := &fakeClient{}
	sel := selections(
		config.Target{Target: "a", Context: "unknown-ctx"},
		config.Target{Target: "b", Cluster: "unknown-clu"},
	)

	Autofill(sel, client)
	assert.Empty(t, sel[0].Target.Cluster)
	assert.Empty(t, sel[1].Target.Context)
}

func TestAutofill_NeitherSetInheritsCurrent(t *testing.T) {
	client := &fakeClient{currentContext: "dev-ctx", currentCluster: "dev"}
	sel := selections(
		config.Target{Target: "a"},
		config.Target{Target: "b"},
		config.Target{Target: "c", Context: "x", Cluster: "y"},
	)

	Autofill(sel, client)
	assert.Equal(t, "dev-ctx", sel[0].Target.Context)
	assert.Equal(t, "dev", sel[0].Target.Cluster)
	assert.Equal(t, "dev-ctx", sel[1].Target.Context)
	assert.Equal(t, "dev", sel[1].Target.Cluster)
	assert.Equal(t, "x", sel[2].Target.Context)

	// the active pair is queried once and shared across targets
	assert.Equal(t, 1, client.currentCallCount)
}

func TestAutofill_CurrentLookupFailureIsSoft(t *testing.T) {
	client := &fakeClient{currentErr: errors.New("no kubeconfig")}
	sel := selections(config.Target{Target: "a"})

	Autofill(sel, client)
	assert.Empty(t, sel[0].Target.Context)
	assert.Empty(t, sel[0].Target.Cluster)
}
