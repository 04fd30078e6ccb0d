// Package resolver fills in missing context and cluster fields on selected
// targets from the user's kubeconfig, on a best-effort basis.
package resolver

import (
	"kfwd/internal/kubectl"
	"kfwd/internal/selector"
	"kfwd/pkg/logging"
)

const subsystem = "resolver"

// Autofill completes the context/cluster pair of every selection in place.
// A target with only one of the two set gets the other looked up; zero or
// ambiguous matches leave the field unset. Targets with neither set inherit
// the currently active context and cluster, queried once and shared. All
// failures here are soft: the run proceeds with the fields as they are.
func Autofill(selections []selector.Selection, client kubectl.Client) {
	var (
		currentContext string
		currentCluster string
		currentLoaded  bool
	)

	for i := range selections {
		t := &selections[i].Target
		switch {
		case t.Context != "" && t.Cluster != "":
			// nothing to do
		case t.Context != "":
			cluster, err := client.ClusterFromContext(t.Context)
			if err != nil {
				logging.Debug(subsystem, "could not resolve cluster for context %q: %v", t.Context, err)
				continue
			}
			if cluster == "" {
				logging.Debug(subsystem, "no unambiguous cluster for context %q", t.Context)
				continue
			}
			t.Cluster = cluster
		case t.Cluster != "":
			context, err := client.ContextFromCluster(t.Cluster)
			if err != nil {
				logging.Debug(subsystem, "could not resolve context for cluster %q: %v", t.Cluster, err)
				continue
			}
			if context == "" {
				logging.Debug(subsystem, "no unambiguous context for cluster %q", t.Cluster)
				continue
			}
			t.Context = context
		default:
			if !currentLoaded {
				currentLoaded = true
				var err error
				if currentContext, err = client.CurrentContext(); err != nil {
					logging.Debug(subsystem, "could not determine current context: %v", err)
				}
				if currentCluster, err = client.CurrentCluster(); err != nil {
					logging.Debug(subsystem, "could not determine current cluster: %v", err)
				}
			}
			t.Context = currentContext
			t.Cluster = currentCluster
		}
	}
}
