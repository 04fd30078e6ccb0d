package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"kfwd/internal/config"
	"kfwd/internal/forwarding"
	"kfwd/internal/kubectl"
	"kfwd/internal/resolver"
	"kfwd/internal/selector"
	"kfwd/pkg/logging"
)

type forwardOptions struct {
	files       []string
	kubectlPath string
	tags        []string
	verbose     bool
}

var forwardOpts forwardOptions

// runForward is the whole run: locate and load configuration, merge,
// select, resolve, then supervise one forwarding process per target until
// the program is terminated.
func runForward(cmd *cobra.Command, filters []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	level := logging.LevelInfo
	if forwardOpts.verbose {
		level = logging.LevelDebug
	}
	logging.Init(level, errOut)

	expressions, err := selector.ParseTagSelections(forwardOpts.tags)
	if err != nil {
		return exitWith(ExitConfig, fmt.Errorf("invalid tag selection: %w", err))
	}

	// Ensure kubectl is available before doing anything else.
	client := kubectl.New(forwardOpts.kubectlPath)
	kubectlVersion, err := client.Version()
	if err != nil {
		return exitWith(ExitUnavailable, fmt.Errorf("failed to locate kubectl: %w", err))
	}
	printHeader(out, rootCmd.Version, kubectlVersion)

	sources, err := config.Locate(forwardOpts.files)
	if err != nil {
		return exitWith(ExitConfig, err)
	}
	printSources(out, sources, forwardOpts.verbose)

	docs, err := config.LoadAll(sources, config.DefaultSupportedVersions)
	if err != nil {
		return exitWith(ExitConfig, err)
	}

	merged := config.MergeAll(docs)
	if len(merged.Targets) == 0 {
		return exitWith(ExitNoTargets, errors.New("no targets configured"))
	}

	selections := selector.Select(merged.Targets, expressions, filters)
	if len(selections) == 0 {
		return exitWith(ExitNoTargets, errors.New("no targets selected"))
	}

	resolver.Autofill(selections, client)

	fmt.Fprintln(out, "Forwarding to the following targets:")
	printTargets(out, selections, forwardOpts.verbose)
	fmt.Fprintln(out)

	return supervise(out, errOut, selections, merged.Config, client)
}

// supervise runs one supervisor per selection plus the single aggregator,
// and blocks until every supervisor has been joined. Supervisors retry
// indefinitely, so this returns only on SIGINT/SIGTERM.
func supervise(out, errOut io.Writer, selections []selector.Selection, operational *config.OperationalSettings, client kubectl.Client) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := forwarding.NewEventChannel()
	delay := operational.RetryDelay()

	var supervisors sync.WaitGroup
	for _, sel := range selections {
		sup := &forwarding.Supervisor{
			ID:         sel.ID,
			Target:     sel.Target,
			RetryDelay: delay,
			Client:     client,
			Events:     events,
			Probe:      forwardOpts.verbose,
		}
		supervisors.Add(1)
		go func() {
			defer supervisors.Done()
			// Per-target failure stays per-target; the event stream already
			// carries the report.
			_ = sup.Run(ctx)
		}()
	}

	aggregator := &forwarding.Aggregator{Out: out, Err: errOut}
	done := make(chan struct{})
	go func() {
		defer close(done)
		aggregator.Run(events)
	}()

	supervisors.Wait()
	close(events)
	<-done
	return nil
}

func printSources(w io.Writer, sources []config.SourceContent, verbose bool) {
	if len(sources) == 1 {
		fmt.Fprintf(w, "Using config from %s\n", sources[0].Source.Path)
	} else {
		fmt.Fprintf(w, "Using config from %d locations\n", len(sources))
	}
	if verbose {
		for _, src := range sources {
			note := ""
			if src.Source.LoadConfigOnly {
				note = " (settings only)"
			}
			fmt.Fprintf(w, "  %s%s\n", src.Source.Path, note)
		}
	}
	fmt.Fprintln(w)
}

func printTargets(w io.Writer, selections []selector.Selection, verbose bool) {
	for i := range selections {
		sel := &selections[i]
		t := &sel.Target
		id := idStyle.Render(sel.ID.String())
		padding := strings.Repeat(" ", len(sel.ID.String()))

		if t.Name != "" {
			fmt.Fprintf(w, "%s %s\n", id, t.Name)
			fmt.Fprintf(w, "%s target:  %s.%s\n", padding, t.ResourceRef(), t.Namespace)
		} else {
			fmt.Fprintf(w, "%s target:  %s.%s\n", id, t.ResourceRef(), t.Namespace)
		}
		fmt.Fprintf(w, "%s context: %s\n", padding, orImplicit(t.Context))
		fmt.Fprintf(w, "%s cluster: %s\n", padding, orImplicit(t.Cluster))
		if verbose && t.SourceFile != "" {
			fmt.Fprintf(w, "%s source:  %s\n", padding, t.SourceFile)
		}
	}
}

func orImplicit(value string) string {
	if value == "" {
		return "(implicit)"
	}
	return value
}
