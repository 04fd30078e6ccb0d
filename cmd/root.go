package cmd

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command; running it starts the forwarder.
var rootCmd = &cobra.Command{
	Use:   "kfwd [filter...]",
	Short: "Forward ports to many Kubernetes targets at once",
	Long: `kfwd keeps kubectl port-forward sessions alive against many targets across
clusters and contexts. Targets are resolved from a cascading hierarchy of
.kfwd configuration files, filtered by tags and name prefixes, and each
forwarding process is restarted automatically when it exits.`,
	// SilenceUsage prevents printing the usage message on errors handled
	// by us (failed forwards, invalid configuration).
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// loadEnvFile loads a .env file from the working directory, if present. It
// can supply overrides such as KUBECTL_PATH; variables already present in
// the environment are never replaced.
func loadEnvFile() {
	_ = godotenv.Load()
}

// Execute runs the root command and maps categorical errors to their
// process exit codes. This is called by main.main().
func Execute() {
	loadEnvFile()
	rootCmd.SetVersionTemplate(`{{printf "kfwd version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		// Cobra prints the error, we just exit non-zero.
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle (runForward reads rootCmd.Version).
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runForward(cmd, args)
	}

	rootCmd.AddCommand(newVersionCmd())

	flags := rootCmd.Flags()
	flags.StringArrayVarP(&forwardOpts.files, "file", "f", nil,
		"custom config file(s) to load instead of discovering .kfwd (repeatable)")
	flags.StringVar(&forwardOpts.kubectlPath, "kubectl", "",
		"path to the kubectl binary (defaults to $KUBECTL_PATH, then kubectl on PATH)")
	flags.StringSliceVarP(&forwardOpts.tags, "tag", "t", nil,
		"tag selection expression like a+b; repeat or comma-separate to OR expressions")
	flags.BoolVarP(&forwardOpts.verbose, "verbose", "v", false,
		"report configuration provenance and per-event detail")
}
