package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"adpfetch/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
)

// rootCmd represents the base command. Running it without a subcommand
// performs the fetch, so plain `adpfetch` does the expected thing.
var rootCmd = &cobra.Command{
	Use:   "adpfetch",
	Short: "Download your ADP pay-stub PDFs",
	Long: `adpfetch logs in to the ADP employee portal the same way a browser
would and downloads PDFs of any pay statements you don't already have.

A statement counts as already downloaded when <pay-date>.pdf exists in the
output directory or in a subdirectory named after the statement's year.

Credentials come from a plaintext file (username on the first line,
password on the second), the system keychain (see 'adpfetch auth login'),
or the ADPFETCH_USERNAME / ADPFETCH_PASSWORD environment variables.`,
	Example: `  # Download the 30 most recent statements that are missing locally
  adpfetch

  # Look further back and read credentials from a different file
  adpfetch --limit 90 --creds ~/.adp-pass

  # Store credentials in the system keychain instead of a file
  adpfetch auth login`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:    cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			ui.PrintLogo()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		runFetch(cmd)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .adpfetch.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	// Version template
	rootCmd.SetVersionTemplate(`adpfetch {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
