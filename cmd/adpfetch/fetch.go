package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"adpfetch/pkg/auth"
	"adpfetch/pkg/config"
	"adpfetch/pkg/fetcher"
	"adpfetch/pkg/logger"
	"adpfetch/pkg/ui"
)

var (
	// Fetch flags
	limit       int
	credsFile   string
	outputDir   string
	locale      string
	adjustments string
	timeout     time.Duration
)

func init() {
	rootCmd.Flags().IntVar(&limit, "limit", 30, "how many recent pay dates to request")
	// Persistent so the auth subcommands can point at the same file
	rootCmd.PersistentFlags().StringVar(&credsFile, "creds", "./.adp-pass", "path to the credentials file (username and password on the first two lines)")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for downloads (default: current directory)")
	rootCmd.Flags().StringVar(&locale, "locale", "", "locale cookie value sent to the portal (default: en_US)")
	rootCmd.Flags().StringVar(&adjustments, "adjustments", "", "value of the listing endpoint's adjustments parameter (default: yes)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "HTTP timeout for portal calls (0 waits forever)")
}

func runFetch(cmd *cobra.Command) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("limit") {
		flags["limit"] = limit
	}
	if cmd.Flags().Changed("creds") {
		flags["creds"] = credsFile
	}
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if locale != "" {
		flags["locale"] = locale
	}
	if adjustments != "" {
		flags["adjustments"] = adjustments
	}
	if timeout > 0 {
		flags["timeout"] = timeout
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	logger.Initialize(&cfg.Logging)
	logger.WithField("version", version).Info("pay-stub fetcher starting")

	// Resolve credentials before anything touches the network
	credManager := auth.NewManager(cfg.ADP.CredentialsFile)
	account, err := credManager.Resolve()
	if err != nil {
		logger.WithError(err).Error("no credentials found")
		ui.PrintError("Couldn't find credentials", cfg.ADP.CredentialsFile)
		ui.PrintInfo("Hint", "run 'adpfetch auth login' or create the credentials file")
		os.Exit(1)
	}

	ui.PrintInfo("Account", account.Username)
	ui.PrintInfo("Output directory", cfg.Output.Directory)

	f, err := fetcher.New(cfg, account)
	if err != nil {
		ui.PrintError("Failed to initialize fetcher", err.Error())
		os.Exit(1)
	}

	if err := f.DownloadNeeded(); err != nil {
		logger.WithError(err).Error("fetch failed")
		ui.PrintError("FETCH FAILED", err.Error())
		os.Exit(1)
	}

	logger.Info("fetch completed successfully")
}
