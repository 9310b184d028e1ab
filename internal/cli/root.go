package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "ordercompat",
		Short: "Orders API v1/v2 compatibility adapter, mock server and migration checks",
		Long: "ordercompat maps v2 orders to the legacy v1 shape, detects compatibility issues,\n" +
			"tells deprecation apart from outages, and runs regression and live probe suites.\n" +
			"Run without a subcommand to open the terminal UI.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .ordercompat/logs/ordercompat.log")

	cmd.AddCommand(
		initCmd(),
		mapCmd(),
		issuesCmd(),
		classifyCmd(),
		regressCmd(),
		serveCmd(),
		probeCmd(),
		validateCmd(),
		probesCmd(),
		envsCmd(),
		tuiCmd(),
		versionCmd(),
	)
	return cmd
}
