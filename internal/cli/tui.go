package cli

import (
	"github.com/spf13/cobra"

	"github.com/aalvaropc/ordercompat/internal/infra/fsworkspace"
	"github.com/aalvaropc/ordercompat/internal/infra/logger"
	"github.com/aalvaropc/ordercompat/internal/infra/workspacefinder"
	"github.com/aalvaropc/ordercompat/internal/ui/tui"
	"github.com/aalvaropc/ordercompat/internal/usecase/regression"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the regression catalog and probe suites interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd)
		},
	}
}

func runTUI(cmd *cobra.Command) error {
	closeLog := openLogger(cmd, "", nil)
	defer closeLog()

	debug, _ := cmd.Flags().GetBool("debug")

	suite, err := regression.NewSuite(regression.WithLogger(logger.L()))
	if err != nil {
		return err
	}

	deps := tui.Deps{
		WorkspaceLocator:     workspacefinder.NewFinder(),
		WorkspaceInitializer: fsworkspace.NewInitializer(),
		Regression:           suite,
		Logger:               logger.L(),
		Debug:                debug,
	}
	return tui.Run(deps)
}
