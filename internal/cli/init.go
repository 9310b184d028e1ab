package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/ordercompat/internal/infra/fsworkspace"
	"github.com/aalvaropc/ordercompat/internal/usecase"
)

func initCmd() *cobra.Command {
	var path string
	var force bool

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold an ordercompat workspace (config, fixtures, envs, probes)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := path
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				dir = "."
			}

			root, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(root, force); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Workspace ready at %s\n\n", root)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  ordercompat serve                      # start the mock orders server")
			fmt.Fprintln(out, "  ordercompat probe -s orders-migration  # probe it")
			fmt.Fprintln(out, "  ordercompat regress                    # run the regression catalog")
			return nil
		},
	}

	c.Flags().StringVarP(&path, "path", "p", "", "Workspace directory (default: current directory)")
	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")
	return c
}
