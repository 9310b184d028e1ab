package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/ordercompat/internal/usecase"
)

func validateCmd() *cobra.Command {
	var workspace string
	var suite string
	var env string
	var baseURL string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Validate a probe suite and environment (no HTTP)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			suitePath, err := resolveSuitePath(ws, suite)
			if err != nil {
				return err
			}

			envArg, err := resolveEnvironmentArg(ws, env)
			if err != nil {
				return err
			}

			uc := usecase.NewValidateSuite(ws.suites, ws.envs)
			if err := uc.Execute(cmdContext(cmd), suitePath, envArg, baseURL); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&suite, "suite", "s", "", "Probe suite name or path (required)")
	c.Flags().StringVarP(&env, "env", "e", "", "Environment name or path (optional; defaults to workspace default env)")
	c.Flags().StringVar(&baseURL, "base-url", "", "Override the environment's base_url")

	_ = c.MarkFlagRequired("suite")
	return c
}
