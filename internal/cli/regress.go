package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/infra/logger"
	"github.com/aalvaropc/ordercompat/internal/ports"
	"github.com/aalvaropc/ordercompat/internal/usecase"
	"github.com/aalvaropc/ordercompat/internal/usecase/regression"
)

func regressCmd() *cobra.Command {
	var workspace string
	var testID string
	var verbose bool
	var save bool
	var format string

	c := &cobra.Command{
		Use:   "regress",
		Short: "Run the v1/v2 migration regression catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			closeLog := openLogger(cmd, "", nil)
			defer closeLog()

			suite, err := regression.NewSuite(regression.WithLogger(logger.L()))
			if err != nil {
				return err
			}

			var store ports.ReportStore
			if save {
				ws, err := loadWorkspace(workspace)
				if err != nil {
					return err
				}
				store = ws.store
			}

			rep, id, err := usecase.NewRunRegression(suite, store).Execute(cmdContext(cmd), testID)
			if err != nil && len(rep.Results) == 0 {
				return err
			}

			if perr := printSuiteReport(cmd.OutOrStdout(), rep, id, format, verbose); perr != nil {
				return perr
			}
			if err != nil {
				return err
			}

			if rep.Verdict != domain.VerdictSafe {
				return fmt.Errorf("verdict %s (%d failed, %d critical)", rep.Verdict, rep.Tally.Failed, rep.Tally.CriticalFailures)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root for --save (optional; autodetected if omitted)")
	c.Flags().StringVarP(&testID, "test", "t", "", "Run a single check by ID (e.g. RT-007)")
	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show every check, not only failures")
	c.Flags().BoolVar(&save, "save", false, "Save the report under the workspace reports dir")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printSuiteReport(w io.Writer, rep domain.SuiteReport, id, format string, verbose bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"report_id": id,
			"report":    rep,
		})
	case "pretty", "":
		printPrettySuiteReport(w, rep, id, verbose)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettySuiteReport(w io.Writer, rep domain.SuiteReport, id string, verbose bool) {
	fmt.Fprintf(w, "Suite: %s\n", rep.Name)
	if id != "" {
		fmt.Fprintf(w, "Report ID: %s\n", id)
	}
	fmt.Fprintln(w)

	category := ""
	for _, r := range rep.Results {
		if !verbose && r.Status == domain.StatusPass {
			continue
		}
		if r.Category != category {
			category = r.Category
			fmt.Fprintf(w, "%s\n", category)
		}
		fmt.Fprintf(w, "  [%s] %s %s (%s)\n", r.Status, r.ID, r.Description, r.Severity)
		if r.Message != "" {
			fmt.Fprintf(w, "         %s\n", r.Message)
		}
	}
	if category != "" {
		fmt.Fprintln(w)
	}

	t := rep.Tally
	fmt.Fprintf(w, "Total: %d  Passed: %d  Failed: %d  Critical: %d\n", t.Total, t.Passed, t.Failed, t.CriticalFailures)
	fmt.Fprintf(w, "Verdict: %s\n", rep.Verdict)
}
