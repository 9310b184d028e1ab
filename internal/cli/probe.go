package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/infra/logger"
	"github.com/aalvaropc/ordercompat/internal/ports"
	"github.com/aalvaropc/ordercompat/internal/usecase"
)

func probeCmd() *cobra.Command {
	var workspace string
	var suite string
	var env string
	var baseURL string
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "probe",
		Short: "Run a probe suite against a live orders deployment",
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

			closeLog := openLogger(cmd, ws.root, nil)
			defer closeLog()
			log := logger.L()

			var store ports.ReportStore = ws.store
			if noSave {
				store = nil
			}

			uc := usecase.NewRunProbes(ws.suites, ws.envs, ws.runner, store)

			log.Info("probe.start", "suite", suitePath, "env", envArg, "base_url_override", baseURL)
			run, runID, err := uc.Execute(cmdContext(cmd), suitePath, envArg, baseURL)
			if err != nil {
				log.Error("probe.failed", "err", err, "saved_id", runID)
				// Print what ran before returning the error.
				if len(run.Results) > 0 {
					_ = printProbeRun(cmd.OutOrStdout(), run, runID, format)
				}
				return err
			}
			log.Info("probe.done",
				"saved_id", runID,
				"passed", run.Tally.Passed,
				"failed", run.Tally.Failed,
				"warned", run.Tally.Warned,
			)

			if err := printProbeRun(cmd.OutOrStdout(), run, runID, format); err != nil {
				return err
			}

			if run.Tally.Failed > 0 {
				return fmt.Errorf("probe run failed (%d failed probe(s), %d alert(s))", run.Tally.Failed, countAlerts(run))
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&suite, "suite", "s", "", "Probe suite name or path (required)")
	c.Flags().StringVarP(&env, "env", "e", "", "Environment name or path (optional; defaults to workspace default env)")
	c.Flags().StringVar(&baseURL, "base-url", "", "Override the environment's base_url")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save the run report under reports/")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")

	_ = c.MarkFlagRequired("suite")
	return c
}

func printProbeRun(w io.Writer, run domain.ProbeRun, runID string, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		payload := map[string]any{
			"run_id":  runID,
			"verdict": run.Tally.Verdict(),
			"run":     run,
		}
		return enc.Encode(payload)
	case "pretty", "":
		printPrettyProbeRun(w, run, runID)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyProbeRun(w io.Writer, run domain.ProbeRun, runID string) {
	total := run.EndedAt.Sub(run.StartedAt)
	if run.StartedAt.IsZero() || run.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "Suite:    %s\n", run.SuiteName)
	fmt.Fprintf(w, "Env:      %s\n", run.EnvironmentName)
	fmt.Fprintf(w, "Base URL: %s\n", run.BaseURL)
	fmt.Fprintf(w, "Started:  %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", total)
	if runID != "" {
		fmt.Fprintf(w, "Run ID:   %s\n", runID)
	}
	fmt.Fprintln(w)

	for _, r := range run.Results {
		fmt.Fprintf(w, "- [%s] %s (%s) %dms\n", r.Status, r.Name, r.Severity, r.Response.LatencyMS)

		if r.Error != nil {
			fmt.Fprintf(w, "  error: %s (%s)\n", r.Error.Message, r.Error.Kind)
		} else {
			fmt.Fprintf(w, "  status: %d\n", r.Response.StatusCode)
		}
		if r.Deprecation.Deprecated {
			fmt.Fprintf(w, "  deprecated: %s\n", r.Deprecation.Reason)
		}
		if r.Alert {
			fmt.Fprintln(w, "  alert: yes")
		}

		if len(r.Issues) > 0 {
			fmt.Fprintf(w, "  issues: %s\n", joinIssues(r.Issues))
		}

		if len(r.Assertions) > 0 {
			pass, fail := countAssertionPassFail(r.Assertions)
			fmt.Fprintf(w, "  assertions: %d pass / %d fail\n", pass, fail)
			for _, a := range r.Assertions {
				mark := "✓"
				if !a.Passed {
					mark = "✗"
				}
				fmt.Fprintf(w, "    %s %s: %s\n", mark, a.Name, a.Message)
			}
		}

		if len(r.Captured) > 0 {
			fmt.Fprintln(w, "  captured vars:")
			keys := make([]string, 0, len(r.Captured))
			for k := range r.Captured {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "    - %s = %s\n", k, r.Captured[k])
			}
		}

		fmt.Fprintln(w)
	}

	t := run.Tally
	fmt.Fprintf(w, "Total: %d  Passed: %d  Failed: %d  Warned: %d\n", t.Total, t.Passed, t.Failed, t.Warned)
	fmt.Fprintf(w, "Verdict: %s\n", t.Verdict())
}

func joinIssues(in []domain.Issue) string {
	out := make([]string, 0, len(in))
	for _, is := range in {
		out = append(out, is.String())
	}
	return strings.Join(out, ", ")
}

func countAlerts(run domain.ProbeRun) int {
	n := 0
	for _, r := range run.Results {
		if r.Alert {
			n++
		}
	}
	return n
}

func countAssertionPassFail(in []domain.AssertionResult) (pass int, fail int) {
	for _, a := range in {
		if a.Passed {
			pass++
		} else {
			fail++
		}
	}
	return pass, fail
}
