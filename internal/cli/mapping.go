package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/usecase/adapter"
	"github.com/aalvaropc/ordercompat/internal/usecase/deprecation"
)

func mapCmd() *cobra.Command {
	var includeItems bool
	var format string

	c := &cobra.Command{
		Use:   "map [file|-]",
		Short: "Map a v2 order document to the legacy v1 shape",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := readOrder(cmd, args)
			if err != nil {
				return err
			}
			legacy := adapter.MapToLegacy(order, includeItems)
			return printLegacy(cmd.OutOrStdout(), legacy, format)
		},
	}

	c.Flags().BoolVar(&includeItems, "include-items", false, "Treat the order as fetched with includeItems=true")
	c.Flags().StringVar(&format, "format", "json", "Output format: json|pretty")
	return c
}

func issuesCmd() *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "issues [file|-]",
		Short: "List the compatibility issues of a v2 order document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := readOrder(cmd, args)
			if err != nil {
				return err
			}
			return printIssues(cmd.OutOrStdout(), adapter.FindCompatibilityIssues(order), format)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func classifyCmd() *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "classify [file|-]",
		Short: "Classify a {statusCode, body} response as deprecation or failure",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			env, err := domain.ParseEnvelopeDocument(b)
			if err != nil {
				return err
			}
			return printClassification(cmd.OutOrStdout(), env, format)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func readOrder(cmd *cobra.Command, args []string) (domain.OrderV2, error) {
	b, err := readInput(cmd, args)
	if err != nil {
		return domain.OrderV2{}, err
	}
	return domain.ParseOrderV2(b)
}

func printLegacy(w io.Writer, v1 domain.OrderV1, format string) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v1)
	case "pretty":
		fmt.Fprintf(w, "orderId:    %s\n", strOrNull(v1.OrderID))
		fmt.Fprintf(w, "status:     %s\n", strOrNull(v1.Status))
		fmt.Fprintf(w, "totalPrice: %s\n", numOrNull(v1.TotalPrice))
		fmt.Fprintf(w, "items:      %d\n", len(v1.Items))
		for _, it := range v1.Items {
			fmt.Fprintf(w, "  - %s x%s\n", strOrNull(it.ProductName), numOrNull(it.Qty))
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected json|pretty)", format)
	}
}

func printIssues(w io.Writer, set domain.IssueSet, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"issues": set.Strings()})
	case "pretty", "":
		if set.Len() == 0 {
			fmt.Fprintln(w, "(no compatibility issues)")
			return nil
		}
		for _, s := range set.Strings() {
			fmt.Fprintln(w, s)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printClassification(w io.Writer, env domain.ResponseEnvelope, format string) error {
	v := deprecation.Verdict(env)
	alert := deprecation.ShouldAlert(env)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"status_code": env.StatusCode,
			"deprecated":  v.Deprecated,
			"reason":      v.Reason,
			"alert":       alert,
		})
	case "pretty", "":
		fmt.Fprintf(w, "status:     %d\n", env.StatusCode)
		if v.Deprecated {
			fmt.Fprintf(w, "deprecated: yes (%s)\n", v.Reason)
		} else {
			fmt.Fprintln(w, "deprecated: no")
		}
		if alert {
			fmt.Fprintln(w, "alert:      yes")
		} else {
			fmt.Fprintln(w, "alert:      no")
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func strOrNull(p *string) string {
	if p == nil {
		return "null"
	}
	return *p
}

func numOrNull(p *float64) string {
	if p == nil {
		return "null"
	}
	return fmt.Sprintf("%g", *p)
}
