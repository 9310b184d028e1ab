package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func prettyBody(body []byte) string {
	if len(body) == 0 {
		return "(empty)"
	}
	var js any
	if err := json.Unmarshal(body, &js); err == nil {
		b, _ := json.MarshalIndent(js, "", "  ")
		return string(b)
	}
	return string(bytes.TrimSpace(body))
}

func renderCheckDetails(r domain.CheckResult, ran bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Category: %s\nSeverity: %s\n\n%s\n\n", r.Category, r.Severity, r.Description)

	if !ran {
		b.WriteString("Not run yet (press r on the list).\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Result: %s\n", r.Status)
	if r.Message != "" {
		b.WriteString("\n")
		b.WriteString(r.Message)
		b.WriteString("\n")
	}
	return b.String()
}

func renderProbeDetails(r domain.ProbeResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "URL: %s\nSeverity: %s\nResult: %s\n", r.URL, r.Severity, r.Status)
	if r.Alert {
		b.WriteString("Alert: yes\n")
	}
	b.WriteString("\n")

	if r.Error != nil {
		b.WriteString("Error:\n")
		b.WriteString("  - kind: ")
		b.WriteString(string(r.Error.Kind))
		b.WriteString("\n  - msg: ")
		b.WriteString(r.Error.Message)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Status: %d\nLatency: %dms\n\n", r.Response.StatusCode, r.Response.LatencyMS)

	if r.Deprecation.Deprecated {
		fmt.Fprintf(&b, "Deprecated: %s\n\n", r.Deprecation.Reason)
	}

	if len(r.Issues) > 0 {
		b.WriteString("Compatibility issues:\n")
		for _, is := range r.Issues {
			b.WriteString("  - ")
			b.WriteString(is.String())
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(r.Assertions) > 0 {
		b.WriteString("Assertions:\n")
		for _, a := range r.Assertions {
			status := "FAIL"
			if a.Passed {
				status = "PASS"
			}
			b.WriteString("  - ")
			b.WriteString(a.Name)
			b.WriteString(" [")
			b.WriteString(status)
			b.WriteString("] ")
			b.WriteString(a.Message)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(r.Captured) > 0 {
		b.WriteString("Captured Vars:\n")
		keys := make([]string, 0, len(r.Captured))
		for k := range r.Captured {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("  - ")
			b.WriteString(k)
			b.WriteString(" = ")
			b.WriteString(r.Captured[k])
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func renderProbeResponse(r domain.ProbeResult) string {
	var b strings.Builder

	b.WriteString("Headers:\n")
	if len(r.Response.Headers) == 0 {
		b.WriteString("  (none)\n")
	} else {
		keys := make([]string, 0, len(r.Response.Headers))
		for k := range r.Response.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("  - ")
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(strings.Join(r.Response.Headers[k], ", "))
			b.WriteString("\n")
		}
	}

	b.WriteString("\nBody:\n")
	body := prettyBody(r.Response.Body)
	if r.Response.Truncated {
		body += "\n\n(truncated)"
	}
	b.WriteString(body)
	b.WriteString("\n")

	return b.String()
}
