package domain

import (
	"fmt"
	"strings"
	"time"
)

// Severity ranks how bad a failing check is for a deployment decision.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
)

// ParseSeverity accepts a severity name case-insensitively; empty means HIGH.
func ParseSeverity(s string) (Severity, error) {
	up := Severity(strings.ToUpper(strings.TrimSpace(s)))
	switch up {
	case "":
		return SeverityHigh, nil
	case SeverityCritical, SeverityHigh, SeverityMedium:
		return up, nil
	}
	return "", fmt.Errorf("unsupported severity %q", s)
}

// CheckStatus is the outcome of one check or probe.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusFail CheckStatus = "FAIL"
	StatusWarn CheckStatus = "WARN"
)

// Tally accumulates outcomes. It is returned by value from the runners
// instead of living in package state.
type Tally struct {
	Total            int `json:"total"`
	Passed           int `json:"passed"`
	Failed           int `json:"failed"`
	Warned           int `json:"warned"`
	CriticalFailures int `json:"critical_failures"`
}

// Record adds one outcome to the tally.
func (t Tally) Record(status CheckStatus, sev Severity) Tally {
	t.Total++
	switch status {
	case StatusPass:
		t.Passed++
	case StatusWarn:
		t.Warned++
	default:
		t.Failed++
		if sev == SeverityCritical {
			t.CriticalFailures++
		}
	}
	return t
}

// Verdict is the deployment recommendation derived from a tally.
type Verdict string

const (
	VerdictSafe         Verdict = "SAFE_FOR_PRODUCTION"
	VerdictDoNotDeploy  Verdict = "DO_NOT_DEPLOY"
	VerdictAssessImpact Verdict = "ASSESS_IMPACT"
)

// Verdict: any critical failure blocks, other failures need review.
func (t Tally) Verdict() Verdict {
	switch {
	case t.CriticalFailures > 0:
		return VerdictDoNotDeploy
	case t.Failed > 0:
		return VerdictAssessImpact
	default:
		return VerdictSafe
	}
}

// CheckResult is the outcome of one regression check.
type CheckResult struct {
	ID          string      `json:"id"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Severity    Severity    `json:"severity"`
	Status      CheckStatus `json:"status"`
	Message     string      `json:"message"`
}

// SuiteReport is the result of running the regression catalog.
type SuiteReport struct {
	Name      string        `json:"name"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Results   []CheckResult `json:"results"`
	Tally     Tally         `json:"tally"`
	Verdict   Verdict       `json:"verdict"`
}
