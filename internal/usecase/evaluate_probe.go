package usecase

import (
	"net/url"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/usecase/adapter"
	ucassert "github.com/aalvaropc/ordercompat/internal/usecase/assert"
	"github.com/aalvaropc/ordercompat/internal/usecase/deprecation"
)

// EvaluateProbe fills in the verdicts of an executed probe: deprecation,
// assertions, compatibility issues, the mapped legacy order and the outcome.
//
// Outcome rules: a transport error fails the probe; an unexpected deprecation
// is a warning even if other expectations failed, since those were written
// for a live version; otherwise any failed assertion fails the probe.
func EvaluateProbe(p domain.ProbeSpec, res domain.ProbeResult) domain.ProbeResult {
	status := res.Response.StatusCode
	env := domain.ParseEnvelope(status, res.Response.Body)

	res.Deprecation = deprecation.Verdict(env)
	res.Alert = res.Error != nil || deprecation.ShouldAlert(env)
	if res.Error != nil {
		res.Status = domain.StatusFail
		return res
	}

	exp := p.Expect
	res.Assertions = append(res.Assertions, ucassert.Evaluate(exp, status, res.Response.LatencyMS, res.Response.Body)...)
	if exp.Deprecated != nil {
		res.Assertions = append(res.Assertions, ucassert.Deprecated(*exp.Deprecated, res.Deprecation))
	}
	if exp.LegacyShape {
		res.Assertions = append(res.Assertions, ucassert.LegacyContract(adapter.CheckLegacyDocument(env.Body)))
	}

	wantsOrder := exp.LegacyContract || len(exp.IssuesPresent) > 0 || len(exp.IssuesAbsent) > 0
	issues := domain.NewIssueSet()
	if is2xx(status) && env.Body != nil && !res.Deprecation.Deprecated {
		order, err := domain.DecodeOrderV2(env.Body)
		switch {
		case err != nil && wantsOrder:
			res.Assertions = append(res.Assertions, domain.AssertionResult{
				Name:    "payload",
				Message: err.Error(),
			})
		case err == nil:
			issues = adapter.FindCompatibilityIssues(order)
			if exp.LegacyContract {
				legacy := adapter.MapToLegacy(order, includeItemsRequested(res.URL))
				res.Legacy = &legacy
				res.Assertions = append(res.Assertions, ucassert.LegacyContract(adapter.CheckLegacyContract(legacy)))
			}
		}
	} else if exp.LegacyContract && !res.Deprecation.Deprecated {
		res.Assertions = append(res.Assertions, domain.AssertionResult{
			Name:    "legacy_contract",
			Message: "no v2 order in response",
		})
	}

	res.Issues = issues.Sorted()
	res.Assertions = append(res.Assertions, ucassert.Issues(exp.IssuesPresent, exp.IssuesAbsent, issues)...)

	switch {
	case res.Deprecation.Deprecated && exp.Deprecated == nil:
		res.Status = domain.StatusWarn
	case anyFailed(res.Assertions):
		res.Status = domain.StatusFail
	default:
		res.Status = domain.StatusPass
	}
	return res
}

func is2xx(status int) bool { return status >= 200 && status < 300 }

func anyFailed(rs []domain.AssertionResult) bool {
	for _, r := range rs {
		if !r.Passed {
			return true
		}
	}
	return false
}

func includeItemsRequested(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return domain.ParseIncludeItems(u.Query().Get("includeItems"))
}
