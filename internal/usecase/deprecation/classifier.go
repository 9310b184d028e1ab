// Package deprecation tells intentional API version retirement apart from
// failures that monitoring should treat as outages.
package deprecation

import "github.com/aalvaropc/ordercompat/internal/domain"

const (
	ReasonGone = "HTTP 410 deprecation"
	ReasonBody = "body indicates API_VERSION_DEPRECATED"
)

// Classify reports whether env signals a deprecated API version. The status
// code and the body marker are independent signals; either is enough.
func Classify(env domain.ResponseEnvelope) (bool, string) {
	if env.StatusCode == 410 {
		return true, ReasonGone
	}
	if v, ok := env.Body["error"].(string); ok && v == domain.ErrorAPIVersionDeprecated {
		return true, ReasonBody
	}
	return false, ""
}

// Verdict is Classify in value form.
func Verdict(env domain.ResponseEnvelope) domain.DeprecationVerdict {
	dep, reason := Classify(env)
	return domain.DeprecationVerdict{Deprecated: dep, Reason: reason}
}

// ShouldAlert reports whether a monitor should page on env: only non-2xx
// responses that are not deprecations.
func ShouldAlert(env domain.ResponseEnvelope) bool {
	if env.StatusCode >= 200 && env.StatusCode < 300 {
		return false
	}
	dep, _ := Classify(env)
	return !dep
}
