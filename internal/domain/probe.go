package domain

import "time"

// JSONPathAssertion defines JSONPath-based checks on a probe response.
type JSONPathAssertion struct {
	Exists   bool
	Eq       *string
	Contains *string
	Matches  *string
	Gt       *float64
	Lt       *float64
}

// ProbeExpect lists what a probe response must satisfy.
type ProbeExpect struct {
	// Status is an expected HTTP status code (optional).
	Status *int

	// MaxLatencyMS bounds the observed round trip (optional).
	MaxLatencyMS *int

	// Deprecated, when set, requires the response to be (true) or not to be
	// (false) a deprecation signal. When unset, an observed deprecation is a
	// warning and never an outage.
	Deprecated *bool

	// LegacyContract maps the v2 body to the legacy shape and checks the v1
	// consumer contract on the result.
	LegacyContract bool

	// LegacyShape checks that the body itself already is a v1 document, for
	// endpoints that serve the legacy contract directly.
	LegacyShape bool

	// IssuesPresent and IssuesAbsent constrain the detected compatibility issues.
	IssuesPresent []IssueKind
	IssuesAbsent  []IssueKind

	// JSONPath contains JSONPath assertions keyed by expression.
	JSONPath map[string]JSONPathAssertion
}

// CaptureSpec maps a variable name to the JSONPath whose value it takes.
// Captured values are visible to the probes that follow.
type CaptureSpec map[string]string

// CaptureResult reports one capture rule.
type CaptureResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ProbeSpec is a single live GET check against an orders deployment.
type ProbeSpec struct {
	Name     string
	Path     string
	Query    map[string]string
	Headers  map[string]string
	Severity Severity
	Expect   ProbeExpect
	Capture  CaptureSpec
}

// ProbeSuite groups probes under one name (Git-friendly YAML file).
type ProbeSuite struct {
	Name   string
	Vars   Vars
	Probes []ProbeSpec
}

// ProbeSuiteRef is a lightweight reference to a probe suite file on disk.
type ProbeSuiteRef struct {
	Name string
	Path string
}

// ResponseSnapshot stores a bounded view of a probe response.
// Keep it generic so the domain does not depend on net/http types.
type ResponseSnapshot struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body,omitempty"`
	Truncated  bool                `json:"truncated,omitempty"`
	LatencyMS  int64               `json:"latency_ms"`
}

// AssertionResult is the output of a single assertion.
type AssertionResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// DeprecationVerdict is the classifier answer attached to a probe result.
type DeprecationVerdict struct {
	Deprecated bool   `json:"deprecated"`
	Reason     string `json:"reason,omitempty"`
}

// ProbeResult is the outcome of executing a single probe.
type ProbeResult struct {
	Name     string      `json:"name"`
	URL      string      `json:"url"`
	Severity Severity    `json:"severity"`
	Status   CheckStatus `json:"status"`

	// Alert is set when a monitor should page: a transport failure or a
	// non-2xx response that is not a deprecation.
	Alert bool `json:"alert"`

	Response    ResponseSnapshot   `json:"response"`
	Deprecation DeprecationVerdict `json:"deprecation"`
	Issues      []Issue            `json:"issues"`
	Legacy      *OrderV1           `json:"legacy,omitempty"`
	Assertions  []AssertionResult  `json:"assertions"`
	Captures    []CaptureResult    `json:"captures,omitempty"`
	Captured    Vars               `json:"captured,omitempty"`

	Error *RunError `json:"error,omitempty"`
}

// Failed reports whether the probe did not pass (warnings are not failures).
func (r ProbeResult) Failed() bool {
	return r.Status == StatusFail
}

// ProbeRun is the persisted result of executing a probe suite.
type ProbeRun struct {
	SuiteName       string    `json:"suite_name"`
	SuitePath       string    `json:"suite_path"`
	EnvironmentName string    `json:"environment_name"`
	BaseURL         string    `json:"base_url"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`

	Results []ProbeResult `json:"results"`
	Tally   Tally         `json:"tally"`
}
