package assert

import (
	"errors"
	"strings"
	"testing"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

const v2Body = `{"orderId":"ORD-789","state":"SHIPPED","amount":59.5,"lineItems":[{"name":"Pen","quantity":3},{"name":"Notebook","quantity":2}]}`

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }

func TestStatus_FailMessage(t *testing.T) {
	r := Status(200, 410)
	if r.Passed {
		t.Fatalf("expected fail")
	}
	if r.Name != "status" || r.Message != "expected status 200, got 410" {
		t.Fatalf("unexpected result: %+v", r)
	}
	if !Status(410, 410).Passed {
		t.Fatalf("expected pass for equal status")
	}
}

func TestMaxLatency(t *testing.T) {
	if !MaxLatency(500, 500).Passed {
		t.Fatalf("expected pass when latency equals threshold")
	}
	r := MaxLatency(100, 250)
	if r.Passed || r.Message != "expected latency <= 100ms, got 250ms" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestDeprecated(t *testing.T) {
	gone := domain.DeprecationVerdict{Deprecated: true, Reason: "HTTP 410 deprecation"}
	none := domain.DeprecationVerdict{}

	if r := Deprecated(true, gone); !r.Passed || r.Message != "HTTP 410 deprecation" {
		t.Fatalf("expected expected deprecation to pass, got %+v", r)
	}
	if r := Deprecated(false, none); !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}
	if r := Deprecated(true, none); r.Passed {
		t.Fatalf("expected missing deprecation to fail")
	}
	if r := Deprecated(false, gone); r.Passed || !strings.Contains(r.Message, "410") {
		t.Fatalf("expected unexpected deprecation to fail with reason, got %+v", r)
	}
}

func TestLegacyContract(t *testing.T) {
	if !LegacyContract(nil).Passed {
		t.Fatalf("expected pass")
	}
	r := LegacyContract(errors.New(`legacy key "items" missing`))
	if r.Passed || r.Name != "legacy_contract" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestIssues(t *testing.T) {
	got := domain.NewIssueSet(
		domain.Issue{Kind: domain.IssueRenamedStatus},
		domain.Issue{Kind: domain.IssueUnknownState, Value: "FULFILLED"},
	)

	out := Issues(
		[]domain.IssueKind{domain.IssueUnknownState, domain.IssueRenamedAmount},
		[]domain.IssueKind{domain.IssueRenamedItems, domain.IssueRenamedStatus},
		got,
	)
	if len(out) != 4 {
		t.Fatalf("expected 4 results, got %d", len(out))
	}
	want := []bool{true, false, true, false}
	for i, r := range out {
		if r.Passed != want[i] {
			t.Fatalf("result %d: expected passed=%v, got %+v", i, want[i], r)
		}
	}
}

func TestEvaluate_NoAssertions(t *testing.T) {
	if out := Evaluate(domain.ProbeExpect{}, 200, 5, []byte(v2Body)); len(out) != 0 {
		t.Fatalf("expected 0 results, got %d", len(out))
	}
}

func TestEvaluate_StatusLatencyThenJSONPathSorted(t *testing.T) {
	s, ms := 200, 500
	expect := domain.ProbeExpect{
		Status:       &s,
		MaxLatencyMS: &ms,
		JSONPath: map[string]domain.JSONPathAssertion{
			"$.state":             {Eq: strp("SHIPPED")},
			"$.amount":            {Gt: f64p(50), Lt: f64p(60)},
			"$.lineItems[0].name": {Exists: true, Matches: strp("^P")},
			"$.orderId":           {Contains: strp("789")},
		},
	}

	out := Evaluate(expect, 200, 12, []byte(v2Body))
	names := make([]string, len(out))
	for i, r := range out {
		names[i] = r.Name
		if !r.Passed {
			t.Fatalf("expected %s to pass: %s", r.Name, r.Message)
		}
	}
	want := "status,max_ms,jsonpath.gt,jsonpath.lt,jsonpath.exists,jsonpath.matches,jsonpath.contains,jsonpath.eq"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("unexpected order:\n got=%s\nwant=%s", got, want)
	}
}

func TestEvaluate_JSONPathFailures(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		a      domain.JSONPathAssertion
		body   string
		substr string
	}{
		{name: "missing key", expr: "$.lineItems", a: domain.JSONPathAssertion{Exists: true}, body: `{"orderId":"ORD-123"}`},
		{name: "empty array", expr: "$.lineItems", a: domain.JSONPathAssertion{Exists: true}, body: `{"lineItems":[]}`, substr: "got empty"},
		{name: "wrong value", expr: "$.state", a: domain.JSONPathAssertion{Eq: strp("PAID")}, body: v2Body, substr: `expected "PAID", got "SHIPPED"`},
		{name: "null value", expr: "$.state", a: domain.JSONPathAssertion{Eq: strp("PAID")}, body: `{"state":null}`, substr: "null"},
		{name: "not numeric", expr: "$.state", a: domain.JSONPathAssertion{Gt: f64p(1)}, body: v2Body, substr: "not numeric"},
		{name: "bad regex", expr: "$.state", a: domain.JSONPathAssertion{Matches: strp("(")}, body: v2Body, substr: "invalid regex"},
		{name: "invalid expression", expr: "$.lineItems[", a: domain.JSONPathAssertion{Exists: true}, body: v2Body},
		{name: "non json body", expr: "$.state", a: domain.JSONPathAssertion{Exists: true}, body: "<html>", substr: "not valid JSON"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := Evaluate(domain.ProbeExpect{
				JSONPath: map[string]domain.JSONPathAssertion{tc.expr: tc.a},
			}, 200, 1, []byte(tc.body))
			if len(out) != 1 {
				t.Fatalf("expected 1 result, got %d", len(out))
			}
			if out[0].Passed {
				t.Fatalf("expected fail, got %+v", out[0])
			}
			if tc.substr != "" && !strings.Contains(out[0].Message, tc.substr) {
				t.Fatalf("expected message to contain %q, got %q", tc.substr, out[0].Message)
			}
		})
	}
}

func TestEvaluate_ExistsFalseSkipped(t *testing.T) {
	out := Evaluate(domain.ProbeExpect{
		JSONPath: map[string]domain.JSONPathAssertion{"$.state": {Exists: false}},
	}, 200, 1, []byte(v2Body))
	if len(out) != 0 {
		t.Fatalf("expected 0 results for Exists=false, got %d", len(out))
	}
}
