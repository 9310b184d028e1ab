// Package assert evaluates probe expectations against an observed response.
package assert

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

func pass(name, msg string) domain.AssertionResult {
	return domain.AssertionResult{Name: name, Passed: true, Message: msg}
}

func fail(name, msg string) domain.AssertionResult {
	return domain.AssertionResult{Name: name, Passed: false, Message: msg}
}

func Status(expected int, got int) domain.AssertionResult {
	if got == expected {
		return pass("status", fmt.Sprintf("status %d", got))
	}
	return fail("status", fmt.Sprintf("expected status %d, got %d", expected, got))
}

func MaxLatency(maxMs int, latencyMs int64) domain.AssertionResult {
	if latencyMs <= int64(maxMs) {
		return pass("max_ms", fmt.Sprintf("latency %dms <= %dms", latencyMs, maxMs))
	}
	return fail("max_ms", fmt.Sprintf("expected latency <= %dms, got %dms", maxMs, latencyMs))
}

// Deprecated compares the classifier verdict with the expected one.
func Deprecated(expected bool, got domain.DeprecationVerdict) domain.AssertionResult {
	switch {
	case got.Deprecated == expected && expected:
		return pass("deprecated", got.Reason)
	case got.Deprecated == expected:
		return pass("deprecated", "not a deprecation response")
	case expected:
		return fail("deprecated", "expected a deprecation signal, got none")
	default:
		return fail("deprecated", "unexpected deprecation: "+got.Reason)
	}
}

// LegacyContract turns the result of a legacy contract check into an assertion.
func LegacyContract(err error) domain.AssertionResult {
	if err != nil {
		return fail("legacy_contract", err.Error())
	}
	return pass("legacy_contract", "v1 consumer contract holds")
}

// Issues checks the detected issue set against required and forbidden kinds.
func Issues(present, absent []domain.IssueKind, got domain.IssueSet) []domain.AssertionResult {
	out := make([]domain.AssertionResult, 0, len(present)+len(absent))
	for _, k := range present {
		if got.HasKind(k) {
			out = append(out, pass("issues.present", fmt.Sprintf("%s detected", k)))
		} else {
			out = append(out, fail("issues.present", fmt.Sprintf("expected %s, detected %v", k, got.Strings())))
		}
	}
	for _, k := range absent {
		if got.HasKind(k) {
			out = append(out, fail("issues.absent", fmt.Sprintf("unexpected %s", k)))
		} else {
			out = append(out, pass("issues.absent", fmt.Sprintf("%s not detected", k)))
		}
	}
	return out
}

// Evaluate applies the status, latency and JSONPath expectations.
// It parses JSON only if JSONPath assertions are present. Expressions are
// evaluated in sorted order so reports are stable.
func Evaluate(expect domain.ProbeExpect, status int, latencyMs int64, body []byte) []domain.AssertionResult {
	var out []domain.AssertionResult

	if expect.Status != nil {
		out = append(out, Status(*expect.Status, status))
	}
	if expect.MaxLatencyMS != nil {
		out = append(out, MaxLatency(*expect.MaxLatencyMS, latencyMs))
	}
	if len(expect.JSONPath) == 0 {
		return out
	}

	exprs := make([]string, 0, len(expect.JSONPath))
	for expr := range expect.JSONPath {
		exprs = append(exprs, expr)
	}
	sort.Strings(exprs)

	doc, parseErr := parseJSON(body)
	for _, expr := range exprs {
		var (
			val    any
			getErr error
		)
		if parseErr != nil {
			getErr = fmt.Errorf("response body is not valid JSON")
		} else {
			val, getErr = jsonpath.Get(expr, doc)
		}
		out = append(out, jsonPathChecks(expr, expect.JSONPath[expr], val, getErr)...)
	}
	return out
}

// comparison reports whether val satisfies the check, with a message for
// either outcome.
type comparison func(val any) (ok bool, msg string, err error)

func jsonPathChecks(expr string, a domain.JSONPathAssertion, val any, getErr error) []domain.AssertionResult {
	var out []domain.AssertionResult
	run := func(name string, cmp comparison) {
		out = append(out, checkJSONPath("jsonpath."+name, expr, val, getErr, cmp))
	}

	if a.Exists {
		run("exists", func(v any) (bool, string, error) {
			if isEmptyJSONPathValue(v) {
				return false, "expected value to exist, got empty", nil
			}
			return true, "exists", nil
		})
	}
	if a.Eq != nil {
		want := *a.Eq
		run("eq", stringComparison(func(s string) (bool, string) {
			if s == want {
				return true, fmt.Sprintf("eq %q", want)
			}
			return false, fmt.Sprintf("expected %q, got %q", want, s)
		}))
	}
	if a.Contains != nil {
		sub := *a.Contains
		run("contains", stringComparison(func(s string) (bool, string) {
			if strings.Contains(s, sub) {
				return true, fmt.Sprintf("contains %q", sub)
			}
			return false, fmt.Sprintf("%q does not contain %q", s, sub)
		}))
	}
	if a.Matches != nil {
		pattern := *a.Matches
		run("matches", func(v any) (bool, string, error) {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return false, "", fmt.Errorf("invalid regex %q: %v", pattern, err)
			}
			s, err := jsonPathToString(v)
			if err != nil {
				return false, "", err
			}
			if re.MatchString(s) {
				return true, fmt.Sprintf("matches %q", pattern), nil
			}
			return false, fmt.Sprintf("%q does not match %q", s, pattern), nil
		})
	}
	if a.Gt != nil {
		threshold := *a.Gt
		run("gt", numberComparison(func(f float64) (bool, string) {
			if f > threshold {
				return true, fmt.Sprintf("%v > %v", f, threshold)
			}
			return false, fmt.Sprintf("expected > %v, got %v", threshold, f)
		}))
	}
	if a.Lt != nil {
		threshold := *a.Lt
		run("lt", numberComparison(func(f float64) (bool, string) {
			if f < threshold {
				return true, fmt.Sprintf("%v < %v", f, threshold)
			}
			return false, fmt.Sprintf("expected < %v, got %v", threshold, f)
		}))
	}
	return out
}

func checkJSONPath(name, expr string, val any, getErr error, cmp comparison) domain.AssertionResult {
	if getErr != nil {
		return fail(name, fmt.Sprintf("jsonpath %q: %v", expr, getErr))
	}
	ok, msg, err := cmp(val)
	if err != nil {
		return fail(name, fmt.Sprintf("jsonpath %q: %v", expr, err))
	}
	msg = fmt.Sprintf("jsonpath %q: %s", expr, msg)
	if ok {
		return pass(name, msg)
	}
	return fail(name, msg)
}

func stringComparison(f func(string) (bool, string)) comparison {
	return func(v any) (bool, string, error) {
		s, err := jsonPathToString(v)
		if err != nil {
			return false, "", err
		}
		ok, msg := f(s)
		return ok, msg, nil
	}
}

func numberComparison(f func(float64) (bool, string)) comparison {
	return func(v any) (bool, string, error) {
		n, err := jsonPathToFloat64(v)
		if err != nil {
			return false, "", err
		}
		ok, msg := f(n)
		return ok, msg, nil
	}
}

func jsonPathToString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", fmt.Errorf("value is null")
	default:
		return fmt.Sprint(v), nil
	}
}

func jsonPathToFloat64(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("value is null")
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", val)
	}
}

func parseJSON(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isEmptyJSONPathValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
