// Package capture pulls values out of probe responses into suite variables.
package capture

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

var errNoValue = errors.New("no value found")

// Apply evaluates every rule against body. A failing rule is reported and the
// others still run; a non-JSON body fails every rule.
func Apply(body []byte, rules domain.CaptureSpec) (domain.Vars, []domain.CaptureResult) {
	captured := domain.Vars{}
	if len(rules) == 0 {
		return captured, []domain.CaptureResult{}
	}

	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	var doc any
	parseErr := json.Unmarshal(body, &doc)

	results := make([]domain.CaptureResult, 0, len(names))
	for _, name := range names {
		expr := strings.TrimSpace(rules[name])

		var (
			val string
			err error
		)
		switch {
		case parseErr != nil:
			err = errors.New("response body is not valid JSON")
		case expr == "":
			err = errors.New("empty jsonpath expression")
		default:
			val, err = lookup(expr, doc)
		}

		if err != nil {
			results = append(results, domain.CaptureResult{
				Name:    name,
				Message: fmt.Sprintf("capture %q (%s): %v", name, expr, err),
			})
			continue
		}

		captured[name] = val
		results = append(results, domain.CaptureResult{
			Name:    name,
			Success: true,
			Message: fmt.Sprintf("captured %q", name),
		})
	}
	return captured, results
}

func lookup(expr string, doc any) (string, error) {
	v, err := jsonpath.Get(expr, doc)
	if err != nil {
		return "", fmt.Errorf("jsonpath error: %w", err)
	}
	if arr, ok := v.([]any); ok && len(arr) == 1 {
		v = arr[0]
	}

	switch t := v.(type) {
	case nil:
		return "", errNoValue
	case string:
		if t == "" {
			return "", errNoValue
		}
		return t, nil
	case float64, bool:
		return fmt.Sprint(t), nil
	case []any:
		if len(t) == 0 {
			return "", errNoValue
		}
	case map[string]any:
		if len(t) == 0 {
			return "", errNoValue
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cannot convert value to string: %w", err)
	}
	return string(b), nil
}
