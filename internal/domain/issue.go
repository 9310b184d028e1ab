package domain

import (
	"fmt"
	"sort"
)

// IssueKind classifies a mismatch between a v2 response and v1 expectations.
type IssueKind string

const (
	IssueRenamedStatus IssueKind = "RENAMED_STATUS"
	IssueRenamedAmount IssueKind = "RENAMED_AMOUNT"
	IssueRenamedItems  IssueKind = "RENAMED_ITEMS"
	IssueItemsOmitted  IssueKind = "ITEMS_OMITTED_NO_REQUEST_FLAG"
	IssueUnknownState  IssueKind = "UNKNOWN_STATE_VALUE"
)

// Issue is one detected compatibility problem. Value is only set for
// IssueUnknownState, where it carries the offending state.
type Issue struct {
	Kind  IssueKind `json:"kind"`
	Value string    `json:"value,omitempty"`
}

func (i Issue) String() string {
	if i.Kind == IssueUnknownState {
		return fmt.Sprintf("%s(%s)", i.Kind, i.Value)
	}
	return string(i.Kind)
}

// IssueSet is an unordered set of issues.
type IssueSet map[Issue]struct{}

func NewIssueSet(issues ...Issue) IssueSet {
	s := make(IssueSet, len(issues))
	for _, i := range issues {
		s.Add(i)
	}
	return s
}

func (s IssueSet) Add(i Issue) { s[i] = struct{}{} }

func (s IssueSet) Has(i Issue) bool {
	_, ok := s[i]
	return ok
}

// HasKind reports whether any issue of the given kind is in the set.
func (s IssueSet) HasKind(k IssueKind) bool {
	for i := range s {
		if i.Kind == k {
			return true
		}
	}
	return false
}

func (s IssueSet) Len() int { return len(s) }

// Sorted returns the issues ordered by kind then value, for stable output.
func (s IssueSet) Sorted() []Issue {
	out := make([]Issue, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Kind != out[b].Kind {
			return out[a].Kind < out[b].Kind
		}
		return out[a].Value < out[b].Value
	})
	return out
}

// Strings renders the sorted issues.
func (s IssueSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, is := range sorted {
		out[i] = is.String()
	}
	return out
}

// ParseIssueKind accepts a kind name as written in probe suites.
func ParseIssueKind(s string) (IssueKind, error) {
	switch k := IssueKind(s); k {
	case IssueRenamedStatus, IssueRenamedAmount, IssueRenamedItems, IssueItemsOmitted, IssueUnknownState:
		return k, nil
	}
	return "", fmt.Errorf("unknown issue kind %q", s)
}
