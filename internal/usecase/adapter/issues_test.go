package adapter

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

func issue(k domain.IssueKind) domain.Issue { return domain.Issue{Kind: k} }

func TestFindCompatibilityIssues_FulfilledWithoutItems(t *testing.T) {
	got := FindCompatibilityIssues(parse(t, `{"orderId":"ORD-555","state":"FULFILLED","amount":120.0}`))

	assert.True(t, got.Has(issue(domain.IssueRenamedStatus)))
	assert.True(t, got.Has(issue(domain.IssueRenamedAmount)))
	assert.True(t, got.Has(issue(domain.IssueItemsOmitted)))
	assert.True(t, got.Has(domain.Issue{Kind: domain.IssueUnknownState, Value: "FULFILLED"}))
	assert.False(t, got.HasKind(domain.IssueRenamedItems))
	assert.Equal(t, 4, got.Len())
}

func TestFindCompatibilityIssues_Table(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want domain.IssueSet
	}{
		{
			name: "empty object",
			doc:  `{}`,
			want: domain.NewIssueSet(issue(domain.IssueItemsOmitted)),
		},
		{
			name: "legacy keys alongside current ones",
			doc:  `{"state":"PAID","status":"PAID","amount":1,"totalPrice":1,"lineItems":[],"items":[]}`,
			want: domain.NewIssueSet(),
		},
		{
			name: "empty line items still renamed",
			doc:  `{"state":"SHIPPED","amount":2,"lineItems":[]}`,
			want: domain.NewIssueSet(
				issue(domain.IssueRenamedStatus),
				issue(domain.IssueRenamedAmount),
				issue(domain.IssueRenamedItems),
			),
		},
		{
			name: "null line items count as present",
			doc:  `{"lineItems":null}`,
			want: domain.NewIssueSet(issue(domain.IssueRenamedItems)),
		},
		{
			name: "null state is renamed but not unknown",
			doc:  `{"state":null,"lineItems":[]}`,
			want: domain.NewIssueSet(
				issue(domain.IssueRenamedStatus),
				issue(domain.IssueRenamedItems),
			),
		},
		{
			name: "empty state is unknown",
			doc:  `{"state":"","lineItems":[]}`,
			want: domain.NewIssueSet(
				issue(domain.IssueRenamedStatus),
				issue(domain.IssueRenamedItems),
				domain.Issue{Kind: domain.IssueUnknownState, Value: ""},
			),
		},
		{
			name: "only legacy items key",
			doc:  `{"items":[]}`,
			want: domain.NewIssueSet(issue(domain.IssueItemsOmitted)),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FindCompatibilityIssues(parse(t, tc.doc)))
		})
	}
}

func TestFindCompatibilityIssues_Literal(t *testing.T) {
	o := domain.OrderV2{State: domain.Str("REFUNDED"), Amount: domain.Num(3)}
	got := FindCompatibilityIssues(o)

	assert.ElementsMatch(t,
		[]string{"ITEMS_OMITTED_NO_REQUEST_FLAG", "RENAMED_AMOUNT", "RENAMED_STATUS", "UNKNOWN_STATE_VALUE(REFUNDED)"},
		got.Strings(),
	)
}

func TestAdapter_LogsFallback(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	res := New(log).Adapt(parse(t, `{"orderId":"ORD-555","state":"FULFILLED","amount":120.0}`), true)

	require.NotNil(t, res.Legacy.Status)
	assert.Equal(t, "UNKNOWN", *res.Legacy.Status)
	assert.True(t, res.Issues.HasKind(domain.IssueItemsOmitted))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "state mapped to fallback", first["msg"])
	assert.Equal(t, "FULFILLED", first["state"])
}

func TestAdapter_NilLogger(t *testing.T) {
	res := New(nil).Adapt(domain.OrderV2{}, false)
	assert.NotNil(t, res.Legacy.Items)
}
