package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/usecase/regression"
)

type noWorkspace struct{}

func (noWorkspace) FindRoot(string) (string, error) {
	return "", &domain.OpError{Op: "workspacefinder.findroot", Kind: domain.KindNotFound, Err: domain.ErrNotFound}
}

type fakeSuite struct {
	checks []regression.Check
	rep    domain.SuiteReport
	err    error
	calls  int
}

func (f *fakeSuite) Checks() []regression.Check { return f.checks }

func (f *fakeSuite) Run(_ context.Context, _ string) (domain.SuiteReport, error) {
	f.calls++
	return f.rep, f.err
}

func newFakeSuite() *fakeSuite {
	results := []domain.CheckResult{
		{ID: "RT-001", Category: "Field Renaming", Description: "state not status", Severity: domain.SeverityCritical, Status: domain.StatusPass},
		{ID: "RT-002", Category: "Enum Mapping", Description: "FULFILLED falls back", Severity: domain.SeverityHigh, Status: domain.StatusFail, Message: "got SHIPPED"},
	}
	tally := domain.Tally{}
	for _, r := range results {
		tally = tally.Record(r.Status, r.Severity)
	}
	return &fakeSuite{
		checks: []regression.Check{
			{ID: "RT-001", Category: "Field Renaming", Description: "state not status", Severity: domain.SeverityCritical},
			{ID: "RT-002", Category: "Enum Mapping", Description: "FULFILLED falls back", Severity: domain.SeverityHigh},
		},
		rep: domain.SuiteReport{
			Name:    regression.SuiteName,
			Results: results,
			Tally:   tally,
			Verdict: tally.Verdict(),
		},
	}
}

func testModel(s *fakeSuite) model {
	return newModel(Deps{
		WorkspaceLocator: noWorkspace{},
		Regression:       s,
	})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(model)
	if !ok {
		t.Fatalf("expected model, got %T", next)
	}
	return mm, cmd
}

func TestNewModel_ListsPendingChecks(t *testing.T) {
	m := testModel(newFakeSuite())

	if m.workspaceFound {
		t.Fatalf("expected no workspace")
	}
	if got := len(m.checks.Items()); got != 2 {
		t.Fatalf("expected 2 pending checks, got %d", got)
	}
	it := m.checks.Items()[0].(checkItem)
	if it.ran || !strings.Contains(it.Title(), "RT-001") {
		t.Fatalf("unexpected pending item: %+v", it)
	}
}

func TestOpenRegression_RunsCatalog(t *testing.T) {
	s := newFakeSuite()
	m := testModel(s)

	m, cmd := update(t, m, key("enter"))
	if m.scr != screenRegression {
		t.Fatalf("expected regression screen, got %v", m.scr)
	}
	if cmd == nil || !m.running {
		t.Fatalf("expected a run to start")
	}

	msg, ok := cmd().(regressionDoneMsg)
	if !ok {
		t.Fatalf("expected regressionDoneMsg")
	}
	if s.calls != 1 {
		t.Fatalf("expected 1 suite run, got %d", s.calls)
	}
	if msg.id != "" {
		t.Fatalf("expected unsaved report outside a workspace, got id %q", msg.id)
	}

	m, _ = update(t, m, msg)
	if m.running || m.report == nil {
		t.Fatalf("expected report to be stored")
	}
	if !strings.Contains(m.toast, string(domain.VerdictAssessImpact)) {
		t.Fatalf("expected verdict in toast, got %q", m.toast)
	}
	second := m.checks.Items()[1].(checkItem)
	if !second.ran || second.res.Status != domain.StatusFail {
		t.Fatalf("expected ran failing item, got %+v", second)
	}

	m, _ = update(t, m, key("enter"))
	if m.scr != screenDetail || !strings.Contains(m.detail, "Result: PASS") {
		t.Fatalf("expected detail of first check, got scr=%v detail=%q", m.scr, m.detail)
	}

	m, _ = update(t, m, key("esc"))
	if m.scr != screenRegression {
		t.Fatalf("expected back to regression, got %v", m.scr)
	}
}

func TestRegressionError_ShowsToast(t *testing.T) {
	m := testModel(newFakeSuite())
	err := &domain.OpError{Op: "regression.run", Kind: domain.KindNotFound, Err: errors.New("check RT-999")}

	m, _ = update(t, m, regressionDoneMsg{err: err})
	if m.toast != "Check not found" {
		t.Fatalf("unexpected toast %q", m.toast)
	}
	if m.report != nil {
		t.Fatalf("expected no report")
	}
}

func TestProbeSuites_RequireWorkspace(t *testing.T) {
	m := testModel(newFakeSuite())
	m.menu.Select(1)

	m, cmd := update(t, m, key("enter"))
	if cmd != nil {
		t.Fatalf("expected no command without workspace")
	}
	if m.scr != screenHome || !strings.Contains(m.toast, "Workspace not found") {
		t.Fatalf("unexpected state scr=%v toast=%q", m.scr, m.toast)
	}
}

func TestProbeRunDone_ShowsResults(t *testing.T) {
	m := testModel(newFakeSuite())
	m.scr = screenSuites

	run := domain.ProbeRun{
		SuiteName: "orders-migration",
		BaseURL:   "http://orders.test",
		Results: []domain.ProbeResult{
			{
				Name:     "v1 retirement signal",
				URL:      "http://orders.test/api/v1/orders/deprecated",
				Severity: domain.SeverityMedium,
				Status:   domain.StatusWarn,
				Response: domain.ResponseSnapshot{StatusCode: 410, Body: []byte(`{"error":"API_VERSION_DEPRECATED"}`)},
				Deprecation: domain.DeprecationVerdict{
					Deprecated: true,
					Reason:     "HTTP 410 deprecation",
				},
			},
		},
	}
	run.Tally = run.Tally.Record(domain.StatusWarn, domain.SeverityMedium)

	m, _ = update(t, m, probeRunDoneMsg{run: run, id: "run-1"})
	if m.scr != screenProbeRun {
		t.Fatalf("expected probe run screen, got %v", m.scr)
	}
	if !strings.Contains(m.toast, "1 warned") {
		t.Fatalf("unexpected toast %q", m.toast)
	}
	if !strings.Contains(m.View(), "orders-migration") {
		t.Fatalf("expected suite name in view")
	}

	m, _ = update(t, m, key("enter"))
	if m.scr != screenDetail {
		t.Fatalf("expected detail screen, got %v", m.scr)
	}
	for _, want := range []string{"Deprecated: HTTP 410 deprecation", "API_VERSION_DEPRECATED"} {
		if !strings.Contains(m.detail, want) {
			t.Fatalf("expected %q in detail:\n%s", want, m.detail)
		}
	}

	m, _ = update(t, m, key("esc"))
	if m.scr != screenProbeRun {
		t.Fatalf("expected back to results, got %v", m.scr)
	}
	m, _ = update(t, m, key("esc"))
	if m.scr != screenSuites {
		t.Fatalf("expected back to suites, got %v", m.scr)
	}
}

func TestQuitFromHome(t *testing.T) {
	m := testModel(newFakeSuite())

	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestQFromSubscreenGoesHome(t *testing.T) {
	m := testModel(newFakeSuite())
	m.scr = screenDetail

	m, cmd := update(t, m, key("q"))
	if cmd != nil || m.scr != screenHome {
		t.Fatalf("expected home without quitting, got scr=%v", m.scr)
	}
}

func TestSafeModel_PassesThrough(t *testing.T) {
	s := wrapSafe(testModel(newFakeSuite()), nil)

	next, _ := s.Update(workspaceRefreshedMsg{cwd: "/tmp/x", found: true, root: "/tmp/x"})
	sm, ok := next.(safeModel)
	if !ok {
		t.Fatalf("expected safeModel, got %T", next)
	}
	if !sm.m.workspaceFound || sm.m.workspaceRoot != "/tmp/x" {
		t.Fatalf("expected workspace state to be updated")
	}
	if !strings.Contains(sm.View(), "Workspace: /tmp/x") {
		t.Fatalf("expected workspace banner in view")
	}
}
