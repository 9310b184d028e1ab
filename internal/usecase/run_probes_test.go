package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/infra/httpclient"
	"github.com/aalvaropc/ordercompat/internal/infra/httprunner"
	"github.com/aalvaropc/ordercompat/internal/ports"
)

// --- fakes used by both integration and unit tests ---

type fakeSuiteLoader struct {
	suite domain.ProbeSuite
}

func (f fakeSuiteLoader) LoadSuite(_ string) (domain.ProbeSuite, error) {
	return f.suite, nil
}
func (f fakeSuiteLoader) ListSuites(_ string) ([]domain.ProbeSuiteRef, error) {
	return nil, nil
}

type errSuiteLoader struct{ err error }

func (e errSuiteLoader) LoadSuite(_ string) (domain.ProbeSuite, error) {
	return domain.ProbeSuite{}, e.err
}
func (e errSuiteLoader) ListSuites(_ string) ([]domain.ProbeSuiteRef, error) {
	return nil, nil
}

type fakeEnvLoader struct {
	env domain.Environment
}

func (f fakeEnvLoader) LoadEnvironment(_ string) (domain.Environment, error) {
	return f.env, nil
}

type errEnvLoader struct{ err error }

func (e errEnvLoader) LoadEnvironment(_ string) (domain.Environment, error) {
	return domain.Environment{}, e.err
}

type fakeStore struct {
	runs    []domain.ProbeRun
	reports []domain.SuiteReport
	err     error
}

func (s *fakeStore) SaveProbeRun(run domain.ProbeRun) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.runs = append(s.runs, run)
	return "run-123", nil
}

func (s *fakeStore) SaveSuiteReport(rep domain.SuiteReport) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.reports = append(s.reports, rep)
	return "report-123", nil
}

// scriptedRunner replays one response per call and records the vars it saw.
type scriptedRunner struct {
	responses []scripted
	seenVars  []domain.Vars
	cancel    context.CancelFunc
	idx       int
}

type scripted struct {
	status int
	body   string
	err    error
}

func (r *scriptedRunner) Run(_ context.Context, baseURL string, p domain.ProbeSpec, vars domain.Vars) (domain.ProbeResult, error) {
	r.seenVars = append(r.seenVars, domain.Merge(vars))
	if r.cancel != nil {
		r.cancel()
	}

	var s scripted
	if r.idx < len(r.responses) {
		s = r.responses[r.idx]
	}
	r.idx++
	if s.err != nil {
		return domain.ProbeResult{}, s.err
	}
	return domain.ProbeResult{
		Name:     p.Name,
		URL:      baseURL + p.Path,
		Severity: p.Severity,
		Response: domain.ResponseSnapshot{
			StatusCode: s.status,
			Headers:    map[string][]string{},
			Body:       []byte(s.body),
		},
	}, nil
}

var (
	_ ports.ProbeRunner = (*scriptedRunner)(nil)
	_ ports.ReportStore = (*fakeStore)(nil)
)

func devEnv() fakeEnvLoader {
	return fakeEnvLoader{env: domain.Environment{Name: "dev", Vars: domain.Vars{"base_url": "http://orders.test"}}}
}

func TestRunProbes_TallyAndStore(t *testing.T) {
	ok := 200
	suite := domain.ProbeSuite{
		Name: "orders-migration",
		Probes: []domain.ProbeSpec{
			{Name: "v2", Path: "/api/v2/orders", Severity: domain.SeverityCritical, Expect: domain.ProbeExpect{Status: &ok}},
			{Name: "v1", Path: "/api/v1/orders", Severity: domain.SeverityHigh, Expect: domain.ProbeExpect{Status: &ok}},
			{Name: "broken", Path: "/api/v2/orders", Severity: domain.SeverityMedium, Expect: domain.ProbeExpect{Status: &ok}},
		},
	}
	runner := &scriptedRunner{responses: []scripted{
		{status: 200, body: `{"orderId":"ORD-1","state":"PAID","amount":1}`},
		{status: 410, body: `{"error":"API_VERSION_DEPRECATED","message":"Please migrate to /api/v2/orders"}`},
		{status: 500, body: `{}`},
	}}
	store := &fakeStore{}

	run, id, err := NewRunProbes(fakeSuiteLoader{suite: suite}, devEnv(), runner, store).
		Execute(context.Background(), "probes/orders.yaml", "dev", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "run-123" || len(store.runs) != 1 {
		t.Fatalf("expected run to be saved, id=%q", id)
	}
	if run.BaseURL != "http://orders.test" || run.EnvironmentName != "dev" || run.SuiteName != "orders-migration" {
		t.Fatalf("unexpected run metadata: %+v", run)
	}

	want := []domain.CheckStatus{domain.StatusPass, domain.StatusWarn, domain.StatusFail}
	for i, r := range run.Results {
		if r.Status != want[i] {
			t.Fatalf("probe %s: expected %s, got %s (%+v)", r.Name, want[i], r.Status, r.Assertions)
		}
	}
	if run.Tally != (domain.Tally{Total: 3, Passed: 1, Failed: 1, Warned: 1}) {
		t.Fatalf("unexpected tally: %+v", run.Tally)
	}
	if run.Results[1].Alert || !run.Results[2].Alert {
		t.Fatalf("expected alert only on the 500")
	}
}

func TestRunProbes_BaseURLOverride(t *testing.T) {
	suite := domain.ProbeSuite{Probes: []domain.ProbeSpec{{Name: "p", Path: "/x"}}}
	runner := &scriptedRunner{responses: []scripted{{status: 200, body: `{}`}}}

	run, _, err := NewRunProbes(fakeSuiteLoader{suite: suite}, devEnv(), runner, nil).
		Execute(context.Background(), "s.yaml", "dev", "http://override:9000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.BaseURL != "http://override:9000" || run.Results[0].URL != "http://override:9000/x" {
		t.Fatalf("override not applied: %+v", run)
	}
}

func TestRunProbes_MissingBaseURL(t *testing.T) {
	uc := NewRunProbes(fakeSuiteLoader{}, fakeEnvLoader{}, &scriptedRunner{}, nil)
	_, _, err := uc.Execute(context.Background(), "s.yaml", "dev", "")
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestRunProbes_LoaderErrors(t *testing.T) {
	loadErr := errors.New("suite not found")
	_, _, err := NewRunProbes(errSuiteLoader{err: loadErr}, devEnv(), &scriptedRunner{}, nil).
		Execute(context.Background(), "s.yaml", "dev", "")
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected loadErr, got %v", err)
	}

	envErr := errors.New("env not found")
	_, _, err = NewRunProbes(fakeSuiteLoader{}, errEnvLoader{err: envErr}, &scriptedRunner{}, nil).
		Execute(context.Background(), "s.yaml", "dev", "")
	if !errors.Is(err, envErr) {
		t.Fatalf("expected envErr, got %v", err)
	}
}

func TestRunProbes_RunnerErrorContinuesNext(t *testing.T) {
	suite := domain.ProbeSuite{Probes: []domain.ProbeSpec{{Name: "a"}, {Name: "b"}}}
	runner := &scriptedRunner{responses: []scripted{
		{err: &domain.OpError{Op: "vars.resolve", Kind: domain.KindMissingVar, Err: domain.ErrMissingVar}},
		{status: 200, body: `{}`},
	}}

	run, _, err := NewRunProbes(fakeSuiteLoader{suite: suite}, devEnv(), runner, nil).
		Execute(context.Background(), "s.yaml", "dev", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Results[0].Error == nil || run.Results[0].Status != domain.StatusFail {
		t.Fatalf("expected first probe to fail with error, got %+v", run.Results[0])
	}
	if run.Results[1].Status != domain.StatusPass {
		t.Fatalf("expected second probe to pass, got %+v", run.Results[1])
	}
}

func TestRunProbes_CapturedVarsChain(t *testing.T) {
	suite := domain.ProbeSuite{
		Vars: domain.Vars{"user": "789"},
		Probes: []domain.ProbeSpec{
			{Name: "v2", Path: "/api/v2/orders", Capture: domain.CaptureSpec{"order_id": "$.orderId"}},
			{Name: "compat", Path: "/api/compat/orders"},
		},
	}
	runner := &scriptedRunner{responses: []scripted{
		{status: 200, body: `{"orderId":"ORD-789","state":"SHIPPED","amount":59.5}`},
		{status: 200, body: `{}`},
	}}

	run, _, err := NewRunProbes(fakeSuiteLoader{suite: suite}, devEnv(), runner, nil).
		Execute(context.Background(), "s.yaml", "dev", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.seenVars[1]["order_id"] != "ORD-789" || runner.seenVars[1]["user"] != "789" {
		t.Fatalf("expected captured and suite vars in second probe, got %v", runner.seenVars[1])
	}
	if run.Results[0].Captured["order_id"] != "ORD-789" {
		t.Fatalf("expected captured vars on result")
	}
}

func TestRunProbes_ContextCancelledDuringIteration(t *testing.T) {
	suite := domain.ProbeSuite{Probes: []domain.ProbeSpec{{Name: "a"}, {Name: "b"}}}
	ctx, cancel := context.WithCancel(context.Background())
	runner := &scriptedRunner{cancel: cancel, responses: []scripted{{status: 200, body: `{}`}}}
	store := &fakeStore{}

	run, id, err := NewRunProbes(fakeSuiteLoader{suite: suite}, devEnv(), runner, store).
		Execute(ctx, "s.yaml", "dev", "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if id != "" || len(store.runs) != 0 {
		t.Fatalf("expected cancelled run not to be saved")
	}
	if len(run.Results) != 1 || run.EndedAt.IsZero() {
		t.Fatalf("expected one result and EndedAt set, got %+v", run)
	}
}

func TestRunProbes_StoreSaveError(t *testing.T) {
	suite := domain.ProbeSuite{Probes: []domain.ProbeSpec{{Name: "a"}}}
	saveErr := errors.New("disk full")
	runner := &scriptedRunner{responses: []scripted{{status: 200, body: `{}`}}}

	run, id, err := NewRunProbes(fakeSuiteLoader{suite: suite}, devEnv(), runner, &fakeStore{err: saveErr}).
		Execute(context.Background(), "s.yaml", "dev", "")
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected saveErr, got %v", err)
	}
	if id != "" || len(run.Results) != 1 {
		t.Fatalf("expected run returned without id, got id=%q results=%d", id, len(run.Results))
	}
}

// --- integration test (real HTTP) ---

func TestRunProbes_AgainstHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v2/orders":
			if r.URL.Query().Get("includeItems") == "true" {
				_, _ = w.Write([]byte(`{"orderId":"ORD-789","state":"FULFILLED","amount":59.5,"lineItems":[{"name":"Pen","quantity":3}]}`))
				return
			}
			_, _ = w.Write([]byte(`{"orderId":"ORD-789","state":"FULFILLED","amount":59.5}`))
		case "/api/v1/orders":
			w.WriteHeader(http.StatusGone)
			_, _ = w.Write([]byte(`{"error":"API_VERSION_DEPRECATED"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ok := 200
	yes := true
	suite := domain.ProbeSuite{
		Name: "live",
		Vars: domain.Vars{"user": "789"},
		Probes: []domain.ProbeSpec{
			{
				Name:     "v2 with items",
				Path:     "/api/v2/orders",
				Query:    map[string]string{"userId": "{{user}}", "includeItems": "true"},
				Severity: domain.SeverityCritical,
				Expect: domain.ProbeExpect{
					Status:         &ok,
					LegacyContract: true,
					IssuesPresent:  []domain.IssueKind{domain.IssueUnknownState, domain.IssueRenamedItems},
					IssuesAbsent:   []domain.IssueKind{domain.IssueItemsOmitted},
				},
			},
			{
				Name:   "v2 default omits items",
				Path:   "/api/v2/orders",
				Query:  map[string]string{"userId": "{{user}}"},
				Expect: domain.ProbeExpect{IssuesPresent: []domain.IssueKind{domain.IssueItemsOmitted}},
			},
			{
				Name:   "v1 retired",
				Path:   "/api/v1/orders",
				Expect: domain.ProbeExpect{Deprecated: &yes},
			},
		},
	}

	runner := httprunner.New(httpclient.New(httpclient.DefaultConfig()))
	run, _, err := NewRunProbes(fakeSuiteLoader{suite: suite}, fakeEnvLoader{env: domain.Environment{Name: "local"}}, runner, nil).
		Execute(context.Background(), "live.yaml", "local", srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range run.Results {
		if r.Status != domain.StatusPass {
			t.Fatalf("probe %q: expected PASS, got %s: %+v", r.Name, r.Status, r.Assertions)
		}
	}
	legacy := run.Results[0].Legacy
	if legacy == nil || legacy.Status == nil || *legacy.Status != "UNKNOWN" || len(legacy.Items) != 1 {
		t.Fatalf("unexpected legacy mapping: %+v", legacy)
	}
	if !run.Results[2].Deprecation.Deprecated || run.Results[2].Alert {
		t.Fatalf("expected deprecation without alert, got %+v", run.Results[2])
	}
}
