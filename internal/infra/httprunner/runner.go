package httprunner

import (
	"context"
	"net/http"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/infra/httpclient"
	"github.com/aalvaropc/ordercompat/internal/ports"
)

type Runner struct {
	exec     *httpclient.Executor
	resolver *domain.VarResolver
}

type Option func(*Runner)

func WithExecutorOptions(opts ...httpclient.ExecutorOption) Option {
	return func(r *Runner) { r.exec = httpclient.NewExecutor(opts...) }
}

func WithResolver(vr *domain.VarResolver) Option {
	return func(r *Runner) {
		if vr != nil {
			r.resolver = vr
		}
	}
}

// New builds a runner on client; timeouts come from the client itself.
func New(client *http.Client, opts ...Option) *Runner {
	r := &Runner{
		exec:     httpclient.NewExecutor(httpclient.WithClient(client), httpclient.WithTimeout(0)),
		resolver: domain.NewVarResolver(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.ProbeRunner = (*Runner)(nil)

// Run resolves and sends one probe. Transport failures are recorded on the
// result; only configuration problems (missing vars, bad base URL) are
// returned as errors.
func (r *Runner) Run(ctx context.Context, baseURL string, p domain.ProbeSpec, vars domain.Vars) (domain.ProbeResult, error) {
	rt, err := r.resolver.NewRuntime(vars)
	if err != nil {
		return domain.ProbeResult{}, err
	}

	resolved, err := rt.ResolveProbe(p)
	if err != nil {
		return domain.ProbeResult{}, err
	}

	req, err := httpclient.BuildRequest(ctx, baseURL, resolved)
	if err != nil {
		return domain.ProbeResult{}, err
	}

	result := domain.ProbeResult{
		Name:       resolved.Name,
		URL:        req.URL.String(),
		Severity:   resolved.Severity,
		Issues:     []domain.Issue{},
		Assertions: []domain.AssertionResult{},
		Response: domain.ResponseSnapshot{
			Headers: map[string][]string{},
		},
	}

	data, err := r.exec.Do(ctx, req)
	result.Response.LatencyMS = data.Duration.Milliseconds()
	if data.Status != 0 {
		result.Response.StatusCode = data.Status
		result.Response.Headers = data.Headers
		result.Response.Body = data.Body
		result.Response.Truncated = data.Truncated
	}
	if err != nil {
		result.Error = domain.NewRunError(err)
	}
	return result, nil
}
