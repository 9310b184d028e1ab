package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/ports"
	"github.com/aalvaropc/ordercompat/internal/usecase/capture"
)

// BaseURLVar is the environment variable probes are sent against.
const BaseURLVar = "base_url"

type RunProbes struct {
	suites ports.ProbeSuiteLoader
	envs   ports.EnvironmentLoader
	runner ports.ProbeRunner
	store  ports.ReportStore
}

// NewRunProbes wires the use case; store may be nil to skip persistence.
func NewRunProbes(sl ports.ProbeSuiteLoader, el ports.EnvironmentLoader, pr ports.ProbeRunner, store ports.ReportStore) *RunProbes {
	return &RunProbes{
		suites: sl,
		envs:   el,
		runner: pr,
		store:  store,
	}
}

// Execute runs every probe of the suite in order. baseURL overrides the
// environment's base_url when non-empty. The returned id is empty when the
// run was not saved.
func (uc *RunProbes) Execute(ctx context.Context, suitePath, envNameOrPath, baseURL string) (domain.ProbeRun, string, error) {
	suite, err := uc.suites.LoadSuite(suitePath)
	if err != nil {
		return domain.ProbeRun{}, "", err
	}

	env, err := uc.envs.LoadEnvironment(envNameOrPath)
	if err != nil {
		return domain.ProbeRun{}, "", err
	}

	// suite vars < env vars < captured vars (updated per probe)
	vars := domain.Merge(suite.Vars, env.Vars)

	base, err := resolveBaseURL(baseURL, vars)
	if err != nil {
		return domain.ProbeRun{}, "", err
	}

	run := domain.ProbeRun{
		SuiteName:       suite.Name,
		SuitePath:       suitePath,
		EnvironmentName: env.Name,
		BaseURL:         base,
		StartedAt:       time.Now(),
		Results:         make([]domain.ProbeResult, 0, len(suite.Probes)),
	}

	for _, p := range suite.Probes {
		if err := ctx.Err(); err != nil {
			run.EndedAt = time.Now()
			return run, "", err
		}

		res, runErr := uc.runner.Run(ctx, base, p, vars)
		if runErr != nil {
			// Config-level error: record it and keep going.
			res = domain.ProbeResult{
				Name:       p.Name,
				Severity:   p.Severity,
				Issues:     []domain.Issue{},
				Assertions: []domain.AssertionResult{},
				Response:   domain.ResponseSnapshot{Headers: map[string][]string{}},
				Error:      domain.NewRunError(runErr),
			}
		}
		res = EvaluateProbe(p, res)

		if res.Error == nil && len(p.Capture) > 0 {
			captured, results := capture.Apply(res.Response.Body, p.Capture)
			res.Captures = results
			res.Captured = captured
			for k, v := range captured {
				vars[k] = v
			}
		}

		run.Results = append(run.Results, res)
		run.Tally = run.Tally.Record(res.Status, res.Severity)
	}

	run.EndedAt = time.Now()

	if uc.store == nil {
		return run, "", nil
	}
	id, err := uc.store.SaveProbeRun(run)
	if err != nil {
		return run, "", err
	}
	return run, id, nil
}

func resolveBaseURL(override string, vars domain.Vars) (string, error) {
	if s := strings.TrimSpace(override); s != "" {
		return s, nil
	}
	if s := strings.TrimSpace(vars[BaseURLVar]); s != "" {
		return s, nil
	}
	return "", &domain.OpError{
		Op:   "probes.base_url",
		Kind: domain.KindInvalidConfig,
		Err:  fmt.Errorf("%w: %s (set it in the environment or pass --base-url)", domain.ErrMissingVar, BaseURLVar),
	}
}
