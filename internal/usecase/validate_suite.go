package usecase

import (
	"context"
	"fmt"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/ports"
)

type ValidateSuite struct {
	suites   ports.ProbeSuiteLoader
	envs     ports.EnvironmentLoader
	resolver *domain.VarResolver
}

type ValidateOption func(*ValidateSuite)

func WithVarResolver(vr *domain.VarResolver) ValidateOption {
	return func(uc *ValidateSuite) {
		if vr != nil {
			uc.resolver = vr
		}
	}
}

func NewValidateSuite(sl ports.ProbeSuiteLoader, el ports.EnvironmentLoader, opts ...ValidateOption) *ValidateSuite {
	uc := &ValidateSuite{
		suites:   sl,
		envs:     el,
		resolver: domain.NewVarResolver(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute checks a suite + environment pair without sending anything. Every
// probe must resolve, counting captures of earlier probes as available, and
// a base URL must be known.
func (uc *ValidateSuite) Execute(ctx context.Context, suitePath, envNameOrPath, baseURL string) error {
	suite, err := uc.suites.LoadSuite(suitePath)
	if err != nil {
		return err
	}

	env, err := uc.envs.LoadEnvironment(envNameOrPath)
	if err != nil {
		return err
	}

	vars := domain.Merge(suite.Vars, env.Vars)
	if _, err := resolveBaseURL(baseURL, vars); err != nil {
		return err
	}

	for _, p := range suite.Probes {
		if err := ctx.Err(); err != nil {
			return err
		}

		rt, err := uc.resolver.NewRuntime(vars)
		if err != nil {
			return err
		}
		if _, err := rt.ResolveProbe(p); err != nil {
			return fmt.Errorf("probe %q: %w", p.Name, err)
		}

		for k := range p.Capture {
			if _, ok := vars[k]; !ok {
				vars[k] = "x"
			}
		}
	}
	return nil
}
