// Package regression runs the v1 to v2 migration check catalog and derives a
// deployment verdict from it.
package regression

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

// SuiteName identifies the catalog in reports.
const SuiteName = "orders-v1-v2-migration"

type Suite struct {
	checks []Check
	fx     *fixtures
	log    *slog.Logger
	now    func() time.Time
}

type Option func(*Suite)

func WithLogger(l *slog.Logger) Option {
	return func(s *Suite) { s.log = l }
}

// WithClock overrides the report timestamps (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Suite) { s.now = now }
}

// WithChecks replaces the built-in catalog.
func WithChecks(checks []Check) Option {
	return func(s *Suite) { s.checks = checks }
}

func NewSuite(opts ...Option) (*Suite, error) {
	fx, err := loadFixtures()
	if err != nil {
		return nil, &domain.OpError{
			Op:   "regression.fixtures",
			Kind: domain.KindInvalidPayload,
			Err:  err,
		}
	}

	s := &Suite{
		checks: Catalog(),
		fx:     fx,
		log:    slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Checks returns the catalog in execution order.
func (s *Suite) Checks() []Check {
	out := make([]Check, len(s.checks))
	copy(out, s.checks)
	return out
}

// Run executes every check, or only the one matching id (case-insensitive)
// when id is non-empty.
func (s *Suite) Run(ctx context.Context, id string) (domain.SuiteReport, error) {
	selected := s.checks
	if id = strings.TrimSpace(id); id != "" {
		c, ok := s.find(id)
		if !ok {
			return domain.SuiteReport{}, &domain.OpError{
				Op:   "regression.run",
				Kind: domain.KindNotFound,
				Err:  fmt.Errorf("%w: check %s", domain.ErrNotFound, strings.ToUpper(id)),
			}
		}
		selected = []Check{c}
	}

	rep := domain.SuiteReport{
		Name:      SuiteName,
		StartedAt: s.now(),
		Results:   make([]domain.CheckResult, 0, len(selected)),
	}

	for _, c := range selected {
		if err := ctx.Err(); err != nil {
			return domain.SuiteReport{}, &domain.OpError{
				Op:   "regression.run",
				Kind: domain.KindExecution,
				Err:  err,
			}
		}

		res := s.runOne(c)
		rep.Results = append(rep.Results, res)
		rep.Tally = rep.Tally.Record(res.Status, res.Severity)
	}

	rep.EndedAt = s.now()
	rep.Verdict = rep.Tally.Verdict()

	s.log.Info("regression suite finished",
		"total", rep.Tally.Total,
		"failed", rep.Tally.Failed,
		"critical_failures", rep.Tally.CriticalFailures,
		"verdict", string(rep.Verdict),
	)
	return rep, nil
}

func (s *Suite) find(id string) (Check, bool) {
	for _, c := range s.checks {
		if strings.EqualFold(c.ID, id) {
			return c, true
		}
	}
	return Check{}, false
}

func (s *Suite) runOne(c Check) (res domain.CheckResult) {
	res = domain.CheckResult{
		ID:          c.ID,
		Category:    c.Category,
		Description: c.Description,
		Severity:    c.Severity,
		Status:      domain.StatusPass,
	}

	// A panicking check is a failed check, not a crashed suite.
	defer func() {
		if r := recover(); r != nil {
			res.Status = domain.StatusFail
			res.Message = fmt.Sprintf("panic: %v", r)
			s.log.Error("regression check panicked", "id", c.ID, "panic", fmt.Sprint(r))
		}
	}()

	if err := c.Run(s.fx); err != nil {
		res.Status = domain.StatusFail
		res.Message = err.Error()
		s.log.Warn("regression check failed", "id", c.ID, "severity", string(c.Severity), "err", err)
	}
	return res
}
