package usecase

import (
	"context"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/ports"
)

// RegressionSuite is the check catalog as seen by this use case.
type RegressionSuite interface {
	Run(ctx context.Context, id string) (domain.SuiteReport, error)
}

type RunRegression struct {
	suite RegressionSuite
	store ports.ReportStore
}

// NewRunRegression wires the use case; store may be nil to skip persistence.
func NewRunRegression(suite RegressionSuite, store ports.ReportStore) *RunRegression {
	return &RunRegression{suite: suite, store: store}
}

// Execute runs the catalog (or one check) and saves the report when a store
// is configured. The report is returned even if saving fails.
func (uc *RunRegression) Execute(ctx context.Context, id string) (domain.SuiteReport, string, error) {
	rep, err := uc.suite.Run(ctx, id)
	if err != nil {
		return domain.SuiteReport{}, "", err
	}
	if uc.store == nil {
		return rep, "", nil
	}
	saved, err := uc.store.SaveSuiteReport(rep)
	if err != nil {
		return rep, "", err
	}
	return rep, saved, nil
}
