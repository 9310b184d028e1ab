package tui

import (
	"context"
	"log/slog"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/ports"
	"github.com/aalvaropc/ordercompat/internal/usecase/regression"
)

// RegressionSuite is the catalog as the browser uses it.
type RegressionSuite interface {
	Checks() []regression.Check
	Run(ctx context.Context, id string) (domain.SuiteReport, error)
}

type Deps struct {
	WorkspaceLocator     ports.WorkspaceLocator
	WorkspaceInitializer ports.WorkspaceInitializer
	Regression           RegressionSuite

	Logger *slog.Logger
	Debug  bool
}
