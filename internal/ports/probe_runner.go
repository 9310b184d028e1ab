package ports

import (
	"context"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

// ProbeRunner sends a single probe against baseURL with a resolved variable set.
type ProbeRunner interface {
	Run(ctx context.Context, baseURL string, p domain.ProbeSpec, vars domain.Vars) (domain.ProbeResult, error)
}
