package ports

import "github.com/aalvaropc/ordercompat/internal/domain"

// EnvironmentLoader loads environment variables from a source (e.g., filesystem).
type EnvironmentLoader interface {
	LoadEnvironment(nameOrPath string) (domain.Environment, error)
}
