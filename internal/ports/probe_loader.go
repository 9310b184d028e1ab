package ports

import "github.com/aalvaropc/ordercompat/internal/domain"

// ProbeSuiteLoader loads probe suites from a source (e.g., filesystem).
type ProbeSuiteLoader interface {
	LoadSuite(path string) (domain.ProbeSuite, error)
	ListSuites(root string) ([]domain.ProbeSuiteRef, error)
}
