package ports

import "github.com/aalvaropc/ordercompat/internal/domain"

type EnvironmentCatalog interface {
	ListEnvironments(root string) ([]domain.EnvironmentRef, error)
}
