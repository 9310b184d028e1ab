package ports

import "github.com/aalvaropc/ordercompat/internal/domain"

// FixtureSource answers the orders the mock server serves.
type FixtureSource interface {
	// Order returns the v2 order for a user, falling back to the default
	// order when the user is unknown.
	Order(userID string) domain.OrderV2
}
