package yamlfixtures

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

// MapFixtures validates every order of the document.
func MapFixtures(path string, dto YAMLFixtures) (*Fixtures, error) {
	f := &Fixtures{orders: make(map[string]domain.OrderV2, len(dto.Orders))}

	for user, raw := range dto.Orders {
		if strings.TrimSpace(user) == "" {
			return nil, invalidField(path, "orders", "user id must not be empty")
		}
		o, err := domain.DecodeOrderV2(raw)
		if err != nil {
			return nil, invalidField(path, "orders."+user, err.Error())
		}
		f.orders[user] = o
	}

	f.fallback = defaultOrder()
	if dto.Default != nil {
		o, err := domain.DecodeOrderV2(dto.Default)
		if err != nil {
			return nil, invalidField(path, "default", err.Error())
		}
		// Drop the decoded key set: the order id is filled in per request.
		f.fallback = domain.OrderV2{State: o.State, Amount: o.Amount, LineItems: o.LineItems}
	}

	return f, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlfixtures.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
