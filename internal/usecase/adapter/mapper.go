// Package adapter maps current (v2) orders onto the legacy (v1) contract and
// reports what a naive legacy consumer would trip over.
package adapter

import "github.com/aalvaropc/ordercompat/internal/domain"

// MapToLegacy converts a v2 order into the v1 shape. It never fails.
//
// items is always a non-nil slice, and status is a legacy state, the
// UNKNOWN fallback, or nil when the order carries no state.
func MapToLegacy(order domain.OrderV2, itemsWereRequested bool) domain.OrderV1 {
	// itemsWereRequested does not change the mapping: absent lineItems map to
	// an empty list either way. FindCompatibilityIssues reports the omission.
	_ = itemsWereRequested

	out := domain.OrderV1{
		OrderID:    copyString(order.OrderID),
		Status:     legacyStatus(order.State),
		TotalPrice: copyNumber(order.Amount),
		Items:      make([]domain.Item, 0, len(order.LineItems)),
	}

	for _, li := range order.LineItems {
		out.Items = append(out.Items, domain.Item{
			ProductName: copyString(li.Name),
			Qty:         copyNumber(li.Quantity),
		})
	}
	return out
}

func legacyStatus(state *string) *string {
	if state == nil {
		return nil
	}
	if domain.IsLegacyState(*state) {
		return copyString(state)
	}
	s := string(domain.StateUnknown)
	return &s
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyNumber(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
