package domain

// LegacyState is a value of the v1 order status enum.
type LegacyState string

const (
	StatePaid      LegacyState = "PAID"
	StateCancelled LegacyState = "CANCELLED"
	StateShipped   LegacyState = "SHIPPED"

	// StateUnknown is the fallback sentinel legacy consumers treat as
	// "indeterminate but non-fatal". It is never a v2 input value.
	StateUnknown LegacyState = "UNKNOWN"
)

// LegacyStates lists the states a v1 consumer can interpret, in enum order.
var LegacyStates = []LegacyState{StatePaid, StateCancelled, StateShipped}

// IsLegacyState reports whether s is a member of the v1 status enum.
// The fallback sentinel is not a member.
func IsLegacyState(s string) bool {
	switch LegacyState(s) {
	case StatePaid, StateCancelled, StateShipped:
		return true
	}
	return false
}

// Top-level JSON keys of the two order schemas.
const (
	FieldOrderID    = "orderId"
	FieldState      = "state"
	FieldAmount     = "amount"
	FieldLineItems  = "lineItems"
	FieldStatus     = "status"
	FieldTotalPrice = "totalPrice"
	FieldItems      = "items"
)

// LineItem is a v2 order line.
type LineItem struct {
	Name     *string  `json:"name"`
	Quantity *float64 `json:"quantity"`
}

// Item is a v1 order line. Both keys are always serialized, as null when unknown.
type Item struct {
	ProductName *string  `json:"productName"`
	Qty         *float64 `json:"qty"`
}

// OrderV2 is an order as returned by /api/v2/orders.
//
// A nil LineItems means the key was absent ("items not fetched"); a non-nil
// empty slice means the order has zero items.
type OrderV2 struct {
	OrderID   *string
	State     *string
	Amount    *float64
	LineItems []LineItem

	// keys holds the top-level keys seen when the order was decoded.
	keys map[string]bool
}

// Has reports whether the given top-level key was present on the order.
// Decoded orders answer from the observed document; literals answer from
// their non-nil fields.
func (o OrderV2) Has(field string) bool {
	if o.keys != nil {
		return o.keys[field]
	}
	switch field {
	case FieldOrderID:
		return o.OrderID != nil
	case FieldState:
		return o.State != nil
	case FieldAmount:
		return o.Amount != nil
	case FieldLineItems:
		return o.LineItems != nil
	}
	return false
}

// OrderV1 is an order in the legacy shape.
type OrderV1 struct {
	OrderID    *string  `json:"orderId"`
	Status     *string  `json:"status"`
	TotalPrice *float64 `json:"totalPrice"`
	Items      []Item   `json:"items"`
}

// Str and Num build optional values for literals and tests.
func Str(s string) *string { return &s }

func Num(f float64) *float64 { return &f }
