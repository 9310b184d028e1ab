package regression

import (
	"encoding/json"
	"fmt"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

// Built-in v2 documents the catalog runs against.
const (
	docV2WithItems = `{
  "orderId": "ORD-123",
  "state": "PAID",
  "amount": 199.99,
  "lineItems": [
    {"name": "Laptop", "quantity": 1},
    {"name": "Mouse", "quantity": 2}
  ],
  "createdAt": "2024-01-15T10:30:00Z"
}`

	docV2WithoutItems = `{
  "orderId": "ORD-123",
  "state": "PAID",
  "amount": 199.99,
  "createdAt": "2024-01-15T10:30:00Z"
}`

	docV2Fulfilled = `{
  "orderId": "ORD-555",
  "state": "FULFILLED",
  "amount": 120.0,
  "createdAt": "2024-01-10T14:20:00Z"
}`

	docV2EmptyItems = `{
  "orderId": "ORD-EMPTY",
  "state": "PAID",
  "amount": 0.0,
  "lineItems": [],
  "createdAt": "2024-01-15T10:30:00Z"
}`

	docV2Minimal = `{"orderId": "ORD-TEST"}`

	docV2Zero = `{"orderId": "ORD-ZERO", "state": "CANCELLED", "amount": 0.0}`

	docV2Nulls = `{"orderId": "ORD-NULL", "state": null, "amount": null}`

	docV1Deprecated = `{"statusCode": 410, "body": {"error": "API_VERSION_DEPRECATED", "message": "Please migrate to /api/v2/orders"}}`
)

// fixture is a v2 document kept in both raw and decoded form, so checks can
// look at wire keys the typed order does not model.
type fixture struct {
	Raw   map[string]any
	Order domain.OrderV2
}

type fixtures struct {
	WithItems    fixture
	WithoutItems fixture
	Fulfilled    fixture
	EmptyItems   fixture
	Minimal      fixture
	Zero         fixture
	Nulls        fixture
	Many         fixture

	Deprecated domain.ResponseEnvelope
}

func loadFixtures() (*fixtures, error) {
	fx := &fixtures{}
	docs := []struct {
		name string
		doc  string
		dst  *fixture
	}{
		{"v2_with_items", docV2WithItems, &fx.WithItems},
		{"v2_without_items", docV2WithoutItems, &fx.WithoutItems},
		{"v2_fulfilled", docV2Fulfilled, &fx.Fulfilled},
		{"v2_empty_items", docV2EmptyItems, &fx.EmptyItems},
		{"v2_minimal", docV2Minimal, &fx.Minimal},
		{"v2_zero", docV2Zero, &fx.Zero},
		{"v2_nulls", docV2Nulls, &fx.Nulls},
		{"v2_many_items", manyItemsDoc(10), &fx.Many},
	}
	for _, d := range docs {
		f, err := parseFixture([]byte(d.doc))
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", d.name, err)
		}
		*d.dst = f
	}

	env, err := domain.ParseEnvelopeDocument([]byte(docV1Deprecated))
	if err != nil {
		return nil, fmt.Errorf("fixture v1_deprecated: %w", err)
	}
	fx.Deprecated = env
	return fx, nil
}

func parseFixture(data []byte) (fixture, error) {
	o, err := domain.ParseOrderV2(data)
	if err != nil {
		return fixture{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fixture{}, err
	}
	return fixture{Raw: raw, Order: o}, nil
}

func manyItemsDoc(n int) string {
	items := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, map[string]any{"name": fmt.Sprintf("Item-%d", i), "quantity": i + 1})
	}
	b, _ := json.Marshal(map[string]any{
		"orderId":   "ORD-MANY",
		"state":     "SHIPPED",
		"amount":    500.0,
		"lineItems": items,
	})
	return string(b)
}
