package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ParseOrderV2 decodes a v2 order document. The document must be a JSON object.
func ParseOrderV2(data []byte) (OrderV2, error) {
	body, err := decodeObject(data)
	if err != nil {
		return OrderV2{}, &OpError{
			Op:   "order.parse",
			Kind: KindInvalidPayload,
			Err:  err,
		}
	}
	return DecodeOrderV2(body)
}

// DecodeOrderV2 validates a decoded JSON object and builds an OrderV2 from it.
// Unknown keys are ignored but remembered, so legacy keys such as "status"
// still count for issue detection. Wrongly typed known fields are rejected.
func DecodeOrderV2(body map[string]any) (OrderV2, error) {
	o := OrderV2{keys: make(map[string]bool, len(body))}
	for k := range body {
		o.keys[k] = true
	}

	var err error
	if o.OrderID, err = optString(body, FieldOrderID); err != nil {
		return OrderV2{}, invalidPayload(err)
	}
	if o.State, err = optString(body, FieldState); err != nil {
		return OrderV2{}, invalidPayload(err)
	}
	if o.Amount, err = optNumber(body, FieldAmount); err != nil {
		return OrderV2{}, invalidPayload(err)
	}

	raw, ok := body[FieldLineItems]
	if !ok || raw == nil {
		return o, nil
	}
	arr, ok := raw.([]any)
	if !ok {
		return OrderV2{}, invalidPayload(fmt.Errorf("field %s: expected array, got %T", FieldLineItems, raw))
	}
	o.LineItems = make([]LineItem, 0, len(arr))
	for i, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			return OrderV2{}, invalidPayload(fmt.Errorf("field %s[%d]: expected object, got %T", FieldLineItems, i, el))
		}
		name, err := optString(m, "name")
		if err != nil {
			return OrderV2{}, invalidPayload(fmt.Errorf("%s[%d]: %w", FieldLineItems, i, err))
		}
		qty, err := optNumber(m, "quantity")
		if err != nil {
			return OrderV2{}, invalidPayload(fmt.Errorf("%s[%d]: %w", FieldLineItems, i, err))
		}
		o.LineItems = append(o.LineItems, LineItem{Name: name, Quantity: qty})
	}
	return o, nil
}

func (o *OrderV2) UnmarshalJSON(data []byte) error {
	parsed, err := ParseOrderV2(data)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// wireOrderV2 keeps lineItems off the wire when absent and emits [] when empty.
type wireOrderV2 struct {
	OrderID   *string     `json:"orderId"`
	State     *string     `json:"state"`
	Amount    *float64    `json:"amount"`
	LineItems *[]LineItem `json:"lineItems,omitempty"`
}

func (o OrderV2) MarshalJSON() ([]byte, error) {
	w := wireOrderV2{
		OrderID: o.OrderID,
		State:   o.State,
		Amount:  o.Amount,
	}
	if o.LineItems != nil {
		items := o.LineItems
		w.LineItems = &items
	}
	return json.Marshal(w)
}

// WithoutLineItems returns a copy of o whose lineItems key is absent.
func (o OrderV2) WithoutLineItems() OrderV2 {
	out := o
	out.LineItems = nil
	if o.keys != nil {
		out.keys = make(map[string]bool, len(o.keys))
		for k, v := range o.keys {
			if k != FieldLineItems {
				out.keys[k] = v
			}
		}
	}
	return out
}

func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %T", v)
	}
	return normalizeNumbers(m).(map[string]any), nil
}

// normalizeNumbers turns json.Number leaves into float64 so decoded documents
// look the same as ones built in code.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case map[string]any:
		for k, vv := range t {
			t[k] = normalizeNumbers(vv)
		}
		return t
	case []any:
		for i, vv := range t {
			t[i] = normalizeNumbers(vv)
		}
		return t
	default:
		return v
	}
}

func optString(m map[string]any, key string) (*string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("field %s: expected string, got %T", key, raw)
	}
	return &s, nil
}

func optNumber(m map[string]any, key string) (*float64, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch n := raw.(type) {
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	case int64:
		f := float64(n)
		return &f, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("field %s: expected number, got %T", key, raw)
	}
}

func invalidPayload(err error) error {
	return &OpError{
		Op:   "order.decode",
		Kind: KindInvalidPayload,
		Err:  errors.Join(ErrInvalidPayload, err),
	}
}
