package adapter

import (
	"encoding/json"
	"fmt"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

// CheckLegacyContract verifies what a v1 consumer relies on: every legacy key
// is serialized, items is an array whose elements carry both keys, and
// status stays inside the legacy enum or the fallback.
func CheckLegacyContract(v1 domain.OrderV1) error {
	return CheckLegacyDocument(LegacyJSON(v1))
}

// CheckLegacyKeys fails when a top-level v1 key is missing from a wire document.
func CheckLegacyKeys(doc map[string]any) error {
	for _, k := range []string{domain.FieldOrderID, domain.FieldStatus, domain.FieldTotalPrice, domain.FieldItems} {
		if _, ok := doc[k]; !ok {
			return fmt.Errorf("legacy key %q missing", k)
		}
	}
	return nil
}

// LegacyJSON returns the order as a v1 consumer sees it on the wire.
func LegacyJSON(v1 domain.OrderV1) map[string]any {
	b, err := json.Marshal(v1)
	if err != nil {
		return nil
	}
	var out map[string]any
	_ = json.Unmarshal(b, &out)
	return out
}

// CheckLegacyDocument validates a decoded JSON body that claims to be a v1 order.
func CheckLegacyDocument(doc map[string]any) error {
	if doc == nil {
		return fmt.Errorf("body is not a JSON object")
	}
	if err := CheckLegacyKeys(doc); err != nil {
		return err
	}
	if st, ok := doc[domain.FieldStatus].(string); ok && !domain.IsLegacyState(st) && st != string(domain.StateUnknown) {
		return fmt.Errorf("status %q outside legacy enum", st)
	}
	items, ok := doc[domain.FieldItems].([]any)
	if !ok {
		return fmt.Errorf("items=%v, want array", doc[domain.FieldItems])
	}
	for i, el := range items {
		m, ok := el.(map[string]any)
		if !ok {
			return fmt.Errorf("items[%d] is not an object", i)
		}
		for _, k := range []string{"productName", "qty"} {
			if _, ok := m[k]; !ok {
				return fmt.Errorf("items[%d] lacks %q", i, k)
			}
		}
	}
	return nil
}
