package regression

import (
	"errors"
	"fmt"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/usecase/adapter"
	"github.com/aalvaropc/ordercompat/internal/usecase/deprecation"
)

const (
	CategoryFieldRenaming  = "Field Renaming"
	CategoryIncludeItems   = "includeItems Behavior"
	CategoryAdapter        = "Adapter & Item Safety"
	CategoryEnumMapping    = "Enum Mapping"
	CategoryAnalytics      = "Analytics Integration"
	CategoryBackwardCompat = "Backward Compatibility"
	CategoryDeprecation    = "Deprecation Signal"
	CategoryDataIntegrity  = "Data Integrity"
	CategoryEdgeCases      = "Edge Cases"
)

// Check is one catalog entry. Run returns nil when the check passes.
type Check struct {
	ID          string
	Category    string
	Description string
	Severity    domain.Severity
	Run         func(fx *fixtures) error
}

// Catalog returns the migration checks in execution order.
func Catalog() []Check {
	return []Check{
		{
			ID:          "RT-001",
			Category:    CategoryFieldRenaming,
			Severity:    domain.SeverityCritical,
			Description: "v2 response contains 'state' field, not 'status'",
			Run: func(fx *fixtures) error {
				o := fx.WithItems.Order
				if o.State == nil || o.Has(domain.FieldStatus) {
					return errors.New("expected non-null state and no status key")
				}
				return requireIssue(o, domain.IssueRenamedStatus)
			},
		},
		{
			ID:          "RT-002",
			Category:    CategoryFieldRenaming,
			Severity:    domain.SeverityCritical,
			Description: "Item fields renamed: name/quantity (not productName/qty)",
			Run: func(fx *fixtures) error {
				items, _ := fx.WithItems.Raw[domain.FieldLineItems].([]any)
				if len(items) == 0 {
					return errors.New("no lineItems in fixture")
				}
				first, _ := items[0].(map[string]any)
				for _, k := range []string{"name", "quantity"} {
					if _, ok := first[k]; !ok {
						return fmt.Errorf("lineItems[0] lacks %q", k)
					}
				}
				for _, k := range []string{"productName", "qty"} {
					if _, ok := first[k]; ok {
						return fmt.Errorf("lineItems[0] still carries legacy key %q", k)
					}
				}
				return nil
			},
		},
		{
			ID:          "RT-003",
			Category:    CategoryIncludeItems,
			Severity:    domain.SeverityCritical,
			Description: "lineItems key omitted when includeItems not provided",
			Run: func(fx *fixtures) error {
				o := fx.WithoutItems.Order
				if o.Has(domain.FieldLineItems) || o.Has(domain.FieldItems) {
					return errors.New("expected neither lineItems nor items")
				}
				return requireIssue(o, domain.IssueItemsOmitted)
			},
		},
		{
			ID:          "RT-004",
			Category:    CategoryIncludeItems,
			Severity:    domain.SeverityCritical,
			Description: "lineItems omitted when includeItems=false",
			Run: func(fx *fixtures) error {
				if domain.ParseIncludeItems("false") {
					return errors.New(`includeItems="false" parsed as true`)
				}
				if fx.WithoutItems.Order.Has(domain.FieldLineItems) {
					return errors.New("lineItems present")
				}
				return nil
			},
		},
		{
			ID:          "RT-005",
			Category:    CategoryIncludeItems,
			Severity:    domain.SeverityCritical,
			Description: "lineItems array present when includeItems=true",
			Run: func(fx *fixtures) error {
				if !domain.ParseIncludeItems("true") {
					return errors.New(`includeItems="true" parsed as false`)
				}
				if n := len(fx.WithItems.Order.LineItems); n == 0 {
					return errors.New("lineItems missing or empty")
				}
				return nil
			},
		},
		{
			ID:          "RT-006",
			Category:    CategoryIncludeItems,
			Severity:    domain.SeverityHigh,
			Description: "lineItems present as empty array when no items exist",
			Run: func(fx *fixtures) error {
				o := fx.EmptyItems.Order
				if !o.Has(domain.FieldLineItems) || o.LineItems == nil || len(o.LineItems) != 0 {
					return errors.New("expected lineItems: []")
				}
				if adapter.FindCompatibilityIssues(o).HasKind(domain.IssueItemsOmitted) {
					return errors.New("empty lineItems reported as omitted")
				}
				return nil
			},
		},
		{
			ID:          "RT-007",
			Category:    CategoryAdapter,
			Severity:    domain.SeverityHigh,
			Description: "Adapter provides items:[] when v2 omits lineItems",
			Run: func(fx *fixtures) error {
				for _, requested := range []bool{false, true} {
					v1 := adapter.MapToLegacy(fx.WithoutItems.Order, requested)
					if v1.Items == nil || len(v1.Items) != 0 {
						return fmt.Errorf("items=%v (requested=%v), want []", v1.Items, requested)
					}
				}
				return nil
			},
		},
		{
			ID:          "RT-008",
			Category:    CategoryAdapter,
			Severity:    domain.SeverityHigh,
			Description: "Adapter transforms lineItems to items with correct field names",
			Run: func(fx *fixtures) error {
				v1 := adapter.LegacyJSON(adapter.MapToLegacy(fx.WithItems.Order, true))
				items, _ := v1[domain.FieldItems].([]any)
				if len(items) == 0 {
					return errors.New("no items mapped")
				}
				first, _ := items[0].(map[string]any)
				if first["productName"] != "Laptop" || first["qty"] != 1.0 {
					return fmt.Errorf("items[0]=%v, want productName=Laptop qty=1", first)
				}
				return nil
			},
		},
		enumCheck("RT-009", "PAID", "PAID", domain.SeverityCritical, "PAID state maps correctly"),
		enumCheck("RT-010", "CANCELLED", "CANCELLED", domain.SeverityCritical, "CANCELLED state maps correctly"),
		enumCheck("RT-011", "SHIPPED", "SHIPPED", domain.SeverityCritical, "SHIPPED state maps correctly"),
		enumCheck("RT-012", "FULFILLED", domain.StateUnknown, domain.SeverityCritical, "New FULFILLED state mapped to fallback (UNKNOWN)"),
		enumCheck("RT-013", "UNKNOWN_STATE", domain.StateUnknown, domain.SeverityHigh, "Unknown state value handled with fallback"),
		{
			ID:          "RT-014",
			Category:    CategoryAnalytics,
			Severity:    domain.SeverityCritical,
			Description: "Analytics: totalPrice field available and correct for revenue sum",
			Run: func(fx *fixtures) error {
				v1 := adapter.MapToLegacy(fx.WithItems.Order, true)
				if v1.TotalPrice == nil || *v1.TotalPrice != 199.99 {
					return fmt.Errorf("totalPrice=%s, want 199.99", numString(v1.TotalPrice))
				}
				return nil
			},
		},
		{
			ID:          "RT-015",
			Category:    CategoryAnalytics,
			Severity:    domain.SeverityCritical,
			Description: "Analytics: Status distribution aggregation works",
			Run: func(fx *fixtures) error {
				counts := map[string]int{}
				for _, o := range []domain.OrderV2{fx.WithItems.Order, fx.WithoutItems.Order} {
					v1 := adapter.MapToLegacy(o, true)
					counts[strString(v1.Status)]++
				}
				if counts["PAID"] != 2 {
					return fmt.Errorf("status counts=%v, want PAID=2", counts)
				}
				return nil
			},
		},
		{
			ID:          "RT-016",
			Category:    CategoryAnalytics,
			Severity:    domain.SeverityCritical,
			Description: "Analytics: handles missing lineItems with empty array fallback",
			Run: func(fx *fixtures) error {
				v1 := adapter.LegacyJSON(adapter.MapToLegacy(fx.WithoutItems.Order, false))
				if _, ok := v1[domain.FieldItems].([]any); !ok {
					return fmt.Errorf("items=%v, want array", v1[domain.FieldItems])
				}
				return nil
			},
		},
		{
			ID:          "RT-017",
			Category:    CategoryBackwardCompat,
			Severity:    domain.SeverityCritical,
			Description: "Adapter provides v1 field contract: status, totalPrice, items",
			Run: func(fx *fixtures) error {
				v1 := adapter.MapToLegacy(fx.WithItems.Order, true)
				if v1.Status == nil || v1.TotalPrice == nil {
					return errors.New("status or totalPrice is null")
				}
				if len(v1.Items) == 0 {
					return errors.New("items not accessible")
				}
				return adapter.CheckLegacyContract(v1)
			},
		},
		{
			ID:          "RT-018",
			Category:    CategoryBackwardCompat,
			Severity:    domain.SeverityCritical,
			Description: "Legacy iteration pattern works: for item in order['items']",
			Run: func(fx *fixtures) error {
				v1 := adapter.MapToLegacy(fx.WithItems.Order, true)
				if len(v1.Items) != 2 || strString(v1.Items[0].ProductName) != "Laptop" {
					return fmt.Errorf("items=%d first=%q, want 2 starting with Laptop", len(v1.Items), firstName(v1))
				}
				return nil
			},
		},
		{
			ID:          "RT-019",
			Category:    CategoryDeprecation,
			Severity:    domain.SeverityHigh,
			Description: "v1 endpoint returns HTTP 410 Gone with deprecation signal",
			Run: func(fx *fixtures) error {
				dep, reason := deprecation.Classify(fx.Deprecated)
				if !dep || reason != deprecation.ReasonGone {
					return fmt.Errorf("classified as (%v, %q)", dep, reason)
				}
				if fx.Deprecated.Body["error"] != domain.ErrorAPIVersionDeprecated {
					return errors.New("body lacks API_VERSION_DEPRECATED")
				}
				return nil
			},
		},
		{
			ID:          "RT-020",
			Category:    CategoryDeprecation,
			Severity:    domain.SeverityCritical,
			Description: "Monitoring recognizes HTTP 410 as deprecation (not outage)",
			Run: func(fx *fixtures) error {
				if deprecation.ShouldAlert(fx.Deprecated) {
					return errors.New("monitor would alert on deprecation")
				}
				if !deprecation.ShouldAlert(domain.ResponseEnvelope{StatusCode: 500, Body: map[string]any{}}) {
					return errors.New("monitor would stay silent on a 500")
				}
				return nil
			},
		},
		{
			ID:          "RT-021",
			Category:    CategoryDataIntegrity,
			Severity:    domain.SeverityCritical,
			Description: "ETL import: new FULFILLED state mapped to UNKNOWN, record saved",
			Run: func(fx *fixtures) error {
				o := fx.Fulfilled.Order
				v1 := adapter.MapToLegacy(o, false)
				if v1.OrderID == nil {
					return errors.New("orderId lost")
				}
				if got := strString(v1.Status); got != string(domain.StateUnknown) {
					return fmt.Errorf("status=%q, want UNKNOWN", got)
				}
				if !adapter.FindCompatibilityIssues(o).Has(domain.Issue{Kind: domain.IssueUnknownState, Value: "FULFILLED"}) {
					return errors.New("UNKNOWN_STATE_VALUE(FULFILLED) not reported")
				}
				return nil
			},
		},
		{
			ID:          "RT-022",
			Category:    CategoryDataIntegrity,
			Severity:    domain.SeverityCritical,
			Description: "Adapter provides sensible defaults for missing fields",
			Run: func(fx *fixtures) error {
				return adapter.CheckLegacyKeys(adapter.LegacyJSON(adapter.MapToLegacy(fx.Minimal.Order, false)))
			},
		},
		{
			ID:          "RT-023",
			Category:    CategoryEdgeCases,
			Severity:    domain.SeverityHigh,
			Description: "Multiple items (10+) correctly mapped",
			Run: func(fx *fixtures) error {
				v1 := adapter.MapToLegacy(fx.Many.Order, true)
				if len(v1.Items) != 10 {
					return fmt.Errorf("items=%d, want 10", len(v1.Items))
				}
				for i, it := range v1.Items {
					want := fmt.Sprintf("Item-%d", i)
					if strString(it.ProductName) != want || it.Qty == nil || *it.Qty != float64(i+1) {
						return fmt.Errorf("items[%d]=%s/%s, want %s/%d", i, strString(it.ProductName), numString(it.Qty), want, i+1)
					}
				}
				return nil
			},
		},
		{
			ID:          "RT-024",
			Category:    CategoryEdgeCases,
			Severity:    domain.SeverityMedium,
			Description: "Zero amount correctly mapped to totalPrice",
			Run: func(fx *fixtures) error {
				v1 := adapter.MapToLegacy(fx.Zero.Order, false)
				if v1.TotalPrice == nil || *v1.TotalPrice != 0 {
					return fmt.Errorf("totalPrice=%s, want 0", numString(v1.TotalPrice))
				}
				return nil
			},
		},
		{
			ID:          "RT-025",
			Category:    CategoryEdgeCases,
			Severity:    domain.SeverityHigh,
			Description: "Adapter handles null field values gracefully",
			Run: func(fx *fixtures) error {
				v1 := adapter.MapToLegacy(fx.Nulls.Order, false)
				if v1.Status != nil || v1.TotalPrice != nil {
					return fmt.Errorf("status=%s totalPrice=%s, want null", strString(v1.Status), numString(v1.TotalPrice))
				}
				return adapter.CheckLegacyKeys(adapter.LegacyJSON(v1))
			},
		},
	}
}

func enumCheck(id, state string, want domain.LegacyState, sev domain.Severity, desc string) Check {
	return Check{
		ID:          id,
		Category:    CategoryEnumMapping,
		Severity:    sev,
		Description: desc,
		Run: func(*fixtures) error {
			v1 := adapter.MapToLegacy(domain.OrderV2{State: domain.Str(state)}, false)
			if got := strString(v1.Status); got != string(want) {
				return fmt.Errorf("state %s mapped to %q, want %q", state, got, want)
			}
			return nil
		},
	}
}

func requireIssue(o domain.OrderV2, k domain.IssueKind) error {
	if !adapter.FindCompatibilityIssues(o).HasKind(k) {
		return fmt.Errorf("issue %s not detected", k)
	}
	return nil
}

func firstName(v1 domain.OrderV1) string {
	if len(v1.Items) == 0 {
		return ""
	}
	return strString(v1.Items[0].ProductName)
}

func strString(p *string) string {
	if p == nil {
		return "<null>"
	}
	return *p
}

func numString(p *float64) string {
	if p == nil {
		return "<null>"
	}
	return fmt.Sprintf("%g", *p)
}
