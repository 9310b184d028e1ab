package adapter

import (
	"log/slog"

	"github.com/aalvaropc/ordercompat/internal/domain"
)

// Result bundles the mapped order with the issues found on its source.
type Result struct {
	Legacy domain.OrderV1
	Issues domain.IssueSet
}

// Adapter wraps the pure mapping functions with diagnostic logging for
// harnesses (mock server, probes) that want a trace of fallbacks.
type Adapter struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Adapter{log: log}
}

func (a *Adapter) Adapt(order domain.OrderV2, itemsWereRequested bool) Result {
	res := Result{
		Legacy: MapToLegacy(order, itemsWereRequested),
		Issues: FindCompatibilityIssues(order),
	}

	if res.Issues.HasKind(domain.IssueUnknownState) {
		a.log.Debug("state mapped to fallback",
			"order_id", deref(order.OrderID),
			"state", deref(order.State),
			"fallback", string(domain.StateUnknown),
		)
	}
	if itemsWereRequested && res.Issues.HasKind(domain.IssueItemsOmitted) {
		a.log.Debug("items requested but not returned", "order_id", deref(order.OrderID))
	}
	return res
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
