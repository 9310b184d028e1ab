package adapter

import "github.com/aalvaropc/ordercompat/internal/domain"

// FindCompatibilityIssues inspects the raw v2 order (not its mapped form).
func FindCompatibilityIssues(order domain.OrderV2) domain.IssueSet {
	issues := domain.NewIssueSet()

	if order.Has(domain.FieldState) && !order.Has(domain.FieldStatus) {
		issues.Add(domain.Issue{Kind: domain.IssueRenamedStatus})
	}
	if order.Has(domain.FieldAmount) && !order.Has(domain.FieldTotalPrice) {
		issues.Add(domain.Issue{Kind: domain.IssueRenamedAmount})
	}

	if order.Has(domain.FieldLineItems) {
		if !order.Has(domain.FieldItems) {
			issues.Add(domain.Issue{Kind: domain.IssueRenamedItems})
		}
	} else {
		issues.Add(domain.Issue{Kind: domain.IssueItemsOmitted})
	}

	// A present empty string is still a value legacy enum matching rejects.
	if order.State != nil && !domain.IsLegacyState(*order.State) {
		issues.Add(domain.Issue{Kind: domain.IssueUnknownState, Value: *order.State})
	}

	return issues
}
