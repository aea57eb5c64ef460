package docparse

import (
	"github.com/shopspring/decimal"

	"github.com/procureflow/procurement_app/internal/core/domain"
)

// matchTolerance is the absolute difference a receipt may deviate from the
// purchase order total and still count as matching.
var matchTolerance = decimal.RequireFromString("1.00")

func parseTotal(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return total
}

// Reconcile compares a receipt total against a purchase order total. Either
// total may be an empty or unparseable string, in which case it counts as
// zero.
func Reconcile(poTotal, receiptTotal string) domain.ReconciliationResult {
	po := parseTotal(poTotal)
	receipt := parseTotal(receiptTotal)
	difference := receipt.Sub(po)
	return domain.ReconciliationResult{
		POTotal:      po,
		ReceiptTotal: receipt,
		Difference:   difference,
		Matches:      difference.Abs().LessThanOrEqual(matchTolerance),
	}
}
