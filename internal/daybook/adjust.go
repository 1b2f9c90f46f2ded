package daybook

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hisab-dev/hisab/internal/model"
)

// Adjustment is the outcome of comparing recorded against actual cash.
type Adjustment struct {
	Difference decimal.Decimal

	// Txn is the correcting transaction, or nil when the balances already
	// match.
	Txn *model.Transaction
}

// Balanced reports whether no correction was needed.
func (a Adjustment) Balanced() bool {
	return a.Txn == nil
}

// ComputeAdjustment compares the recorded balance against the cash actually
// counted and synthesizes a correcting transaction: a Receipt (capital
// injection) when actual exceeds recorded, a Drawing (cash correction) when
// it falls short.
//
// The transaction is dated exactly one calendar day before reconcileDate.
// Once persisted it lands in the prior day's totals and therefore moves the
// opening balance of the target date instead of appearing in its own
// transaction list. Shifting by any other number of days breaks that.
func ComputeAdjustment(recorded, actual decimal.Decimal, reconcileDate time.Time) (Adjustment, error) {
	if reconcileDate.IsZero() {
		return Adjustment{}, ValidationError{Field: "reconcileDate", Reason: "must be set"}
	}

	diff := actual.Sub(recorded)
	if diff.IsZero() {
		return Adjustment{Difference: decimal.Zero}, nil
	}

	txnType := model.TypeReceipt
	notes := "Capital Injection"
	if diff.IsNegative() {
		txnType = model.TypeDrawing
		notes = "Cash Correction"
	}

	txn := &model.Transaction{
		Date:        reconcileDate.AddDate(0, 0, -1),
		Type:        txnType,
		Amount:      diff.Abs(),
		PaymentMode: "Cash",
		Notes:       fmt.Sprintf("Opening Balance Adjustment - Set to %s (%s)", actual.StringFixed(2), notes),
	}
	return Adjustment{Difference: diff, Txn: txn}, nil
}
