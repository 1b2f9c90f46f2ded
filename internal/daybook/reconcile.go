// Package daybook replays a day's cash transactions against an opening
// balance and produces running balances, period totals, and balance
// corrections.
package daybook

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hisab-dev/hisab/internal/model"
)

// ValidationError describes a malformed numeric input. Bad values fail the
// whole reconciliation rather than being coerced.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Warning flags a transaction whose type was not recognized. The entry is
// still reconciled, conservatively as cash-out, so one bad record cannot
// block a whole day.
type Warning struct {
	TxnID string
	Type  model.TransactionType
}

func (w Warning) String() string {
	return fmt.Sprintf("transaction %s has unrecognized type %q, treated as cash-out", w.TxnID, w.Type)
}

// Entry is one reconciled transaction with its running balance.
type Entry struct {
	Txn     model.Transaction
	CashIn  bool
	Running decimal.Decimal
}

// Reconciliation is the result of replaying one day.
type Reconciliation struct {
	Opening      decimal.Decimal
	Entries      []Entry
	Closing      decimal.Decimal
	TotalCashIn  decimal.Decimal
	TotalCashOut decimal.Decimal
	Warnings     []Warning
}

// Reconcile replays txns in the given order against opening. Order is part
// of the contract: the running balance of entry i covers transactions 1..i
// as recorded, and the input is never re-sorted.
//
// The closing balance falls out of the same single pass that accumulates
// the cash-in and cash-out totals, so opening + in - out equals the last
// running balance by construction.
func Reconcile(opening decimal.Decimal, txns []model.Transaction) (Reconciliation, error) {
	rec := Reconciliation{
		Opening:      opening,
		Closing:      opening,
		TotalCashIn:  decimal.Zero,
		TotalCashOut: decimal.Zero,
	}

	running := opening
	for i, txn := range txns {
		if txn.Amount.IsNegative() {
			return Reconciliation{}, ValidationError{
				Field:  "amount",
				Reason: fmt.Sprintf("transaction %d (%s) has negative amount %s", i+1, txn.ID, txn.Amount),
			}
		}

		cashIn := txn.Type.CashIn()
		if !txn.Type.Recognized() {
			cashIn = false
			rec.Warnings = append(rec.Warnings, Warning{TxnID: txn.ID, Type: txn.Type})
		}

		if cashIn {
			rec.TotalCashIn = rec.TotalCashIn.Add(txn.Amount)
			running = running.Add(txn.Amount)
		} else {
			rec.TotalCashOut = rec.TotalCashOut.Add(txn.Amount)
			running = running.Sub(txn.Amount)
		}

		rec.Entries = append(rec.Entries, Entry{Txn: txn, CashIn: cashIn, Running: running})
	}

	rec.Closing = running
	return rec, nil
}
