package cashbook

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hisab-dev/hisab/internal/id"
	"github.com/hisab-dev/hisab/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	TxnID       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.TxnID, e.Description)
}

// ValidateTransactions enforces 5 invariants on a month's cashbook rows.
func ValidateTransactions(txns []model.Transaction, year, month int) []ValidationError {
	var errs []ValidationError

	for _, txn := range txns {
		// Invariant 1: Amounts are non-negative. Direction lives in the
		// type, never in the sign.
		if txn.Amount.IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   1,
				TxnID:       txn.ID,
				Description: fmt.Sprintf("amount %s is negative", txn.Amount),
			})
		}

		// Invariant 2: Exact paise — no more than 2 decimal places.
		two := decimal.NewFromInt(100)
		if !txn.Amount.Mul(two).Equal(txn.Amount.Mul(two).Floor()) {
			errs = append(errs, ValidationError{
				Invariant:   2,
				TxnID:       txn.ID,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", txn.Amount),
			})
		}

		// Invariant 3: Recognized transaction type. Unknown types may
		// arrive from collaborators at reconcile time, but are never
		// written into the books.
		if !txn.Type.Recognized() {
			errs = append(errs, ValidationError{
				Invariant:   3,
				TxnID:       txn.ID,
				Description: fmt.Sprintf("unrecognized type %q", txn.Type),
			})
		}

		// Invariant 4: Date within the file's month.
		if txn.Date.Year() != year || int(txn.Date.Month()) != month {
			errs = append(errs, ValidationError{
				Invariant:   4,
				TxnID:       txn.ID,
				Description: fmt.Sprintf("date %s not in %04d-%02d", txn.Date.Format("2006-01-02"), year, month),
			})
		}
	}

	// Invariant 5: IDs parse, match their row's date, and are contiguous
	// 1..N within each day.
	seqsByDay := make(map[string]map[int]bool)
	for _, txn := range txns {
		idDate, seq, err := id.ParseTxnID(txn.ID)
		if err != nil {
			errs = append(errs, ValidationError{
				Invariant:   5,
				TxnID:       txn.ID,
				Description: fmt.Sprintf("invalid transaction ID: %v", err),
			})
			continue
		}
		day := txn.Date.Format("2006-01-02")
		if idDate.Format("2006-01-02") != day {
			errs = append(errs, ValidationError{
				Invariant:   5,
				TxnID:       txn.ID,
				Description: fmt.Sprintf("ID date does not match row date %s", day),
			})
			continue
		}
		if seqsByDay[day] == nil {
			seqsByDay[day] = make(map[int]bool)
		}
		if seqsByDay[day][seq] {
			errs = append(errs, ValidationError{
				Invariant:   5,
				TxnID:       txn.ID,
				Description: fmt.Sprintf("duplicate sequence %d on %s", seq, day),
			})
			continue
		}
		seqsByDay[day][seq] = true
	}
	for day, seqs := range seqsByDay {
		for i := 1; i <= len(seqs); i++ {
			if !seqs[i] {
				errs = append(errs, ValidationError{
					Invariant:   5,
					TxnID:       fmt.Sprintf("%s seq %d", day, i),
					Description: fmt.Sprintf("missing sequence %d in 1..%d", i, len(seqs)),
				})
			}
		}
	}

	return errs
}
