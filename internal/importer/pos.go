package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hisab-dev/hisab/internal/model"
)

// POSParser parses daily sales exports from point-of-sale billing
// machines. Every row is a bill, so every row becomes a Sale.
type POSParser struct{}

const (
	posDateFormat = "02/01/2006"
	posNumFields  = 5
	posColDate    = 0
	posColBillNo  = 1
	posColParty   = 2
	posColMode    = 3
	posColAmount  = 4
)

// Format returns the parser name.
func (p *POSParser) Format() string { return "pos" }

// Parse reads a POS sales CSV and returns Sale transactions.
func (p *POSParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = posNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading POS CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parsePOSRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parsePOSRow(rec []string) (model.Transaction, error) {
	date, err := time.Parse(posDateFormat, rec[posColDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[posColDate], err)
	}

	amount, err := decimal.NewFromString(rec[posColAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[posColAmount], err)
	}
	if amount.IsNegative() {
		return model.Transaction{}, fmt.Errorf("amount %q: sale amount must not be negative", rec[posColAmount])
	}

	mode := rec[posColMode]
	if mode == "" {
		mode = "Cash"
	}

	return model.Transaction{
		Date:        date,
		Type:        model.TypeSale,
		Amount:      amount,
		Party:       strings.TrimSpace(rec[posColParty]),
		PaymentMode: mode,
		BillNumber:  rec[posColBillNo],
	}, nil
}
