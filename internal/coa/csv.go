package coa

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hisab-dev/hisab/internal/model"
)

// Header is the CSV header for chart-of-accounts.csv. Every row carries an
// explicit kind tag; a group row is never told apart from a ledger row by
// which columns happen to be empty.
const Header = "kind,id,name,nature,parent_id,group_id,opening_balance,opening_side,current_balance,current_side,gst_number,pan_number,mobile,email,address,description,is_system"

const (
	numFields      = 17
	colKind        = 0
	colID          = 1
	colName        = 2
	colNature      = 3
	colParentID    = 4
	colGroupID     = 5
	colOpening     = 6
	colOpeningSide = 7
	colCurrent     = 8
	colCurrentSide = 9
	colGST         = 10
	colPAN         = 11
	colMobile      = 12
	colEmail       = 13
	colAddress     = 14
	colDesc        = 15
	colSystem      = 16
)

// ReadTree reads chart-of-accounts.csv and rebuilds the tree. Rows are
// inserted in file order, so a file whose rows violate the invariants is
// rejected with the same errors a live insert would produce.
func ReadTree(r io.Reader) (*Tree, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chart CSV: %w", err)
	}

	t := NewTree()
	if len(records) == 0 {
		return t, nil
	}

	for i, rec := range records[1:] {
		switch rec[colKind] {
		case string(KindGroup):
			g, err := unmarshalGroup(rec)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			if err := t.InsertGroup(g); err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
		case string(KindLedger):
			l, err := unmarshalLedger(rec)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			if err := t.InsertLedger(l); err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
		default:
			return nil, fmt.Errorf("row %d: unknown node kind %q", i+2, rec[colKind])
		}
	}
	return t, nil
}

// WriteTree writes the chart in walk order, so parents always precede
// children and ReadTree can replay the rows as inserts.
func WriteTree(w io.Writer, t *Tree) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	err := t.Walk(func(n Node) error {
		var row []string
		switch n.Kind {
		case KindGroup:
			row = marshalGroup(n.Group)
		case KindLedger:
			row = marshalLedger(n.Ledger)
		}
		return cw.Write(row)
	})
	if err != nil {
		return fmt.Errorf("writing chart rows: %w", err)
	}
	return cw.Error()
}

// Load reads chart-of-accounts.csv from a books root.
func Load(booksRoot string) (*Tree, error) {
	path := filepath.Join(booksRoot, "accounts", "chart-of-accounts.csv")
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultTree(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	t, err := ReadTree(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return t, nil
}

// Save writes the chart to <booksRoot>/accounts/chart-of-accounts.csv.
func Save(booksRoot string, t *Tree) error {
	dir := filepath.Join(booksRoot, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	path := filepath.Join(dir, "chart-of-accounts.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteTree(f, t); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}

func marshalGroup(g model.Group) []string {
	row := make([]string, numFields)
	row[colKind] = string(KindGroup)
	row[colID] = g.ID
	row[colName] = g.Name
	row[colNature] = string(g.Nature)
	row[colParentID] = g.ParentID
	row[colDesc] = g.Description
	if g.IsSystem {
		row[colSystem] = "true"
	}
	return row
}

func marshalLedger(l model.Ledger) []string {
	row := make([]string, numFields)
	row[colKind] = string(KindLedger)
	row[colID] = l.ID
	row[colName] = l.Name
	row[colGroupID] = l.GroupID
	row[colOpening] = l.OpeningBalance.Amount.StringFixed(2)
	row[colOpeningSide] = string(l.OpeningBalance.Side)
	row[colCurrent] = l.CurrentBalance.Amount.StringFixed(2)
	row[colCurrentSide] = string(l.CurrentBalance.Side)
	row[colGST] = l.GSTNumber
	row[colPAN] = l.PANNumber
	row[colMobile] = l.Mobile
	row[colEmail] = l.Email
	row[colAddress] = l.Address
	return row
}

func unmarshalGroup(rec []string) (model.Group, error) {
	return model.Group{
		ID:          rec[colID],
		Name:        rec[colName],
		Nature:      model.Nature(rec[colNature]),
		ParentID:    rec[colParentID],
		Description: rec[colDesc],
		IsSystem:    rec[colSystem] == "true",
	}, nil
}

func unmarshalLedger(rec []string) (model.Ledger, error) {
	opening, err := parseBalance(rec[colOpening], rec[colOpeningSide])
	if err != nil {
		return model.Ledger{}, fmt.Errorf("opening balance: %w", err)
	}
	current, err := parseBalance(rec[colCurrent], rec[colCurrentSide])
	if err != nil {
		return model.Ledger{}, fmt.Errorf("current balance: %w", err)
	}

	return model.Ledger{
		ID:             rec[colID],
		Name:           rec[colName],
		GroupID:        rec[colGroupID],
		OpeningBalance: opening,
		CurrentBalance: current,
		GSTNumber:      rec[colGST],
		PANNumber:      rec[colPAN],
		Mobile:         rec[colMobile],
		Email:          rec[colEmail],
		Address:        rec[colAddress],
	}, nil
}

func parseBalance(amount, side string) (model.Balance, error) {
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return model.Balance{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return model.Balance{Amount: a, Side: model.Side(side)}, nil
}
