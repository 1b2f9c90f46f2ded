package model

import "github.com/shopspring/decimal"

// Nature classifies groups in the chart of accounts.
type Nature string

const (
	NatureAssets      Nature = "Assets"
	NatureLiabilities Nature = "Liabilities"
	NatureIncome      Nature = "Income"
	NatureExpenses    Nature = "Expenses"
)

// Valid reports whether n is one of the four recognized natures.
func (n Nature) Valid() bool {
	switch n {
	case NatureAssets, NatureLiabilities, NatureIncome, NatureExpenses:
		return true
	}
	return false
}

// NaturalSide returns the balance side a group of this nature increases on:
// Dr for Assets and Expenses, Cr for Liabilities and Income.
func (n Nature) NaturalSide() Side {
	switch n {
	case NatureAssets, NatureExpenses:
		return SideDr
	default:
		return SideCr
	}
}

// Side is one of the two sides of a balance.
type Side string

const (
	SideDr Side = "Dr"
	SideCr Side = "Cr"
)

// Valid reports whether s is Dr or Cr.
func (s Side) Valid() bool {
	return s == SideDr || s == SideCr
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideDr {
		return SideCr
	}
	return SideDr
}

// Group is a branch node in the chart of accounts. A group with no
// ParentID is a primary (root) group. Sub-groups share their parent's
// nature.
type Group struct {
	ID          string
	Name        string
	Nature      Nature
	ParentID    string // empty = primary group
	IsSystem    bool
	Description string
}

// Balance is an unsigned magnitude plus the side it sits on. Amounts are
// never stored as bare signed numbers; the side carries the sign.
type Balance struct {
	Amount decimal.Decimal
	Side   Side
}

// Signed converts the balance to a signed amount relative to natural:
// positive if the balance sits on the natural side, negative otherwise.
func (b Balance) Signed(natural Side) decimal.Decimal {
	if b.Side == natural {
		return b.Amount
	}
	return b.Amount.Neg()
}

// Ledger is a leaf account under exactly one group.
type Ledger struct {
	ID             string
	Name           string
	GroupID        string
	OpeningBalance Balance
	CurrentBalance Balance

	// Optional statutory and contact fields.
	GSTNumber string
	PANNumber string
	Mobile    string
	Email     string
	Address   string
}
