package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a daybook entry. Direction of cash flow is
// carried by the type, never by the sign of the amount.
type TransactionType string

const (
	TypeSale     TransactionType = "Sale"
	TypeInvoice  TransactionType = "Invoice"
	TypePurchase TransactionType = "Purchase"
	TypeExpense  TransactionType = "Expense"
	TypeDrawing  TransactionType = "Drawing"
	TypeReceipt  TransactionType = "Receipt"
)

// Recognized reports whether t is one of the known transaction types.
func (t TransactionType) Recognized() bool {
	switch t {
	case TypeSale, TypeInvoice, TypePurchase, TypeExpense, TypeDrawing, TypeReceipt:
		return true
	}
	return false
}

// CashIn reports whether t brings cash in. Sale and Invoice are cash-in,
// and so is Receipt, the capital-injection entry a balance correction
// produces; every other recognized type is cash-out.
func (t TransactionType) CashIn() bool {
	return t == TypeSale || t == TypeInvoice || t == TypeReceipt
}

// Transaction is a single daybook entry. Amount is always non-negative.
type Transaction struct {
	ID          string
	Date        time.Time
	Type        TransactionType
	Amount      decimal.Decimal
	Party       string
	PaymentMode string
	Notes       string
	BillNumber  string
}
