// Package tax computes GST decomposition for invoice line items.
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PricingMode says whether a quoted unit price already contains GST.
type PricingMode string

const (
	PricingInclusive PricingMode = "inclusive"
	PricingExclusive PricingMode = "exclusive"
)

// ValidationError describes a rejected numeric input. Inputs are never
// clamped; a bad value fails the whole computation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// LineResult is the GST decomposition of one line item. All three fields
// are rounded to 2 decimal places independently.
type LineResult struct {
	TaxableValue decimal.Decimal
	TaxAmount    decimal.Decimal
	LineTotal    decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// ComputeLine converts quantity, unit price and GST rate into taxable
// value, tax amount and line total.
//
// Exclusive mode treats quantity*price as the pre-tax value and adds GST on
// top. Inclusive mode treats it as the final total and carves GST out of
// it; the tax amount is derived from the unrounded taxable value so the
// decomposition does not drift.
func ComputeLine(quantity int, unitPrice, ratePct decimal.Decimal, mode PricingMode) (LineResult, error) {
	if quantity < 0 {
		return LineResult{}, ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if unitPrice.IsNegative() {
		return LineResult{}, ValidationError{Field: "unitPrice", Reason: "must not be negative"}
	}
	if ratePct.IsNegative() || ratePct.GreaterThan(hundred) {
		return LineResult{}, ValidationError{Field: "ratePct", Reason: "must be in [0, 100]"}
	}

	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	switch mode {
	case PricingExclusive:
		taxable := subtotal.Round(2)
		tax := subtotal.Mul(ratePct).Div(hundred).Round(2)
		return LineResult{
			TaxableValue: taxable,
			TaxAmount:    tax,
			LineTotal:    taxable.Add(tax).Round(2),
		}, nil
	case PricingInclusive:
		// subtotal is the tax-inclusive total: total = taxable * (1 + r/100).
		divisor := hundred.Add(ratePct).Div(hundred)
		taxableRaw := subtotal.Div(divisor)
		return LineResult{
			TaxableValue: taxableRaw.Round(2),
			TaxAmount:    subtotal.Sub(taxableRaw).Round(2),
			LineTotal:    subtotal.Round(2),
		}, nil
	default:
		return LineResult{}, ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown pricing mode %q", mode)}
	}
}

// InvoiceSummary is the invoice-level roll-up of computed lines.
type InvoiceSummary struct {
	TotalTaxable decimal.Decimal
	TotalTax     decimal.Decimal
	GrandTotal   decimal.Decimal
}

// Summarize sums already-rounded line results. The grand total always
// equals the visible sum of line totals; it is not re-derived from raw
// amounts, so displayed rows and the footer can never disagree.
func Summarize(lines []LineResult) InvoiceSummary {
	sum := InvoiceSummary{
		TotalTaxable: decimal.Zero,
		TotalTax:     decimal.Zero,
		GrandTotal:   decimal.Zero,
	}
	for _, l := range lines {
		sum.TotalTaxable = sum.TotalTaxable.Add(l.TaxableValue)
		sum.TotalTax = sum.TotalTax.Add(l.TaxAmount)
		sum.GrandTotal = sum.GrandTotal.Add(l.LineTotal)
	}
	return sum
}
