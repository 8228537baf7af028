// Package calc derives invoice totals from line items. It is pure:
// every function maps inputs to outputs with no clock, storage, or
// global state, so recomputation is always safe.
package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Line is the minimal input shape for a totals computation. The
// description and id of a line item are irrelevant to the math.
type Line struct {
	Quantity decimal.Decimal
	Rate     decimal.Decimal
}

// Result carries the three derived figures of an invoice.
type Result struct {
	Subtotal decimal.Decimal
	TaxTotal decimal.Decimal
	Total    decimal.Decimal
}

// Totals computes subtotal, tax, and grand total from line items, a
// tax percentage (7.5 means 7.5%), and a flat post-tax discount.
//
// Each line total is rederived as quantity * rate; the subtotal is a
// left-to-right fold over the lines in sequence order. No rounding or
// clamping is applied: an empty item list yields a total of -discount,
// and a discount larger than subtotal + tax yields a negative total.
// Display formatting to two decimals is a presentation concern.
func Totals(items []Line, taxRate, discount decimal.Decimal) Result {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Quantity.Mul(it.Rate))
	}
	taxTotal := subtotal.Mul(taxRate).Div(hundred)
	total := subtotal.Add(taxTotal).Sub(discount)
	return Result{Subtotal: subtotal, TaxTotal: taxTotal, Total: total}
}

// LineTotal rederives a single line's total.
func LineTotal(quantity, rate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(rate)
}

// Item is an editable line item as the invoice editor sees it.
type Item struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Total       decimal.Decimal
}

// ItemPatch is a per-field update to an Item. Nil fields are left
// untouched.
type ItemPatch struct {
	Description *string
	Quantity    *decimal.Decimal
	Rate        *decimal.Decimal
}

// ApplyPatch applies a patch to an item and rederives its total, so an
// item is never observable with total != quantity * rate after an edit.
func ApplyPatch(item Item, patch ItemPatch) Item {
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.Rate != nil {
		item.Rate = *patch.Rate
	}
	item.Total = LineTotal(item.Quantity, item.Rate)
	return item
}
