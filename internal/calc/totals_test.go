package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTotalsScenario(t *testing.T) {
	items := []Line{
		{Quantity: dec("2"), Rate: dec("50")},
		{Quantity: dec("1"), Rate: dec("30")},
	}

	got := Totals(items, dec("10"), dec("5"))

	assert.True(t, got.Subtotal.Equal(dec("130")), "subtotal = %s", got.Subtotal)
	assert.True(t, got.TaxTotal.Equal(dec("13")), "taxTotal = %s", got.TaxTotal)
	assert.True(t, got.Total.Equal(dec("138")), "total = %s", got.Total)
}

func TestTotalsIdempotent(t *testing.T) {
	items := []Line{
		{Quantity: dec("3.5"), Rate: dec("19.99")},
		{Quantity: dec("1"), Rate: dec("-12.5")},
	}

	first := Totals(items, dec("7.5"), dec("2.25"))
	second := Totals(items, dec("7.5"), dec("2.25"))

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.TaxTotal.Equal(second.TaxTotal))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestTotalsDerivationInvariants(t *testing.T) {
	items := []Line{
		{Quantity: dec("2"), Rate: dec("10.5")},
		{Quantity: dec("4"), Rate: dec("0.25")},
		{Quantity: dec("0"), Rate: dec("99")},
	}
	taxRate := dec("8")
	discount := dec("1.5")

	got := Totals(items, taxRate, discount)

	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Quantity.Mul(it.Rate))
	}
	require.True(t, got.Subtotal.Equal(sum))
	require.True(t, got.TaxTotal.Equal(sum.Mul(taxRate).Div(dec("100"))))
	require.True(t, got.Total.Equal(got.Subtotal.Add(got.TaxTotal).Sub(discount)))
}

func TestTotalsEmptyItems(t *testing.T) {
	got := Totals(nil, dec("10"), dec("25"))

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.TaxTotal.IsZero())
	assert.True(t, got.Total.Equal(dec("-25")), "total = %s", got.Total)
}

func TestTotalsNoNegativeClamping(t *testing.T) {
	items := []Line{{Quantity: dec("1"), Rate: dec("10")}}

	got := Totals(items, dec("0"), dec("50"))

	assert.True(t, got.Total.Equal(dec("-40")), "total = %s", got.Total)
}

func TestTotalsNegativeRateCredit(t *testing.T) {
	items := []Line{
		{Quantity: dec("1"), Rate: dec("100")},
		{Quantity: dec("1"), Rate: dec("-30")}, // credit line
	}

	got := Totals(items, dec("10"), dec("0"))

	assert.True(t, got.Subtotal.Equal(dec("70")))
	assert.True(t, got.Total.Equal(dec("77")))
}

func TestApplyPatchRederivesTotal(t *testing.T) {
	item := Item{Description: "Consulting", Quantity: dec("2"), Rate: dec("50"), Total: dec("100")}

	qty := dec("3")
	item = ApplyPatch(item, ItemPatch{Quantity: &qty})
	require.True(t, item.Total.Equal(dec("150")), "total after quantity patch = %s", item.Total)

	rate := dec("40")
	item = ApplyPatch(item, ItemPatch{Rate: &rate})
	require.True(t, item.Total.Equal(dec("120")), "total after rate patch = %s", item.Total)

	desc := "Consulting (revised)"
	item = ApplyPatch(item, ItemPatch{Description: &desc})
	assert.Equal(t, "Consulting (revised)", item.Description)
	// description-only patch still leaves the invariant intact
	require.True(t, item.Total.Equal(item.Quantity.Mul(item.Rate)))
}
