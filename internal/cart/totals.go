package cart

import (
	"github.com/shopspring/decimal"

	"github.com/zamato/zamato/internal/models"
)

var (
	TaxRate     = decimal.NewFromFloat(0.08)
	DeliveryFee = decimal.NewFromFloat(2.99)
)

// computeTotals derives the monetary fields from the lines. Intermediate
// values stay unrounded; rounding to two decimals happens once per field
// after summation, so repeated add/update cycles cannot drift.
func computeTotals(c *models.Cart) {
	subtotal := decimal.Zero
	for _, it := range c.Items {
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	tax := subtotal.Mul(TaxRate)

	fee := decimal.Zero
	if len(c.Items) > 0 {
		fee = DeliveryFee
	}

	total := subtotal.Add(tax).Add(fee)

	c.Subtotal = subtotal.Round(2)
	c.Tax = tax.Round(2)
	c.DeliveryFee = fee
	c.Total = total.Round(2)
}
