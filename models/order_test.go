package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validOrder() Order {
	return Order{
		UserID:   "u1",
		Currency: "INR",
		Items: []OrderItem{
			{ProductID: "p1", UnitPriceMinor: 2599, Quantity: 2, TotalMinor: 5198},
			{ProductID: "p2", UnitPriceMinor: 100, Quantity: 1, TotalMinor: 100},
		},
		SubtotalMinor: 5298,
		ShippingMinor: 4900,
		TaxMinor:      953,
		TotalMinor:    11151,
	}
}

func TestValidateTotals(t *testing.T) {
	o := validOrder()
	assert.NoError(t, o.ValidateTotals())
}

func TestValidateTotalsRejectsEmptyOrder(t *testing.T) {
	o := validOrder()
	o.Items = nil
	assert.ErrorIs(t, o.ValidateTotals(), ErrNoItems)
}

func TestValidateTotalsRejectsMissingUser(t *testing.T) {
	o := validOrder()
	o.UserID = ""
	assert.ErrorIs(t, o.ValidateTotals(), ErrNoUser)
}

func TestValidateTotalsRejectsMissingCurrency(t *testing.T) {
	o := validOrder()
	o.Currency = ""
	assert.ErrorIs(t, o.ValidateTotals(), ErrNoCurrency)
}

func TestValidateTotalsRejectsZeroQuantity(t *testing.T) {
	o := validOrder()
	o.Items[0].Quantity = 0
	assert.ErrorIs(t, o.ValidateTotals(), ErrBadItem)
}

func TestValidateTotalsRejectsLineMismatch(t *testing.T) {
	o := validOrder()
	o.Items[0].TotalMinor = 5199 // off by one paisa
	assert.ErrorIs(t, o.ValidateTotals(), ErrBadItem)
}

func TestValidateTotalsRejectsSubtotalMismatch(t *testing.T) {
	o := validOrder()
	o.SubtotalMinor = 5000
	assert.ErrorIs(t, o.ValidateTotals(), ErrBadTotals)
}

func TestValidateTotalsRejectsGrandTotalMismatch(t *testing.T) {
	o := validOrder()
	o.TotalMinor = o.SubtotalMinor // forgot shipping and tax
	assert.ErrorIs(t, o.ValidateTotals(), ErrBadTotals)
}
