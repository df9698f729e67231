// Package pricing computes line-item amounts and their tax decomposition.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned when a price, quantity or night count is out of range.
var ErrInvalidInput = errors.New("invalid input")

// Fixed business parameters of the IGV decomposition: a taxed amount embeds a
// 10% component that is removed to reach the net sale value, on which the 18%
// tax is reapplied.
var (
	taxedNetDivisor  = decimal.NewFromFloat(1.10)
	taxedGrossFactor = decimal.NewFromFloat(1.28)
)

// Breakdown carries the amounts derived from a line item's base price.
// For untaxed items net sale and final total both equal the base amount.
type Breakdown struct {
	Base    decimal.Decimal
	NetSale decimal.Decimal
	Total   decimal.Decimal
	Taxed   bool
}

// TaxBreakdown decomposes a base amount according to its tax treatment.
func TaxBreakdown(base decimal.Decimal, taxed bool) Breakdown {
	if !taxed {
		return Breakdown{Base: base, NetSale: base, Total: base}
	}
	net := base.Div(taxedNetDivisor)
	return Breakdown{
		Base:    base,
		NetSale: net,
		Total:   net.Mul(taxedGrossFactor),
		Taxed:   true,
	}
}

// PriceRoom prices a room block. Accommodation always multiplies by nights.
func PriceRoom(unit decimal.Decimal, qty, nights int, taxed bool) (Breakdown, error) {
	if unit.IsNegative() {
		return Breakdown{}, fmt.Errorf("negative unit price: %w", ErrInvalidInput)
	}
	if qty < 1 {
		return Breakdown{}, fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	if nights < 1 {
		return Breakdown{}, fmt.Errorf("nights must be positive: %w", ErrInvalidInput)
	}
	base := unit.Mul(decimal.NewFromInt(int64(qty))).Mul(decimal.NewFromInt(int64(nights)))
	return TaxBreakdown(base, taxed), nil
}

// PriceService prices a per-occurrence service. Stay length never factors in,
// and services are always untaxed.
func PriceService(unit decimal.Decimal, qty int) (Breakdown, error) {
	if unit.IsNegative() {
		return Breakdown{}, fmt.Errorf("negative unit price: %w", ErrInvalidInput)
	}
	if qty < 1 {
		return Breakdown{}, fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	base := unit.Mul(decimal.NewFromInt(int64(qty)))
	return TaxBreakdown(base, false), nil
}
