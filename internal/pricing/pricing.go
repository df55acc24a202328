// Package pricing computes shipping costs and order totals. It is pure: no
// storage, no provider calls.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidItem = errors.New("invalid line item")

// Flat rates per shipping zone.
var (
	rateUSA           = decimal.NewFromFloat(10.00)
	rateCanada        = decimal.NewFromFloat(15.00)
	rateInternational = decimal.NewFromFloat(20.00)
)

var usaAliases = map[string]bool{
	"USA": true, "UNITED STATES": true, "US": true, "UNITED STATES OF AMERICA": true,
}

var canadaAliases = map[string]bool{
	"CANADA": true, "CA": true,
}

// LineItem is one purchased line as the pricing engine sees it.
type LineItem struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ShippingCost maps a country (ISO 2-letter code or name, any case) to a flat
// rate. Unknown countries fall back to the international rate.
func ShippingCost(country string) decimal.Decimal {
	c := strings.ToUpper(strings.TrimSpace(country))
	switch {
	case usaAliases[c]:
		return rateUSA
	case canadaAliases[c]:
		return rateCanada
	default:
		return rateInternational
	}
}

// ComputeTotals sums the line items and adds shipping for the destination
// country. Tax is fixed at zero (no-tax policy for international orders).
func ComputeTotals(items []LineItem, country string) (Totals, error) {
	subtotal := decimal.Zero
	for i, it := range items {
		if it.Quantity < 0 {
			return Totals{}, fmt.Errorf("%w: item %d has negative quantity %d", ErrInvalidItem, i, it.Quantity)
		}
		if it.UnitPrice.IsNegative() {
			return Totals{}, fmt.Errorf("%w: item %d has negative price %s", ErrInvalidItem, i, it.UnitPrice)
		}
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	shipping := ShippingCost(country)
	tax := decimal.Zero
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}, nil
}

// Zone describes one shipping zone for the storefront UI.
type Zone struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Cost         decimal.Decimal `json:"cost"`
	DeliveryTime string          `json:"delivery_time"`
}

// Zones returns the available shipping zones and their costs.
func Zones() []Zone {
	return []Zone{
		{Code: "usa", Name: "United States", Cost: rateUSA, DeliveryTime: "3-5 business days"},
		{Code: "canada", Name: "Canada", Cost: rateCanada, DeliveryTime: "5-7 business days"},
		{Code: "international", Name: "International", Cost: rateInternational, DeliveryTime: "7-14 business days"},
	}
}
