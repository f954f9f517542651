package cryptofolio

import (
	"maps"

	"github.com/shopspring/decimal"
)

// PriceSource tells where the prices of a PriceTable come from.
type PriceSource string

const (
	Live     PriceSource = "live"
	Fallback PriceSource = "fallback"
)

// PriceTable maps coin keys to their price in a display currency.
//
// A PriceTable is built wholesale, either from a successful fetch or from the
// fallback prices, and is never updated afterwards.
type PriceTable struct {
	currency string
	source   PriceSource
	prices   map[string]decimal.Decimal
}

// NewPriceTable returns a PriceTable holding a copy of prices.
func NewPriceTable(currency string, source PriceSource, prices map[string]decimal.Decimal) PriceTable {
	return PriceTable{currency: currency, source: source, prices: maps.Clone(prices)}
}

// FallbackPrices returns the static price table of all registered coins.
func FallbackPrices(currency string) PriceTable {
	prices := make(map[string]decimal.Decimal, len(coins))
	for _, c := range coins {
		prices[c.Key] = c.Fallback
	}
	return PriceTable{currency: currency, source: Fallback, prices: prices}
}

func (t PriceTable) Currency() string    { return t.currency }
func (t PriceTable) Source() PriceSource { return t.source }
func (t PriceTable) Len() int            { return len(t.prices) }

// Price returns the price of one unit of the coin.
func (t PriceTable) Price(coin string) (Money, bool) {
	p, ok := t.prices[coin]
	return M(p, t.currency), ok
}

// Equal reports whether both tables hold the same prices in the same currency.
// The source is not compared.
func (t PriceTable) Equal(o PriceTable) bool {
	return t.currency == o.currency && maps.EqualFunc(t.prices, o.prices, decimal.Decimal.Equal)
}
