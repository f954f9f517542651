package cryptofolio

import (
	"context"

	"github.com/shopspring/decimal"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// prices is a helper for test to create an EUR live price table.
func prices(p map[string]float64) PriceTable {
	m := make(map[string]decimal.Decimal, len(p))
	for k, v := range p {
		m[k] = decimal.NewFromFloat(v)
	}
	return NewPriceTable("EUR", Live, m)
}

// newMemoryStore is a helper for test to create a store in memory.
func newMemoryStore() *Store { return NewStore(new(MemoryKV), "") }

// mustLoad is a helper for test that fails on any load error.
func mustLoad(s *Store) Document {
	doc, err := s.Load(context.Background())
	if err != nil {
		panic(err)
	}
	return doc
}
