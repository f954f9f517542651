package cryptofolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Bounds of the numbers an entry can hold. Anything larger would make the
// document, and every computation on it, grow without limit.
const (
	maxNumberLen       = 32
	minExponent        = -18
	maxExponent        = 18
	maxCoefficientBits = 100
)

// inBounds reports whether d fits the entry number bounds.
func inBounds(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= minExponent && exp <= maxExponent && d.Coefficient().BitLen() <= maxCoefficientBits
}

// Entry is one recorded purchase: an amount of a coin bought at a unit price.
// Entries are immutable and identified by their position in their section.
type Entry struct {
	Coin      string
	Amount    decimal.Decimal
	PriceEach decimal.Decimal // price paid per unit, in the display currency
}

// NewEntry returns an entry, amount and priceEach are converted to decimals.
func NewEntry[T float64 | int | int64 | decimal.Decimal](coin string, amount, priceEach T) Entry {
	return Entry{Coin: coin, Amount: newDecimal(amount), PriceEach: newDecimal(priceEach)}
}

// Equal reports whether both entries record the same purchase.
func (e Entry) Equal(o Entry) bool {
	return e.Coin == o.Coin && e.Amount.Equal(o.Amount) && e.PriceEach.Equal(o.PriceEach)
}

type jsonEntry struct {
	Coin      string      `json:"coin"`
	Amount    json.Number `json:"amount"`
	PriceEach json.Number `json:"priceEach"`
}

// MarshalJSON writes the entry with bare JSON numbers: {"coin":"bitcoin","amount":2,"priceEach":50000}.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonEntry{
		Coin:      e.Coin,
		Amount:    json.Number(e.Amount.String()),
		PriceEach: json.Number(e.PriceEach.String()),
	})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var v struct {
		Coin      string          `json:"coin"`
		Amount    decimal.Decimal `json:"amount"`
		PriceEach decimal.Decimal `json:"priceEach"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if !inBounds(v.Amount) || !inBounds(v.PriceEach) {
		return fmt.Errorf("entry of %q holds a number out of bounds", v.Coin)
	}
	*e = Entry{Coin: v.Coin, Amount: v.Amount, PriceEach: v.PriceEach}
	return nil
}

// Document holds every entry of every section, it is the unit of persistence.
//
// A missing section is the same as a section without entries.
type Document map[string][]Entry

// Entries returns the entries of section in insertion order.
func (d Document) Entries(section string) []Entry {
	return d[section]
}

// Append returns a copy of the document with e added at the end of section.
// The receiver is left untouched.
func (d Document) Append(section string, e Entry) Document {
	n := maps.Clone(d)
	if n == nil {
		n = make(Document)
	}
	entries := make([]Entry, 0, len(d[section])+1)
	entries = append(entries, d[section]...)
	n[section] = append(entries, e)
	return n
}

// Equal reports whether both documents hold the same entries in the same order.
// Empty sections are ignored.
func (d Document) Equal(o Document) bool {
	for _, pair := range [2][2]Document{{d, o}, {o, d}} {
		for section, entries := range pair[0] {
			if !slices.EqualFunc(entries, pair[1][section], Entry.Equal) {
				return false
			}
		}
	}
	return true
}

// Check reports every entry that could not have been recorded with
// sections: unknown sections or coins, non positive amounts, negative
// prices and numbers out of bounds. It returns nil if the document is consistent.
func (d Document) Check(sections []string) error {
	var errs []error
	for _, section := range slices.Sorted(maps.Keys(d)) {
		if !slices.Contains(sections, section) {
			errs = append(errs, fmt.Errorf("%w %q", ErrUnknownSection, section))
			continue
		}
		for i, e := range d[section] {
			if _, ok := LookupCoin(e.Coin); !ok {
				errs = append(errs, fmt.Errorf("%s #%d: %w %q", section, i, ErrUnknownCoin, e.Coin))
			}
			if !e.Amount.IsPositive() {
				errs = append(errs, fmt.Errorf("%s #%d: amount %s is not positive", section, i, e.Amount))
			}
			if e.PriceEach.IsNegative() {
				errs = append(errs, fmt.Errorf("%s #%d: price %s is negative", section, i, e.PriceEach))
			}
			if !inBounds(e.Amount) || !inBounds(e.PriceEach) {
				errs = append(errs, fmt.Errorf("%s #%d: number out of bounds", section, i))
			}
		}
	}
	return errors.Join(errs...)
}
