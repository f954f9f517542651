package cryptofolio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrUnknownCoin    = errors.New("unknown coin")
)

// ValidationError reports a raw input that cannot become an Entry.
type ValidationError struct {
	Field  string // "amount" or "price"
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s %q %s", e.Field, e.Value, e.Reason)
}

// Controller turns raw user input into entries of the holdings document.
// Appending is the only mutation it offers.
type Controller struct {
	store    *Store
	sections []string

	// one logical writer: submissions are serialized.
	mu sync.Mutex
}

// NewController returns a controller appending to store, for the given sections.
func NewController(store *Store, sections []string) *Controller {
	return &Controller{store: store, sections: slices.Clone(sections)}
}

// Sections returns the sections accepted by SubmitEntry.
func (c *Controller) Sections() []string { return slices.Clone(c.sections) }

// SubmitEntry validates the raw input and appends the resulting entry to section.
//
// On any validation error, nothing is stored. Errors are ErrUnknownSection,
// ErrUnknownCoin or a *ValidationError, otherwise they come from the store.
func (c *Controller) SubmitEntry(ctx context.Context, section, rawCoin, rawAmount, rawPriceEach string) (Entry, error) {
	if !slices.Contains(c.sections, section) {
		return Entry{}, fmt.Errorf("%w %q", ErrUnknownSection, section)
	}
	coin, ok := LookupCoin(strings.TrimSpace(rawCoin))
	if !ok {
		return Entry{}, fmt.Errorf("%w %q", ErrUnknownCoin, rawCoin)
	}
	amount, err := parseNumber("amount", rawAmount)
	if err != nil {
		return Entry{}, err
	}
	price, err := parseNumber("price", rawPriceEach)
	if err != nil {
		return Entry{}, err
	}
	if !amount.IsPositive() {
		return Entry{}, &ValidationError{Field: "amount", Value: rawAmount, Reason: "must be positive"}
	}
	if price.IsNegative() {
		return Entry{}, &ValidationError{Field: "price", Value: rawPriceEach, Reason: "must not be negative"}
	}

	e := Entry{Coin: coin.Key, Amount: amount, PriceEach: price}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Append(ctx, section, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// parseNumber reads a plain decimal number, a single comma is accepted as the
// decimal separator. Exponent notation is refused.
func parseNumber(field, raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if len(s) > maxNumberLen {
		return decimal.Decimal{}, &ValidationError{Field: field, Value: raw, Reason: "is too long"}
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Decimal{}, &ValidationError{Field: field, Value: raw, Reason: "is not a number"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &ValidationError{Field: field, Value: raw, Reason: "is not a number"}
	}
	if !inBounds(d) {
		return decimal.Decimal{}, &ValidationError{Field: field, Value: raw, Reason: "is out of bounds"}
	}
	return d, nil
}
