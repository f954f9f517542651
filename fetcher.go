package cryptofolio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// DefaultPriceURL is the base URL of the CoinGecko public API.
const DefaultPriceURL = "https://api.coingecko.com/api/v3"

var errMalformedQuote = errors.New("malformed price quote")

// PriceFetcher retrieves the current price of every registered coin from a
// CoinGecko compatible "simple/price" endpoint.
type PriceFetcher struct {
	BaseURL  string
	Currency string
	Client   *http.Client
}

// NewPriceFetcher returns a fetcher for prices in currency.
// If client is nil, http.DefaultClient is used.
func NewPriceFetcher(baseURL, currency string, client *http.Client) *PriceFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &PriceFetcher{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		Currency: currency,
		Client:   client,
	}
}

// Fetch returns the price of every registered coin.
//
// Coins missing from the quote get their fallback price. If the request or
// the parsing of the quote fails, the whole fallback table is returned
// instead: a partial quote is never mixed with a failed one.
func (f *PriceFetcher) Fetch(ctx context.Context) PriceTable {
	table, err := f.fetch(ctx)
	if err != nil {
		log.Printf("warning, cannot fetch live prices, using fallback prices: %v", err)
		return FallbackPrices(f.Currency)
	}
	return table
}

func (f *PriceFetcher) fetch(ctx context.Context) (PriceTable, error) {
	vs := strings.ToLower(f.Currency)
	q := url.Values{}
	q.Set("ids", strings.Join(ProviderIDs(), ","))
	q.Set("vs_currencies", vs)
	addr := f.BaseURL + "/simple/price?" + q.Encode()

	var jobj any
	if err := jwget(ctx, f.Client, addr, &jobj); err != nil {
		return PriceTable{}, fmt.Errorf("error in wget %q: %w", addr, err)
	}
	if _, ok := jobj.(map[string]any); !ok {
		return PriceTable{}, fmt.Errorf("%w: expected an object got %T", errMalformedQuote, jobj)
	}

	prices := make(map[string]decimal.Decimal, len(coins))
	for _, c := range coins {
		path := fmt.Sprintf("$[%q][%q]", c.ProviderID, vs)
		jval, err := jsonpath.Get(path, jobj)
		if err != nil || jval == nil {
			// not quoted
			prices[c.Key] = c.Fallback
			continue
		}
		val, ok := jval.(float64)
		if !ok {
			return PriceTable{}, fmt.Errorf("%w: %s is not a number: %v", errMalformedQuote, path, jval)
		}
		prices[c.Key] = decimal.NewFromFloat(val)
	}
	return PriceTable{currency: f.Currency, source: Live, prices: prices}, nil
}
