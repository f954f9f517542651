package cryptofolio

import "github.com/shopspring/decimal"

// Coin describes a supported crypto-currency.
type Coin struct {
	Key        string          `json:"key"`        // stable internal identifier, used in the holdings document
	Name       string          `json:"name"`       // display name
	ProviderID string          `json:"providerId"` // identifier of the coin at the price provider
	Fallback   decimal.Decimal `json:"fallback"`   // price used when live prices are not available
}

// The registry is closed: coins are declared here and nowhere else.
var coins = []Coin{
	{Key: "bitcoin", Name: "Bitcoin", ProviderID: "bitcoin", Fallback: decimal.NewFromInt(67000)},
	{Key: "ripple", Name: "XRP", ProviderID: "ripple", Fallback: decimal.RequireFromString("0.48")},
	{Key: "ethereum", Name: "Ethereum", ProviderID: "ethereum", Fallback: decimal.NewFromInt(3000)},
	{Key: "cardano", Name: "Cardano", ProviderID: "cardano", Fallback: decimal.RequireFromString("0.5")},
	{Key: "solana", Name: "Solana", ProviderID: "solana", Fallback: decimal.NewFromInt(140)},
	{Key: "livepeer", Name: "Livepeer", ProviderID: "livepeer", Fallback: decimal.NewFromInt(18)},
}

var coinsByKey = func() map[string]Coin {
	m := make(map[string]Coin, len(coins))
	for _, c := range coins {
		m[c.Key] = c
	}
	return m
}()

// Coins returns all supported coins in registry order.
func Coins() []Coin {
	return append([]Coin(nil), coins...)
}

// LookupCoin returns the coin registered under key.
func LookupCoin(key string) (Coin, bool) {
	c, ok := coinsByKey[key]
	return c, ok
}

// CoinKeys returns the keys of all supported coins in registry order.
func CoinKeys() []string {
	keys := make([]string, 0, len(coins))
	for _, c := range coins {
		keys = append(keys, c.Key)
	}
	return keys
}

// ProviderIDs returns the price provider identifiers of all supported coins in registry order.
func ProviderIDs() []string {
	ids := make([]string, 0, len(coins))
	for _, c := range coins {
		ids = append(ids, c.ProviderID)
	}
	return ids
}
