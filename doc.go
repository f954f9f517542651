// Package cryptofolio provides the types and functions to track a personal
// crypto-currency portfolio split across a few brokerage accounts. It is
// designed to be local-first: holdings are kept in a single JSON document
// under the user's control, and prices are fetched once from a public quote
// API with a static fallback.
//
// The core functionalities include:
//   - Coin Registry: the closed list of supported coins, with their display
//     name, price provider identifier and fallback price.
//   - Price Fetching: a single request to the quote API turned into a
//     PriceTable, replaced wholesale by the fallback table on any failure.
//   - Holdings Store: loading, saving and appending entries to the holdings
//     Document through a pluggable key-value backend (file, memory, Redis).
//   - Entry Submission: the Controller validates raw user input and appends
//     the resulting Entry.
//   - Valuation: Compute turns a Document and a PriceTable into a View, the
//     per-entry and per-section profit and loss that surfaces render.
//
// This package serves as the foundational logic for the `cryptofolio`
// command-line tool and its local web page.
package cryptofolio
