// Package cmd implements the CLI application to track crypto holdings.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/etnz/cryptofolio"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&coinsCmd{}, "prices")
	c.Register(&pricesCmd{}, "prices")

	c.Register(&addCmd{}, "holdings")
	c.Register(&showCmd{}, "holdings")
	c.Register(&serveCmd{}, "holdings")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "cryptofolio.yaml", "Path to the configuration file (YAML). A missing file means default settings.")
	currency   = flag.String("currency", "", "Display currency, overrides the configuration (default EUR)")
	storage    = flag.String("storage", "", "Storage backend (file, memory, redis), overrides the configuration")
	dataFile   = flag.String("data-file", "", "Path to the holdings file of the file storage, overrides the configuration")
)

// LoadConfig returns the configuration from the config file, the environment and the global flags.
func LoadConfig() (cryptofolio.Config, error) {
	cfg, err := cryptofolio.LoadConfig(*configFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, configuration %q does not exist, using default settings", *configFile)
		err = nil
	}
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.Getenv)
	if *currency != "" {
		cfg.Currency = *currency
	}
	if *storage != "" {
		cfg.Storage.Backend = *storage
	}
	if *dataFile != "" {
		cfg.Storage.Path = *dataFile
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// OpenStore opens the holdings store described by cfg.
func OpenStore(cfg cryptofolio.Config) (*cryptofolio.Store, error) {
	kv, err := cfg.Storage.OpenKV()
	if err != nil {
		return nil, err
	}
	return cryptofolio.NewStore(kv, cfg.Storage.Key), nil
}

// FetchPrices fetches the prices of all coins once. It never fails: the
// fallback prices are returned when the price service cannot be used.
func FetchPrices(ctx context.Context, cfg cryptofolio.Config) cryptofolio.PriceTable {
	client := cryptofolio.NewHTTPClient(cfg.Prices.Timeout, cfg.Prices.CacheTTL)
	return cryptofolio.NewPriceFetcher(cfg.Prices.BaseURL, cfg.Currency, client).Fetch(ctx)
}

// app is everything a command needs once bootstrapped.
type app struct {
	cfg        cryptofolio.Config
	prices     cryptofolio.PriceTable
	store      *cryptofolio.Store
	controller *cryptofolio.Controller
}

// bootstrap loads the configuration, fetches the prices, then binds the
// controller to the store: prices are known before any entry is submitted or rendered.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	prices := FetchPrices(ctx, cfg)
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:        cfg,
		prices:     prices,
		store:      store,
		controller: cryptofolio.NewController(store, cfg.Sections),
	}, nil
}

// view loads the holdings and values them. A corrupt document is shown empty with a warning.
func (a *app) view(ctx context.Context) (cryptofolio.View, error) {
	doc, err := a.store.Load(ctx)
	var corrupt *cryptofolio.CorruptError
	if errors.As(err, &corrupt) {
		log.Printf("warning, %v; showing empty holdings, the stored content is left untouched", err)
		err = nil
	}
	if err != nil {
		return cryptofolio.View{}, err
	}
	return cryptofolio.Compute(doc, a.prices, a.cfg.Sections), nil
}
