package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type pricesCmd struct{}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "fetch and display the current price of every coin" }
func (*pricesCmd) Usage() string {
	return `cryptofolio prices

  Fetches the current price of every supported coin in the display currency.
  When the price service cannot be used, the fallback prices are displayed
  and the source is reported as 'fallback'.
`
}

func (*pricesCmd) SetFlags(f *flag.FlagSet) {}

func (*pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Prices(FetchPrices(ctx, cfg)))
	return subcommands.ExitSuccess
}
