package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type coinsCmd struct{}

func (*coinsCmd) Name() string     { return "coins" }
func (*coinsCmd) Synopsis() string { return "list the supported coins" }
func (*coinsCmd) Usage() string {
	return `cryptofolio coins

  Lists the supported coins: the key to use with 'add -coin', the display
  name, the price provider identifier and the fallback price.
`
}

func (*coinsCmd) SetFlags(f *flag.FlagSet) {}

func (*coinsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Coins(cryptofolio.Coins(), cfg.Currency))
	return subcommands.ExitSuccess
}
