package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type addCmd struct {
	section string
	coin    string
	amount  string
	price   string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a purchase in a section" }
func (*addCmd) Usage() string {
	return `cryptofolio add -s <section> -coin <coin> -amount <amount> -price <price>

  Records that <amount> coins were bought at <price> each (in the display
  currency) in the account <section>, then shows the section.

  Entries cannot be edited nor deleted afterwards.

Usage Examples:
$ cryptofolio add -s blox -coin bitcoin -amount 0.25 -price 52000
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.section, "s", "", "Section (account) of the purchase (required)")
	f.StringVar(&c.coin, "coin", "", "Coin key, see 'cryptofolio coins' (required)")
	f.StringVar(&c.amount, "amount", "", "Amount of coins bought (required)")
	f.StringVar(&c.price, "price", "", "Price paid per coin (required)")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.section == "" || c.coin == "" {
		fmt.Fprintln(os.Stderr, "Error: -s and -coin flags are required.")
		return subcommands.ExitUsageError
	}

	a, err := bootstrap(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.store.Close()

	entry, err := a.controller.SubmitEntry(ctx, c.section, c.coin, c.amount, c.price)
	var verr *cryptofolio.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, cryptofolio.ErrUnknownCoin), errors.Is(err, cryptofolio.ErrUnknownSection):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error recording the entry: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "✅ Successfully recorded %s %s in %s.\n", entry.Amount, entry.Coin, c.section)

	doc, err := a.store.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Markdown(cryptofolio.Compute(doc, a.prices, []string{c.section})))
	return subcommands.ExitSuccess
}
