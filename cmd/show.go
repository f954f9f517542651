package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

type showCmd struct {
	section string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the holdings with their profit or loss" }
func (*showCmd) Usage() string {
	return `cryptofolio show [-s <section>]

  Displays every entry of every section valued at current prices, followed by
  the section's totals. Use -s to display a single section.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.section, "s", "", "Display only this section")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := bootstrap(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.store.Close()

	v, err := a.view(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.section != "" {
		i := slices.IndexFunc(v.Sections, func(s cryptofolio.SectionView) bool { return s.Name == c.section })
		if i < 0 {
			fmt.Fprintf(os.Stderr, "Error: %v %q\n", cryptofolio.ErrUnknownSection, c.section)
			return subcommands.ExitUsageError
		}
		v.Sections = v.Sections[i : i+1]
	}

	printMarkdown(renderer.Markdown(v))
	return subcommands.ExitSuccess
}
