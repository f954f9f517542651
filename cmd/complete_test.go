package cmd

import (
	"flag"
	"testing"

	"github.com/google/subcommands"
)

func TestCompletionCoversCommands(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("cryptofolio", flag.ContinueOnError), "cryptofolio")
	Register(commander)

	comp := completion([]string{"blox", "bitvavo"})
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		sub, ok := comp.Sub[c.Name()]
		if !ok {
			t.Errorf("command %q has no completion", c.Name())
			return
		}
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		fs.VisitAll(func(f *flag.Flag) {
			if _, ok := sub.Flags[f.Name]; !ok {
				t.Errorf("flag -%s of %q has no completion", f.Name, c.Name())
			}
		})
	})
}
