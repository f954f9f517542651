// Command migrate moves the holdings document between storage backends.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/google/subcommands"
)

func main() {
	// The migrate tool needs its own set of flags, independent of the main cryptofolio tool.
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	commander := subcommands.NewCommander(flag.CommandLine, "migrate")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(&copyCmd{}, "")
	commander.Register(&checkCmd{}, "")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// --- copyCmd ---

type copyCmd struct {
	from  string
	to    string
	key   string
	force bool
}

func (*copyCmd) Name() string     { return "copy" }
func (*copyCmd) Synopsis() string { return "copies the holdings document to another storage backend" }
func (*copyCmd) Usage() string {
	return `migrate copy -from <location> -to <location> [-key <key>] [-force]

Copies the holdings document from one storage location to another, then reads
it back to verify the copy. A location is either "file:<path>" or
"redis:<host:port>[/<db>]", the redis password is read from
CRYPTOFOLIO_REDIS_PASSWORD.

A corrupt source is never copied. A destination already holding entries is
left untouched unless -force is given.
`
}
func (c *copyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "The storage location to read the holdings from.")
	f.StringVar(&c.to, "to", "", "The storage location to write the holdings to.")
	f.StringVar(&c.key, "key", cryptofolio.DefaultStorageKey, "The key of the holdings document, in both locations.")
	f.BoolVar(&c.force, "force", false, "Overwrite a destination that already holds entries.")
}

func (c *copyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" {
		fmt.Fprintln(os.Stderr, "Error: -from and -to flags are required.")
		return subcommands.ExitUsageError
	}
	if c.from == c.to {
		fmt.Fprintln(os.Stderr, "Error: -from and -to must be different locations.")
		return subcommands.ExitUsageError
	}

	src, err := openStore(c.from, c.key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening source: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer src.Close()
	dst, err := openStore(c.to, c.key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening destination: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer dst.Close()

	doc, err := src.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading source holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	existing, err := dst.Load(ctx)
	if err != nil && !c.force {
		fmt.Fprintf(os.Stderr, "Error loading destination holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(existing) > 0 && !c.force {
		fmt.Fprintln(os.Stderr, "Error: destination already holds entries, use -force to overwrite them.")
		return subcommands.ExitFailure
	}

	if err := dst.Save(ctx, doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing destination holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	copied, err := dst.Load(ctx)
	if err != nil || !copied.Equal(doc) {
		fmt.Fprintf(os.Stderr, "Error: copy could not be verified: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully copied %d entries from %s to %s\n", count(doc), c.from, c.to)
	return subcommands.ExitSuccess
}

// --- checkCmd ---

type checkCmd struct {
	in       string
	key      string
	sections string
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verifies a holdings document before or after a migration" }
func (*checkCmd) Usage() string {
	return `migrate check -in <location> [-key <key>] [-sections blox,bitvavo]

Decodes the holdings document and reports every entry that could not have been
recorded: unknown sections or coins, non positive amounts, negative prices.
`
}
func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in, "in", "", "The storage location to check.")
	f.StringVar(&c.key, "key", cryptofolio.DefaultStorageKey, "The key of the holdings document.")
	f.StringVar(&c.sections, "sections", strings.Join(cryptofolio.DefaultConfig().Sections, ","), "Comma separated list of the known sections.")
}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.in == "" {
		fmt.Fprintln(os.Stderr, "Error: -in flag is required.")
		return subcommands.ExitUsageError
	}
	store, err := openStore(c.in, c.key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening holdings: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer store.Close()

	doc, err := store.Load(ctx)
	var corrupt *cryptofolio.CorruptError
	if errors.As(err, &corrupt) {
		fmt.Fprintf(os.Stderr, "%v\nraw content:\n%s\n", err, corrupt.Raw)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := doc.Check(strings.Split(c.sections, ",")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	log.Printf("%s: %d sections, %d entries, no issue found", c.in, len(doc), count(doc))
	return subcommands.ExitSuccess
}

// --- Helper Functions ---

// openStore returns the store at location, "file:<path>" or "redis:<addr>[/<db>]".
func openStore(location, key string) (*cryptofolio.Store, error) {
	all := cryptofolio.DefaultConfig()
	all.ApplyEnv(os.Getenv)
	cfg := all.Storage
	cfg.Key = key

	backend, target, ok := strings.Cut(location, ":")
	if !ok || target == "" {
		return nil, fmt.Errorf("invalid location %q, expecting file:<path> or redis:<addr>", location)
	}
	cfg.Backend = backend
	switch backend {
	case "file":
		cfg.Path = target
	case "redis":
		addr, db, hasDB := strings.Cut(target, "/")
		cfg.RedisAddr = addr
		if hasDB {
			if _, err := fmt.Sscan(db, &cfg.RedisDB); err != nil {
				return nil, fmt.Errorf("invalid redis database in %q: %w", location, err)
			}
		}
	}

	kv, err := cfg.OpenKV()
	if err != nil {
		return nil, err
	}
	return cryptofolio.NewStore(kv, cfg.Key), nil
}

func count(doc cryptofolio.Document) (n int) {
	for _, entries := range doc {
		n += len(entries)
	}
	return
}
