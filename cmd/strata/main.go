// Command strata is a thin CLI front-end over the strata store: set,
// get, and rm subcommands operating on a database directory. It is
// documented as an external collaborator, not part of the store's core
// contract — callers embedding strata as a library never need it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/stratadb/strata"
	"github.com/stratadb/strata/pkg/errors"
	"github.com/stratadb/strata/pkg/options"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	dataDir := flag.String("dir", options.DefaultDataDir, "path to the strata database directory")
	flag.CommandLine.Parse(os.Args[2:])

	ctx := context.Background()
	store, err := strata.Open(ctx, "strata-cli", options.WithDataDir(*dataDir))
	if err != nil {
		fail(err)
	}
	defer store.Close()

	switch os.Args[1] {
	case "set":
		runSet(ctx, store, flag.Args())
	case "get":
		runGet(ctx, store, flag.Args())
	case "rm":
		runRemove(ctx, store, flag.Args())
	default:
		usage()
		os.Exit(2)
	}
}

func runSet(ctx context.Context, store *strata.Store, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: strata set <key> <value>")
		os.Exit(2)
	}
	if err := store.Set(ctx, args[0], args[1]); err != nil {
		fail(err)
	}
}

func runGet(ctx context.Context, store *strata.Store, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: strata get <key>")
		os.Exit(2)
	}
	value, ok, err := store.Get(ctx, args[0])
	if err != nil {
		fail(err)
	}
	if !ok {
		fmt.Println("Key not found")
		return
	}
	fmt.Println(value)
}

func runRemove(ctx context.Context, store *strata.Store, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: strata rm <key>")
		os.Exit(2)
	}
	if err := store.Remove(ctx, args[0]); err != nil {
		if errors.IsKeyNotFound(err) {
			fmt.Println("Key not found")
			os.Exit(1)
		}
		fail(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: strata <set|get|rm> [-dir path] ...")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "strata:", err)
	os.Exit(1)
}
