package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

// main is the process entry point. It is kept separate from run so tests
// can exercise run without touching os.Exit.
func main() {
	os.Exit(run(os.Args))
}

// run builds and executes the application, translating errors into the
// exit codes spec'd for the CLI: 0 on success, 1 on argument error or
// index-load failure.
func run(args []string) int {
	app := application()
	if err := app.Run(args); err != nil {
		log.Println(err)
		return 1
	}
	return 0
}

// application defines the kmerscan command line utility: the index
// subcommand builds a KLCP sibling structure from a pre-existing
// FM-index, and the match subcommand streams reads against it.
func application() *cli.App {
	return &cli.App{
		Name:  "kmerscan",
		Usage: "Exact k-mer membership lookup over an FM-indexed reference.",
		Commands: []*cli.Command{
			indexCommand(),
			matchCommand(),
		},
	}
}
