// Package main provides the entry point for the shapley CLI.
package main

import (
	"context"
	"fmt"
	"os"

	shapleygo "github.com/felixgeelhaar/shapley-go"
	"github.com/felixgeelhaar/shapley-go/interfaces/cli"
)

func main() {
	if cli.Version == "dev" {
		cli.Version = shapleygo.GetVersion()
	}

	app := cli.New()

	if err := app.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
