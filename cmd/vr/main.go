// Package main is the entry point for the visitor register CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/evcraddock/visitor-register/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
