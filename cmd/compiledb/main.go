// Package main is the compiledb command-line entry point.
package main

import (
	"os"

	"github.com/guansong/compiledb/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
