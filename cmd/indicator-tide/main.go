// Package main is the entry point for the indicator-tide CLI.
package main

import (
	"os"

	"github.com/indicator-tide/indicator-tide/internal/cli"

	// Builtin providers register themselves.
	_ "github.com/indicator-tide/indicator-tide/internal/providers/admiralty"
	_ "github.com/indicator-tide/indicator-tide/internal/providers/noaa"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
