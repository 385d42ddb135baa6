// Package main provides the entry point for the genequery CLI.
package main

import (
	"os"

	"github.com/biosearch/genequery/cmd/genequery/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
