// Package main is the entry point for athletics-dwh.
package main

import (
	"fmt"
	"os"

	"github.com/tracklab/athletics-dwh/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
