// Package main provides the leapfuzz command.
package main

import (
	"os"

	"github.com/leapstack-labs/leapfuzz/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
