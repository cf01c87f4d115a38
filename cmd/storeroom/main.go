// Package main provides the storeroom CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/storeroom/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
