// Command research-assistant indexes research papers and answers questions about them.
package main

import (
	"os"

	"github.com/custodia-labs/research-assistant/internal/adapters/driving/cli"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
