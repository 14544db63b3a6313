package main

import (
	"os"

	"github.com/openkraft/bhce2gw/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
