package main

import (
	"os"

	"github.com/parisxmas/materai/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
