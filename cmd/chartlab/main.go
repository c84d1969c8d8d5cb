package main

import (
	"os"

	"github.com/rustyeddy/chartlab/cmd/chartlab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
