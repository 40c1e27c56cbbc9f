package main

import (
	"os"

	"github.com/dianajengpr/copywritingassistant/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
