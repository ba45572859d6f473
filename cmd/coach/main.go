package main

import (
	"os"

	"github.com/canton09/aisales/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
