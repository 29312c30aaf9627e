package main

import (
	"os"

	"github.com/rtlsmith/rtlsmith/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
