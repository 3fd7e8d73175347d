package main

import (
	"os"

	"github.com/cardledger/cardledger/cmd/cardledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
