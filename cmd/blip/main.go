package main

import (
	"os"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/cmd/blip/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
