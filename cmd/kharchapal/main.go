package main

import (
	"os"

	"kharchapal/cmd/kharchapal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
