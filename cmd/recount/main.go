package main

import (
	"os"

	"github.com/recount-dev/recount/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
