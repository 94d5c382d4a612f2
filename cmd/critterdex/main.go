package main

import (
	"os"

	"tableflip.dev/critterdex/pkg/commands"
	"tableflip.dev/critterdex/pkg/log"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		log.Error("error during command execution", err)
		os.Exit(1)
	}
}
