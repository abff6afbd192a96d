package main

import (
	"os"

	"github.com/pixil98/go-coop/cmd/coopctl/command"
)

func main() {
	if err := command.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
