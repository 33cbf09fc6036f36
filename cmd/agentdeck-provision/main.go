// Package main provides the entry point for the AgentDeck provisioner CLI.
package main

import (
	"fmt"
	"os"

	"github.com/agentdeck/provisioner/cmd/agentdeck-provision/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
