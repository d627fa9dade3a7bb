// Package main provides the arena CLI for running automated chess games
// between language-model move providers and inspecting their records.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
