/*
Package main is the entry point for the askdeck CLI.

askdeck is the chat assistant for an internal AI tool catalog: it
classifies what a user is asking for, reasons over the catalog, answers
deterministically where it can, and learns from feedback.

Usage:
  askdeck [command]

Available Commands:
  chat        Chat with the assistant interactively
  ask         Ask the assistant a single question
  serve       Run the askdeck HTTP API
  catalog     Inspect and maintain the tool catalog
  learning    Inspect and manage the learning system
  trace       Inspect execution traces
  help        Help about any command

Examples:
  # Interactive session
  askdeck chat

  # One-shot question
  askdeck ask "what should I use for data analysis?"

  # HTTP API with live trace stream
  askdeck serve --addr :8080
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/askdeck/askdeck/internal/cli"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "askdeck",
		Short: "Chat assistant for the internal AI tool catalog",
		Long: `askdeck answers questions about an internal AI tool catalog.

It classifies each message into a typed intent, runs a reasoning chain over
the catalog for recommendations, and generates answers deterministically.
Messages the rules cannot answer confidently are routed to a fallback
language model when an API key is configured. Feedback and usage patterns
feed a learning layer that personalizes future recommendations.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(cli.NewChatCmd())
	rootCmd.AddCommand(cli.NewAskCmd())
	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewCatalogCmd())
	rootCmd.AddCommand(cli.NewLearningCmd())
	rootCmd.AddCommand(cli.NewTraceCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
