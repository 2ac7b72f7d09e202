// Package main provides the entry point for the internship outreach agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "outreach_agent",
	Short: "Internship application outreach automation",
	Long:  "Outreach agent reads target companies from a spreadsheet, drafts a personalized internship application email per company with a language model, and dispatches each email with the resume attached, rate limited and idempotent across re-runs.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
