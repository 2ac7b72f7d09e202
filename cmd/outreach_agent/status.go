package main

import (
	"fmt"

	"github.com/jonathan/internship-outreach/internal/config"
	"github.com/jonathan/internship-outreach/internal/logging"
	"github.com/jonathan/internship-outreach/internal/store"
	"github.com/jonathan/internship-outreach/internal/types"
	"github.com/spf13/cobra"
)

var statusCommand = &cobra.Command{
	Use:   "status",
	Short: "Show the outcome recorded for every company",
	Long: `Loads the spreadsheet and the recorded outcomes and prints a per-status
breakdown without drafting or sending anything. Useful before a re-run to see
how many companies are still pending.`,
	RunE: runStatusCmd,
}

var statusCSVPath string

func init() {
	statusCommand.Flags().StringVarP(&statusCSVPath, "csv", "c", "", "Path to the company spreadsheet (defaults to CSV_PATH)")

	rootCmd.AddCommand(statusCommand)
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if cmd.Flags().Changed("csv") {
		cfg.CSVPath = statusCSVPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, _, err := logging.New(cfg.LogDir, false)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	st := store.New(store.Options{
		StatePath:   cfg.StatePath,
		MaxAttempts: cfg.MaxAttempts,
		Logger:      logger,
	})
	if err := st.Load(cfg.CSVPath); err != nil {
		return fmt.Errorf("failed to load companies: %w", err)
	}

	counts := st.Counts()
	total := 0
	for _, n := range counts {
		total += n
	}

	fmt.Printf("Companies: %d (invalid rows skipped: %d, duplicates collapsed: %d)\n",
		total, st.InvalidRows(), st.DuplicateRows())
	for _, status := range []types.Status{types.StatusSent, types.StatusPending, types.StatusFailed, types.StatusSkipped} {
		fmt.Printf("  %-8s %d\n", status, counts[status])
	}

	for _, rec := range st.All() {
		if rec.Status == types.StatusFailed && rec.LastError != "" {
			fmt.Printf("  failed: %s <%s>: %s\n", rec.Company, rec.Email, rec.LastError)
		}
	}
	return nil
}
