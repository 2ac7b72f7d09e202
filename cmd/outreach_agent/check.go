package main

import (
	"context"
	"fmt"

	"github.com/jonathan/internship-outreach/internal/config"
	"github.com/jonathan/internship-outreach/internal/llm"
	"github.com/jonathan/internship-outreach/internal/logging"
	"github.com/jonathan/internship-outreach/internal/pipeline"
	"github.com/jonathan/internship-outreach/internal/sender"
	"github.com/spf13/cobra"
)

var checkCommand = &cobra.Command{
	Use:   "check",
	Short: "Verify SMTP and LLM connectivity without sending anything",
	Long: `Validates the configuration, then checks that the text-generation backend
and the SMTP server are both reachable with the configured credentials.
No email is drafted or sent and no state is touched.`,
	RunE: runCheckCmd,
}

var checkVerbose bool

func init() {
	checkCommand.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(checkCommand)
}

func runCheckCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, _, err := logging.New(cfg.LogDir, checkVerbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	smtpSender := sender.NewSMTPSender(sender.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.EmailAddress,
		Password:    cfg.EmailPassword,
		From:        cfg.EmailAddress,
		SubjectName: cfg.ApplicantName,
	}, logger)

	if err := pipeline.Preflight(ctx, client, smtpSender, logger); err != nil {
		return err
	}

	fmt.Println("All checks passed: LLM backend and SMTP server are reachable.")
	return nil
}
