package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jonathan/internship-outreach/internal/artifacts"
	"github.com/jonathan/internship-outreach/internal/config"
	"github.com/jonathan/internship-outreach/internal/db"
	"github.com/jonathan/internship-outreach/internal/drafter"
	"github.com/jonathan/internship-outreach/internal/enrich"
	"github.com/jonathan/internship-outreach/internal/gate"
	"github.com/jonathan/internship-outreach/internal/llm"
	"github.com/jonathan/internship-outreach/internal/logging"
	"github.com/jonathan/internship-outreach/internal/pipeline"
	"github.com/jonathan/internship-outreach/internal/sender"
	"github.com/jonathan/internship-outreach/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full outreach pipeline end-to-end",
	Long: `Loads the company spreadsheet, drafts a personalized internship application
email for every company that has not been contacted yet, and sends each one
with the resume attached, respecting the configured rate limit and per-run cap.

Configuration is read from the environment (a .env file is loaded if present).
Command-line flags override environment values. Re-running is safe: companies
already sent are skipped.`,
	RunE: runOutreachCmd,
}

var (
	runCSVPath     string
	runResumePath  string
	runStatePath   string
	runDraftDir    string
	runMaxSends    int
	runIntervalSec int
	runDryRun      bool
	runYes         bool
	runVerbose     bool
	runDatabaseURL string
)

func init() {
	runCommand.Flags().StringVarP(&runCSVPath, "csv", "c", "", "Path to the company spreadsheet (defaults to CSV_PATH)")
	runCommand.Flags().StringVarP(&runResumePath, "resume", "r", "", "Path to the resume PDF to attach (defaults to CV_PATH)")
	runCommand.Flags().StringVar(&runStatePath, "state", "", "Path to the outcome state file (defaults to STATE_PATH)")
	runCommand.Flags().StringVar(&runDraftDir, "drafts", "", "Directory for generated draft files (defaults to DRAFT_DIR)")
	runCommand.Flags().IntVar(&runMaxSends, "max-sends", 0, "Maximum emails to send this run (defaults to MAX_SENDS_PER_RUN)")
	runCommand.Flags().IntVar(&runIntervalSec, "interval", 0, "Minimum seconds between sends (defaults to DELAY_BETWEEN_EMAILS)")
	runCommand.Flags().BoolVar(&runDryRun, "dry-run", false, "Draft and save emails without sending anything")
	runCommand.Flags().BoolVarP(&runYes, "yes", "y", false, "Skip the confirmation prompt before sending")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// Database URL for the optional run archive
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runOutreachCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config from the environment
	cfg := config.FromEnv()

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("csv") {
		cfg.CSVPath = runCSVPath
	}
	if cmd.Flags().Changed("resume") {
		cfg.ResumePath = runResumePath
	}
	if cmd.Flags().Changed("state") {
		cfg.StatePath = runStatePath
	}
	if cmd.Flags().Changed("drafts") {
		cfg.DraftDir = runDraftDir
	}
	if cmd.Flags().Changed("max-sends") {
		cfg.MaxSendsPerRun = runMaxSends
	}
	if cmd.Flags().Changed("interval") {
		cfg.MinInterval = time.Duration(runIntervalSec) * time.Second
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	// Step 3: Validate merged config
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logPath, err := logging.New(cfg.LogDir, runVerbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("run starting", zap.String("log_file", logPath), zap.String("csv", cfg.CSVPath))

	// Step 4: Load the spreadsheet and overlay recorded outcomes
	st := store.New(store.Options{
		StatePath:   cfg.StatePath,
		MaxAttempts: cfg.MaxAttempts,
		Logger:      logger,
	})
	if err := st.Load(cfg.CSVPath); err != nil {
		return fmt.Errorf("failed to load companies: %w", err)
	}

	pending := st.Unsent()
	if len(pending) == 0 {
		fmt.Println("Nothing to do: every company has already been contacted.")
		return nil
	}

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

	// Step 5: Verify both backends are reachable before touching any record
	if err := pipeline.Preflight(ctx, client, smtpSender, logger); err != nil {
		return fmt.Errorf("preflight failed: %w", err)
	}

	// Step 6: Confirm before sending real email
	if !runDryRun && !runYes {
		if !confirm(len(pending)) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	// Step 7: Optional archive. A dead database never blocks a run.
	var archive pipeline.Archive
	if cfg.DatabaseURL != "" {
		database, dbErr := db.Connect(ctx, cfg.DatabaseURL)
		if dbErr != nil {
			logger.Warn("archive database unavailable, continuing without it", zap.Error(dbErr))
		} else {
			defer database.Close()
			if schemaErr := database.EnsureSchema(ctx); schemaErr != nil {
				logger.Warn("archive schema setup failed, continuing without it", zap.Error(schemaErr))
			} else {
				archive = database
			}
		}
	}

	artifactStore, err := artifacts.NewStore(cfg.DraftDir)
	if err != nil {
		return fmt.Errorf("failed to create draft directory: %w", err)
	}

	dr := drafter.New(client, artifactStore, enrich.NewFetcher(), drafter.Options{
		Applicant: drafter.Applicant{
			Name:       cfg.ApplicantName,
			University: cfg.ApplicantUniversity,
			Department: cfg.ApplicantDepartment,
		},
		RetryLimit:    cfg.DraftRetryLimit,
		BodyMinLength: cfg.BodyMinLength,
		BodyMaxLength: cfg.BodyMaxLength,
		AttachmentRef: cfg.ResumePath,
		Logger:        logger,
	})

	g := gate.New(cfg.MinInterval, cfg.MaxSendsPerRun, gate.SystemClock{})

	orch := pipeline.New(st, dr, g, smtpSender, archive, pipeline.Options{
		MaxDeferrals: cfg.MaxDeferrals,
		DryRun:       runDryRun,
		Logger:       logger,
	})

	summary, runErr := orch.Run(ctx)
	if summary != nil {
		fmt.Println(summary.String())
	}
	if runErr != nil {
		return runErr
	}

	if summary != nil && summary.NonRetryable > cfg.FailureThreshold {
		return fmt.Errorf("%d companies failed permanently (threshold %d)", summary.NonRetryable, cfg.FailureThreshold)
	}
	return nil
}

// confirm asks the operator whether to proceed with sending.
func confirm(n int) bool {
	fmt.Printf("About to send up to %d internship application emails. Continue? [y/N]: ", n)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
