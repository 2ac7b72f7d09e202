// Package config provides configuration loading and validation for the CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Provider identifies the text-generation backend.
type Provider string

const (
	// ProviderOllama uses a local Ollama server.
	ProviderOllama Provider = "ollama"
	// ProviderGemini uses the Google Gemini API.
	ProviderGemini Provider = "gemini"
)

// Config holds the full run configuration. It is assembled once at startup
// from the environment (plus CLI flag overrides) and passed into components
// as an immutable value; there are no process-wide mutable settings.
type Config struct {
	// SMTP transport
	SMTPHost      string `validate:"required,hostname|ip"`
	SMTPPort      int    `validate:"gte=1,lte=65535"`
	EmailAddress  string `validate:"required,email"`
	EmailPassword string `validate:"required"`

	// Text generation
	Provider     Provider `validate:"oneof=ollama gemini"`
	OllamaURL    string   `validate:"omitempty,url"`
	OllamaModel  string
	GeminiAPIKey string
	GeminiModel  string

	// Applicant identity used in prompt construction and the email subject.
	ApplicantName       string `validate:"required"`
	ApplicantUniversity string `validate:"required"`
	ApplicantDepartment string `validate:"required"`

	// File locations
	CSVPath    string `validate:"required"`
	ResumePath string
	StatePath  string `validate:"required"`
	DraftDir   string `validate:"required"`
	LogDir     string `validate:"required"`

	// Dispatch policy
	MinInterval      time.Duration `validate:"gte=0"`
	MaxSendsPerRun   int           `validate:"gte=1"`
	MaxAttempts      int           `validate:"gte=1"`
	MaxDeferrals     int           `validate:"gte=0"`
	DraftRetryLimit  int           `validate:"gte=0"`
	BodyMinLength    int           `validate:"gte=1"`
	BodyMaxLength    int           `validate:"gtfield=BodyMinLength"`
	FailureThreshold int           `validate:"gte=0"`

	// Optional PostgreSQL mirror for run rows and draft artifacts.
	DatabaseURL string
}

// FromEnv reads configuration from the environment. Callers are expected to
// have loaded a .env file beforehand (godotenv in main). Missing optional
// values fall back to defaults; required values are checked by Validate.
func FromEnv() Config {
	return Config{
		SMTPHost:      getenv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:      getenvInt("SMTP_PORT", 587),
		EmailAddress:  os.Getenv("EMAIL_ADDRESS"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),

		Provider:     Provider(getenv("LLM_PROVIDER", string(ProviderOllama))),
		OllamaURL:    getenv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:  getenv("OLLAMA_MODEL", "llama3.2"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-1.5-flash"),

		ApplicantName:       os.Getenv("APPLICANT_NAME"),
		ApplicantUniversity: os.Getenv("APPLICANT_UNIVERSITY"),
		ApplicantDepartment: os.Getenv("APPLICANT_DEPARTMENT"),

		CSVPath:    getenv("CSV_PATH", "data/companies.csv"),
		ResumePath: getenv("CV_PATH", "attachments/resume.pdf"),
		StatePath:  getenv("STATE_PATH", "data/outreach_state.json"),
		DraftDir:   getenv("DRAFT_DIR", "generated_emails"),
		LogDir:     getenv("LOG_DIR", "logs"),

		MinInterval:      time.Duration(getenvInt("DELAY_BETWEEN_EMAILS", 30)) * time.Second,
		MaxSendsPerRun:   getenvInt("MAX_SENDS_PER_RUN", 5),
		MaxAttempts:      getenvInt("MAX_ATTEMPTS", 3),
		MaxDeferrals:     getenvInt("MAX_DEFERRALS", 3),
		DraftRetryLimit:  getenvInt("DRAFT_RETRY_LIMIT", 2),
		BodyMinLength:    getenvInt("BODY_MIN_LENGTH", 80),
		BodyMaxLength:    getenvInt("BODY_MAX_LENGTH", 4000),
		FailureThreshold: getenvInt("FAILURE_THRESHOLD", 0),

		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}

// Validate checks the configuration and reports the first problem found.
// Credential and provider errors here are fatal to the whole run.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fmt.Errorf("config: invalid %s (%s)", errs[0].Field(), errs[0].Tag())
		}
		return fmt.Errorf("config: %w", err)
	}

	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config: GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case ProviderOllama:
		if c.OllamaURL == "" {
			return fmt.Errorf("config: OLLAMA_URL is required when LLM_PROVIDER=ollama")
		}
	}

	if _, err := os.Stat(c.CSVPath); os.IsNotExist(err) {
		return fmt.Errorf("config: spreadsheet not found: %s", c.CSVPath)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
