// Package drafter turns a company record into a reviewed email draft: it
// builds the prompt, calls the generation backend, validates the output and
// writes the draft to the review artifact store.
package drafter

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/internship-outreach/internal/artifacts"
	"github.com/jonathan/internship-outreach/internal/llm"
	"github.com/jonathan/internship-outreach/internal/types"
)

// ContextFetcher supplies an optional website snippet for the prompt.
type ContextFetcher interface {
	FetchContext(ctx context.Context, rawURL string) (string, error)
}

// Options configures a Drafter.
type Options struct {
	Applicant Applicant
	// RetryLimit is how many extra generation attempts follow a failed one.
	RetryLimit    int
	BodyMinLength int
	BodyMaxLength int
	AttachmentRef string
	Logger        *zap.Logger
}

// Drafter produces drafts. It never sends them.
type Drafter struct {
	client    llm.Client
	artifacts *artifacts.Store
	fetcher   ContextFetcher
	opts      Options
	logger    *zap.Logger
}

// New creates a Drafter. fetcher may be nil to skip website enrichment.
func New(client llm.Client, store *artifacts.Store, fetcher ContextFetcher, opts Options) *Drafter {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BodyMinLength <= 0 {
		opts.BodyMinLength = 80
	}
	if opts.BodyMaxLength <= opts.BodyMinLength {
		opts.BodyMaxLength = 4000
	}
	return &Drafter{client: client, artifacts: store, fetcher: fetcher, opts: opts, logger: logger}
}

// Draft generates a personalized email for the record. Generation retries
// with the same prompt up to the retry limit before failing; the draft is
// always written to the review artifact store before it is returned.
func (d *Drafter) Draft(ctx context.Context, rec *types.CompanyRecord) (*types.DraftedEmail, error) {
	prompt, err := BuildPrompt(rec, d.opts.Applicant, d.websiteContext(ctx, rec))
	if err != nil {
		return nil, &GenerationError{Company: rec.Company, Attempts: 0, Cause: err}
	}

	attempts := 0
	var lastErr error
	for attempts <= d.opts.RetryLimit {
		attempts++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := d.client.Generate(ctx, prompt)
		if err != nil {
			lastErr = err
			d.logger.Warn("generation attempt failed",
				zap.String("company", rec.Company), zap.Int("attempt", attempts), zap.Error(err))
			continue
		}

		subject, body, err := parseOutput(raw, d.opts.BodyMinLength, d.opts.BodyMaxLength)
		if err != nil {
			lastErr = err
			d.logger.Warn("generated output rejected",
				zap.String("company", rec.Company), zap.Int("attempt", attempts), zap.Error(err))
			continue
		}

		draft := &types.DraftedEmail{
			Subject:       subject,
			Body:          body,
			AttachmentRef: d.opts.AttachmentRef,
		}
		path, err := d.artifacts.Write(rec, draft)
		if err != nil {
			return nil, &GenerationError{Company: rec.Company, Attempts: attempts, Cause: err}
		}
		d.logger.Info("draft generated",
			zap.String("company", rec.Company), zap.String("artifact", path))
		return draft, nil
	}

	return nil, &GenerationError{Company: rec.Company, Attempts: attempts, Cause: lastErr}
}

func (d *Drafter) websiteContext(ctx context.Context, rec *types.CompanyRecord) string {
	if d.fetcher == nil || rec.Website == "" {
		return ""
	}
	snippet, err := d.fetcher.FetchContext(ctx, rec.Website)
	if err != nil {
		// Enrichment is best effort; the prompt works without it.
		d.logger.Debug("website context unavailable",
			zap.String("company", rec.Company), zap.Error(err))
		return ""
	}
	return snippet
}
