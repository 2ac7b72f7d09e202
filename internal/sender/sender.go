// Package sender delivers drafted emails through an SMTP transport and
// classifies failures as transient or permanent. It never mutates records;
// outcome bookkeeping belongs to the orchestrator.
package sender

import (
	"context"

	"github.com/jonathan/internship-outreach/internal/types"
)

// Sender delivers one drafted email to one company.
type Sender interface {
	// Send returns nil on delivery, *TransientError for failures worth a
	// retry on a later run, *PermanentError otherwise.
	Send(ctx context.Context, rec *types.CompanyRecord, draft *types.DraftedEmail) error
	// CheckConnection probes the transport (dial + auth) for preflight.
	CheckConnection(ctx context.Context) error
}
