// Package pipeline provides the high-level orchestration for the outreach
// process: it drives each unsent record through drafting, gate admission and
// dispatch, and commits every outcome to the store before moving on.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/internship-outreach/internal/gate"
	"github.com/jonathan/internship-outreach/internal/sender"
	"github.com/jonathan/internship-outreach/internal/store"
	"github.com/jonathan/internship-outreach/internal/types"
)

// Drafter produces a reviewed draft for one record.
type Drafter interface {
	Draft(ctx context.Context, rec *types.CompanyRecord) (*types.DraftedEmail, error)
}

// Archive mirrors run data to an external database. It is optional and its
// failures are never fatal.
type Archive interface {
	CreateRun(ctx context.Context) (uuid.UUID, error)
	SaveDraft(ctx context.Context, runID uuid.UUID, rec *types.CompanyRecord, draft *types.DraftedEmail) error
	CompleteRun(ctx context.Context, runID uuid.UUID, summary *types.RunSummary) error
}

// Options configures an Orchestrator.
type Options struct {
	// MaxDeferrals bounds how often one record may be requeued while waiting
	// for gate admission before the run stops early.
	MaxDeferrals int
	// DryRun stops each record after the draft is written for review;
	// nothing is sent and no outcomes are committed.
	DryRun bool
	Clock  gate.Clock
	Logger *zap.Logger
}

// Orchestrator sequences the pipeline. Sends are strictly sequential: one
// record is drafted and dispatched to completion before the next begins,
// which is what makes the dispatch gate's timing meaningful.
type Orchestrator struct {
	store   *store.Store
	drafter Drafter
	gate    *gate.Gate
	sender  sender.Sender
	archive Archive
	opts    Options
	clock   gate.Clock
	logger  *zap.Logger
}

// New creates an Orchestrator. archive may be nil.
func New(st *store.Store, dr Drafter, g *gate.Gate, snd sender.Sender, archive Archive, opts Options) *Orchestrator {
	if opts.Clock == nil {
		opts.Clock = gate.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxDeferrals <= 0 {
		opts.MaxDeferrals = 3
	}
	return &Orchestrator{
		store:   st,
		drafter: dr,
		gate:    g,
		sender:  snd,
		archive: archive,
		opts:    opts,
		clock:   opts.Clock,
		logger:  opts.Logger,
	}
}

// Run processes every unsent record once. Per-record failures are recorded
// and the batch continues; only store contract violations and cancellation
// end the run early. The returned summary is always non-nil.
func (o *Orchestrator) Run(ctx context.Context) (*types.RunSummary, error) {
	started := o.clock.Now()
	runID := uuid.New()

	var archiveID uuid.UUID
	if o.archive != nil {
		id, err := o.archive.CreateRun(ctx)
		if err != nil {
			o.logger.Warn("archive unavailable, continuing without it", zap.Error(err))
			o.archive = nil
		} else {
			archiveID = id
			runID = id
		}
	}

	queue := o.store.Unsent()
	o.logger.Info("run started",
		zap.String("run_id", runID.String()), zap.Int("unsent", len(queue)))

	// Drafts are produced at most once per record per run; a deferred record
	// keeps its draft while it waits for admission.
	drafts := make(map[string]*types.DraftedEmail)
	deferrals := make(map[string]int)

	var runErr error

loop:
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			o.logger.Warn("run interrupted, state is safe to resume", zap.Error(err))
			runErr = err
			break
		}

		rec := queue[0]
		queue = queue[1:]

		if rec.Status == types.StatusSent {
			continue
		}

		draft, ok := drafts[rec.ID]
		if !ok {
			var err error
			draft, err = o.draft(ctx, rec)
			if err != nil {
				if ctx.Err() != nil {
					runErr = ctx.Err()
					break
				}
				if commitErr := o.store.RecordOutcome(rec.ID, types.StatusFailed, err, false); commitErr != nil {
					return o.summarize(runID, started), commitErr
				}
				continue
			}
			drafts[rec.ID] = draft
			if o.archive != nil {
				if err := o.archive.SaveDraft(ctx, archiveID, rec, draft); err != nil {
					o.logger.Warn("archiving draft failed", zap.Error(err))
				}
			}
		}

		if o.opts.DryRun {
			continue
		}

		decision := o.gate.Admit(o.clock.Now())
		switch {
		case decision.CapExhausted:
			o.logger.Info("send budget exhausted, stopping run",
				zap.Int("sent", o.gate.Sent()))
			break loop
		case !decision.Admitted:
			if deferrals[rec.ID] >= o.opts.MaxDeferrals {
				o.logger.Warn("deferral budget exhausted, stopping run",
					zap.String("company", rec.Company))
				break loop
			}
			deferrals[rec.ID]++
			if err := o.wait(ctx, decision.RetryAfter); err != nil {
				runErr = err
				break loop
			}
			queue = append(queue, rec)
			continue
		}

		sendErr := o.sender.Send(ctx, rec, draft)
		o.gate.Consume()

		var commitErr error
		switch {
		case sendErr == nil:
			commitErr = o.store.RecordOutcome(rec.ID, types.StatusSent, nil, false)
		case sender.IsPermanent(sendErr):
			o.logger.Error("permanent send failure",
				zap.String("company", rec.Company), zap.Error(sendErr))
			commitErr = o.store.RecordOutcome(rec.ID, types.StatusFailed, sendErr, true)
		default:
			o.logger.Error("transient send failure, will retry next run",
				zap.String("company", rec.Company), zap.Error(sendErr))
			commitErr = o.store.RecordOutcome(rec.ID, types.StatusFailed, sendErr, false)
		}
		if commitErr != nil {
			return o.summarize(runID, started), commitErr
		}
	}

	summary := o.summarize(runID, started)
	if o.archive != nil {
		if err := o.archive.CompleteRun(ctx, archiveID, summary); err != nil {
			o.logger.Warn("archiving run summary failed", zap.Error(err))
		}
	}
	o.logger.Info("run finished", zap.String("summary", summary.String()))
	return summary, runErr
}

func (o *Orchestrator) draft(ctx context.Context, rec *types.CompanyRecord) (*types.DraftedEmail, error) {
	o.logger.Info("drafting email", zap.String("company", rec.Company))
	draft, err := o.drafter.Draft(ctx, rec)
	if err != nil {
		o.logger.Error("drafting failed",
			zap.String("company", rec.Company), zap.Error(err))
		return nil, err
	}
	return draft, nil
}

// wait sleeps until the gate interval clears, honoring cancellation.
func (o *Orchestrator) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	o.logger.Debug("waiting for send interval", zap.Duration("wait", d))
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (o *Orchestrator) summarize(runID uuid.UUID, started time.Time) *types.RunSummary {
	counts := o.store.Counts()
	nonRetryable := 0
	for _, rec := range o.store.All() {
		if rec.NonRetryable {
			nonRetryable++
		}
	}
	return &types.RunSummary{
		RunID:        runID.String(),
		Sent:         counts[types.StatusSent],
		Failed:       counts[types.StatusFailed],
		Skipped:      counts[types.StatusSkipped],
		Pending:      counts[types.StatusPending],
		InvalidRows:  o.store.InvalidRows(),
		NonRetryable: nonRetryable,
		StartedAt:    started,
		Elapsed:      o.clock.Now().Sub(started),
	}
}
