package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/internship-outreach/internal/llm"
	"github.com/jonathan/internship-outreach/internal/sender"
)

// Preflight probes the generation backend and the mail transport before any
// record is touched. Both checks run concurrently; a failing check aborts
// the run before a single email is drafted or sent.
func Preflight(ctx context.Context, client llm.Client, snd sender.Sender, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := client.CheckConnection(gCtx); err != nil {
			return fmt.Errorf("generation backend check failed: %w", err)
		}
		logger.Info("generation backend reachable")
		return nil
	})
	g.Go(func() error {
		if err := snd.CheckConnection(gCtx); err != nil {
			return fmt.Errorf("mail transport check failed: %w", err)
		}
		logger.Info("mail transport reachable")
		return nil
	})
	return g.Wait()
}
