// Package jobs runs the server's periodic maintenance work.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Completer marks appointments whose day has passed as completed.
type Completer interface {
	CompletePast(ctx context.Context) (int64, error)
}

// RunCompletion runs one completion sweep and logs its outcome.
func RunCompletion(ctx context.Context, svc Completer, logger zerolog.Logger) {
	n, err := svc.CompletePast(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("completion sweep failed")
		return
	}
	logger.Info().Int64("completed", n).Msg("completion sweep finished")
}

// StartScheduler starts a cron runner executing the completion sweep on
// schedule. An empty schedule disables the job and returns a nil runner.
func StartScheduler(schedule string, svc Completer, logger zerolog.Logger) (*cron.Cron, error) {
	if schedule == "" {
		logger.Info().Msg("completion sweep disabled")
		return nil, nil
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		RunCompletion(context.Background(), svc, logger)
	}); err != nil {
		return nil, fmt.Errorf("invalid completion schedule %q: %w", schedule, err)
	}
	c.Start()
	logger.Info().Str("schedule", schedule).Msg("completion sweep scheduled")
	return c, nil
}
