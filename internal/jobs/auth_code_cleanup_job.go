package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AuthCodeCleanupJob sweeps pending auth codes every minute and expires the
// stale ones, so an unredeemed code never outlives its exchange window by
// more than a minute.
type AuthCodeCleanupJob struct {
	handler commands.CleanupAuthCodesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewAuthCodeCleanupJob creates the expiry sweep job.
func NewAuthCodeCleanupJob(handler commands.CleanupAuthCodesCommandHandler, logger *slog.Logger) *AuthCodeCleanupJob {
	return &AuthCodeCleanupJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "auth_code_cleanup_job"),
	}
}

// Start schedules the sweep to run every minute.
func (j *AuthCodeCleanupJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()

		expired, err := j.handler.Handle(ctx, commands.NewCleanupAuthCodesCommand())
		if err != nil {
			j.logger.ErrorContext(ctx, "Auth code cleanup failed", "error", err)
			return
		}
		if expired > 0 {
			j.logger.InfoContext(ctx, "Expired stale auth codes", "count", expired)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auth code cleanup job started (running every minute)")
	return nil
}

// Stop stops the sweep.
func (j *AuthCodeCleanupJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Auth code cleanup job stopped")
}
