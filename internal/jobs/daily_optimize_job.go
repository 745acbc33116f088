package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// DailyOptimizeJob runs a planning pass for every registered tenant at the
// configured time of day, picking up whatever backlog accumulated overnight.
// On-demand planning through the HTTP API stays available alongside it.
type DailyOptimizeJob struct {
	handler  *commands.OptimizeRoutesCommandHandler
	tenants  []kernel.UUID
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewDailyOptimizeJob creates the scheduled planning job. schedule is a
// standard five field cron expression; tenants lists every tenant to plan
// for. An empty tenant list leaves the job dormant.
func NewDailyOptimizeJob(
	handler *commands.OptimizeRoutesCommandHandler,
	tenants []kernel.UUID,
	schedule string,
	timeout time.Duration,
	logger *slog.Logger,
) *DailyOptimizeJob {
	return &DailyOptimizeJob{
		handler:  handler,
		tenants:  tenants,
		schedule: schedule,
		timeout:  timeout,
		cron:     cron.New(),
		logger:   logger.With("component", "daily_optimize_job"),
	}
}

// Start schedules the daily planning pass.
func (j *DailyOptimizeJob) Start() error {
	if len(j.tenants) == 0 {
		j.logger.InfoContext(context.Background(), "Daily optimize job dormant, no tenants configured")
		return nil
	}

	_, err := j.cron.AddFunc(j.schedule, j.runAll)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Daily optimize job started",
		"schedule", j.schedule, "tenants", len(j.tenants))
	return nil
}

// Stop stops the scheduled planning pass.
func (j *DailyOptimizeJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Daily optimize job stopped")
}

func (j *DailyOptimizeJob) runAll() {
	ctx := context.Background()
	date := time.Now().Format("2006-01-02")

	for _, tenantID := range j.tenants {
		cmd, err := commands.NewOptimizeRoutesCommand(tenantID, date, j.timeout)
		if err != nil {
			j.logger.ErrorContext(ctx, "Daily optimize command rejected",
				"tenant_id", tenantID.String(), "error", err)
			continue
		}

		result, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Daily optimize run failed",
				"tenant_id", tenantID.String(), "date", date, "error", err)
			continue
		}

		j.logger.InfoContext(ctx, "Daily optimize run finished",
			"tenant_id", tenantID.String(),
			"date", date,
			"routes", len(result.CreatedRouteIDs),
			"unassigned", len(result.UnassignedOrderIDs),
			"failed_clusters", len(result.FailedClusters))
	}
}
