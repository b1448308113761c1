package jobs

import (
	"context"
	"log/slog"
	"time"

	"sendit/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultReleaseSchedule runs the release job once a minute.
const DefaultReleaseSchedule = "0 * * * * *"

// IdleCourierReleaser is satisfied by commands.ReleaseIdleCouriersCommandHandler.
type IdleCourierReleaser interface {
	Handle(ctx context.Context, cmd commands.ReleaseIdleCouriersCommand) (int, error)
}

// ReleaseRecorder counts couriers made available by a run.
type ReleaseRecorder interface {
	CouriersReleased(n int)
}

// ReleaseIdleCouriersJob makes couriers available again once none of their
// parcels is PENDING or IN_TRANSIT.
type ReleaseIdleCouriersJob struct {
	handler  IdleCourierReleaser
	recorder ReleaseRecorder
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewReleaseIdleCouriersJob uses DefaultReleaseSchedule when schedule is
// empty. schedule is a six-field cron expression (seconds first). A nil
// recorder is allowed.
func NewReleaseIdleCouriersJob(
	handler IdleCourierReleaser,
	recorder ReleaseRecorder,
	schedule string,
	logger *slog.Logger,
) *ReleaseIdleCouriersJob {
	if schedule == "" {
		schedule = DefaultReleaseSchedule
	}

	return &ReleaseIdleCouriersJob{
		handler:  handler,
		recorder: recorder,
		schedule: schedule,
		timeout:  30 * time.Second,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "release_idle_couriers_job"),
	}
}

// Start registers the job and starts the scheduler.
func (j *ReleaseIdleCouriersJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Release idle couriers job started", "schedule", j.schedule)
	return nil
}

// Run performs one release pass. The scheduler calls it; tests call it
// directly.
func (j *ReleaseIdleCouriersJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	released, err := j.handler.Handle(ctx, commands.NewReleaseIdleCouriersCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Release idle couriers job failed", "error", err)
		return
	}

	if released > 0 {
		j.logger.InfoContext(ctx, "Released idle couriers", "count", released)
	}
	if j.recorder != nil {
		j.recorder.CouriersReleased(released)
	}
}

// Stop stops the scheduler and waits for a running pass to finish.
func (j *ReleaseIdleCouriersJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Release idle couriers job stopped")
}
