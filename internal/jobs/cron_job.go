package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// cronJob runs one function on a cron schedule, skipping a tick while the
// previous run is still going.
type cronJob struct {
	name   string
	spec   string
	run    func(ctx context.Context)
	cron   *cron.Cron
	logger *slog.Logger
}

func newCronJob(name, spec string, run func(ctx context.Context), logger *slog.Logger) *cronJob {
	return &cronJob{
		name: name,
		spec: spec,
		run:  run,
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DiscardLogger),
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		logger: logger.With("component", name),
	}
}

func (j *cronJob) Name() string {
	return j.name
}

func (j *cronJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Job started", "schedule", j.spec)
	return nil
}

// Stop stops the schedule and waits for a running invocation to return.
func (j *cronJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Job stopped")
}
