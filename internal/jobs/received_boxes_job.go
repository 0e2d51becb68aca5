package jobs

import (
	"context"
	"log/slog"
	"time"

	"heblo/internal/core/application/usecases/commands"
)

const receivedBoxesRunTimeout = 5 * time.Minute

type receivedBoxesProcessor interface {
	Handle(ctx context.Context, cmd commands.ProcessReceivedBoxesCommand) (commands.ProcessReceivedBoxesResult, error)
}

// ReceivedBoxesJob periodically finalizes boxes waiting in state Received.
type ReceivedBoxesJob struct {
	*cronJob
	handler receivedBoxesProcessor
}

func NewReceivedBoxesJob(handler receivedBoxesProcessor, spec string, logger *slog.Logger) *ReceivedBoxesJob {
	job := &ReceivedBoxesJob{handler: handler}
	job.cronJob = newCronJob("received_boxes_job", spec, job.Run, logger)
	return job
}

// Run processes one batch. Exposed for on-demand runs.
func (j *ReceivedBoxesJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, receivedBoxesRunTimeout)
	defer cancel()

	result, err := j.handler.Handle(ctx, commands.NewProcessReceivedBoxesCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Received boxes job failed", "error", err)
		return
	}

	if result.Processed+result.Failed+result.Skipped == 0 {
		return
	}

	level := slog.LevelInfo
	if result.Failed > 0 {
		level = slog.LevelWarn
	}
	j.logger.Log(ctx, level, "Received boxes processed",
		"processed", result.Processed,
		"failed", result.Failed,
		"skipped", result.Skipped,
	)
}
