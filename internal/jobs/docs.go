// Package jobs provides scheduled background tasks for the transport box service.
//
// Jobs are built on github.com/robfig/cron/v3. Schedules are cron expressions or
// descriptors such as "@every 30s"; overlapping runs of the same job are skipped.
//
// # Available Jobs
//
// 1. ReceivedBoxesJob - finalizes boxes in state Received: records stock-up lines
// and moves each box to its receive state, or to Error when that fails
// 2. CatalogRefreshJob - refreshes every catalog source and re-arms the merge scheduler
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewReceivedBoxesJob(processHandler, "@every 30s", logger),
//		jobs.NewCatalogRefreshJob(refresher, "@every 10m", logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Job runs never stop the scheduler: failures are logged and the next tick retries.
// A job that fails to start stops the jobs already started.
package jobs
