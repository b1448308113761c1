// Package jobs provides scheduled background tasks for the parcel service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field expressions with
// seconds) and are started and stopped together through JobManager:
//
//	release := jobs.NewReleaseIdleCouriersJob(handler, metrics, cfg.ReleaseSchedule, logger)
//	manager := jobs.NewJobManager(release)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// # Available Jobs
//
// ReleaseIdleCouriersJob flips couriers back to available once none of their
// parcels is open. Overlapping runs are skipped; a failed run is logged and
// retried on the next tick.
package jobs
