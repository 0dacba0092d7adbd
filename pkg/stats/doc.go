// Package stats records aggregate dispatch statistics for an endpoint.
//
// A Collector subscribes to an endpoint's event stream, counts outcomes per
// receiver and frame kind, and flushes the counters into a Storage on a
// schedule. Rows are bucketed by minute and hold counts only; frame payloads
// are never stored.
//
//	db, _ := gorm.Open(sqlite.Open("stats.db"), &gorm.Config{})
//	store := stats.NewGormStorage(db)
//	_ = store.MigrateStats(ctx)
//
//	c := stats.NewCollector(ep, store, stats.WithSchedule(schedule.Cron("*/5 * * * *")))
//	go c.Start(ctx)
package stats
