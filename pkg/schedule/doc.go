// Package schedule provides the schedules that drive periodic work such as
// flushing dispatch statistics.
//
// This package includes:
//   - Schedule interface
//   - Every() for fixed-interval schedules
//   - Cron() and ParseCron() for cron expression-based schedules
//
// Most users should import the root package github.com/jdziat/simple-frame-handlers
// which re-exports these functions.
package schedule
