package stats

import (
	"context"
	"time"
)

// DispatchStat stores per-receiver, per-kind dispatch counts bucketed by minute.
type DispatchStat struct {
	ID        uint      `gorm:"primaryKey"`
	Receiver  string    `gorm:"index:idx_dispatch_stats_recv_kind_ts;size:255;not null"`
	Kind      string    `gorm:"index:idx_dispatch_stats_recv_kind_ts;size:128;not null"`
	Timestamp time.Time `gorm:"index:idx_dispatch_stats_recv_kind_ts;not null"`
	Handled   int64     `gorm:"default:0"`
	Unhandled int64     `gorm:"default:0"`
	Failed    int64     `gorm:"default:0"`
	Ambiguous int64     `gorm:"default:0"`
	LastError string    `gorm:"size:4096"`
}

// Counters is a batch of counts for one receiver and kind.
type Counters struct {
	Handled   int64
	Unhandled int64
	Failed    int64
	Ambiguous int64
	// LastError replaces the stored error when non-empty.
	LastError string
}

// IsZero reports whether c holds no counts.
func (c Counters) IsZero() bool {
	return c.Handled == 0 && c.Unhandled == 0 && c.Failed == 0 && c.Ambiguous == 0
}

// add folds o into c. c's LastError is kept when set.
func (c *Counters) add(o Counters) {
	c.Handled += o.Handled
	c.Unhandled += o.Unhandled
	c.Failed += o.Failed
	c.Ambiguous += o.Ambiguous
	if c.LastError == "" {
		c.LastError = o.LastError
	}
}

// Storage is the interface for stats persistence.
type Storage interface {
	MigrateStats(ctx context.Context) error
	UpsertCounters(ctx context.Context, receiver, kind string, ts time.Time, c Counters) error
	History(ctx context.Context, receiver string, since, until time.Time) ([]DispatchStat, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
}
