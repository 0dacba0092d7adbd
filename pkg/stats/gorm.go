package stats

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// GormStorage implements Storage using GORM.
type GormStorage struct {
	db *gorm.DB
}

var _ Storage = (*GormStorage)(nil)

// NewGormStorage creates a GORM-backed stats storage.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// DB returns the underlying database handle.
func (s *GormStorage) DB() *gorm.DB {
	return s.db
}

func (s *GormStorage) MigrateStats(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&DispatchStat{})
}

func (s *GormStorage) UpsertCounters(ctx context.Context, receiver, kind string, ts time.Time, c Counters) error {
	ts = ts.Truncate(time.Minute)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing DispatchStat
		err := tx.Where("receiver = ? AND kind = ? AND timestamp = ?", receiver, kind, ts).
			First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&DispatchStat{
				Receiver:  receiver,
				Kind:      kind,
				Timestamp: ts,
				Handled:   c.Handled,
				Unhandled: c.Unhandled,
				Failed:    c.Failed,
				Ambiguous: c.Ambiguous,
				LastError: c.LastError,
			}).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]any{
			"handled":   gorm.Expr("handled + ?", c.Handled),
			"unhandled": gorm.Expr("unhandled + ?", c.Unhandled),
			"failed":    gorm.Expr("failed + ?", c.Failed),
			"ambiguous": gorm.Expr("ambiguous + ?", c.Ambiguous),
		}
		if c.LastError != "" {
			updates["last_error"] = c.LastError
		}
		return tx.Model(&existing).Updates(updates).Error
	})
}

func (s *GormStorage) History(ctx context.Context, receiver string, since, until time.Time) ([]DispatchStat, error) {
	var rows []DispatchStat
	q := s.db.WithContext(ctx).Order("timestamp ASC").Order("receiver ASC").Order("kind ASC")

	if receiver != "" {
		q = q.Where("receiver = ?", receiver)
	}
	if !since.IsZero() {
		q = q.Where("timestamp >= ?", since)
	}
	if !until.IsZero() {
		q = q.Where("timestamp <= ?", until)
	}

	return rows, q.Find(&rows).Error
}

func (s *GormStorage) Prune(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("timestamp < ?", before).Delete(&DispatchStat{})
	return result.RowsAffected, result.Error
}
