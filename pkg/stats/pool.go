package stats

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// PoolConfig sizes the connection pool behind a GormStorage. The collector
// writes one short transaction per flush, so a handful of connections is
// enough even for PostgreSQL.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration // 0 keeps connections forever
}

// DefaultPoolConfig returns the pool used for server databases.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{MaxOpenConns: 4, MaxIdleConns: 2, ConnMaxLifetime: 5 * time.Minute}
}

// SQLitePoolConfig returns a single long-lived connection. SQLite allows one
// writer at a time and an in-memory database is private to its connection,
// so the collector and readers must share it.
func SQLitePoolConfig() PoolConfig {
	return PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}
}

// Apply sizes db's pool.
func (c PoolConfig) Apply(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("stats pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	return nil
}
