package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStorage_UpsertAccumulates(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	ts := time.Now().Truncate(time.Minute)

	// First upsert creates a row
	err := s.UpsertCounters(ctx, "socket", "TextFrame", ts, Counters{Handled: 5, Failed: 1, LastError: "first"})
	require.NoError(t, err)

	// Second upsert increments; an empty LastError keeps the stored one
	err = s.UpsertCounters(ctx, "socket", "TextFrame", ts.Add(20*time.Second), Counters{Handled: 3, Unhandled: 2, Ambiguous: 1})
	require.NoError(t, err)

	rows, err := s.History(ctx, "", ts.Add(-time.Minute), ts.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "socket", rows[0].Receiver)
	assert.Equal(t, "TextFrame", rows[0].Kind)
	assert.Equal(t, int64(8), rows[0].Handled)
	assert.Equal(t, int64(2), rows[0].Unhandled)
	assert.Equal(t, int64(1), rows[0].Failed)
	assert.Equal(t, int64(1), rows[0].Ambiguous)
	assert.Equal(t, "first", rows[0].LastError)

	err = s.UpsertCounters(ctx, "socket", "TextFrame", ts, Counters{Failed: 1, LastError: "second"})
	require.NoError(t, err)
	rows, err = s.History(ctx, "socket", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "second", rows[0].LastError)
}

func TestGormStorage_SeparateRowsPerKind(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	ts := time.Now().Truncate(time.Minute)

	require.NoError(t, s.UpsertCounters(ctx, "socket", "TextFrame", ts, Counters{Handled: 1}))
	require.NoError(t, s.UpsertCounters(ctx, "socket", "PingFrame", ts, Counters{Handled: 2}))
	require.NoError(t, s.UpsertCounters(ctx, "chat", "TextFrame", ts, Counters{Unhandled: 1}))

	rows, err := s.History(ctx, "socket", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "PingFrame", rows[0].Kind)
	assert.Equal(t, "TextFrame", rows[1].Kind)

	rows, err = s.History(ctx, "", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestGormStorage_Prune(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour).Truncate(time.Minute)
	recent := time.Now().Truncate(time.Minute)

	require.NoError(t, s.UpsertCounters(ctx, "socket", "TextFrame", old, Counters{Handled: 1}))
	require.NoError(t, s.UpsertCounters(ctx, "socket", "TextFrame", recent, Counters{Handled: 1}))

	deleted, err := s.Prune(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	rows, err := s.History(ctx, "", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Timestamp.Equal(recent))
}

func TestCounters_IsZero(t *testing.T) {
	assert.True(t, Counters{}.IsZero())
	assert.True(t, Counters{LastError: "x"}.IsZero())
	assert.False(t, Counters{Ambiguous: 1}.IsZero())
}

func TestPoolConfig_Apply(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, PoolConfig{MaxOpenConns: 3, MaxIdleConns: 1, ConnMaxLifetime: time.Minute}.Apply(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 3, sqlDB.Stats().MaxOpenConnections)
}

func TestPoolConfig_Presets(t *testing.T) {
	assert.Equal(t, PoolConfig{MaxOpenConns: 4, MaxIdleConns: 2, ConnMaxLifetime: 5 * time.Minute}, DefaultPoolConfig())
	assert.Equal(t, PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}, SQLitePoolConfig())
}
