package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func at(db *DB, ts time.Time) {
	db.now = func() time.Time { return ts }
}

func TestOpenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Ping(context.Background()))
	require.NoError(t, db.Close())

	// Reopening applies the schema idempotently.
	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestVisitorsAndStats(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	at(db, now.Add(-30*24*time.Hour))
	require.NoError(t, db.RecordVisit(ctx, "aaaa", "old-agent", "/"))
	at(db, now.Add(-3*24*time.Hour))
	require.NoError(t, db.RecordVisit(ctx, "bbbb", "agent", "/"))
	at(db, now.Add(-time.Hour))
	require.NoError(t, db.RecordVisit(ctx, "bbbb", "agent", "/projects/x"))
	at(db, now)

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalVisitors)
	assert.EqualValues(t, 2, stats.UniqueVisitors)
	assert.EqualValues(t, 1, stats.VisitorsToday)
	assert.EqualValues(t, 2, stats.VisitorsThisWeek)
	require.Len(t, stats.RecentVisitors, 3)
	assert.Equal(t, "/projects/x", stats.RecentVisitors[0].Path)
	assert.True(t, stats.RecentVisitors[0].Timestamp.Equal(now.Add(-time.Hour)))
}

func TestCleanupVisitors(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	at(db, now.Add(-400*24*time.Hour))
	require.NoError(t, db.RecordVisit(ctx, "old", "", "/"))
	at(db, now.Add(-10*24*time.Hour))
	require.NoError(t, db.RecordVisit(ctx, "new", "", "/"))
	at(db, now)

	n, err := db.CleanupVisitors(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	visitors, err := db.RecentVisitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	assert.Equal(t, "new", visitors[0].HashedIP)
}

func TestMessages(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, db.RecordMessage(ctx, Message{
		ID: "m1", Name: "Ana", Email: "ana@example.com", Subject: "Hi", Body: "Hello",
		Relay: "demo", Delivered: true, CreatedAt: base,
	}))
	require.NoError(t, db.RecordMessage(ctx, Message{
		ID: "m2", Name: "Budi", Email: "budi@example.com", Subject: "Job", Body: "Offer",
		Relay: "emailjs", Error: "emailjs: status 400", CreatedAt: base.Add(time.Hour),
	}))

	msgs, err := db.Messages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[0].ID)
	assert.False(t, msgs[0].Delivered)
	assert.Equal(t, "emailjs: status 400", msgs[0].Error)
	assert.True(t, msgs[1].Delivered)
	assert.True(t, msgs[1].CreatedAt.Equal(base))

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalMessages)
	assert.EqualValues(t, 1, stats.DeliveredMessages)

	require.NoError(t, db.DeleteMessage(ctx, "m1"))
	assert.ErrorIs(t, db.DeleteMessage(ctx, "m1"), ErrNotFound)
}

func TestRecordMessageDuplicateID(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	m := Message{ID: "dup", Name: "a", Email: "a@b.c", Subject: "s", Body: "b", Relay: "demo"}

	require.NoError(t, db.RecordMessage(ctx, m))
	assert.Error(t, db.RecordMessage(ctx, m))
}
