package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showscrape/internal/entity"
	"showscrape/pkg/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.NewSqliteDB(filepath.Join(t.TempDir(), "showscrape-test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleEvent(id string, start time.Time) entity.Event {
	return entity.Event{
		ID:           id,
		Source:       "treefort",
		VenueID:      "treefort",
		VenueName:    "Treefort Music Hall",
		StartUTC:     start.UTC().Format(time.RFC3339),
		Artists:      []string{"PUP", "Chase Petra"},
		Tags:         []string{},
		ScrapedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Extra:        map[string]any{},
	}
}

func TestUpsertDedupIdempotence(t *testing.T) {
	db := openTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	event := sampleEvent("aaa111", time.Now().Add(48*time.Hour))
	require.NoError(t, repo.Upsert(ctx, &event))

	// Age the stored row so the second upsert visibly advances last_seen
	// while first_seen must stay put.
	past := time.Now().UTC().Add(-72 * time.Hour).Format(time.RFC3339)
	_, err := db.Exec(`UPDATE events SET first_seen_utc = ?, last_seen_utc = ? WHERE id = ?`,
		past, past, event.ID)
	require.NoError(t, err)

	updated := event
	updated.Artists = []string{"PUP"}
	require.NoError(t, repo.Upsert(ctx, &updated))
	require.NoError(t, repo.Upsert(ctx, &updated))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count))
	assert.Equal(t, 1, count, "N upserts of one identity leave one row")

	var firstSeen, lastSeen string
	require.NoError(t, db.QueryRow(
		`SELECT first_seen_utc, last_seen_utc FROM events WHERE id = ?`, event.ID).
		Scan(&firstSeen, &lastSeen))
	assert.Equal(t, past, firstSeen, "first_seen survives re-scrapes")
	assert.NotEqual(t, past, lastSeen, "last_seen advances on re-scrape")

	// Payload reflects the latest scrape.
	stored, err := repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"PUP"}, stored.Artists)
}

func TestUpsertMany(t *testing.T) {
	db := openTestDB(t)
	repo := NewEventRepository(db)

	events := []entity.Event{
		sampleEvent("e1", time.Now().Add(24*time.Hour)),
		sampleEvent("e2", time.Now().Add(48*time.Hour)),
		sampleEvent("e1", time.Now().Add(24*time.Hour)), // duplicate identity
	}

	count, err := repo.UpsertMany(context.Background(), events)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	var stored int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&stored))
	assert.Equal(t, 2, stored)
}

func TestGetByIDErrors(t *testing.T) {
	db := openTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	t.Run("absent identity", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, entity.ErrEventNotFound)
	})

	t.Run("corrupt payload is surfaced, not defaulted", func(t *testing.T) {
		now := time.Now().UTC().Format(time.RFC3339)
		_, err := db.Exec(`INSERT INTO events (id, payload, first_seen_utc, last_seen_utc)
			VALUES ('broken', '{not json', ?, ?)`, now, now)
		require.NoError(t, err)

		_, err = repo.GetByID(ctx, "broken")
		require.Error(t, err)
		assert.ErrorIs(t, err, entity.ErrCorruptPayload)
		assert.NotErrorIs(t, err, entity.ErrEventNotFound)
	})
}

func TestMarkPostedLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	event := sampleEvent("post-me", time.Now().Add(24*time.Hour))
	require.NoError(t, repo.Upsert(ctx, &event))

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, repo.MarkPosted(ctx, event.ID, "fb-123"))

	pending, err = repo.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "posted events never show up as pending again")

	firstPosted, err := repo.PostedAt(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, firstPosted)

	// Second call: allowed, appends another log row, but posted_at of the
	// first call wins for classification.
	_, err = db.Exec(`UPDATE events SET posted_at_utc = ? WHERE id = ?`,
		firstPosted.Add(-time.Hour).UTC().Format(time.RFC3339), event.ID)
	require.NoError(t, err)
	earlier, err := repo.PostedAt(ctx, event.ID)
	require.NoError(t, err)

	require.NoError(t, repo.MarkPosted(ctx, event.ID, "fb-456"))

	posted, err := repo.PostedAt(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, posted)
	assert.True(t, posted.Equal(*earlier), "existing posted_at is never overwritten")

	var logEntries int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM posts WHERE event_id = ?`, event.ID).Scan(&logEntries))
	assert.Equal(t, 2, logEntries, "each call appends to the post log")

	t.Run("unknown identity", func(t *testing.T) {
		err := repo.MarkPosted(ctx, "missing", "ref")
		require.Error(t, err)
		assert.ErrorIs(t, err, entity.ErrEventNotFound)
	})
}

func TestPostedAtUnposted(t *testing.T) {
	db := openTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	event := sampleEvent("fresh", time.Now().Add(24*time.Hour))
	require.NoError(t, repo.Upsert(ctx, &event))

	posted, err := repo.PostedAt(ctx, event.ID)
	require.NoError(t, err)
	assert.Nil(t, posted)
}
