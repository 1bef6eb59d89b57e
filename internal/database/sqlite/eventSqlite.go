package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"showscrape/internal/entity"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Upsert(ctx context.Context, event *entity.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event %s: %w", event.ID, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO events (id, payload, first_seen_utc, last_seen_utc, posted_at_utc)
		VALUES (?, ?, ?, ?, NULL)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			last_seen_utc = excluded.last_seen_utc
	`

	_, err = r.db.ExecContext(ctx, query, event.ID, string(payload), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert event %s: %w", event.ID, err)
	}
	return nil
}

func (r *eventRepository) UpsertMany(ctx context.Context, events []entity.Event) (int, error) {
	count := 0
	for i := range events {
		if err := r.Upsert(ctx, &events[i]); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM events WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entity.ErrEventNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var event entity.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		// A payload that no longer deserializes means schema drift, which
		// would corrupt dedup and posting decisions if defaulted away.
		return nil, fmt.Errorf("%w: event %s: %v", entity.ErrCorruptPayload, id, err)
	}
	return &event, nil
}

func (r *eventRepository) ListPending(ctx context.Context) ([]*entity.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, payload FROM events WHERE posted_at_utc IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		var event entity.Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			return nil, fmt.Errorf("%w: event %s: %v", entity.ErrCorruptPayload, id, err)
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}

// MarkPosted is one-way: only the first call sets posted_at_utc, while
// every call appends a posts row. The log may therefore hold several
// entries per event; classification only ever looks at posted_at_utc.
func (r *eventRepository) MarkPosted(ctx context.Context, id, externalRef string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET posted_at_utc = COALESCE(posted_at_utc, ?), last_seen_utc = ?
		WHERE id = ?
	`, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark event %s posted: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", entity.ErrEventNotFound, id)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO posts (post_id, event_id, external_ref, created_at_utc, status)
		VALUES (?, ?, ?, ?, 'posted')
	`, uuid.NewString(), id, externalRef, now)
	if err != nil {
		return fmt.Errorf("failed to record post for event %s: %w", id, err)
	}
	return nil
}

func (r *eventRepository) PostedAt(ctx context.Context, id string) (*time.Time, error) {
	var posted sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT posted_at_utc FROM events WHERE id = ?`, id).Scan(&posted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entity.ErrEventNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if !posted.Valid {
		return nil, nil
	}
	at, err := time.Parse(time.RFC3339, posted.String)
	if err != nil {
		return nil, fmt.Errorf("%w: posted_at for %s: %v", entity.ErrCorruptPayload, id, err)
	}
	return &at, nil
}
