package repository

import (
	"context"
	"time"

	"showscrape/internal/entity"
)

type EventRepository interface {
	// Upsert inserts the event or, when the identity already exists,
	// replaces its payload and advances last_seen while keeping the
	// original first_seen. Re-scraping the same identity never errors.
	Upsert(ctx context.Context, event *entity.Event) error
	UpsertMany(ctx context.Context, events []entity.Event) (int, error)

	// Query operations
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	ListPending(ctx context.Context) ([]*entity.Event, error)

	// Posting lifecycle
	MarkPosted(ctx context.Context, id, externalRef string) error
	PostedAt(ctx context.Context, id string) (*time.Time, error)
}

type ProfileCacheRepository interface {
	// Get returns (profile, found, err). found=true with a nil profile is
	// a cached negative result and must not trigger a re-fetch.
	Get(ctx context.Context, artistKey string) (*entity.ArtistProfile, bool, error)
	Put(ctx context.Context, artistKey string, profile *entity.ArtistProfile) error
}
