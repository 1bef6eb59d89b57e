package service

import (
	"context"
	"time"

	"showscrape/internal/entity"
)

// IngestService runs venue scrapers and persists what they find.
type IngestService interface {
	ListVenues() []entity.VenueInfo
	ScrapeAll(ctx context.Context) (int, error)
	ScrapeVenue(ctx context.Context, venueID string) (int, error)
}

// EventService reads stored events back out and drives the posted lifecycle.
type EventService interface {
	GetEvent(ctx context.Context, id string) (entity.Event, error)
	PendingBuckets(ctx context.Context, now time.Time) (map[string][]entity.BucketItem, error)
	MarkPosted(ctx context.Context, id, externalRef string) error
}

// EnrichService augments an event with artist metadata. It never fails the
// caller: on any lookup problem the event comes back unchanged.
type EnrichService interface {
	Enrich(ctx context.Context, event entity.Event) entity.Event
}
