package service

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	repository "showscrape/internal/database/sqlite"
	"showscrape/internal/entity"
)

type eventService struct {
	eventRepo repository.EventRepository
	enricher  EnrichService
}

func NewEventService(eventRepo repository.EventRepository, enricher EnrichService) EventService {
	return &eventService{eventRepo: eventRepo, enricher: enricher}
}

func (s *eventService) GetEvent(ctx context.Context, id string) (entity.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return entity.Event{}, err
	}
	return s.enricher.Enrich(ctx, *event), nil
}

// PendingBuckets groups every unposted future event by how far out it is.
// Events already in the past are dropped; events whose stored start time no
// longer parses are logged and skipped rather than failing the listing.
func (s *eventService) PendingBuckets(ctx context.Context, now time.Time) (map[string][]entity.BucketItem, error) {
	pending, err := s.eventRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string][]entity.BucketItem, len(entity.BucketKeys))
	for _, key := range entity.BucketKeys {
		buckets[key] = []entity.BucketItem{}
	}

	for _, event := range pending {
		start, err := event.StartTime()
		if err != nil {
			logrus.Errorf("pending buckets: event %s has unreadable start %q: %v", event.ID, event.StartUTC, err)
			continue
		}
		until := start.Sub(now)
		if until < 0 {
			continue
		}
		days := int64(until.Seconds()) / 86400
		enriched := s.enricher.Enrich(ctx, *event)
		key := entity.BucketFor(days)
		buckets[key] = append(buckets[key], entity.BucketItem{DaysUntil: days, Event: enriched})
	}

	for _, key := range entity.BucketKeys {
		items := buckets[key]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Event.StartUTC < items[j].Event.StartUTC
		})
	}
	return buckets, nil
}

func (s *eventService) MarkPosted(ctx context.Context, id, externalRef string) error {
	return s.eventRepo.MarkPosted(ctx, id, externalRef)
}
