package service

import (
	"context"

	"github.com/sirupsen/logrus"

	repository "showscrape/internal/database/sqlite"
	"showscrape/internal/entity"
	"showscrape/internal/scraper"
)

type ingestService struct {
	registry  *scraper.Registry
	eventRepo repository.EventRepository
}

func NewIngestService(registry *scraper.Registry, eventRepo repository.EventRepository) IngestService {
	return &ingestService{registry: registry, eventRepo: eventRepo}
}

func (s *ingestService) ListVenues() []entity.VenueInfo {
	return s.registry.List()
}

func (s *ingestService) ScrapeAll(ctx context.Context) (int, error) {
	events, err := s.registry.RunAll(ctx)
	if err != nil {
		return 0, err
	}
	stored, err := s.eventRepo.UpsertMany(ctx, events)
	if err != nil {
		return 0, err
	}
	logrus.Infof("ingest: scraped %d events, stored %d", len(events), stored)
	return stored, nil
}

func (s *ingestService) ScrapeVenue(ctx context.Context, venueID string) (int, error) {
	events, err := s.registry.RunOne(ctx, venueID)
	if err != nil {
		return 0, err
	}
	stored, err := s.eventRepo.UpsertMany(ctx, events)
	if err != nil {
		return 0, err
	}
	logrus.Infof("ingest: venue %s scraped %d events, stored %d", venueID, len(events), stored)
	return stored, nil
}
