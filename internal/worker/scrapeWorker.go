package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"showscrape/internal/service"
)

// ScrapeWorker re-runs every venue scraper on a fixed interval so the store
// keeps tracking lineup and time changes without anyone hitting the API.
type ScrapeWorker struct {
	ingestService service.IngestService
	interval      time.Duration
}

func NewScrapeWorker(ingestService service.IngestService, interval time.Duration) *ScrapeWorker {
	return &ScrapeWorker{
		ingestService: ingestService,
		interval:      interval,
	}
}

func (w *ScrapeWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Infof("scrape worker started, interval %s", w.interval)
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logrus.Info("scrape worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *ScrapeWorker) runOnce(ctx context.Context) {
	stored, err := w.ingestService.ScrapeAll(ctx)
	if err != nil {
		logrus.Errorf("scheduled scrape failed: %v", err)
		return
	}
	logrus.Infof("scheduled scrape stored %d events", stored)
}
