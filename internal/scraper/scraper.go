// Package scraper fetches venue listing pages and turns them into
// canonical events. One scraper per venue; all of them share the fetch
// helper and the normalize package.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"showscrape/internal/entity"
)

// VenueScraper is the capability contract every venue adapter implements.
type VenueScraper interface {
	VenueID() string
	VenueName() string
	VenueURL() string
	Fetch(ctx context.Context) ([]entity.Event, error)
}

// Fetcher is the shared HTTP client used by all scrapers.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if userAgent == "" {
		userAgent = "showscrape/1.0"
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// FetchHTML retrieves the raw markup at url. Non-success statuses are
// structural errors, not payloads.
func (f *Fetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed for %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w %d for %s", entity.ErrUnexpectedStatus, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body for %s: %w", url, err)
	}
	return string(body), nil
}

// Registry holds the known venue scrapers and runs them.
type Registry struct {
	scrapers []VenueScraper
}

// NewRegistry wires up the active venue scrapers. loc is the venues'
// local timezone.
func NewRegistry(fetcher *Fetcher, loc *time.Location) *Registry {
	return &Registry{
		scrapers: []VenueScraper{
			NewTreefort(fetcher, loc),
			NewRevolution(fetcher, loc),
			NewKnittingFactory(fetcher, loc),
		},
	}
}

// NewRegistryWith builds a registry over an explicit scraper set. Used by
// tests and by callers that plug their own adapters.
func NewRegistryWith(scrapers ...VenueScraper) *Registry {
	return &Registry{scrapers: scrapers}
}

// List describes every registered venue.
func (r *Registry) List() []entity.VenueInfo {
	infos := make([]entity.VenueInfo, 0, len(r.scrapers))
	for _, s := range r.scrapers {
		infos = append(infos, entity.VenueInfo{
			ID:   s.VenueID(),
			Name: s.VenueName(),
			URL:  s.VenueURL(),
		})
	}
	return infos
}

// RunOne runs a single scraper by venue id.
func (r *Registry) RunOne(ctx context.Context, venueID string) ([]entity.Event, error) {
	for _, s := range r.scrapers {
		if s.VenueID() == venueID {
			return s.Fetch(ctx)
		}
	}
	return nil, fmt.Errorf("%w: %s", entity.ErrUnknownVenue, venueID)
}

type venueFailure struct {
	venueID string
	err     error
}

// RunAll runs every scraper concurrently and unions their events. A
// failing scraper never blocks or poisons the others; the run only fails
// as a whole when every scraper failed, and then the error names each
// venue's failure.
func (r *Registry) RunAll(ctx context.Context) ([]entity.Event, error) {
	var (
		mu       sync.Mutex
		events   []entity.Event
		failures []venueFailure
		wg       sync.WaitGroup
	)

	for _, s := range r.scrapers {
		wg.Add(1)
		go func(s VenueScraper) {
			defer wg.Done()
			scraped, err := s.Fetch(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, venueFailure{venueID: s.VenueID(), err: err})
				return
			}
			events = append(events, scraped...)
		}(s)
	}
	wg.Wait()

	for _, f := range failures {
		logrus.Errorf("scraper %s failed: %v", f.venueID, f.err)
	}

	if len(failures) > 0 && len(failures) == len(r.scrapers) {
		parts := make([]string, 0, len(failures))
		for _, f := range failures {
			parts = append(parts, fmt.Sprintf("%s: %v", f.venueID, f.err))
		}
		return nil, fmt.Errorf("%w: %s", entity.ErrAllVenuesFailed, strings.Join(parts, "; "))
	}

	return events, nil
}
