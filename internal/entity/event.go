package entity

import (
	"time"
)

// Event is the canonical record produced by venue scrapers. ID is a
// content hash of (venue_id, start_utc, headliner), so re-scraping the
// same listing always yields the same identity.
type Event struct {
	ID            string         `json:"id"`
	Source        string         `json:"source"`
	VenueID       string         `json:"venue_id"`
	VenueName     string         `json:"venue_name,omitempty"`
	VenueURL      string         `json:"venue_url,omitempty"`
	StartLocal    string         `json:"start_local,omitempty"`
	StartUTC      string         `json:"start_utc"`
	DoorsLocal    string         `json:"doors_local,omitempty"`
	Artists       []string       `json:"artists"`
	IsAllAges     *bool          `json:"is_all_ages,omitempty"`
	TicketURL     string         `json:"ticket_url,omitempty"`
	EventURL      string         `json:"event_url,omitempty"`
	PriceMinCents *int64         `json:"price_min_cents,omitempty"`
	PriceMaxCents *int64         `json:"price_max_cents,omitempty"`
	Currency      string         `json:"currency,omitempty"`
	Tags          []string       `json:"tags"`
	ScrapedAtUTC  string         `json:"scraped_at_utc"`
	Extra         map[string]any `json:"extra"`
}

// Headliner returns the first artist in the lineup.
func (e *Event) Headliner() string {
	if len(e.Artists) == 0 {
		return ""
	}
	return e.Artists[0]
}

// Title is the display name used when surfacing an event.
func (e *Event) Title() string {
	if h := e.Headliner(); h != "" {
		return h
	}
	return "Untitled Event"
}

// StartTime parses the canonical UTC start instant.
func (e *Event) StartTime() (time.Time, error) {
	return time.Parse(time.RFC3339, e.StartUTC)
}

// ArtistProfile is the external taxonomy record attached during enrichment.
type ArtistProfile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Disambiguation string   `json:"disambiguation,omitempty"`
	Genres         []string `json:"genres"`
}

// VenueInfo describes a registered scraper.
type VenueInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Bucket names for the pending-events projection, keyed by days until start.
const (
	BucketDayOf      = "DAY_OF"
	BucketLT1Week    = "LT_1W"
	BucketLT2Weeks   = "LT_2W"
	BucketLT1Month   = "LT_1M"
	BucketLT2Months  = "LT_2M"
	BucketGTE2Months = "GTE_2M"
)

// BucketKeys lists every bucket in display order.
var BucketKeys = []string{
	BucketDayOf,
	BucketLT1Week,
	BucketLT2Weeks,
	BucketLT1Month,
	BucketLT2Months,
	BucketGTE2Months,
}

// BucketFor maps a days-until-start value onto a bucket name.
func BucketFor(daysUntil int64) string {
	switch {
	case daysUntil <= 0:
		return BucketDayOf
	case daysUntil < 7:
		return BucketLT1Week
	case daysUntil < 14:
		return BucketLT2Weeks
	case daysUntil < 30:
		return BucketLT1Month
	case daysUntil < 60:
		return BucketLT2Months
	default:
		return BucketGTE2Months
	}
}

// BucketItem is one pending event inside a bucket.
type BucketItem struct {
	DaysUntil int64 `json:"days_until"`
	Event     Event `json:"event"`
}
