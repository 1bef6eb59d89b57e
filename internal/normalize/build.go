package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"showscrape/internal/entity"
)

// EventParams carries the adapter-supplied fields for BuildEvent.
type EventParams struct {
	VenueID    string
	VenueName  string
	VenueURL   string
	StartLocal time.Time
	Artists    []string
	TicketURL  string
	EventURL   string
	IsAllAges  *bool
	DoorsLocal string
	Extra      map[string]any
}

// BuildEvent assembles a canonical event. The identity hash is SHA-256
// over venue_id|start_utc|headliner, so identical (venue, time, headliner)
// tuples collapse to the same record no matter which run produced them.
func BuildEvent(p EventParams) entity.Event {
	startUTC := p.StartLocal.UTC().Format(time.RFC3339)

	headliner := "unknown"
	if len(p.Artists) > 0 {
		headliner = p.Artists[0]
	}

	hasher := sha256.New()
	hasher.Write([]byte(p.VenueID))
	hasher.Write([]byte("|"))
	hasher.Write([]byte(startUTC))
	hasher.Write([]byte("|"))
	hasher.Write([]byte(headliner))
	id := hex.EncodeToString(hasher.Sum(nil))

	eventURL := p.EventURL
	if eventURL == "" {
		eventURL = p.TicketURL
	}

	extra := p.Extra
	if extra == nil {
		extra = map[string]any{}
	}

	return entity.Event{
		ID:           id,
		Source:       p.VenueID,
		VenueID:      p.VenueID,
		VenueName:    p.VenueName,
		VenueURL:     p.VenueURL,
		StartLocal:   p.StartLocal.Format(time.RFC3339),
		StartUTC:     startUTC,
		DoorsLocal:   p.DoorsLocal,
		Artists:      p.Artists,
		IsAllAges:    p.IsAllAges,
		TicketURL:    p.TicketURL,
		EventURL:     eventURL,
		Tags:         []string{},
		ScrapedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Extra:        extra,
	}
}

// FailIfEmpty guards a scraper that found its container markup but
// extracted nothing usable: that almost always means the site's markup
// changed, which must look different from a legitimately quiet calendar.
func FailIfEmpty(venueID string, events []entity.Event) ([]entity.Event, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("%w for venue %s", entity.ErrNoEventsScraped, venueID)
	}
	return events, nil
}
