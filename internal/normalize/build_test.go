package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showscrape/internal/entity"
)

func TestBuildEventIdentityDeterminism(t *testing.T) {
	boise, err := time.LoadLocation("America/Boise")
	require.NoError(t, err)
	start := time.Date(2025, time.October, 8, 19, 0, 0, 0, boise)

	first := BuildEvent(EventParams{
		VenueID:    "treefort",
		VenueName:  "Treefort Music Hall",
		VenueURL:   "https://treefortmusichall.com/shows/",
		StartLocal: start,
		Artists:    []string{"PUP", "Chase Petra"},
		TicketURL:  "https://tickets.example.com/pup",
	})

	// Same venue, start and headliner but every other field different.
	second := BuildEvent(EventParams{
		VenueID:    "treefort",
		VenueName:  "A renamed venue",
		VenueURL:   "https://elsewhere.example.com/",
		StartLocal: start,
		Artists:    []string{"PUP"},
		EventURL:   "https://treefortmusichall.com/shows/pup",
		Extra:      map[string]any{"raw_date": "10/8/2025"},
	})

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, first.ID, 64)

	// Different headliner changes the identity.
	third := BuildEvent(EventParams{
		VenueID:    "treefort",
		StartLocal: start,
		Artists:    []string{"Chase Petra"},
	})
	assert.NotEqual(t, first.ID, third.ID)
}

func TestBuildEventDefaults(t *testing.T) {
	start := time.Date(2025, time.October, 8, 19, 0, 0, 0, time.UTC)

	event := BuildEvent(EventParams{
		VenueID:    "revolution",
		VenueName:  "Revolution Concert House",
		StartLocal: start,
		Artists:    []string{"Headliner"},
		TicketURL:  "https://tix.example.com/1",
	})

	assert.Equal(t, "https://tix.example.com/1", event.EventURL, "event url defaults to ticket url")
	assert.Equal(t, "revolution", event.Source)
	assert.NotNil(t, event.Extra)
	assert.NotNil(t, event.Tags)
	assert.NotEmpty(t, event.ScrapedAtUTC)

	parsed, err := time.Parse(time.RFC3339, event.StartUTC)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(start))
}

func TestFailIfEmpty(t *testing.T) {
	events := []entity.Event{{ID: "abc"}}

	kept, err := FailIfEmpty("treefort", events)
	require.NoError(t, err)
	assert.Equal(t, events, kept)

	_, err = FailIfEmpty("treefort", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrNoEventsScraped)
	assert.Contains(t, err.Error(), "treefort")
}
