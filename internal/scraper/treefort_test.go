package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treefortSampleHTML = `
<div class="mh-show-wrapper">
	<div class="mh-show-body group">
		<div class="mh-show-col mh-show-date">
			<div id="dat">10/8/2025</div>
			<div id="doo">DOORS: 7pm</div>
			<div id="age">All Ages</div>
		</div>
		<div class="mh-show-col mh-show-artist" data-link="/shows/pup">
			<a href="/shows/pup">
				<div class="mh-h1">PUP</div>
				<div class="mh-s1">Chase Petra</div>
			</a>
		</div>
		<div class="mh-show-col mh-show-ticket">
			<div class="mh-sp-tickets">
				<a class="fun-button" href="https://link.dice.fm/Ia9b62fa0126">Tickets</a>
			</div>
			<div class="mh-sp-rsvp">
				<a class="fun-button rsvp" href="https://www.facebook.com/events/1035975867866154">RSVP</a>
			</div>
		</div>
	</div>
</div>
<div class="mh-show-wrapper">
	<div class="mh-show-body group">
		<div class="mh-show-col mh-show-date">
			<div id="dat">10/17/2025</div>
			<div id="doo">DOORS: 8pm</div>
			<div id="age">18+</div>
		</div>
		<div class="mh-show-col mh-show-artist" data-link="/shows/desert-dwellers">
			<a href="/shows/desert-dwellers">
				<div class="mh-h1">Desert Dwellers</div>
				<div class="mh-s1">David Starfire<br>Deeveaux</div>
			</a>
		</div>
		<div class="mh-show-col mh-show-ticket">
			<div class="mh-sp-tickets">
				<a class="fun-button" href="https://link.dice.fm/ebc9fcc10bf9">Tickets</a>
			</div>
		</div>
	</div>
</div>
`

func TestTreefortParseDocument(t *testing.T) {
	boise, err := time.LoadLocation("America/Boise")
	require.NoError(t, err)
	scraper := NewTreefort(NewFetcher(time.Second, "test"), boise)

	events, err := scraper.parseDocument(treefortSampleHTML)
	require.NoError(t, err)
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, []string{"PUP", "Chase Petra"}, first.Artists)
	assert.Equal(t, "https://link.dice.fm/Ia9b62fa0126", first.TicketURL)
	assert.Equal(t, "https://treefortmusichall.com/shows/pup", first.EventURL)
	require.NotNil(t, first.IsAllAges)
	assert.True(t, *first.IsAllAges)

	startLocal, err := time.Parse(time.RFC3339, first.StartLocal)
	require.NoError(t, err)
	assert.Equal(t, 19, startLocal.Hour(), "start follows the doors time")
	assert.NotEmpty(t, first.DoorsLocal)

	second := events[1]
	assert.Equal(t, []string{"Desert Dwellers", "David Starfire", "Deeveaux"}, second.Artists)
	require.NotNil(t, second.IsAllAges)
	assert.False(t, *second.IsAllAges)

	secondStart, err := time.Parse(time.RFC3339, second.StartLocal)
	require.NoError(t, err)
	assert.Equal(t, 20, secondStart.Hour())
}

func TestTreefortParseDocumentEmptyMarkup(t *testing.T) {
	boise, err := time.LoadLocation("America/Boise")
	require.NoError(t, err)
	scraper := NewTreefort(NewFetcher(time.Second, "test"), boise)

	events, err := scraper.parseDocument("<html><body><p>maintenance</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, events, "missing container extracts nothing; Fetch turns that into an error")
}
