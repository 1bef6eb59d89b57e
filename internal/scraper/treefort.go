package scraper

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"showscrape/internal/entity"
	"showscrape/internal/normalize"
)

const (
	treefortURL  = "https://treefortmusichall.com/shows/"
	treefortID   = "treefort"
	treefortName = "Treefort Music Hall"
)

var brTagRe = regexp.MustCompile(`(?i)<br\s*/?>`)

// Treefort scrapes the Treefort Music Hall shows page. The page lists
// only this venue, so extracting zero events means the markup changed.
type Treefort struct {
	fetcher *Fetcher
	loc     *time.Location
}

func NewTreefort(fetcher *Fetcher, loc *time.Location) *Treefort {
	return &Treefort{fetcher: fetcher, loc: loc}
}

func (s *Treefort) VenueID() string   { return treefortID }
func (s *Treefort) VenueName() string { return treefortName }
func (s *Treefort) VenueURL() string  { return treefortURL }

func (s *Treefort) Fetch(ctx context.Context) ([]entity.Event, error) {
	html, err := s.fetcher.FetchHTML(ctx, treefortURL)
	if err != nil {
		return nil, err
	}
	events, err := s.parseDocument(html)
	if err != nil {
		return nil, err
	}
	return normalize.FailIfEmpty(treefortID, events)
}

func (s *Treefort) parseDocument(html string) ([]entity.Event, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	today := time.Now()
	var events []entity.Event

	doc.Find("div.mh-show-wrapper").Each(func(_ int, card *goquery.Selection) {
		dateText := firstText(card, "div.mh-show-col.mh-show-date #dat")
		if dateText == "" {
			return
		}

		doorText := firstText(card, "div.mh-show-col.mh-show-date #doo")
		doorTime, ok := normalize.FindFirstTime(doorText)
		if !ok {
			doorTime, _ = normalize.ParseNamedTime(doorText, "doors")
		}

		ticketURL := normalize.AbsoluteURL(treefortURL, firstAttr(card, "div.mh-sp-tickets a", "href"))
		rsvpURL := normalize.AbsoluteURL(treefortURL, firstAttr(card, "div.mh-sp-rsvp a", "href"))
		eventURL := normalize.AbsoluteURL(treefortURL, firstAttr(card, "div.mh-show-col.mh-show-artist a", "href"))

		startTime := doorTime
		if startTime == "" {
			startTime = "7:00 PM"
		}
		startLocal, err := normalize.ParseDateTime(dateText, startTime, s.loc, today)
		if err != nil {
			return
		}

		primary := firstText(card, "div.mh-show-col.mh-show-artist .mh-h1")
		artists := normalize.SplitArtists(primary)
		if len(artists) == 0 && primary != "" {
			artists = append(artists, primary)
		}

		// Openers are stacked with <br> inside .mh-s1.
		if secondary := card.Find("div.mh-show-col.mh-show-artist .mh-s1").First(); secondary.Length() > 0 {
			if inner, err := secondary.Html(); err == nil {
				openers := brTagRe.ReplaceAllString(inner, ",")
				artists = append(artists, normalize.SplitArtists(openers)...)
			}
		}
		if len(artists) == 0 {
			return
		}

		ageText := firstText(card, "div.mh-show-col.mh-show-date #age")

		extra := map[string]any{"raw_date": dateText}
		if doorTime != "" {
			extra["doors_text"] = doorTime
		}
		if ageText != "" {
			extra["age_raw"] = ageText
		}
		if rsvpURL != "" {
			extra["rsvp_url"] = rsvpURL
		}

		doorsLocal := ""
		if doorTime != "" {
			if doors, err := normalize.CombineWithDate(startLocal, doorTime, s.loc); err == nil {
				doorsLocal = doors.Format(time.RFC3339)
			}
		}

		events = append(events, normalize.BuildEvent(normalize.EventParams{
			VenueID:    treefortID,
			VenueName:  treefortName,
			VenueURL:   treefortURL,
			StartLocal: startLocal,
			Artists:    artists,
			TicketURL:  ticketURL,
			EventURL:   eventURL,
			IsAllAges:  normalize.ParseAgeFlag(ageText),
			DoorsLocal: doorsLocal,
			Extra:      extra,
		}))
	})

	return events, nil
}
