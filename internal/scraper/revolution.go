package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"showscrape/internal/entity"
	"showscrape/internal/normalize"
)

const (
	revolutionURL  = "https://cttouringid.com/tm-venue/revolution-concert-house-and-event-center/"
	revolutionID   = "revolution"
	revolutionName = "Revolution Concert House"
)

// Revolution scrapes the CT Touring listing page. The page aggregates
// several venues, so cards whose venue label is not Revolution are
// skipped silently and an empty result can be legitimate.
type Revolution struct {
	fetcher *Fetcher
	loc     *time.Location
}

func NewRevolution(fetcher *Fetcher, loc *time.Location) *Revolution {
	return &Revolution{fetcher: fetcher, loc: loc}
}

func (s *Revolution) VenueID() string   { return revolutionID }
func (s *Revolution) VenueName() string { return revolutionName }
func (s *Revolution) VenueURL() string  { return revolutionURL }

func (s *Revolution) Fetch(ctx context.Context) ([]entity.Event, error) {
	html, err := s.fetcher.FetchHTML(ctx, revolutionURL)
	if err != nil {
		return nil, err
	}
	return s.parseDocument(html)
}

func (s *Revolution) parseDocument(html string) ([]entity.Event, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	today := time.Now()
	var events []entity.Event

	doc.Find("div.tw-section").Each(func(_ int, card *goquery.Selection) {
		venueLabel := firstText(card, ".tw-venue-name")
		if venueLabel == "" || !strings.Contains(strings.ToLower(venueLabel), "revolution concert house") {
			return
		}

		artistsText := firstText(card, ".tw-name a")
		artists := normalize.SplitArtists(artistsText)
		if len(artists) == 0 {
			return
		}

		dateText := firstText(card, ".tw-event-date")
		if dateText == "" {
			return
		}
		normalizedDate := stripShortWeekday(dateText)

		showBlock := firstText(card, "span.tw-event-time")
		showTime, ok := normalize.FindFirstTime(showBlock)
		if !ok {
			showTime, _ = normalize.ParseNamedTime(showBlock, "show")
		}

		ticketURL := normalize.AbsoluteURL(revolutionURL, firstAttr(card, "a.tw-buy-tix-btn", "href"))
		eventURL := normalize.AbsoluteURL(revolutionURL, firstAttr(card, ".tw-name a", "href"))

		startLocal, err := determineStart(normalizedDate, showTime, ticketURL, s.loc, today)
		if err != nil {
			return
		}

		doorText := firstText(card, "span.tw-event-door-time")
		doorTime, ok := normalize.FindFirstTime(doorText)
		if !ok {
			doorTime, _ = normalize.ParseNamedTime(doorText, "door")
		}
		doorsLocal := ""
		if doorTime != "" {
			if doors, err := normalize.CombineWithDate(startLocal, doorTime, s.loc); err == nil {
				doorsLocal = doors.Format(time.RFC3339)
			}
		}

		extra := map[string]any{
			"date_text":       dateText,
			"normalized_date": normalizedDate,
		}
		if showBlock != "" {
			extra["show_block"] = showBlock
		}
		if doorTime != "" {
			extra["doors_text"] = doorTime
		}

		events = append(events, normalize.BuildEvent(normalize.EventParams{
			VenueID:    revolutionID,
			VenueName:  revolutionName,
			VenueURL:   revolutionURL,
			StartLocal: startLocal,
			Artists:    artists,
			TicketURL:  ticketURL,
			EventURL:   eventURL,
			DoorsLocal: doorsLocal,
			Extra:      extra,
		}))
	})

	return events, nil
}

// stripShortWeekday turns "Tue Oct 7, 2025" into "Oct 7, 2025".
func stripShortWeekday(input string) string {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) >= 3 && len(parts[0]) == 3 {
		return strings.Join(parts[1:], " ")
	}
	return strings.TrimSpace(input)
}
