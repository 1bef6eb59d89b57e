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
	knittingURL  = "https://bo.knittingfactory.com/"
	knittingID   = "knitboise"
	knittingName = "Knitting Factory Boise"
)

// KnittingFactory scrapes the Boise Knitting Factory calendar, which also
// lists shows the promoter books at other rooms; those are skipped by the
// venue label check.
type KnittingFactory struct {
	fetcher *Fetcher
	loc     *time.Location
}

func NewKnittingFactory(fetcher *Fetcher, loc *time.Location) *KnittingFactory {
	return &KnittingFactory{fetcher: fetcher, loc: loc}
}

func (s *KnittingFactory) VenueID() string   { return knittingID }
func (s *KnittingFactory) VenueName() string { return knittingName }
func (s *KnittingFactory) VenueURL() string  { return knittingURL }

func (s *KnittingFactory) Fetch(ctx context.Context) ([]entity.Event, error) {
	html, err := s.fetcher.FetchHTML(ctx, knittingURL)
	if err != nil {
		return nil, err
	}
	return s.parseDocument(html)
}

func (s *KnittingFactory) parseDocument(html string) ([]entity.Event, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	today := time.Now()
	var events []entity.Event

	doc.Find("div.tw-section").Each(func(_ int, card *goquery.Selection) {
		venueLabel := firstText(card, ".tw-venue-name")
		if venueLabel == "" || !strings.Contains(strings.ToLower(venueLabel), "knitting factory") {
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

		timeBlock := firstText(card, ".tw-event-time")
		showTime, ok := normalize.ParseNamedTime(timeBlock, "show")
		if !ok {
			showTime, _ = normalize.FindFirstTime(timeBlock)
		}

		ticketURL := normalize.AbsoluteURL(knittingURL, firstAttr(card, "a.tw-buy-tix-btn", "href"))
		eventURL := normalize.AbsoluteURL(knittingURL, firstAttr(card, "a.tw-more-info-btn", "href"))

		startLocal, err := determineStart(dateText, showTime, ticketURL, s.loc, today)
		if err != nil {
			return
		}

		doorsLocal := ""
		if doorTime, ok := normalize.ParseNamedTime(timeBlock, "door"); ok {
			if doors, err := normalize.CombineWithDate(startLocal, doorTime, s.loc); err == nil {
				doorsLocal = doors.Format(time.RFC3339)
			}
		}

		extra := map[string]any{"date_text": dateText}
		if timeBlock != "" {
			extra["time_block"] = timeBlock
		}
		if doorsLocal != "" {
			extra["doors_iso"] = doorsLocal
		}

		events = append(events, normalize.BuildEvent(normalize.EventParams{
			VenueID:    knittingID,
			VenueName:  knittingName,
			VenueURL:   knittingURL,
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
