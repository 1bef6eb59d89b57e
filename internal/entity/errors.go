package entity

import "errors"

var (
	// Event store errors
	ErrEventNotFound  = errors.New("event not found")
	ErrCorruptPayload = errors.New("stored event payload is corrupt")

	// Scraper errors
	ErrUnknownVenue     = errors.New("unknown venue id")
	ErrNoEventsScraped  = errors.New("no events scraped")
	ErrAllVenuesFailed  = errors.New("all venue scrapers failed")
	ErrUnexpectedStatus = errors.New("unexpected http status")

	// Normalization errors
	ErrUnparsableDate = errors.New("unparsable date")
	ErrUnparsableTime = errors.New("unparsable time")
	ErrNonexistentTime = errors.New("local time does not exist")
)
