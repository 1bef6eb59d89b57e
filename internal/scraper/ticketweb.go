package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"showscrape/internal/normalize"
)

// Both Revolution and the Knitting Factory run on ticketweb-style pages:
// same card classes, venue-name labels on shared listings, and ticket URLs
// that often carry the event date as mm-dd-yyyy.

var dateInURLRe = regexp.MustCompile(`(\d{2})-(\d{2})-(\d{4})`)

func extractDateFromURL(url string) (month, day, year int, ok bool) {
	caps := dateInURLRe.FindStringSubmatch(url)
	if caps == nil {
		return 0, 0, 0, false
	}
	month, _ = strconv.Atoi(caps[1])
	day, _ = strconv.Atoi(caps[2])
	year, _ = strconv.Atoi(caps[3])
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 2000 {
		return 0, 0, 0, false
	}
	return month, day, year, true
}

// determineStart resolves a card's start instant. Year-less date labels
// ("October 5") borrow the year from the ticket URL when one is present;
// failing that the raw label goes through the normal date formats.
func determineStart(dateText, timeText, ticketURL string, loc *time.Location, today time.Time) (time.Time, error) {
	timeStr := "7:00 PM"
	if timeText != "" {
		if found, ok := normalize.FindFirstTime(timeText); ok {
			timeStr = found
		} else {
			timeStr = timeText
		}
	}

	if month, day, year, ok := extractDateFromURL(ticketURL); ok {
		withYear := fmt.Sprintf("%s, %d", strings.TrimSpace(dateText), year)
		if start, err := normalize.ParseDateTime(withYear, timeStr, loc, today); err == nil {
			return start, nil
		}
		numeric := fmt.Sprintf("%d/%d/%d", month, day, year)
		if start, err := normalize.ParseDateTime(numeric, timeStr, loc, today); err == nil {
			return start, nil
		}
	}

	return normalize.ParseDateTime(dateText, timeStr, loc, today)
}
