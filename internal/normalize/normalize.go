// Package normalize holds the pure text/date/url helpers shared by every
// venue scraper. Nothing in here does I/O; "today" and the timezone are
// passed in so behavior is reproducible in tests.
package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"showscrape/internal/entity"
)

var timeRe = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)

// artistWordSepRe matches the lineup separator words. It must run before
// the single-character separators, otherwise "w/" decays into a stray "w".
var artistWordSepRe = regexp.MustCompile(`(?i)\s+(?:with|featuring|feat\.|ft\.)\s+|\s+w/\s*`)

// CleanText collapses internal whitespace runs to single spaces and trims
// the ends. Idempotent.
func CleanText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// SplitArtists splits a free-text lineup into individual artist names.
// Order is preserved; the first surviving token is the headliner.
func SplitArtists(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	normalized := artistWordSepRe.ReplaceAllString(text, ",")
	for _, sep := range []string{"/", "&", "+"} {
		normalized = strings.ReplaceAll(normalized, sep, ",")
	}

	var artists []string
	for _, token := range strings.Split(normalized, ",") {
		if cleaned := CleanText(token); cleaned != "" {
			artists = append(artists, cleaned)
		}
	}
	return artists
}

// FindFirstTime locates the first "H(:MM)? am/pm" pattern in text and
// returns it normalized as "HH:MM AM/PM".
func FindFirstTime(text string) (string, bool) {
	caps := timeRe.FindStringSubmatch(CleanText(text))
	if caps == nil {
		return "", false
	}

	hour, _ := strconv.Atoi(caps[1])
	minute := 0
	if caps[2] != "" {
		minute, _ = strconv.Atoi(caps[2])
	}
	return fmt.Sprintf("%02d:%02d %s", hour, minute, strings.ToUpper(caps[3])), true
}

// ParseNamedTime scans text split on '|', '/' and ';' for a segment
// containing the given keyword (case-insensitive) and returns the first
// time pattern found in that segment.
func ParseNamedTime(text, keyword string) (string, bool) {
	lowered := strings.ToLower(keyword)
	segments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '|' || r == '/' || r == ';'
	})

	for _, segment := range segments {
		cleaned := CleanText(segment)
		if cleaned == "" {
			continue
		}
		if strings.Contains(strings.ToLower(cleaned), lowered) {
			if value, ok := FindFirstTime(cleaned); ok {
				return value, true
			}
		}
	}
	return "", false
}

// ParseAgeFlag interprets age-restriction wording. nil means the page did
// not say either way.
func ParseAgeFlag(text string) *bool {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "all ages") || strings.Contains(lower, "all-ages"):
		v := true
		return &v
	case strings.Contains(lower, "21+") || strings.Contains(lower, "18+") ||
		strings.Contains(lower, "21 and over") || strings.Contains(lower, "21 & over"):
		v := false
		return &v
	default:
		return nil
	}
}

var dateFormats = []struct {
	layout  string
	hasYear bool
}{
	{"1/2/2006", true},
	{"1/2/06", true},
	{"Monday 1/2/2006", true},
	{"January 2, 2006", true},
	{"Jan 2, 2006", true},
	{"January 2", false},
	{"Jan 2", false},
}

// ParseNaiveDate parses a calendar date from a fixed ordered list of
// formats. Year-less formats assume the year of today; if that puts the
// date strictly in the past it rolls forward one year, so December
// listings scraped in January still land on the right day.
func ParseNaiveDate(input string, today time.Time) (time.Time, error) {
	cleaned := CleanText(input)
	for _, format := range dateFormats {
		parsed, err := time.Parse(format.layout, cleaned)
		if err != nil {
			continue
		}
		if format.hasYear {
			return parsed, nil
		}

		date := time.Date(today.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		startOfToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		if date.Before(startOfToday) {
			date = date.AddDate(1, 0, 0)
		}
		return date, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", entity.ErrUnparsableDate, cleaned)
}

// ParseDateTime composes a date string and a time string into an instant
// in the given zone. When timeText has no usable clock the date text
// itself is scanned as a fallback. DST ambiguity resolves to the earlier
// instant; a nonexistent local time is an error and produces no event.
func ParseDateTime(dateText, timeText string, loc *time.Location, today time.Time) (time.Time, error) {
	cleanedDate := CleanText(dateText)
	if cleanedDate == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", entity.ErrUnparsableDate)
	}

	date, err := ParseNaiveDate(cleanedDate, today)
	if err != nil {
		return time.Time{}, err
	}

	hour, minute, err := parseClock(timeText)
	if err != nil {
		if hour, minute, err = parseClock(cleanedDate); err != nil {
			return time.Time{}, err
		}
	}

	return resolveLocal(date.Year(), date.Month(), date.Day(), hour, minute, loc)
}

// CombineWithDate reuses an already-resolved instant's calendar day with a
// different time string, e.g. deriving doors time from the show date.
func CombineWithDate(reference time.Time, timeStr string, loc *time.Location) (time.Time, error) {
	hour, minute, err := parseClock(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	local := reference.In(loc)
	return resolveLocal(local.Year(), local.Month(), local.Day(), hour, minute, loc)
}

// AbsoluteURL passes through absolute URLs and resolves relative ones
// against base. An unresolvable href yields "".
func AbsoluteURL(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}

func parseClock(text string) (hour, minute int, err error) {
	normalized, ok := FindFirstTime(text)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", entity.ErrUnparsableTime, text)
	}
	parsed, err := time.Parse("03:04 PM", normalized)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", entity.ErrUnparsableTime, normalized)
	}
	return parsed.Hour(), parsed.Minute(), nil
}

// resolveLocal maps a wall-clock time onto a real instant in loc. During a
// DST fallback the wall clock happens twice; we keep the earlier instant.
// During a spring-forward gap it happens never; that's an error.
func resolveLocal(year int, month time.Month, day, hour, minute int, loc *time.Location) (time.Time, error) {
	guess := time.Date(year, month, day, hour, minute, 0, 0, loc)

	// Probe UTC offsets in effect around the target day; a transition
	// nearby contributes a second offset and therefore a second candidate.
	offsets := map[int]struct{}{}
	for _, delta := range []time.Duration{-24 * time.Hour, 0, 24 * time.Hour} {
		_, offset := guess.Add(delta).Zone()
		offsets[offset] = struct{}{}
	}

	var candidates []time.Time
	for offset := range offsets {
		instant := time.Date(year, month, day, hour, minute, 0, 0, time.UTC).
			Add(-time.Duration(offset) * time.Second)
		local := instant.In(loc)
		if local.Year() == year && local.Month() == month && local.Day() == day &&
			local.Hour() == hour && local.Minute() == minute {
			candidates = append(candidates, local)
		}
	}

	if len(candidates) == 0 {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d in %s",
			entity.ErrNonexistentTime, year, month, day, hour, minute, loc)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Before(candidates[j])
	})
	return candidates[0], nil
}
