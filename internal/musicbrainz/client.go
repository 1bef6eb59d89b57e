// Package musicbrainz looks up artist taxonomy from the MusicBrainz
// search API.
package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"showscrape/internal/entity"
)

const DefaultBaseURL = "https://musicbrainz.org/ws/2"

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = "showscrape/1.0 (https://github.com/showscrape)"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
	}
}

type tagDoc struct {
	Name string `json:"name"`
}

type artistDoc struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Disambiguation string   `json:"disambiguation"`
	Tags           []tagDoc `json:"tags"`
	Genres         []tagDoc `json:"genres"`
}

type artistSearchResponse struct {
	Artists []artistDoc `json:"artists"`
}

// SearchArtist queries for the single best match. A match that carries no
// genre or tag information comes back as nil: an artist without taxonomy
// is as useful as no artist, and callers cache it the same way.
func (c *Client) SearchArtist(ctx context.Context, name string) (*entity.ArtistProfile, error) {
	sanitized := strings.ReplaceAll(name, `"`, " ")

	params := url.Values{}
	params.Set("query", fmt.Sprintf("artist:%q", sanitized))
	params.Set("fmt", "json")
	params.Set("limit", "1")
	params.Set("inc", "tags+genres")

	endpoint := c.baseURL + "/artist/?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build musicbrainz request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz response read failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d from musicbrainz: %s",
			entity.ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload artistSearchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("musicbrainz response parse failed: %w", err)
	}
	if len(payload.Artists) == 0 {
		return nil, nil
	}

	doc := payload.Artists[0]
	genres := extractGenres(doc)
	if len(genres) == 0 {
		return nil, nil
	}

	return &entity.ArtistProfile{
		ID:             doc.ID,
		Name:           doc.Name,
		Disambiguation: doc.Disambiguation,
		Genres:         genres,
	}, nil
}

// extractGenres unions the genre and tag lists, deduplicating
// case-insensitively while keeping first-seen order and casing.
func extractGenres(doc artistDoc) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, tag := range append(append([]tagDoc{}, doc.Genres...), doc.Tags...) {
		name := strings.TrimSpace(tag.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
