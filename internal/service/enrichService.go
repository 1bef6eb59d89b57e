package service

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	repository "showscrape/internal/database/sqlite"
	"showscrape/internal/entity"
	"showscrape/pkg/ratelimit"
)

// ProfileLookup is the remote side of enrichment, satisfied by the
// musicbrainz client. A nil profile with a nil error means "no match".
type ProfileLookup interface {
	SearchArtist(ctx context.Context, name string) (*entity.ArtistProfile, error)
}

type enrichService struct {
	cacheRepo repository.ProfileCacheRepository
	lookup    ProfileLookup
	gate      *ratelimit.Gate

	mu       sync.RWMutex
	profiles map[string]*entity.ArtistProfile
}

func NewEnrichService(cacheRepo repository.ProfileCacheRepository, lookup ProfileLookup, gate *ratelimit.Gate) EnrichService {
	return &enrichService{
		cacheRepo: cacheRepo,
		lookup:    lookup,
		gate:      gate,
		profiles:  make(map[string]*entity.ArtistProfile),
	}
}

func (s *enrichService) Enrich(ctx context.Context, event entity.Event) entity.Event {
	name := strings.TrimSpace(event.Headliner())
	if name == "" {
		return event
	}

	profile, err := s.profileFor(ctx, name)
	if err != nil {
		logrus.Errorf("enrich: lookup for %q failed: %v", name, err)
		return event
	}
	if profile == nil {
		return event
	}

	event.Tags = mergeTags(event.Tags, profile.Genres)
	extra := make(map[string]any, len(event.Extra)+1)
	for k, v := range event.Extra {
		extra[k] = v
	}
	extra["musicbrainz"] = map[string]any{
		"id":             profile.ID,
		"name":           profile.Name,
		"disambiguation": profile.Disambiguation,
		"genres":         profile.Genres,
	}
	event.Extra = extra
	return event
}

// profileFor walks the lookup tiers: in-process map, then the durable cache,
// then the remote service behind the rate gate. Whatever the remote returns,
// including "no match", lands in both tiers so the artist is never fetched
// twice in the lifetime of the database.
func (s *enrichService) profileFor(ctx context.Context, name string) (*entity.ArtistProfile, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	s.mu.RLock()
	profile, ok := s.profiles[key]
	s.mu.RUnlock()
	if ok {
		return profile, nil
	}

	profile, found, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if found {
		s.mu.Lock()
		s.profiles[key] = profile
		s.mu.Unlock()
		return profile, nil
	}

	err = s.gate.Do(ctx, func() error {
		var lookupErr error
		profile, lookupErr = s.lookup.SearchArtist(ctx, name)
		return lookupErr
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.profiles[key] = profile
	s.mu.Unlock()
	if err := s.cacheRepo.Put(ctx, key, profile); err != nil {
		logrus.Errorf("enrich: caching profile for %q failed: %v", key, err)
	}
	return profile, nil
}

// mergeTags appends genres the event does not already carry, comparing
// case-insensitively and keeping the original order of both lists.
func mergeTags(tags, genres []string) []string {
	seen := make(map[string]struct{}, len(tags))
	merged := make([]string, 0, len(tags)+len(genres))
	for _, t := range tags {
		if _, ok := seen[strings.ToLower(t)]; ok {
			continue
		}
		seen[strings.ToLower(t)] = struct{}{}
		merged = append(merged, t)
	}
	for _, g := range genres {
		if _, ok := seen[strings.ToLower(g)]; ok {
			continue
		}
		seen[strings.ToLower(g)] = struct{}{}
		merged = append(merged, g)
	}
	return merged
}
