package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"showscrape/internal/entity"
)

type profileCacheRepository struct {
	db *sql.DB
}

func NewProfileCacheRepository(db *sql.DB) ProfileCacheRepository {
	return &profileCacheRepository{db: db}
}

func (r *profileCacheRepository) Get(ctx context.Context, artistKey string) (*entity.ArtistProfile, bool, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT profile_json FROM artist_cache WHERE artist_key = ?`, artistKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	// "null" is a stored negative result: the artist was looked up and had
	// no usable taxonomy.
	var profile *entity.ArtistProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil, false, fmt.Errorf("%w: artist_cache %s: %v", entity.ErrCorruptPayload, artistKey, err)
	}
	return profile, true, nil
}

func (r *profileCacheRepository) Put(ctx context.Context, artistKey string, profile *entity.ArtistProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to serialize profile for %s: %w", artistKey, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO artist_cache (artist_key, profile_json, fetched_at_utc)
		VALUES (?, ?, ?)
		ON CONFLICT(artist_key) DO UPDATE SET
			profile_json = excluded.profile_json,
			fetched_at_utc = excluded.fetched_at_utc
	`, artistKey, string(payload), now)
	if err != nil {
		return fmt.Errorf("failed to cache profile for %s: %w", artistKey, err)
	}
	return nil
}
