package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showscrape/internal/entity"
)

func TestProfileCacheRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfileCacheRepository(db)
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		profile, found, err := repo.Get(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, profile)
	})

	t.Run("positive entry", func(t *testing.T) {
		stored := &entity.ArtistProfile{
			ID:     "mbid-1",
			Name:   "PUP",
			Genres: []string{"punk", "indie rock"},
		}
		require.NoError(t, repo.Put(ctx, "pup", stored))

		profile, found, err := repo.Get(ctx, "pup")
		require.NoError(t, err)
		assert.True(t, found)
		require.NotNil(t, profile)
		assert.Equal(t, stored.Genres, profile.Genres)
	})

	t.Run("negative entry is a hit with nil profile", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, "obscure artist", nil))

		profile, found, err := repo.Get(ctx, "obscure artist")
		require.NoError(t, err)
		assert.True(t, found, "a confirmed no-match is still a cache hit")
		assert.Nil(t, profile)
	})

	t.Run("overwrite updates in place", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, "pup", nil))

		profile, found, err := repo.Get(ctx, "pup")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Nil(t, profile)
	})
}
