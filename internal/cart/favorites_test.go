package cart

import (
	"context"
	"errors"
	"testing"

	"neon-studio/internal/model"
	"neon-studio/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFavorites_SaveAndRemove(t *testing.T) {
	ctx := context.Background()
	storage := store.NewMemory()

	f, err := LoadFavorites(ctx, storage, LocalFavoritesKey, WithClock(clock))
	require.NoError(t, err)
	assert.Empty(t, f.List())

	named, err := f.Save(ctx, "  Bar sign ", testConfig("OPEN LATE", model.SizeLarge))
	require.NoError(t, err)
	assert.Equal(t, "Bar sign", named.Name)
	assert.Equal(t, fixedNow, named.SavedAt)

	unnamed, err := f.Save(ctx, "", testConfig("HELLO", model.SizeSmall))
	require.NoError(t, err)
	assert.Equal(t, "HELLO", unnamed.Name)

	reloaded, err := LoadFavorites(ctx, storage, LocalFavoritesKey, WithCodec(JSONCodec{}))
	require.NoError(t, err)
	require.Len(t, reloaded.List(), 2)
	assert.Equal(t, named.ID, reloaded.List()[0].ID)
	assert.Equal(t, "OPEN LATE", reloaded.List()[0].Config.Text())

	require.NoError(t, f.Remove(ctx, named.ID))
	require.NoError(t, f.Remove(ctx, "unknown"))
	require.Len(t, f.List(), 1)
	assert.Equal(t, unnamed.ID, f.List()[0].ID)
}

func TestFavorites_SaveFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	storage := new(MockStorage)

	storage.On("Load", ctx, LocalFavoritesKey).Return(nil, store.ErrNotFound)
	storage.On("Save", ctx, LocalFavoritesKey, mock.Anything).Return(errors.New("quota exceeded"))

	f, err := LoadFavorites(ctx, storage, LocalFavoritesKey)
	require.NoError(t, err)

	_, err = f.Save(ctx, "x", testConfig("HELLO", model.SizeSmall))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save favorites")
	assert.Empty(t, f.List())

	storage.AssertExpectations(t)
}

func TestFavorites_Limit(t *testing.T) {
	ctx := context.Background()
	f, err := LoadFavorites(ctx, store.NewMemory(), LocalFavoritesKey)
	require.NoError(t, err)

	for range model.MaxFavorites {
		_, err := f.Save(ctx, "", testConfig("HELLO", model.SizeSmall))
		require.NoError(t, err)
	}

	_, err = f.Save(ctx, "overflow", testConfig("HELLO", model.SizeSmall))
	assert.ErrorIs(t, err, model.ErrFavoritesFull)
	assert.Len(t, f.List(), model.MaxFavorites)
}
