package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tareas-api/proyectos-billing/internal/billing/domain"
)

func TestListCache_RoundTrip(t *testing.T) {
	cache := NewListCache(setupRedis(t))
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, 1, 20)
	require.NoError(t, err)
	assert.False(t, ok)

	items := []domain.Project{{ID: "1", Titulo: "Obra"}, {ID: "2", Titulo: "Redesign"}}
	require.NoError(t, cache.Set(ctx, 1, 20, items))

	got, ok, err := cache.Get(ctx, 1, 20)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, items, got)

	// A different page size is a different key.
	_, ok, err = cache.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListCache_InvalidateDropsEveryPage(t *testing.T) {
	cache := NewListCache(setupRedis(t))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 1, 20, []domain.Project{{ID: "1"}}))
	require.NoError(t, cache.Set(ctx, 2, 20, []domain.Project{{ID: "2"}}))

	require.NoError(t, cache.Invalidate(ctx))

	for _, page := range []int{1, 2} {
		_, ok, err := cache.Get(ctx, page, 20)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}
