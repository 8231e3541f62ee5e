package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ogero/stremio-lastvideos/internal/resolver"
	"github.com/ogero/stremio-lastvideos/pkg/stremio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogResolverFunc func(ctx context.Context, ids []string) ([]stremio.MetaItem, error)

func (f catalogResolverFunc) ResolveCatalog(ctx context.Context, ids []string) ([]stremio.MetaItem, error) {
	return f(ctx, ids)
}

func TestChainCatalogResolver(t *testing.T) {
	first, err := resolver.NewStaticCatalogResolver([]stremio.MetaItem{{ID: "tt2", Name: "fixture"}})
	require.NoError(t, err)

	var asked []string
	second := catalogResolverFunc(func(_ context.Context, ids []string) ([]stremio.MetaItem, error) {
		asked = ids
		return []stremio.MetaItem{{ID: "tt1", Name: "fallback"}}, nil
	})

	r := resolver.NewChainCatalogResolver(first, second)
	metas, err := r.ResolveCatalog(context.Background(), []string{"tt1", "tt2", "tt3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"tt1", "tt3"}, asked)
	require.Len(t, metas, 2)
	assert.Equal(t, "fallback", metas[0].Name)
	assert.Equal(t, "fixture", metas[1].Name)
}

func TestChainCatalogResolver_SkipsWhenAllMatched(t *testing.T) {
	first, err := resolver.NewStaticCatalogResolver([]stremio.MetaItem{{ID: "tt1"}})
	require.NoError(t, err)

	second := catalogResolverFunc(func(_ context.Context, ids []string) ([]stremio.MetaItem, error) {
		t.Fatalf("unexpected call with %v", ids)
		return nil, nil
	})

	metas, err := resolver.NewChainCatalogResolver(first, second).ResolveCatalog(context.Background(), []string{"tt1"})
	require.NoError(t, err)
	assert.Len(t, metas, 1)
}

func TestChainCatalogResolver_Error(t *testing.T) {
	failing := catalogResolverFunc(func(_ context.Context, ids []string) ([]stremio.MetaItem, error) {
		return nil, errors.New("boom")
	})

	_, err := resolver.NewChainCatalogResolver(failing).ResolveCatalog(context.Background(), []string{"tt1"})
	assert.Error(t, err)
}
