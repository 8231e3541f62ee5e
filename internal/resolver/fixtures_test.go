package resolver_test

import (
	"context"
	"testing"

	"github.com/ogero/stremio-lastvideos/internal/resolver"
	"github.com/ogero/stremio-lastvideos/pkg/stremio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metaIDs(metas []stremio.MetaItem) []string {
	ids := make([]string, 0, len(metas))
	for _, m := range metas {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestFixtureCatalogResolver(t *testing.T) {
	r, err := resolver.NewFixtureCatalogResolver()
	require.NoError(t, err)

	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{"single", []string{"tt7772588"}, []string{"tt7772588"}},
		{"input order", []string{"kitsu:44081", "tt7772588"}, []string{"kitsu:44081", "tt7772588"}},
		{"unknown dropped", []string{"tt7772588", "tt0000000"}, []string{"tt7772588"}},
		{"duplicates once", []string{"tt7772588", "tt7772588"}, []string{"tt7772588"}},
		{"nothing matched", []string{"tt0000000"}, []string{}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metas, err := r.ResolveCatalog(context.Background(), tt.ids)
			require.NoError(t, err)
			assert.Equal(t, tt.want, metaIDs(metas))
		})
	}
}

func TestFixtureCatalogResolver_Content(t *testing.T) {
	r, err := resolver.NewFixtureCatalogResolver()
	require.NoError(t, err)

	metas, err := r.ResolveCatalog(context.Background(), []string{"tt7772588"})
	require.NoError(t, err)
	require.Len(t, metas, 1)

	assert.Equal(t, "For All Mankind", metas[0].Name)
	assert.Equal(t, stremio.ContentTypeSeries, metas[0].Type)
	assert.NotEmpty(t, metas[0].Videos)
}

func TestNewStaticCatalogResolver_Duplicates(t *testing.T) {
	_, err := resolver.NewStaticCatalogResolver([]stremio.MetaItem{{ID: "tt1"}, {ID: "tt1"}})
	assert.Error(t, err)

	_, err = resolver.NewStaticCatalogResolver([]stremio.MetaItem{{Name: "no id"}})
	assert.Error(t, err)
}

func TestFixtureStreamResolver(t *testing.T) {
	r, err := resolver.NewFixtureStreamResolver()
	require.NoError(t, err)

	t.Run("movie url", func(t *testing.T) {
		streams, err := r.ResolveStreams(context.Background(), stremio.ContentTypeMovie, "tt1254207")
		require.NoError(t, err)
		require.Len(t, streams, 1)
		assert.Equal(t, "https://download.blender.org/peach/bigbuckbunny_movies/big_buck_bunny_720p_h264.mov", streams[0].URL)
		require.NotNil(t, streams[0].BehaviorHints)
		assert.Equal(t, "1", streams[0].BehaviorHints.BingeGroup)
		require.NotNil(t, streams[0].BehaviorHints.ProxyHeaders)
		assert.Equal(t, "value-1", streams[0].BehaviorHints.ProxyHeaders.Request["req-header-1"])
	})

	t.Run("series torrent", func(t *testing.T) {
		streams, err := r.ResolveStreams(context.Background(), stremio.ContentTypeSeries, "tt13622776:1:5")
		require.NoError(t, err)
		require.Len(t, streams, 1)
		assert.Equal(t, "ba44b8864cfb3ee13a7a20f8d2687baa1b9d5351", streams[0].InfoHash)
		require.NotNil(t, streams[0].FileIndex)
		assert.Equal(t, 0, *streams[0].FileIndex)
		assert.True(t, streams[0].BehaviorHints.NotWebReady)
	})

	t.Run("type must match", func(t *testing.T) {
		streams, err := r.ResolveStreams(context.Background(), stremio.ContentTypeSeries, "tt1254207")
		require.NoError(t, err)
		assert.NotNil(t, streams)
		assert.Empty(t, streams)
	})

	t.Run("unknown", func(t *testing.T) {
		streams, err := r.ResolveStreams(context.Background(), stremio.ContentTypeMovie, "unknown")
		require.NoError(t, err)
		assert.NotNil(t, streams)
		assert.Empty(t, streams)
	})
}

func TestNewStaticStreamResolver_RejectsInconsistentStreams(t *testing.T) {
	_, err := resolver.NewStaticStreamResolver([]resolver.StreamFixture{{
		Type:    stremio.ContentTypeMovie,
		ID:      "tt1",
		Streams: []stremio.Stream{{InfoHash: "ba44b8864cfb3ee13a7a20f8d2687baa1b9d5351"}},
	}})
	assert.ErrorIs(t, err, stremio.ErrInvalidStream)

	_, err = resolver.NewStaticStreamResolver([]resolver.StreamFixture{{
		Type:    "others",
		ID:      "tt1",
		Streams: []stremio.Stream{{URL: "https://example.com"}},
	}})
	assert.ErrorIs(t, err, stremio.ErrInvalidResource)
}
