package imdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/StalkR/imdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStalkrIMDB_GetTitle(t *testing.T) {

	s := &stalkrIMDB{
		roundTripper: http.DefaultTransport,
		getTitle: func(c *http.Client, id string) (*imdb.Title, error) {
			if id == "tt7772588" {
				return &imdb.Title{
					ID:     "tt7772588",
					Name:   "For All Mankind",
					Type:   "TVSeries",
					Year:   2019,
					Rating: "8.1",
					Genres: []string{"Drama", "Sci-Fi"},
					Poster: imdb.Media{ContentURL: "https://example.com/poster.jpg"},
				}, nil
			}
			return nil, fmt.Errorf("expected id tt7772588, got %s", id)
		},
	}

	title, err := s.GetTitle(context.Background(), "tt7772588")
	require.NoError(t, err)

	assert.Equal(t, "For All Mankind", title.Name)
	assert.Equal(t, 2019, title.Year)
	assert.True(t, title.IsSeries())
	assert.Equal(t, []string{"Drama", "Sci-Fi"}, title.Genres)
	assert.Equal(t, "https://example.com/poster.jpg", title.Poster)

	_, err = s.GetTitle(context.Background(), "tt0")
	assert.Error(t, err)
}

func TestStalkrIMDB_GetTitleUsesCallerContext(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &stalkrIMDB{
		roundTripper: http.DefaultTransport,
		getTitle: func(c *http.Client, id string) (*imdb.Title, error) {
			_, err := c.Get("http://127.0.0.1:1/title/" + id)
			return nil, err
		},
	}

	_, err := s.GetTitle(ctx, "tt7772588")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStalkrIMDB_GetTitleNotFound(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/title/tt0000000" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	s := &stalkrIMDB{
		roundTripper: http.DefaultTransport,
		getTitle: func(c *http.Client, id string) (*imdb.Title, error) {
			resp, err := c.Get(server.URL + "/title/" + id)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			return nil, fmt.Errorf("imdb: status not ok: %v", resp.Status)
		},
	}

	_, err := s.GetTitle(context.Background(), "tt0000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetTitle(context.Background(), "tt7772588")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	s.getTitle = imdb.NewTitle
	_, err = s.GetTitle(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, ErrNotFound)
}
