package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ogero/stremio-lastvideos/internal/common"
	"github.com/ogero/stremio-lastvideos/pkg/stremio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, svc StremioService) *httptest.Server {
	t.Helper()

	manifest, err := NewAddonManifest("0.1.0")
	require.NoError(t, err)

	app, err := NewApp(svc, manifest)
	require.NoError(t, err)

	server := httptest.NewServer(NewRouter(app))
	t.Cleanup(server.Close)

	return server
}

func get(t *testing.T, server *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()

	res, err := http.Get(server.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res, body
}

func TestApp_Manifest(t *testing.T) {
	server := newTestServer(t, newTestService(t, nil, nil))

	res, body := get(t, server, "/manifest.json")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	assert.Equal(t, []any{"tt", "kitsu"}, m["idPrefixes"])
	assert.Equal(t, []any{"catalog", "stream"}, m["resources"])

	catalogs, ok := m["catalogs"].([]any)
	require.True(t, ok)
	require.Len(t, catalogs, 2)
	extra := catalogs[1].(map[string]any)["extra"].([]any)[0].(map[string]any)
	assert.Equal(t, "lastVideosIds", extra["name"])
	assert.Equal(t, true, extra["isRequired"])
	assert.Equal(t, float64(100), extra["optionsLimit"])
}

func TestApp_LastVideos(t *testing.T) {
	server := newTestServer(t, newTestService(t, nil, nil))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantIDs    []string
	}{
		{"single", "/catalog/series/last-videos/lastVideosIds=tt7772588.json", http.StatusOK, []string{"tt7772588"}},
		{"unknown dropped", "/catalog/series/last-videos/lastVideosIds=tt7772588,zzz-unknown.json", http.StatusOK, []string{"tt7772588"}},
		{"kitsu", "/catalog/series/last-videos/lastVideosIds=kitsu:44081.json", http.StatusOK, []string{"kitsu:44081"}},
		{"kitsu escaped", "/catalog/series/last-videos/lastVideosIds=kitsu%3A44081.json", http.StatusOK, []string{"kitsu:44081"}},
		{"empty", "/catalog/series/last-videos/lastVideosIds=.json", http.StatusNotFound, nil},
		{"missing suffix", "/catalog/series/last-videos/lastVideosIds=tt7772588", http.StatusNotFound, nil},
		{"missing key", "/catalog/series/last-videos/tt7772588.json", http.StatusNotFound, nil},
		{"all unsupported", "/catalog/series/last-videos/lastVideosIds=zzz-unknown.json", http.StatusNotFound, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, body := get(t, server, tt.path)
			require.Equal(t, tt.wantStatus, res.StatusCode, string(body))
			if tt.wantStatus != http.StatusOK {
				return
			}

			var response stremio.MetasDetailedResponse
			require.NoError(t, json.Unmarshal(body, &response))
			ids := make([]string, 0, len(response.MetasDetailed))
			for _, m := range response.MetasDetailed {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestApp_Streams(t *testing.T) {
	server := newTestServer(t, newTestService(t, nil, nil))

	t.Run("known movie", func(t *testing.T) {
		res, body := get(t, server, "/stream/movie/tt1254207.json")
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "public, max-age=1296000", res.Header.Get("Cache-Control"))

		var response stremio.StreamsResponse
		require.NoError(t, json.Unmarshal(body, &response))
		require.Len(t, response.Streams, 1)
		assert.Equal(t, "https://download.blender.org/peach/bigbuckbunny_movies/big_buck_bunny_720p_h264.mov", response.Streams[0].URL)
		assert.Empty(t, response.Streams[0].InfoHash)
	})

	t.Run("known series episode", func(t *testing.T) {
		res, body := get(t, server, "/stream/series/tt13622776%3A1%3A5.json")
		require.Equal(t, http.StatusOK, res.StatusCode)

		var response stremio.StreamsResponse
		require.NoError(t, json.Unmarshal(body, &response))
		require.Len(t, response.Streams, 1)
		assert.Equal(t, "ba44b8864cfb3ee13a7a20f8d2687baa1b9d5351", response.Streams[0].InfoHash)
	})

	t.Run("unknown", func(t *testing.T) {
		res, body := get(t, server, "/stream/movie/unknown.json")
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.JSONEq(t, `{"streams":[]}`, string(body))
		assert.Equal(t, "public, max-age=120", res.Header.Get("Cache-Control"))
	})
}

func TestApp_ResourceErrors(t *testing.T) {
	server := newTestServer(t, newTestService(t, nil, nil))

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"unknown resource", "/subtitles/movie/tt1254207.json", http.StatusBadRequest},
		{"unknown type", "/stream/channel/tt1254207.json", http.StatusBadRequest},
		{"generic catalog", "/catalog/movie/bbbcatalog.json", http.StatusNotImplemented},
		{"last videos without extra", "/catalog/series/last-videos.json", http.StatusNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := get(t, server, tt.path)
			assert.Equal(t, tt.wantStatus, res.StatusCode)
		})
	}
}

func TestApp_ResolverFailureIsGeneric(t *testing.T) {
	svc := newTestService(t, nil, streamResolverFunc(func(_ context.Context, _ stremio.ContentType, _ string) ([]stremio.Stream, error) {
		return nil, errors.New("postgres://user:secret@db is down")
	}))
	server := newTestServer(t, svc)

	res, body := get(t, server, "/stream/movie/tt1254207.json")
	require.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.JSONEq(t, `{"message":"internal server error"}`, string(body))
}

func TestApp_CORS(t *testing.T) {
	server := newTestServer(t, newTestService(t, nil, nil))

	req, err := http.NewRequest(http.MethodGet, server.URL+"/manifest.json", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://web.stremio.com")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

type failingResponseWriter struct {
	*httptest.ResponseRecorder
}

func (w failingResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestApp_WriteErrorLogsEncodeFailure(t *testing.T) {
	var logs bytes.Buffer
	previous := common.Log
	common.Log = slog.New(slog.NewTextHandler(&logs, nil))
	t.Cleanup(func() { common.Log = previous })

	manifest, err := NewAddonManifest("0.1.0")
	require.NoError(t, err)
	app, err := NewApp(newTestService(t, nil, nil), manifest)
	require.NoError(t, err)

	w := failingResponseWriter{httptest.NewRecorder()}
	app.writeError(context.Background(), w, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, logs.String(), "Failed to write error response")
	assert.Contains(t, logs.String(), "connection reset by peer")
}
