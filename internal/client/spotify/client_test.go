package spotify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/daytrip/internal/config"
)

// newTestCatalog starts a catalog server and returns a client pointed at it.
func newTestCatalog(t *testing.T, handler func(serverURL string) http.Handler) (*ClientImpl, *httptest.Server) {
	t.Helper()

	var serverURL string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(serverURL).ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	serverURL = server.URL

	client, err := newClientWithHTTPClient(server.URL+"/v1", server.Client())
	require.NoError(t, err)

	return client, server
}

// TestNewClient tests client construction from configuration.
func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient(&config.Config{CatalogURL: config.DefaultCatalogURL, AccessToken: "token"})
	require.NoError(t, err)
	assert.Implements(t, (*Client)(nil), client)

	_, err = NewClient(&config.Config{CatalogURL: "://bad"})
	require.Error(t, err)
}

// TestClientImpl_GetTrack tests track lookup and caching.
func TestClientImpl_GetTrack(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	client, _ := newTestCatalog(t, func(string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, "/v1/tracks/63OQupATfueTdZMWTxW03A", r.URL.Path)
			assert.Equal(t, marketFromToken, r.URL.Query().Get("market"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{
				"id": "63OQupATfueTdZMWTxW03A",
				"name": "Karma Police",
				"artists": [{"id": "a1", "name": "Radiohead"}],
				"album": {"name": "OK Computer", "images": [{"url": "s", "width": 64}, {"url": "l", "width": 640}]},
				"track_number": 6
			}`)
		})
	})

	ctx := context.Background()

	track, err := client.GetTrack(ctx, "63OQupATfueTdZMWTxW03A")
	require.NoError(t, err)
	assert.Equal(t, "Karma Police", track.Name)
	assert.Equal(t, []string{"Radiohead"}, ArtistNames(track.Artists))
	assert.Equal(t, "OK Computer", track.Album.Name)
	assert.Equal(t, "l", LargestImageURL(track.Album.Images))
	assert.Equal(t, 6, track.TrackNumber)

	cached, err := client.GetTrack(ctx, "63OQupATfueTdZMWTxW03A")
	require.NoError(t, err)
	assert.Same(t, track, cached)
	assert.Equal(t, int32(1), calls.Load())
}

// TestClientImpl_GetTrack_UnexpectedStatus tests non-200 responses.
func TestClientImpl_GetTrack_UnexpectedStatus(t *testing.T) {
	t.Parallel()

	client, _ := newTestCatalog(t, func(string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	})

	_, err := client.GetTrack(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUnexpectedHTTPStatus)
	assert.Contains(t, err.Error(), "404")
}

// TestClientImpl_GetAlbum tests that album track pages are followed in order.
func TestClientImpl_GetAlbum(t *testing.T) {
	t.Parallel()

	client, _ := newTestCatalog(t, func(serverURL string) http.Handler {
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/albums/album1", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = fmt.Fprintf(w, `{
				"id": "album1",
				"name": "Kid A",
				"artists": [{"name": "Radiohead"}],
				"tracks": {
					"items": [{"id": "t1", "type": "track"}, {"id": "t2", "type": "track"}],
					"next": "%s/v1/albums/album1/tracks?offset=2"
				}
			}`, serverURL)
		})
		mux.HandleFunc("/v1/albums/album1/tracks", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2", r.URL.Query().Get("offset"))
			_, _ = io.WriteString(w, `{"items": [{"id": "t3", "type": "track"}], "next": null}`)
		})

		return mux
	})

	album, err := client.GetAlbum(context.Background(), "album1")
	require.NoError(t, err)

	assert.Equal(t, "Kid A", album.Name)
	require.Len(t, album.Tracks.Items, 3)
	assert.Equal(t, "t1", album.Tracks.Items[0].ID)
	assert.Equal(t, "t2", album.Tracks.Items[1].ID)
	assert.Equal(t, "t3", album.Tracks.Items[2].ID)
	assert.Empty(t, album.Tracks.Next)
}

// TestClientImpl_GetPlaylist tests that removed entries are dropped and order is kept.
func TestClientImpl_GetPlaylist(t *testing.T) {
	t.Parallel()

	client, _ := newTestCatalog(t, func(string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "track,episode", r.URL.Query().Get("additional_types"))
			_, _ = io.WriteString(w, `{
				"id": "p1",
				"name": "Road Trip",
				"tracks": {"items": [
					{"track": {"id": "b", "type": "track"}},
					{"track": null},
					{"track": {"id": "", "type": "track"}},
					{"track": {"id": "a", "type": "episode"}}
				]}
			}`)
		})
	})

	playlist, err := client.GetPlaylist(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "Road Trip", playlist.Name)
	require.Len(t, playlist.Tracks.Items, 2)
	assert.Equal(t, "b", playlist.Tracks.Items[0].Track.ID)
	assert.Equal(t, "episode", playlist.Tracks.Items[1].Track.Type)
}

// TestClientImpl_GetShowAndEpisode tests show and episode lookups.
func TestClientImpl_GetShowAndEpisode(t *testing.T) {
	t.Parallel()

	client, _ := newTestCatalog(t, func(string) http.Handler {
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/shows/s1", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"id": "s1", "name": "Daily", "publisher": "Pub",
				"episodes": {"items": [{"id": "e1", "type": "episode"}]}}`)
		})
		mux.HandleFunc("/v1/episodes/e1", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"id": "e1", "name": "Monday", "show": {"name": "Daily"}}`)
		})

		return mux
	})

	ctx := context.Background()

	show, err := client.GetShow(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Daily", show.Name)
	assert.Equal(t, "Pub", show.Publisher)
	require.Len(t, show.Episodes.Items, 1)

	episode, err := client.GetEpisode(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Monday", episode.Name)
	assert.Equal(t, "Daily", episode.Show.Name)
}

// TestClientImpl_DownloadFromURL tests raw downloads.
func TestClientImpl_DownloadFromURL(t *testing.T) {
	t.Parallel()

	client, server := newTestCatalog(t, func(string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/missing.jpg" {
				w.WriteHeader(http.StatusNotFound)

				return
			}

			_, _ = io.WriteString(w, "image-bytes")
		})
	})

	body, err := client.DownloadFromURL(context.Background(), server.URL+"/cover.jpg")
	require.NoError(t, err)

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "image-bytes", string(data))

	_, err = client.DownloadFromURL(context.Background(), server.URL+"/missing.jpg") //nolint:bodyclose // Nil on error.
	require.ErrorIs(t, err, ErrUnexpectedHTTPStatus)
}

// TestLargestImageURL tests cover selection.
func TestLargestImageURL(t *testing.T) {
	t.Parallel()

	assert.Empty(t, LargestImageURL(nil))
	assert.Empty(t, LargestImageURL([]*Image{nil, {URL: ""}}))
	assert.Equal(t, "b", LargestImageURL([]*Image{{URL: "a", Width: 300}, {URL: "b", Width: 640}}))
}
