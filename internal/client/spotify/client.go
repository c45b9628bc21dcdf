package spotify

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/logger"
	http_transport "github.com/oshokin/daytrip/internal/transport/http"
	"github.com/oshokin/daytrip/internal/utils"
)

// Client defines the read-only catalog lookups.
type Client interface {
	// DownloadFromURL downloads content, such as cover art, from an absolute URL.
	DownloadFromURL(ctx context.Context, url string) (io.ReadCloser, error)
	// GetAlbum returns an album with all of its tracks.
	GetAlbum(ctx context.Context, albumID string) (*Album, error)
	// GetEpisode returns a podcast episode.
	GetEpisode(ctx context.Context, episodeID string) (*Episode, error)
	// GetPlaylist returns a playlist with all of its entries.
	GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error)
	// GetShow returns a show with all of its episodes.
	GetShow(ctx context.Context, showID string) (*Show, error)
	// GetTrack returns a track.
	GetTrack(ctx context.Context, trackID string) (*Track, error)
}

// ClientImpl implements Client over the REST catalog API.
type ClientImpl struct {
	// baseURL is the base URL for API requests.
	baseURL string
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
	// tracksCache caches tracks by ID.
	tracksCache *lru.Cache[string, *Track]
	// episodesCache caches episodes by ID.
	episodesCache *lru.Cache[string, *Episode]
	// albumsCache caches fully paginated albums by ID.
	albumsCache *lru.Cache[string, *Album]
	// playlistsCache caches fully paginated playlists by ID.
	playlistsCache *lru.Cache[string, *Playlist]
	// showsCache caches fully paginated shows by ID.
	showsCache *lru.Cache[string, *Show]
}

// NewClient creates a catalog client authenticated with the configured access token.
func NewClient(cfg *config.Config) (Client, error) {
	baseURL, err := url.Parse(cfg.CatalogURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog URL: %w", err)
	}

	timeout := cfg.ParsedRequestTimeout
	if timeout <= 0 {
		timeout = http_transport.DefaultTimeout
	}

	httpClient := &http.Client{
		Transport: http_transport.NewAuthorizationInjector(
			http_transport.NewUserAgentInjector(
				http_transport.NewLogTransport(http.DefaultTransport, 0),
				utils.NewSimpleUserAgentProvider(http_transport.DefaultUserAgent)),
			cfg.AccessToken),
		Timeout: timeout,
	}

	return newClientWithHTTPClient(baseURL.String(), httpClient)
}

func newClientWithHTTPClient(baseURL string, httpClient *http.Client) (*ClientImpl, error) {
	tracksCache, err := lru.New[string, *Track](tracksCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracks cache: %w", err)
	}

	episodesCache, err := lru.New[string, *Episode](episodesCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create episodes cache: %w", err)
	}

	albumsCache, err := lru.New[string, *Album](albumsCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create albums cache: %w", err)
	}

	playlistsCache, err := lru.New[string, *Playlist](playlistsCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlists cache: %w", err)
	}

	showsCache, err := lru.New[string, *Show](showsCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create shows cache: %w", err)
	}

	return &ClientImpl{
		baseURL:        baseURL,
		httpClient:     httpClient,
		tracksCache:    tracksCache,
		episodesCache:  episodesCache,
		albumsCache:    albumsCache,
		playlistsCache: playlistsCache,
		showsCache:     showsCache,
	}, nil
}

// DownloadFromURL downloads content from an absolute URL.
func (c *ClientImpl) DownloadFromURL(ctx context.Context, url string) (io.ReadCloser, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		response.Body.Close() //nolint:errcheck,gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return response.Body, nil
}

// GetTrack returns a track, using the cache when possible.
func (c *ClientImpl) GetTrack(ctx context.Context, trackID string) (*Track, error) {
	if track, ok := c.tracksCache.Get(trackID); ok {
		logger.Debugf(ctx, "Track cache hit: %s", trackID)

		return track, nil
	}

	result, err := fetchJSON[Track](c, ctx, c.route(apiTracksURI, trackID), marketQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to get track %s: %w", trackID, err)
	}

	c.tracksCache.Add(trackID, result.Data)

	return result.Data, nil
}

// GetEpisode returns an episode, using the cache when possible.
func (c *ClientImpl) GetEpisode(ctx context.Context, episodeID string) (*Episode, error) {
	if episode, ok := c.episodesCache.Get(episodeID); ok {
		logger.Debugf(ctx, "Episode cache hit: %s", episodeID)

		return episode, nil
	}

	result, err := fetchJSON[Episode](c, ctx, c.route(apiEpisodesURI, episodeID), marketQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to get episode %s: %w", episodeID, err)
	}

	c.episodesCache.Add(episodeID, result.Data)

	return result.Data, nil
}

// GetAlbum returns an album and follows its track pages.
func (c *ClientImpl) GetAlbum(ctx context.Context, albumID string) (*Album, error) {
	if album, ok := c.albumsCache.Get(albumID); ok {
		logger.Debugf(ctx, "Album cache hit: %s", albumID)

		return album, nil
	}

	result, err := fetchJSON[Album](c, ctx, c.route(apiAlbumsURI, albumID), marketQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to get album %s: %w", albumID, err)
	}

	album := result.Data

	album.Tracks.Items, err = collectPages(c, ctx, &album.Tracks)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracks of album %s: %w", albumID, err)
	}

	c.albumsCache.Add(albumID, album)

	return album, nil
}

// GetPlaylist returns a playlist and follows its item pages.
// Entries removed from the catalog are dropped.
func (c *ClientImpl) GetPlaylist(ctx context.Context, playlistID string) (*Playlist, error) {
	if playlist, ok := c.playlistsCache.Get(playlistID); ok {
		logger.Debugf(ctx, "Playlist cache hit: %s", playlistID)

		return playlist, nil
	}

	query := marketQuery()
	query.Set("additional_types", "track,episode")

	result, err := fetchJSON[Playlist](c, ctx, c.route(apiPlaylistsURI, playlistID), query)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist %s: %w", playlistID, err)
	}

	playlist := result.Data

	items, err := collectPages(c, ctx, &playlist.Tracks)
	if err != nil {
		return nil, fmt.Errorf("failed to get items of playlist %s: %w", playlistID, err)
	}

	playlist.Tracks.Items = make([]*PlaylistItem, 0, len(items))

	for _, item := range items {
		if item == nil || item.Track == nil || item.Track.ID == "" {
			logger.Debugf(ctx, "Skipping unavailable entry in playlist %s", playlistID)

			continue
		}

		playlist.Tracks.Items = append(playlist.Tracks.Items, item)
	}

	c.playlistsCache.Add(playlistID, playlist)

	return playlist, nil
}

// GetShow returns a show and follows its episode pages.
func (c *ClientImpl) GetShow(ctx context.Context, showID string) (*Show, error) {
	if show, ok := c.showsCache.Get(showID); ok {
		logger.Debugf(ctx, "Show cache hit: %s", showID)

		return show, nil
	}

	result, err := fetchJSON[Show](c, ctx, c.route(apiShowsURI, showID), marketQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to get show %s: %w", showID, err)
	}

	show := result.Data

	show.Episodes.Items, err = collectPages(c, ctx, &show.Episodes)
	if err != nil {
		return nil, fmt.Errorf("failed to get episodes of show %s: %w", showID, err)
	}

	c.showsCache.Add(showID, show)

	return show, nil
}

func (c *ClientImpl) route(elements ...string) string {
	route, err := url.JoinPath(c.baseURL, elements...)
	if err != nil {
		// baseURL was parsed in NewClient, so only the escaped elements can be at fault.
		return c.baseURL
	}

	return route
}

func marketQuery() url.Values {
	return url.Values{"market": []string{marketFromToken}}
}
