package spotify

const (
	// apiTracksURI is the URI path for track metadata.
	apiTracksURI = "tracks"
	// apiEpisodesURI is the URI path for episode metadata.
	apiEpisodesURI = "episodes"
	// apiAlbumsURI is the URI path for album metadata.
	apiAlbumsURI = "albums"
	// apiPlaylistsURI is the URI path for playlist metadata.
	apiPlaylistsURI = "playlists"
	// apiShowsURI is the URI path for show metadata.
	apiShowsURI = "shows"
)

const (
	// tracksCacheSize is the maximum number of cached tracks.
	tracksCacheSize = 10000
	// episodesCacheSize is the maximum number of cached episodes.
	episodesCacheSize = 2000
	// albumsCacheSize is the maximum number of cached albums.
	albumsCacheSize = 2000
	// playlistsCacheSize is the maximum number of cached playlists.
	playlistsCacheSize = 500
	// showsCacheSize is the maximum number of cached shows.
	showsCacheSize = 500
)

// marketFromToken lets the API pick the market of the token owner, which is needed for
// playable episode and relinked track data.
const marketFromToken = "from_token"
