package spotify

// Image is a cover image reference.
type Image struct {
	// URL is the image location.
	URL string `json:"url"`
	// Width is the image width in pixels.
	Width int `json:"width"`
	// Height is the image height in pixels.
	Height int `json:"height"`
}

// Artist is an artist credited on a track or album.
type Artist struct {
	// ID is the artist identifier.
	ID string `json:"id"`
	// Name is the artist display name.
	Name string `json:"name"`
}

// AlbumInfo is the album summary embedded in a track.
type AlbumInfo struct {
	// ID is the album identifier.
	ID string `json:"id"`
	// Name is the album title.
	Name string `json:"name"`
	// Artists are the album artists in credit order.
	Artists []*Artist `json:"artists"`
	// Images are the album covers, largest first.
	Images []*Image `json:"images"`
	// ReleaseDate is the release date in YYYY, YYYY-MM or YYYY-MM-DD form.
	ReleaseDate string `json:"release_date"`
	// TotalTracks is the number of tracks on the album.
	TotalTracks int `json:"total_tracks"`
}

// Track is a full track object.
type Track struct {
	// ID is the track identifier.
	ID string `json:"id"`
	// URI is the native track URI.
	URI string `json:"uri"`
	// Name is the track title.
	Name string `json:"name"`
	// Artists are the performing artists in credit order.
	Artists []*Artist `json:"artists"`
	// Album is the album the track belongs to.
	Album *AlbumInfo `json:"album"`
	// TrackNumber is the position on its disc.
	TrackNumber int `json:"track_number"`
	// DiscNumber is the disc number.
	DiscNumber int `json:"disc_number"`
	// DurationMS is the track length in milliseconds.
	DurationMS int64 `json:"duration_ms"`
}

// ShowInfo is the show summary embedded in an episode.
type ShowInfo struct {
	// ID is the show identifier.
	ID string `json:"id"`
	// Name is the show title.
	Name string `json:"name"`
	// Publisher is the show publisher.
	Publisher string `json:"publisher"`
	// Images are the show covers.
	Images []*Image `json:"images"`
}

// Episode is a full podcast episode object.
type Episode struct {
	// ID is the episode identifier.
	ID string `json:"id"`
	// URI is the native episode URI.
	URI string `json:"uri"`
	// Name is the episode title.
	Name string `json:"name"`
	// Show is the show the episode belongs to.
	Show *ShowInfo `json:"show"`
	// Images are the episode covers.
	Images []*Image `json:"images"`
	// ReleaseDate is the publication date.
	ReleaseDate string `json:"release_date"`
	// DurationMS is the episode length in milliseconds.
	DurationMS int64 `json:"duration_ms"`
}

// ItemRef is a member of a collection: a track or an episode.
type ItemRef struct {
	// ID is the item identifier. Local files have none.
	ID string `json:"id"`
	// URI is the native item URI.
	URI string `json:"uri"`
	// Type is "track" or "episode".
	Type string `json:"type"`
	// Name is the item title.
	Name string `json:"name"`
}

// PlaylistItem wraps a playlist entry.
type PlaylistItem struct {
	// Track is the entry, nil when it was removed from the catalog.
	Track *ItemRef `json:"track"`
}

// Page is one page of a paginated list.
type Page[T any] struct {
	// Items are the entries of this page.
	Items []T `json:"items"`
	// Next is the absolute URL of the next page, empty on the last one.
	Next string `json:"next"`
	// Total is the number of entries over all pages.
	Total int `json:"total"`
}

// Album is a full album with every track page collected.
type Album struct {
	AlbumInfo

	// Tracks are the album tracks in disc and track order.
	Tracks Page[*ItemRef] `json:"tracks"`
}

// PlaylistOwner is the user owning a playlist.
type PlaylistOwner struct {
	// DisplayName is the owner's public name.
	DisplayName string `json:"display_name"`
}

// Playlist is a full playlist with every item page collected.
type Playlist struct {
	// ID is the playlist identifier.
	ID string `json:"id"`
	// Name is the playlist title.
	Name string `json:"name"`
	// Owner is the playlist owner.
	Owner *PlaylistOwner `json:"owner"`
	// Images are the playlist covers.
	Images []*Image `json:"images"`
	// Tracks are the playlist entries in playlist order.
	Tracks Page[*PlaylistItem] `json:"tracks"`
}

// Show is a full show with every episode page collected.
type Show struct {
	ShowInfo

	// Episodes are the show episodes in the order the API lists them.
	Episodes Page[*ItemRef] `json:"episodes"`
}

// FetchJSONResult represents the result of fetching JSON data.
type FetchJSONResult[T any] struct {
	// Data is the decoded body, nil on failure.
	Data *T
	// StatusCode is the HTTP status code.
	StatusCode int
}

// LargestImageURL returns the URL of the widest image, or an empty string.
func LargestImageURL(images []*Image) string {
	var best *Image

	for _, image := range images {
		if image == nil || image.URL == "" {
			continue
		}

		if best == nil || image.Width > best.Width {
			best = image
		}
	}

	if best == nil {
		return ""
	}

	return best.URL
}

// ArtistNames returns the names of the artists in credit order.
func ArtistNames(artists []*Artist) []string {
	names := make([]string, 0, len(artists))

	for _, artist := range artists {
		if artist == nil {
			continue
		}

		names = append(names, artist.Name)
	}

	return names
}
