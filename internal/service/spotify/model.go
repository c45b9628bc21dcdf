package spotify

import (
	"fmt"
	"strings"
	"time"
)

// uriScheme prefixes native catalog URIs.
const uriScheme = "spotify"

// Kind is the type of a catalog item.
type Kind uint8

const (
	// KindTrack is a single music track.
	KindTrack Kind = iota
	// KindAlbum is an album.
	KindAlbum
	// KindPlaylist is a user playlist.
	KindPlaylist
	// KindEpisode is a single podcast episode.
	KindEpisode
	// KindShow is a podcast show.
	KindShow
)

// String returns the token used for the kind in URIs and share links.
func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindAlbum:
		return "album"
	case KindPlaylist:
		return "playlist"
	case KindEpisode:
		return "episode"
	case KindShow:
		return "show"
	default:
		return fmt.Sprintf("unknown: %d", k)
	}
}

// IsComposite reports whether the kind expands to several items.
func (k Kind) IsComposite() bool {
	return k == KindAlbum || k == KindPlaylist || k == KindShow
}

// ParseKind maps a URI or share link token to a kind.
func ParseKind(token string) (Kind, bool) {
	switch strings.ToLower(token) {
	case "track":
		return KindTrack, true
	case "album":
		return KindAlbum, true
	case "playlist":
		return KindPlaylist, true
	case "episode":
		return KindEpisode, true
	case "show":
		return KindShow, true
	default:
		return KindTrack, false
	}
}

// Reference identifies a catalog item.
type Reference struct {
	// Kind is the item type.
	Kind Kind
	// ID is the base62 item identifier.
	ID string
}

// URI returns the native URI of the item, such as "spotify:track:<id>".
func (r Reference) URI() string {
	return uriScheme + ":" + r.Kind.String() + ":" + r.ID
}

// String returns the native URI of the item.
func (r Reference) String() string {
	return r.URI()
}

// TrackMetadata is what a single download needs to know about an item.
type TrackMetadata struct {
	// Title is the display title.
	Title string
	// Artists are the credited artists in order. For episodes, the show name.
	Artists []string
	// ParentTitle is the album or show name.
	ParentTitle string
	// AlbumArtists are the album artists in order.
	AlbumArtists []string
	// Position is the position within the parent, 0 when unknown.
	Position int
	// ReleaseDate is the release date as given by the catalog.
	ReleaseDate string
	// CoverURL is the largest cover image, empty when there is none.
	CoverURL string
	// AvailableFormats are the source encodings the session can serve.
	AvailableFormats []string
}

// PrimaryArtist returns the first credited artist, or an empty string.
func (m *TrackMetadata) PrimaryArtist() string {
	if m == nil || len(m.Artists) == 0 {
		return ""
	}

	return m.Artists[0]
}

// DownloadRequest describes one attempt to download one item.
type DownloadRequest struct {
	// Reference is the track or episode to download.
	Reference Reference
	// Folder is the destination folder.
	Folder string
	// Template is the file name template.
	Template string
	// Index is the 1-based position within a collection, 0 for single items.
	Index int
	// Name is a frozen file name that bypasses the template, without extension.
	Name string
	// OutputFormat is the target container, such as "opus".
	OutputFormat string
	// Force overwrites an existing destination instead of skipping it.
	Force bool
}

// DownloadResult is the outcome of a successful pipeline run.
type DownloadResult struct {
	// Path is the destination file.
	Path string
	// IsSkipped is true when the destination existed and nothing was streamed.
	IsSkipped bool
	// BytesStreamed is the size of the raw audio received.
	BytesStreamed int64
	// BytesWritten is the size of the encoded file.
	BytesWritten int64
}

// DownloadStatistics tracks metrics for a download session.
type DownloadStatistics struct {
	// StartTime is when the download session began.
	StartTime time.Time
	// EndTime is when the download session completed.
	EndTime time.Time
	// TracksDownloaded is the number of items written.
	TracksDownloaded int64
	// TracksSkipped is the number of items that already existed.
	TracksSkipped int64
	// FailedAttempts is the number of pipeline runs that ended with an error.
	FailedAttempts int64
	// TotalBytesStreamed is the raw audio received from the session.
	TotalBytesStreamed int64
	// TotalBytesWritten is the size of the encoded files.
	TotalBytesWritten int64
	// AbortedOn is the item that exhausted its retries, if any.
	AbortedOn string
	// AbortReason is the last error of that item.
	AbortReason string
}
