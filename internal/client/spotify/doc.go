// Package spotify is a read-only client for the catalog metadata API.
// It resolves tracks, episodes, albums, playlists and shows,
// follows paginated member lists and caches entities in LRU caches.
package spotify
