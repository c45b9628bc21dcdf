package session

// EventType is the kind of a player event.
type EventType string

// Player event types published by the bridge.
const (
	// EventLoading is sent when the item starts loading.
	EventLoading EventType = "loading"
	// EventPlaying is sent when decoding starts.
	EventPlaying EventType = "playing"
	// EventEndOfTrack is sent when decoding reaches the end of the item.
	EventEndOfTrack EventType = "end_of_track"
	// EventUnavailable is sent when the item cannot be played.
	EventUnavailable EventType = "unavailable"
)

// Event is a single player event.
type Event struct {
	// Type is the event kind.
	Type EventType `json:"type"`
	// URI is the item the event refers to.
	URI string `json:"uri"`
	// Reason is an optional human-readable explanation.
	Reason string `json:"reason,omitempty"`
}

// audioFilesResponse is the body of the audio files endpoint.
type audioFilesResponse struct {
	// Files are the available source encodings, such as "OGG_VORBIS_320".
	Files []string `json:"files"`
}
