// Package session talks to the local streaming bridge that owns the
// authenticated playback session. The bridge lists the source encodings of an
// item, streams its decoded audio as raw s16le stereo PCM and publishes
// player events over a websocket feed.
package session
