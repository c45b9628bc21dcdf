package session

import "errors"

var (
	// ErrBackendUnreachable indicates that the bridge could not be reached at all.
	ErrBackendUnreachable = errors.New("streaming bridge is unreachable")
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrStreamInterrupted indicates that the PCM stream ended with an error.
	ErrStreamInterrupted = errors.New("stream interrupted")
	// ErrPlaybackStopped indicates that the playback was stopped before the end of the stream.
	ErrPlaybackStopped = errors.New("playback stopped")
)
