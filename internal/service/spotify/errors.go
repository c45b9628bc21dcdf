package spotify

import "errors"

// Download errors.
var (
	// ErrInvalidReference indicates input that cannot be resolved to a catalog item.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrMetadataUnavailable indicates that item metadata could not be fetched.
	ErrMetadataUnavailable = errors.New("metadata unavailable")
	// ErrTrackUnavailable indicates that the session reported the item as unplayable.
	ErrTrackUnavailable = errors.New("track unavailable")
	// ErrEncodeFailed indicates that the encoder could not be started or exited with an error.
	ErrEncodeFailed = errors.New("encoding failed")
	// ErrBackendUnavailable indicates that the decode output could not be set up.
	ErrBackendUnavailable = errors.New("audio backend unavailable")
	// ErrBatchAborted indicates that an item exhausted its retries and the whole download stopped.
	ErrBatchAborted = errors.New("download aborted")
	// ErrUnsupportedKind indicates a reference kind the operation cannot take.
	ErrUnsupportedKind = errors.New("unsupported item kind")
)
