package spotify

import "errors"

var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrEmptyResponse indicates that the API answered without a body.
	ErrEmptyResponse = errors.New("empty response")
)
