package http

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/logger"
	"github.com/oshokin/daytrip/internal/utils"
)

// LogTransport dumps requests and responses when the logger is at debug level.
type LogTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// maxLogLength is the maximum length of a logged dump.
	maxLogLength uint64
}

// Static error definitions for better error handling.
var (
	// ErrNilRequest indicates that the HTTP request is nil.
	ErrNilRequest = errors.New("request is nil")
)

// NewLogTransport creates a LogTransport.
// A zero maxLogLength defaults to config.DefaultMaxLogLength.
func NewLogTransport(next http.RoundTripper, maxLogLength uint64) http.RoundTripper {
	if maxLogLength == 0 {
		maxLogLength = config.DefaultMaxLogLength
	}

	return &LogTransport{
		next:         next,
		maxLogLength: maxLogLength,
	}
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	if !logger.IsDebugLevel() {
		return t.next.RoundTrip(req)
	}

	var (
		ctx         = req.Context()
		requestDump = t.dumpRequest(req)
		startTime   = time.Now()
	)

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(startTime)

	if err != nil {
		logger.Debugf(ctx, "Request failed: %s %s | Error: %v", req.Method, req.URL.Redacted(), err)

		return nil, err
	}

	logger.Debugf(ctx, "%s %s [%d] %s\nRequest: %s\nResponse: %s",
		req.Method, req.URL.Path, resp.StatusCode, duration, requestDump, t.dumpResponse(resp))

	return resp, nil
}

func (t *LogTransport) dumpRequest(req *http.Request) string {
	// Bearer tokens never reach the log.
	clone := req.Clone(req.Context())
	if clone.Header.Get(authorizationHeader) != "" {
		clone.Header.Set(authorizationHeader, "[redacted]")
	}

	withBody := false

	if req.GetBody != nil && utils.IsTextContentType(req.Header.Get("Content-Type")) {
		if body, err := req.GetBody(); err == nil {
			clone.Body = body
			withBody = true
		}
	}

	dump, err := httputil.DumpRequest(clone, withBody)
	if err != nil {
		return err.Error()
	}

	return t.truncate(dump)
}

func (t *LogTransport) dumpResponse(resp *http.Response) string {
	// PCM streams and images are dumped without bodies.
	dump, err := httputil.DumpResponse(resp, utils.IsTextContentType(resp.Header.Get("Content-Type")))
	if err != nil {
		return err.Error()
	}

	return t.truncate(dump)
}

func (t *LogTransport) truncate(data []byte) string {
	if uint64(len(data)) > t.maxLogLength {
		return string(data[:t.maxLogLength]) + "... [truncated]"
	}

	return string(data)
}
