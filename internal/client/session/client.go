package session

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/logger"
	http_transport "github.com/oshokin/daytrip/internal/transport/http"
	"github.com/oshokin/daytrip/internal/utils"
)

// Client is the connected streaming session.
type Client interface {
	// GetAudioFiles lists the source encodings available for an item.
	GetAudioFiles(ctx context.Context, uri string) ([]string, error)
	// Load starts decoding an item into sink and subscribes to its events.
	Load(ctx context.Context, uri string, sink io.Writer) (Playback, error)
}

// Playback is one item being decoded.
type Playback interface {
	// AwaitEndOfTrack blocks until the decode reaches its natural end,
	// fails, is stopped or ctx is done.
	AwaitEndOfTrack(ctx context.Context) error
	// Events returns the event feed of the item. The channel is closed with the feed.
	Events() <-chan Event
	// Stop stops decoding and releases the stream and the feed. It is safe to call more than once.
	Stop()
}

// ClientImpl implements Client over HTTP and websocket.
type ClientImpl struct {
	// baseURL is the bridge base URL.
	baseURL *url.URL
	// httpClient is the HTTP client used for metadata and streams.
	httpClient *http.Client
	// dialer opens event feeds.
	dialer *websocket.Dialer
	// requestTimeout bounds metadata requests. Streams are bounded by their context only.
	requestTimeout time.Duration
}

const (
	// audioFilesURI is the URI path listing available source encodings.
	audioFilesURI = "audio/files"
	// streamURI is the URI path of the PCM stream.
	streamURI = "stream"
	// eventsURI is the URI path of the websocket event feed.
	eventsURI = "events"
	// eventsBufferSize is the capacity of the events channel.
	eventsBufferSize = 16
)

// NewClient creates a session client for the configured bridge.
func NewClient(cfg *config.Config) (Client, error) {
	baseURL, err := url.Parse(cfg.SessionURL)
	if err != nil {
		return nil, fmt.Errorf("invalid session URL: %w", err)
	}

	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid session URL scheme: %q", baseURL.Scheme)
	}

	requestTimeout := cfg.ParsedRequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = http_transport.DefaultTimeout
	}

	// No client-wide timeout: it would cut long streams.
	httpClient := &http.Client{
		Transport: http_transport.NewUserAgentInjector(
			http_transport.NewLogTransport(http.DefaultTransport, 0),
			utils.NewSimpleUserAgentProvider(http_transport.DefaultUserAgent)),
	}

	return &ClientImpl{
		baseURL:        baseURL,
		httpClient:     httpClient,
		dialer:         &websocket.Dialer{HandshakeTimeout: requestTimeout, Proxy: http.ProxyFromEnvironment},
		requestTimeout: requestTimeout,
	}, nil
}

// GetAudioFiles lists the source encodings available for an item.
func (c *ClientImpl) GetAudioFiles(ctx context.Context, uri string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.route(audioFilesURI, "http", uri), http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnreachable, err)
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	var result audioFilesResponse
	if err = json.NewDecoder(response.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode audio files: %w", err)
	}

	return result.Files, nil
}

// Load subscribes to the item's events first, so that an early "unavailable"
// cannot be missed, and then opens the PCM stream.
func (c *ClientImpl) Load(ctx context.Context, uri string, sink io.Writer) (Playback, error) {
	conn, response, err := c.dialer.DialContext(ctx, c.route(eventsURI, "ws", uri), nil)
	if response != nil && response.Body != nil {
		response.Body.Close() //nolint:errcheck,gosec // Handshake body is not used.
	}

	if err != nil {
		return nil, fmt.Errorf("%w: failed to open event feed: %w", ErrBackendUnreachable, err)
	}

	streamCtx, cancelStream := context.WithCancel(ctx)

	request, err := http.NewRequestWithContext(streamCtx, http.MethodGet, c.route(streamURI, "http", uri), http.NoBody)
	if err != nil {
		cancelStream()
		conn.Close() //nolint:errcheck,gosec // Error on close is not critical here.

		return nil, err
	}

	streamResponse, err := c.httpClient.Do(request)
	if err != nil {
		cancelStream()
		conn.Close() //nolint:errcheck,gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: failed to open stream: %w", ErrBackendUnreachable, err)
	}

	if streamResponse.StatusCode != http.StatusOK {
		streamResponse.Body.Close() //nolint:errcheck,gosec // Error on close is not critical here.
		cancelStream()
		conn.Close() //nolint:errcheck,gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, streamResponse.StatusCode)
	}

	playback := newPlayback(uri, sink, streamResponse.Body, conn, cancelStream)

	logger.Debugf(ctx, "Loaded %s", uri)

	return playback, nil
}

// route builds an endpoint URL for the item using the given scheme family.
func (c *ClientImpl) route(endpoint, scheme, uri string) string {
	target := c.baseURL.JoinPath(endpoint)
	target.RawQuery = url.Values{"uri": []string{uri}}.Encode()

	if scheme == "ws" {
		target.Scheme = strings.Replace(target.Scheme, "http", "ws", 1)
	}

	return target.String()
}

// isClosedFeedError reports errors that simply mean the feed has ended.
func isClosedFeedError(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, net.ErrClosed)
}
