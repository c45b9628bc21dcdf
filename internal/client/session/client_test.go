package session

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/daytrip/internal/config"
)

const testTrackURI = "spotify:track:63OQupATfueTdZMWTxW03A"

// bridgeBehavior configures the fake bridge.
type bridgeBehavior struct {
	// events are sent on every feed right after the upgrade.
	events []any
	// pcm is written to every stream.
	pcm []byte
	// holdStream keeps streams open until the client goes away.
	holdStream bool
}

// newFakeBridge starts an HTTP and websocket server mimicking the streaming bridge.
func newFakeBridge(t *testing.T, behavior bridgeBehavior) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()

	mux.HandleFunc("/audio/files", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("uri") != testTrackURI {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		_, _ = io.WriteString(w, `{"files": ["OGG_VORBIS_320", "MP3_160"]}`)
	})

	mux.HandleFunc("/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/L16")
		_, _ = w.Write(behavior.pcm)

		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		if behavior.holdStream {
			<-r.Context().Done()
		}
	})

	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		defer conn.Close() //nolint:errcheck // Test cleanup.

		for _, event := range behavior.events {
			if err = conn.WriteJSON(event); err != nil {
				return
			}
		}

		// Hold the feed open until the client closes it.
		for {
			if _, _, err = conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func newTestClient(t *testing.T, serverURL string) Client {
	t.Helper()

	client, err := NewClient(&config.Config{SessionURL: serverURL, ParsedRequestTimeout: 5 * time.Second})
	require.NoError(t, err)

	return client
}

// TestNewClient tests URL validation.
func TestNewClient(t *testing.T) {
	t.Parallel()

	_, err := NewClient(&config.Config{SessionURL: "ftp://127.0.0.1"})
	require.Error(t, err)

	_, err = NewClient(&config.Config{SessionURL: config.DefaultSessionURL})
	require.NoError(t, err)
}

// TestClientImpl_GetAudioFiles tests the audio files listing.
func TestClientImpl_GetAudioFiles(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newFakeBridge(t, bridgeBehavior{}).URL)

	files, err := client.GetAudioFiles(context.Background(), testTrackURI)
	require.NoError(t, err)
	assert.Equal(t, []string{"OGG_VORBIS_320", "MP3_160"}, files)

	_, err = client.GetAudioFiles(context.Background(), "spotify:track:unknown")
	require.ErrorIs(t, err, ErrUnexpectedHTTPStatus)
}

// TestClientImpl_Load_EndOfTrack tests a stream that reaches its natural end.
func TestClientImpl_Load_EndOfTrack(t *testing.T) {
	t.Parallel()

	server := newFakeBridge(t, bridgeBehavior{
		pcm: []byte("raw-pcm-frames"),
		events: []any{
			Event{Type: EventPlaying, URI: "spotify:track:other"},
			"not an event object",
			Event{Type: EventPlaying, URI: testTrackURI},
		},
	})

	var sink bytes.Buffer

	playback, err := newTestClient(t, server.URL).Load(context.Background(), testTrackURI, &sink)
	require.NoError(t, err)

	select {
	case event := <-playback.Events():
		assert.Equal(t, EventPlaying, event.Type)
		assert.Equal(t, testTrackURI, event.URI)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}

	require.NoError(t, playback.AwaitEndOfTrack(context.Background()))
	assert.Equal(t, "raw-pcm-frames", sink.String())

	playback.Stop()
	playback.Stop()

	_, open := <-playback.Events()
	assert.False(t, open, "events channel must be closed after Stop")
}

// TestClientImpl_Load_Unavailable tests stopping a stream after an unavailable event.
func TestClientImpl_Load_Unavailable(t *testing.T) {
	t.Parallel()

	server := newFakeBridge(t, bridgeBehavior{
		pcm:        []byte("partial"),
		holdStream: true,
		events:     []any{Event{Type: EventUnavailable, URI: testTrackURI, Reason: "region"}},
	})

	playback, err := newTestClient(t, server.URL).Load(context.Background(), testTrackURI, io.Discard)
	require.NoError(t, err)

	awaitResult := make(chan error, 1)

	go func() {
		awaitResult <- playback.AwaitEndOfTrack(context.Background())
	}()

	select {
	case event := <-playback.Events():
		assert.Equal(t, EventUnavailable, event.Type)
		assert.Equal(t, "region", event.Reason)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}

	playback.Stop()

	select {
	case err = <-awaitResult:
		require.ErrorIs(t, err, ErrPlaybackStopped)
	case <-time.After(5 * time.Second):
		t.Fatal("stream was not stopped")
	}
}

// TestClientImpl_Load_ContextCancel tests that cancelling the context ends the wait.
func TestClientImpl_Load_ContextCancel(t *testing.T) {
	t.Parallel()

	server := newFakeBridge(t, bridgeBehavior{holdStream: true})

	playback, err := newTestClient(t, server.URL).Load(context.Background(), testTrackURI, io.Discard)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, playback.AwaitEndOfTrack(ctx), context.DeadlineExceeded)

	playback.Stop()
}

// TestClientImpl_Load_Unreachable tests the error returned when the bridge is down.
func TestClientImpl_Load_Unreachable(t *testing.T) {
	t.Parallel()

	server := newFakeBridge(t, bridgeBehavior{})
	serverURL := server.URL
	server.Close()

	_, err := newTestClient(t, serverURL).Load(context.Background(), testTrackURI, io.Discard)
	require.ErrorIs(t, err, ErrBackendUnreachable)
}
