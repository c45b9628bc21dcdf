package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/oshokin/daytrip/internal/logger"
)

// playback implements Playback for one loaded item.
type playback struct {
	// uri is the loaded item.
	uri string
	// sink receives the decoded PCM.
	sink io.Writer
	// body is the PCM stream.
	body io.ReadCloser
	// conn is the event feed.
	conn *websocket.Conn
	// cancelStream aborts the stream request.
	cancelStream context.CancelFunc
	// events delivers feed events for uri.
	events chan Event
	// done is closed by Stop.
	done chan struct{}
	// feedDone is closed when the feed reader has exited.
	feedDone chan struct{}
	// stopOnce guards Stop.
	stopOnce sync.Once
}

func newPlayback(
	uri string,
	sink io.Writer,
	body io.ReadCloser,
	conn *websocket.Conn,
	cancelStream context.CancelFunc,
) *playback {
	p := &playback{
		uri:          uri,
		sink:         sink,
		body:         body,
		conn:         conn,
		cancelStream: cancelStream,
		events:       make(chan Event, eventsBufferSize),
		done:         make(chan struct{}),
		feedDone:     make(chan struct{}),
	}

	go p.readEvents()

	return p
}

// AwaitEndOfTrack copies the PCM stream into the sink until EOF.
func (p *playback) AwaitEndOfTrack(ctx context.Context) error {
	stopOnCancel := context.AfterFunc(ctx, p.Stop)
	defer stopOnCancel()

	_, err := io.Copy(p.sink, p.body)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	select {
	case <-p.done:
		return ErrPlaybackStopped
	default:
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrStreamInterrupted, err)
	}

	return nil
}

// Events returns the event feed.
func (p *playback) Events() <-chan Event {
	return p.events
}

// Stop aborts the stream, closes the feed and waits for the feed reader to exit.
func (p *playback) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.cancelStream()
		p.body.Close() //nolint:errcheck,gosec // Error on close is not critical here.
		p.conn.Close() //nolint:errcheck,gosec // Error on close is not critical here.
	})

	<-p.feedDone
}

func (p *playback) readEvents() {
	defer close(p.feedDone)
	defer close(p.events)

	for {
		_, message, err := p.conn.ReadMessage()
		if err != nil {
			select {
			case <-p.done:
			default:
				if !isClosedFeedError(err) {
					logger.Debugf(context.Background(), "Event feed of %s ended: %v", p.uri, err)
				}
			}

			return
		}

		var event Event
		if err = json.Unmarshal(message, &event); err != nil {
			logger.Debugf(context.Background(), "Ignoring malformed event %q: %v", message, err)

			continue
		}

		if event.URI != "" && event.URI != p.uri {
			continue
		}

		select {
		case p.events <- event:
		case <-p.done:
			return
		}
	}
}
