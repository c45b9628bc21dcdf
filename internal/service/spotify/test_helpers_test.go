package spotify

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/daytrip/internal/client/session"
	mock_session "github.com/oshokin/daytrip/internal/client/session/mocks"
	"github.com/oshokin/daytrip/internal/client/spotify"
	mock_spotify "github.com/oshokin/daytrip/internal/client/spotify/mocks"
	"github.com/oshokin/daytrip/internal/config"
)

// Identifiers shared by the service tests.
const (
	testTrackID    = "4iV5W9uYEdYUVa79Axb7Rh"
	testTrackID2   = "1301WleyT98MSxVHPZCA6M"
	testTrackID3   = "3n3Ppam7vgaVa1iaRUc9Lp"
	testAlbumID    = "1DFixLWuPkv3KT3TnV35m3"
	testPlaylistID = "37i9dQZF1DXcBWIGoYBM5M"
	testEpisodeID  = "512ojhOuo1ktJprKbVcKyQ"
	testShowID     = "5CfCWKI5pZ28U0uOzXkDHe"
)

// testPCM is the raw audio every fake playback writes.
var testPCM = []byte("raw-pcm-frames") //nolint:gochecknoglobals // Test fixture.

// fakeEncoder records encode requests and writes a small output file.
type fakeEncoder struct {
	mu       sync.Mutex
	requests []*EncodeRequest
	inputs   [][]byte
	err      error
	// failFirst makes the first calls fail with err; zero means every call uses err.
	failFirst int
}

func (e *fakeEncoder) Encode(_ context.Context, req *EncodeRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	input, _ := os.ReadFile(req.InputPath) //nolint:errcheck // A missing input is recorded as empty.

	e.requests = append(e.requests, req)
	e.inputs = append(e.inputs, input)

	if e.err != nil && (e.failFirst == 0 || len(e.requests) <= e.failFirst) {
		// A failed encoder may still leave a partial file behind.
		_ = os.WriteFile(req.OutputPath, []byte("partial"), 0o600) //nolint:errcheck // Best effort.

		return e.err
	}

	return os.WriteFile(req.OutputPath, []byte("encoded:"+string(input)), 0o600)
}

func (e *fakeEncoder) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.requests)
}

// fakeTagProcessor records tag requests.
type fakeTagProcessor struct {
	mu       sync.Mutex
	requests []*WriteTagsRequest
	err      error
}

func (tp *fakeTagProcessor) WriteTags(_ context.Context, req *WriteTagsRequest) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	tp.requests = append(tp.requests, req)

	return tp.err
}

// testServiceSetup encapsulates common test dependencies and configuration.
type testServiceSetup struct {
	ctrl          *gomock.Controller
	catalogClient *mock_spotify.MockClient
	sessionClient *mock_session.MockClient
	encoder       *fakeEncoder
	tagProcessor  *fakeTagProcessor
	service       *ServiceImpl
	config        *config.Config
	pauses        []time.Duration
}

// newTestServiceSetup creates a service with mocked clients and optional config overrides.
func newTestServiceSetup(t *testing.T, configOverrides ...func(*config.Config)) *testServiceSetup {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{
		OutputPath:       t.TempDir(),
		ScratchDir:       t.TempDir(),
		OutputFormat:     config.OutputFormatOpus,
		Quality:          config.QualityHigh,
		FilenameTemplate: "%a - %t",
		NumberTracks:     true,
		MaxTries:         3,
	}

	for _, override := range configOverrides {
		override(cfg)
	}

	setup := &testServiceSetup{
		ctrl:          ctrl,
		catalogClient: mock_spotify.NewMockClient(ctrl),
		sessionClient: mock_session.NewMockClient(ctrl),
		encoder:       new(fakeEncoder),
		tagProcessor:  new(fakeTagProcessor),
		config:        cfg,
	}

	service, ok := NewService(
		cfg,
		setup.catalogClient,
		setup.sessionClient,
		NewURLProcessor(),
		NewTemplateManager(cfg),
		setup.tagProcessor,
		setup.encoder,
	).(*ServiceImpl)
	require.True(t, ok)

	service.pause = func(ctx context.Context, d time.Duration) error {
		setup.pauses = append(setup.pauses, d)

		return ctx.Err()
	}

	setup.service = service

	t.Cleanup(func() {
		_ = service.Close() //nolint:errcheck // Cleanup is best effort.
	})

	return setup
}

// expectTrack makes the catalog return a track with the given title and artists.
func (s *testServiceSetup) expectTrack(id, title string, artists ...string) {
	trackArtists := make([]*spotify.Artist, 0, len(artists))
	for _, name := range artists {
		trackArtists = append(trackArtists, &spotify.Artist{Name: name})
	}

	s.catalogClient.EXPECT().
		GetTrack(gomock.Any(), id).
		Return(&spotify.Track{
			ID:          id,
			Name:        title,
			Artists:     trackArtists,
			TrackNumber: 7,
			Album: &spotify.AlbumInfo{
				Name:        "Test Album",
				Artists:     trackArtists,
				ReleaseDate: "1997-05-21",
			},
		}, nil).
		AnyTimes()
}

// expectAudioFiles makes the session list the given source encodings for every item.
func (s *testServiceSetup) expectAudioFiles(formats ...string) {
	s.sessionClient.EXPECT().
		GetAudioFiles(gomock.Any(), gomock.Any()).
		Return(formats, nil).
		AnyTimes()
}

// expectPlayback makes the next Load of uri stream testPCM and end normally.
func (s *testServiceSetup) expectPlayback(uri string) *gomock.Call {
	playback := mock_session.NewMockPlayback(s.ctrl)
	events := make(chan session.Event)
	close(events)

	playback.EXPECT().Events().Return((<-chan session.Event)(events)).AnyTimes()
	playback.EXPECT().AwaitEndOfTrack(gomock.Any()).Return(nil)
	playback.EXPECT().Stop().AnyTimes()

	return s.sessionClient.EXPECT().
		Load(gomock.Any(), uri, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, sink io.Writer) (session.Playback, error) {
			_, err := sink.Write(testPCM)

			return playback, err
		})
}

// expectUnavailable makes the next Load of uri write a little audio and then report
// the item as unavailable. The end of the track never comes.
func (s *testServiceSetup) expectUnavailable(uri, reason string) *gomock.Call {
	playback := mock_session.NewMockPlayback(s.ctrl)
	events := make(chan session.Event, 1)
	events <- session.Event{Type: session.EventUnavailable, URI: uri, Reason: reason}

	playback.EXPECT().Events().Return((<-chan session.Event)(events)).AnyTimes()
	playback.EXPECT().
		AwaitEndOfTrack(gomock.Any()).
		DoAndReturn(func(ctx context.Context) error {
			<-ctx.Done()

			return ctx.Err()
		})
	playback.EXPECT().Stop().MinTimes(1)

	return s.sessionClient.EXPECT().
		Load(gomock.Any(), uri, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, sink io.Writer) (session.Playback, error) {
			_, err := sink.Write([]byte("half"))

			return playback, err
		})
}
