package spotify

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/oshokin/daytrip/internal/client/session"
	"github.com/oshokin/daytrip/internal/client/spotify"
	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/constants"
	"github.com/oshokin/daytrip/internal/logger"
	"github.com/oshokin/daytrip/internal/snapshot"
	"github.com/oshokin/daytrip/internal/utils"
)

// Service downloads catalog items and builds playlist snapshots.
type Service interface {
	// Download resolves every input and downloads it in order. Inputs are URIs,
	// share links, bare identifiers, ".txt" link lists or snapshot files.
	Download(ctx context.Context, inputs []string) error
	// BuildSnapshot expands a reference into a playlist snapshot.
	BuildSnapshot(ctx context.Context, input string, opts *SnapshotOptions) (*snapshot.SavedPlaylist, error)
	// PrintDownloadSummary prints a formatted summary of download statistics.
	PrintDownloadSummary(ctx context.Context)
	// Close releases the scratch buffer.
	Close() error
}

// ServiceImpl implements Service on top of the catalog and session clients.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// catalogClient looks up item metadata.
	catalogClient spotify.Client
	// sessionClient streams decoded audio.
	sessionClient session.Client
	// urlProcessor resolves user input.
	urlProcessor URLProcessor
	// templateManager builds file and folder names.
	templateManager TemplateManager
	// tagProcessor writes metadata tags to encoded files.
	tagProcessor TagProcessor
	// encoder turns raw audio into the output format.
	encoder Encoder
	// scratch holds the raw audio of the item being downloaded.
	scratch *scratchBuffer
	// pause waits between attempts; replaced in tests.
	pause func(ctx context.Context, d time.Duration) error
	// stats tracks download statistics for the current session.
	stats *DownloadStatistics
	// statsMutex protects concurrent access to statistics.
	statsMutex *sync.Mutex
}

// downloadJob is one resolved input of Download.
type downloadJob struct {
	// reference is set for catalog references.
	reference *Reference
	// playlist is set for snapshot files.
	playlist *snapshot.SavedPlaylist
	// entries are the resolved references of playlist, in order.
	entries []*Reference
}

// itemDelay is the pause after every download attempt.
const itemDelay = 100 * time.Millisecond

// NewService creates a download service instance with dependency-injected components.
func NewService(
	cfg *config.Config,
	catalogClient spotify.Client,
	sessionClient session.Client,
	urlProcessor URLProcessor,
	templateManager TemplateManager,
	tagProcessor TagProcessor,
	encoder Encoder,
) Service {
	return &ServiceImpl{
		cfg:             cfg,
		catalogClient:   catalogClient,
		sessionClient:   sessionClient,
		urlProcessor:    urlProcessor,
		templateManager: templateManager,
		tagProcessor:    tagProcessor,
		encoder:         encoder,
		scratch:         newScratchBuffer(cfg.ScratchDir),
		pause:           utils.Pause,
		stats:           new(DownloadStatistics),
		statsMutex:      new(sync.Mutex),
	}
}

// Download resolves every input first, so that a malformed one fails before any
// stream is opened, and then downloads them in order. The first item that
// exhausts its retries stops the whole download.
func (s *ServiceImpl) Download(ctx context.Context, inputs []string) error {
	s.statsMutex.Lock()
	s.stats.StartTime = time.Now()
	s.statsMutex.Unlock()

	defer func() {
		s.statsMutex.Lock()
		s.stats.EndTime = time.Now()
		s.statsMutex.Unlock()
	}()

	jobs, err := s.planDownloads(ctx, inputs)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(s.cfg.OutputPath, constants.DefaultFolderPermissions); err != nil {
		return fmt.Errorf("failed to create output path: %w", err)
	}

	for _, job := range jobs {
		if job.playlist != nil {
			err = s.downloadSnapshot(ctx, job.playlist, job.entries)
		} else {
			err = s.downloadReference(ctx, job.reference)
		}

		if err != nil {
			return err
		}
	}

	logger.Info(ctx, "Download process completed")

	return nil
}

// Close removes the scratch buffer.
func (s *ServiceImpl) Close() error {
	return s.scratch.Remove()
}

// planDownloads resolves inputs into jobs, loading snapshot files as it goes.
func (s *ServiceImpl) planDownloads(ctx context.Context, inputs []string) ([]*downloadJob, error) {
	jobs := make([]*downloadJob, 0, len(inputs))

	for _, input := range inputs {
		if snapshot.IsSnapshotPath(input) {
			isExist, err := utils.IsFileExist(input)
			if err != nil {
				return nil, fmt.Errorf("failed to check %s: %w", input, err)
			}

			if isExist {
				job, err := s.planSnapshot(ctx, input)
				if err != nil {
					return nil, err
				}

				jobs = append(jobs, job)

				continue
			}
		}

		references, err := s.urlProcessor.ExtractReferences(ctx, []string{input})
		if err != nil {
			return nil, err
		}

		for _, reference := range references {
			jobs = append(jobs, &downloadJob{reference: reference})
		}
	}

	return jobs, nil
}

// downloadReference downloads a single item or walks a collection.
func (s *ServiceImpl) downloadReference(ctx context.Context, reference *Reference) error {
	if reference.Kind.IsComposite() {
		return s.downloadCollection(ctx, reference)
	}

	return s.downloadWithRetry(ctx, &DownloadRequest{
		Reference:    *reference,
		Folder:       s.cfg.OutputPath,
		Template:     s.cfg.FilenameTemplate,
		OutputFormat: s.cfg.OutputFormat,
		Force:        s.cfg.ForceDownload,
	})
}
