package spotify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/daytrip/internal/client/session"
	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/constants"
	"github.com/oshokin/daytrip/internal/logger"
	"github.com/oshokin/daytrip/internal/utils"
)

// byteCounter counts the bytes written through it.
type byteCounter struct {
	// total is the number of bytes written so far.
	total int64
}

// Write counts p and never fails.
func (c *byteCounter) Write(p []byte) (int, error) {
	c.total += int64(len(p))

	return len(p), nil
}

// downloadTrack runs the pipeline for one item: name, skip check, stream, encode, tag, rename.
// The destination only appears after a complete stream and a successful encode.
//
//nolint:funlen // Function orchestrates the download workflow with multiple sequential steps.
func (s *ServiceImpl) downloadTrack(ctx context.Context, req *DownloadRequest) (*DownloadResult, error) {
	metadata, metadataErr := s.fetchMetadata(ctx, req.Reference)
	if metadataErr != nil {
		logger.Warnf(ctx, "%v, naming the file after its identifier", metadataErr)
	}

	filename := s.trackFilename(req, metadata, metadataErr)
	trackPath := filepath.Join(req.Folder, filename)

	if !req.Force {
		isExist, err := utils.IsFileExist(trackPath)
		if err != nil {
			return nil, fmt.Errorf("failed to check '%s': %w", trackPath, err)
		}

		if isExist {
			logger.Infof(ctx, "Skipping %s", filename)

			return &DownloadResult{Path: trackPath, IsSkipped: true}, nil
		}
	}

	logger.Infof(ctx, "Downloading %s", filename)

	// Whatever happens next, the next item must start from an empty buffer.
	defer func() {
		if err := s.scratch.Truncate(); err != nil {
			logger.Warnf(ctx, "Failed to clean up scratch buffer: %v", err)
		}
	}()

	bytesStreamed, err := s.streamToScratch(ctx, req.Reference, filename)
	if err != nil {
		return nil, err
	}

	itemName := metadata.Title
	if itemName == "" {
		itemName = req.Reference.String()
	}

	sourceFormat := selectSourceFormat(ctx, s.cfg.Quality, itemName, metadata.AvailableFormats)
	tempPath := partFilePath(trackPath)

	err = s.encoder.Encode(ctx, &EncodeRequest{
		InputPath:  s.scratch.Path(),
		OutputPath: tempPath,
		Bitrate:    targetBitrate(req.OutputFormat, sourceFormat),
	})
	if err != nil {
		removeFile(ctx, tempPath)

		if !errors.Is(err, ErrEncodeFailed) {
			err = fmt.Errorf("%w: %w", ErrEncodeFailed, err)
		}

		return nil, err
	}

	if s.cfg.EmbedTags && metadataErr == nil && isTaggableFormat(req.OutputFormat) {
		err = s.tagProcessor.WriteTags(ctx, &WriteTagsRequest{
			TrackPath:    tempPath,
			OutputFormat: req.OutputFormat,
			Metadata:     metadata,
			TrackNumber:  trackNumber(req, metadata),
		})
		if err != nil {
			logger.Warnf(ctx, "Failed to write tags to %s: %v", filename, err)
		}
	}

	if err = os.Rename(tempPath, trackPath); err != nil {
		removeFile(ctx, tempPath)

		return nil, fmt.Errorf("failed to finalize '%s': %w", trackPath, err)
	}

	result := &DownloadResult{Path: trackPath, BytesStreamed: bytesStreamed}
	if info, statErr := os.Stat(trackPath); statErr == nil {
		result.BytesWritten = info.Size()
	}

	return result, nil
}

// trackFilename picks the frozen name, the template or the identifier fallback, in that order.
func (s *ServiceImpl) trackFilename(req *DownloadRequest, metadata *TrackMetadata, metadataErr error) string {
	switch {
	case req.Name != "":
		return s.templateManager.FrozenFilename(req.Name, req.OutputFormat)
	case metadataErr != nil:
		return s.templateManager.FallbackFilename(req.Reference.ID, req.OutputFormat)
	default:
		return s.templateManager.TrackFilename(req.Template, metadata, req.Index, req.OutputFormat)
	}
}

// streamToScratch decodes the item into the scratch buffer. It races the end of the
// stream against an "unavailable" event; the loser is cancelled and both observers
// have exited when it returns.
func (s *ServiceImpl) streamToScratch(ctx context.Context, reference Reference, filename string) (int64, error) {
	file, err := s.scratch.Open()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	defer file.Close() //nolint:errcheck // Error on close is not critical here.

	var (
		counter = new(byteCounter)
		sink    = io.MultiWriter(file, counter)
	)

	if s.isProgressEnabled() {
		bar := progressbar.DefaultBytes(-1, filename)
		defer bar.Finish() //nolint:errcheck // Progress output is best-effort.

		sink = io.MultiWriter(file, counter, bar)
	}

	playback, err := s.sessionClient.Load(ctx, reference.URI(), sink)
	if err != nil {
		if errors.Is(err, session.ErrBackendUnreachable) {
			return 0, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}

		return 0, fmt.Errorf("%w: %s: %w", ErrTrackUnavailable, reference, err)
	}

	defer playback.Stop()

	raceCtx, resolve := context.WithCancel(ctx)
	defer resolve()

	group, groupCtx := errgroup.WithContext(raceCtx)

	group.Go(func() error {
		defer resolve()

		return playback.AwaitEndOfTrack(groupCtx)
	})

	group.Go(func() error {
		return awaitUnavailable(groupCtx, playback)
	})

	err = group.Wait()

	switch {
	case err == nil:
		return counter.total, nil
	case errors.Is(err, ErrTrackUnavailable):
		return 0, err
	case ctx.Err() != nil:
		return 0, ctx.Err()
	default:
		return 0, fmt.Errorf("%w: %s: %w", ErrTrackUnavailable, reference, err)
	}
}

// awaitUnavailable stops the playback on an "unavailable" event. It returns nil
// when ctx is done or the feed closes first.
func awaitUnavailable(ctx context.Context, playback session.Playback) error {
	events := playback.Events()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}

			if event.Type != session.EventUnavailable {
				continue
			}

			playback.Stop()

			if event.Reason != "" {
				return fmt.Errorf("%w: %s: %s", ErrTrackUnavailable, event.URI, event.Reason)
			}

			return fmt.Errorf("%w: %s", ErrTrackUnavailable, event.URI)
		}
	}
}

// isProgressEnabled shows the stream progress only at the info level.
func (s *ServiceImpl) isProgressEnabled() bool {
	return logger.Level() == zap.InfoLevel
}

// partFilePath returns "<name>.part.<ext>" next to the destination, so the encoder can
// still infer the container from the extension.
func partFilePath(trackPath string) string {
	ext := filepath.Ext(trackPath)

	return strings.TrimSuffix(trackPath, ext) + constants.ExtensionPart + ext
}

// isTaggableFormat reports whether tags can be written to the output format.
func isTaggableFormat(outputFormat string) bool {
	return outputFormat == config.OutputFormatMP3 || outputFormat == config.OutputFormatFLAC
}

// trackNumber is the collection position when there is one, else the catalog position.
func trackNumber(req *DownloadRequest, metadata *TrackMetadata) int {
	if req.Index > 0 {
		return req.Index
	}

	return metadata.Position
}

func removeFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf(ctx, "Failed to remove '%s': %v", path, err)
	}
}
