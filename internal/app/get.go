package app

import (
	"context"
	"fmt"

	session_client "github.com/oshokin/daytrip/internal/client/session"
	spotify_client "github.com/oshokin/daytrip/internal/client/spotify"
	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/logger"
	spotify_service "github.com/oshokin/daytrip/internal/service/spotify"
)

// ExecuteGetCommand downloads every input: references, ".txt" link lists and snapshot files.
// The summary is always printed; a download that stops early exits with a non-zero code.
func ExecuteGetCommand(ctx context.Context, cfg *config.Config, inputs []string) {
	s, err := newDownloadService(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize download service: %v", err)
	}

	if err = runDownload(ctx, s, inputs); err != nil {
		logger.Fatalf(ctx, "Download failed: %v", err)
	}

	logger.Info(ctx, "All set!")
}

// newDownloadService builds the download service and its dependencies.
func newDownloadService(cfg *config.Config) (spotify_service.Service, error) {
	catalogClient, err := spotify_client.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	sessionClient, err := session_client.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return spotify_service.NewService(
		cfg,
		catalogClient,
		sessionClient,
		spotify_service.NewURLProcessor(),
		spotify_service.NewTemplateManager(cfg),
		spotify_service.NewTagProcessor(cfg, catalogClient),
		spotify_service.NewFFmpegEncoder(cfg),
	), nil
}

// runDownload downloads the inputs, then prints the summary and releases the scratch buffer.
func runDownload(ctx context.Context, s spotify_service.Service, inputs []string) (err error) {
	// Statistics are printed even when the download panics.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)

			err = fmt.Errorf("panic: %v", r)
		}

		s.PrintDownloadSummary(ctx)

		if closeErr := s.Close(); closeErr != nil {
			logger.Warnf(ctx, "Failed to remove scratch buffer: %v", closeErr)
		}
	}()

	return s.Download(ctx, inputs)
}
