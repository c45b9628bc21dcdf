package app

import (
	"context"
	"fmt"

	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/constants"
	"github.com/oshokin/daytrip/internal/logger"
	spotify_service "github.com/oshokin/daytrip/internal/service/spotify"
	"github.com/oshokin/daytrip/internal/snapshot"
	"github.com/oshokin/daytrip/internal/utils"
)

// SaveOptions controls the save command.
type SaveOptions struct {
	// Title overrides the collection title.
	Title string
	// WithNames freezes the file name of every entry.
	WithNames bool
	// OutputPath is the snapshot file, "<title>.yaml" when empty.
	OutputPath string
}

// ExecuteSaveCommand expands a reference into a playlist snapshot file.
func ExecuteSaveCommand(ctx context.Context, cfg *config.Config, input string, opts *SaveOptions) {
	s, err := newDownloadService(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize download service: %v", err)
	}

	defer s.Close() //nolint:errcheck // Nothing was streamed, the scratch buffer does not exist.

	path, err := runSave(ctx, s, input, opts)
	if err != nil {
		logger.Fatalf(ctx, "Failed to save playlist: %v", err)
	}

	logger.Infof(ctx, "Playlist saved to %s", path)
}

// runSave builds the snapshot and writes it, returning the file path.
func runSave(ctx context.Context, s spotify_service.Service, input string, opts *SaveOptions) (string, error) {
	if opts == nil {
		opts = new(SaveOptions)
	}

	playlist, err := s.BuildSnapshot(ctx, input, &spotify_service.SnapshotOptions{
		Title:     opts.Title,
		WithNames: opts.WithNames,
	})
	if err != nil {
		return "", err
	}

	path := opts.OutputPath
	if path == "" {
		path = utils.SetFileExtension(utils.LegalizeName(playlist.Title), constants.ExtensionYAML, false)
	}

	if err = snapshot.Save(path, playlist); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Infof(ctx, "%s: %d entries", playlist.Title, len(playlist.Tracks))

	return path, nil
}
