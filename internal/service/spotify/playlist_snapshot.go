package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/oshokin/daytrip/internal/logger"
	"github.com/oshokin/daytrip/internal/snapshot"
)

// SnapshotOptions controls BuildSnapshot.
type SnapshotOptions struct {
	// Title overrides the collection title when not empty.
	Title string
	// WithNames freezes the file name of every entry.
	WithNames bool
}

// planSnapshot loads a snapshot file and resolves its entries.
// Collections are rejected here, before anything is streamed.
func (s *ServiceImpl) planSnapshot(ctx context.Context, path string) (*downloadJob, error) {
	playlist, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}

	entries := make([]*Reference, 0, len(playlist.Tracks))

	for i, track := range playlist.Tracks {
		reference, err := s.urlProcessor.ParseReference(ctx, track.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", path, i+1, err)
		}

		if reference.Kind.IsComposite() {
			return nil, fmt.Errorf("%w: %s: entry %d is a %s", ErrUnsupportedKind, path, i+1, reference.Kind)
		}

		entries = append(entries, reference)
	}

	return &downloadJob{playlist: playlist, entries: entries}, nil
}

// downloadSnapshot downloads the entries of a loaded snapshot into a folder named after its title.
// Entries with a name keep it instead of the template.
func (s *ServiceImpl) downloadSnapshot(
	ctx context.Context,
	playlist *snapshot.SavedPlaylist,
	entries []*Reference,
) error {
	logger.Infof(ctx, "Downloading playlist %s (%d items)", playlist.Title, len(entries))

	folder, err := s.createCollectionFolder(playlist.Title, "playlist")
	if err != nil {
		return err
	}

	template := s.collectionTemplate()

	for i, entry := range entries {
		err = s.downloadWithRetry(ctx, &DownloadRequest{
			Reference:    *entry,
			Folder:       folder,
			Template:     template,
			Index:        i + 1,
			Name:         strings.TrimSpace(playlist.Tracks[i].Name),
			OutputFormat: s.cfg.OutputFormat,
			Force:        s.cfg.ForceDownload,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// BuildSnapshot expands a reference into a playlist snapshot. Entries are written as native URIs.
func (s *ServiceImpl) BuildSnapshot(
	ctx context.Context,
	input string,
	opts *SnapshotOptions,
) (*snapshot.SavedPlaylist, error) {
	if opts == nil {
		opts = new(SnapshotOptions)
	}

	reference, err := s.urlProcessor.ParseReference(ctx, input)
	if err != nil {
		return nil, err
	}

	var (
		title   string
		members []*Reference
	)

	if reference.Kind.IsComposite() {
		title, members, err = s.expandCollection(ctx, reference)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMetadataUnavailable, reference, err)
		}
	} else {
		members = []*Reference{reference}
	}

	playlist := &snapshot.SavedPlaylist{
		Title:  title,
		Tracks: make([]snapshot.SavedTrack, 0, len(members)),
	}

	if opts.Title != "" {
		playlist.Title = opts.Title
	}

	template := s.collectionTemplate()

	for i, member := range members {
		entry := snapshot.SavedTrack{ID: member.URI()}

		if opts.WithNames || playlist.Title == "" {
			metadata, metadataErr := s.lookupMetadata(ctx, *member)

			switch {
			case metadataErr != nil:
				logger.Warnf(ctx, "%v, leaving the entry unnamed", metadataErr)
			case opts.WithNames:
				entry.Name = s.templateManager.TrackFilename(template, metadata, i+1, "")
			}

			if playlist.Title == "" {
				playlist.Title = metadata.Title
			}
		}

		playlist.Tracks = append(playlist.Tracks, entry)
	}

	if playlist.Title == "" {
		playlist.Title = reference.ID
	}

	return playlist, nil
}
