package spotify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/daytrip/internal/constants"
	"github.com/oshokin/daytrip/internal/logger"
)

// downloadCollection downloads the members of an album, playlist or show into a folder
// named after it, strictly in catalog order.
func (s *ServiceImpl) downloadCollection(ctx context.Context, reference *Reference) error {
	title, members, err := s.expandCollection(ctx, reference)
	if err != nil {
		if errors.Is(err, ErrUnsupportedKind) {
			return err
		}

		return fmt.Errorf("%w: %s: %w", ErrMetadataUnavailable, reference, err)
	}

	logger.Infof(ctx, "Downloading %s %s (%d items)", reference.Kind, title, len(members))

	folder, err := s.createCollectionFolder(title, reference.ID)
	if err != nil {
		return err
	}

	template := s.collectionTemplate()

	for i, member := range members {
		err = s.downloadWithRetry(ctx, &DownloadRequest{
			Reference:    *member,
			Folder:       folder,
			Template:     template,
			Index:        i + 1,
			OutputFormat: s.cfg.OutputFormat,
			Force:        s.cfg.ForceDownload,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// downloadWithRetry runs the pipeline until it succeeds or the attempt budget is spent.
// Every attempt is followed by itemDelay. Exhausting the budget aborts the whole download.
func (s *ServiceImpl) downloadWithRetry(ctx context.Context, req *DownloadRequest) error {
	for tries := int64(1); ; tries++ {
		result, err := s.downloadTrack(ctx, req)
		if err == nil {
			s.recordResult(result)
		} else if ctx.Err() == nil {
			s.incrementFailedAttempt()
		}

		if pauseErr := s.pause(ctx, itemDelay); pauseErr != nil {
			return pauseErr
		}

		if err == nil {
			return nil
		}

		if tries >= s.cfg.MaxTries {
			logger.Errorf(ctx, "Reached max retries, aborting: %s: %v", req.Reference, err)
			s.recordAbort(req.Reference, err)

			return fmt.Errorf("%w: %s: %w", ErrBatchAborted, req.Reference, err)
		}

		logger.Warnf(ctx, "Failed to download %s, retrying (%d/%d): %v", req.Reference, tries, s.cfg.MaxTries, err)
	}
}

// collectionTemplate prefixes "%n " to the file name template when numbering is on and it has no index.
func (s *ServiceImpl) collectionTemplate() string {
	template := s.cfg.FilenameTemplate
	if s.cfg.NumberTracks && !strings.Contains(template, placeholderIndex) {
		template = placeholderIndex + " " + template
	}

	return template
}

// createCollectionFolder creates the output sub-folder named after a collection.
// The identifier names it when the title is empty.
func (s *ServiceImpl) createCollectionFolder(title, id string) (string, error) {
	folderName := s.templateManager.CollectionFolderName(title)
	if folderName == "" {
		folderName = s.templateManager.CollectionFolderName(id)
	}

	folder := filepath.Join(s.cfg.OutputPath, folderName)

	if err := os.MkdirAll(folder, constants.DefaultFolderPermissions); err != nil {
		return "", fmt.Errorf("failed to create folder '%s': %w", folder, err)
	}

	return folder, nil
}
