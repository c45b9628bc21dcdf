package spotify

import (
	"context"
	"fmt"

	"github.com/oshokin/daytrip/internal/client/spotify"
	"github.com/oshokin/daytrip/internal/logger"
)

// fetchMetadata collects what the pipeline needs about an item. The result is never nil:
// when the catalog lookup fails, the error wraps ErrMetadataUnavailable and only the
// available formats are filled.
func (s *ServiceImpl) fetchMetadata(ctx context.Context, reference Reference) (*TrackMetadata, error) {
	metadata, err := s.lookupMetadata(ctx, reference)

	formats, filesErr := s.sessionClient.GetAudioFiles(ctx, reference.URI())
	if filesErr != nil {
		logger.Warnf(ctx, "Failed to list audio files of %s: %v", reference, filesErr)
	} else {
		metadata.AvailableFormats = formats
	}

	return metadata, err
}

// lookupMetadata reads the catalog part of the metadata. The result is never nil.
func (s *ServiceImpl) lookupMetadata(ctx context.Context, reference Reference) (*TrackMetadata, error) {
	var (
		metadata = new(TrackMetadata)
		err      error
	)

	if reference.Kind == KindEpisode {
		err = s.fillEpisodeMetadata(ctx, reference.ID, metadata)
	} else {
		err = s.fillTrackMetadata(ctx, reference.ID, metadata)
	}

	if err != nil {
		return metadata, fmt.Errorf("%w: %s: %w", ErrMetadataUnavailable, reference, err)
	}

	return metadata, nil
}

func (s *ServiceImpl) fillTrackMetadata(ctx context.Context, trackID string, metadata *TrackMetadata) error {
	track, err := s.catalogClient.GetTrack(ctx, trackID)
	if err != nil {
		return err
	}

	metadata.Title = track.Name
	metadata.Artists = spotify.ArtistNames(track.Artists)
	metadata.Position = track.TrackNumber

	if album := track.Album; album != nil {
		metadata.ParentTitle = album.Name
		metadata.AlbumArtists = spotify.ArtistNames(album.Artists)
		metadata.ReleaseDate = album.ReleaseDate
		metadata.CoverURL = spotify.LargestImageURL(album.Images)
	}

	return nil
}

// fillEpisodeMetadata credits the show as the artist of an episode.
func (s *ServiceImpl) fillEpisodeMetadata(ctx context.Context, episodeID string, metadata *TrackMetadata) error {
	episode, err := s.catalogClient.GetEpisode(ctx, episodeID)
	if err != nil {
		return err
	}

	metadata.Title = episode.Name
	metadata.ReleaseDate = episode.ReleaseDate
	metadata.CoverURL = spotify.LargestImageURL(episode.Images)

	if show := episode.Show; show != nil {
		metadata.Artists = []string{show.Name}
		metadata.AlbumArtists = []string{show.Publisher}
		metadata.ParentTitle = show.Name

		if metadata.CoverURL == "" {
			metadata.CoverURL = spotify.LargestImageURL(show.Images)
		}
	}

	return nil
}

// expandCollection returns the title and the members of an album, playlist or show in catalog order.
func (s *ServiceImpl) expandCollection(ctx context.Context, reference *Reference) (string, []*Reference, error) {
	switch reference.Kind {
	case KindAlbum:
		album, err := s.catalogClient.GetAlbum(ctx, reference.ID)
		if err != nil {
			return "", nil, err
		}

		return album.Name, memberReferences(album.Tracks.Items, KindTrack), nil
	case KindPlaylist:
		playlist, err := s.catalogClient.GetPlaylist(ctx, reference.ID)
		if err != nil {
			return "", nil, err
		}

		items := make([]*spotify.ItemRef, 0, len(playlist.Tracks.Items))
		for _, item := range playlist.Tracks.Items {
			if item != nil {
				items = append(items, item.Track)
			}
		}

		return playlist.Name, memberReferences(items, KindTrack), nil
	case KindShow:
		show, err := s.catalogClient.GetShow(ctx, reference.ID)
		if err != nil {
			return "", nil, err
		}

		return show.Name, memberReferences(show.Episodes.Items, KindEpisode), nil
	case KindTrack, KindEpisode:
		return "", nil, fmt.Errorf("%w: %s is not a collection", ErrUnsupportedKind, reference)
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, reference)
	}
}

// memberReferences converts collection members, dropping entries without an identifier.
func memberReferences(items []*spotify.ItemRef, defaultKind Kind) []*Reference {
	references := make([]*Reference, 0, len(items))

	for _, item := range items {
		if item == nil || item.ID == "" {
			continue
		}

		kind, ok := ParseKind(item.Type)
		if !ok || kind.IsComposite() {
			kind = defaultKind
		}

		references = append(references, &Reference{Kind: kind, ID: item.ID})
	}

	return references
}
