package spotify

//go:generate $MOCKGEN -source=tag_processor.go -destination=mocks/tag_processor_mock.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/oshokin/id3v2/v2"

	"github.com/oshokin/daytrip/internal/client/spotify"
	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/logger"
)

// TagProcessor defines the interface for writing metadata tags to audio files.
type TagProcessor interface {
	WriteTags(ctx context.Context, req *WriteTagsRequest) error
}

// WriteTagsRequest contains parameters for writing metadata to audio files.
type WriteTagsRequest struct {
	// TrackPath is the file path of the audio track.
	TrackPath string
	// OutputFormat is the container of the file: mp3 or flac.
	OutputFormat string
	// Metadata is the item metadata to write.
	Metadata *TrackMetadata
	// TrackNumber is the position to write, 0 to omit it.
	TrackNumber int
}

// TagProcessorImpl writes ID3v2 tags to mp3 files and Vorbis comments to flac files.
type TagProcessorImpl struct {
	// catalogClient downloads cover art.
	catalogClient spotify.Client
	// maxCoverSize is the largest cover that is embedded, 0 for no limit.
	maxCoverSize int64
}

// imageMetadata contains image data and its MIME type.
type imageMetadata struct {
	// data contains the raw image bytes.
	data []byte
	// mimeType specifies the image format (e.g., "image/jpeg").
	mimeType string
}

// extractFLACCommentResult contains the result of extracting FLAC comment metadata.
type extractFLACCommentResult struct {
	// Comment is the FLAC Vorbis comment metadata block.
	Comment *flacvorbis.MetaDataBlockVorbisComment
	// Index is the index of the comment block in the FLAC file metadata (-1 if not found).
	Index int
}

// Static error definitions for better error handling.
var (
	// ErrEmptyTrackPath indicates that the track file path is empty.
	ErrEmptyTrackPath = errors.New("track path cannot be empty")
	// ErrUnsupportedTagFormat indicates an output format without tag support.
	ErrUnsupportedTagFormat = errors.New("tags are not supported for this format")
	// ErrCoverTooLarge indicates a cover image above the configured size limit.
	ErrCoverTooLarge = errors.New("cover image is too large")
)

// NewTagProcessor creates a new TagProcessor instance.
func NewTagProcessor(cfg *config.Config, catalogClient spotify.Client) TagProcessor {
	return &TagProcessorImpl{
		catalogClient: catalogClient,
		maxCoverSize:  cfg.ParsedMaxCoverSize,
	}
}

// WriteTags writes metadata to audio files based on the provided request.
// A cover that cannot be fetched is skipped with a warning.
func (tp *TagProcessorImpl) WriteTags(ctx context.Context, req *WriteTagsRequest) error {
	if req.TrackPath == "" {
		return ErrEmptyTrackPath
	}

	if req.Metadata == nil {
		req.Metadata = new(TrackMetadata)
	}

	var image *imageMetadata

	if req.Metadata.CoverURL != "" {
		var err error

		image, err = tp.fetchCover(ctx, req.Metadata.CoverURL)
		if err != nil {
			logger.Warnf(ctx, "Failed to fetch cover art: %v", err)
		}
	}

	switch req.OutputFormat {
	case config.OutputFormatFLAC:
		return tp.writeFLACTags(ctx, req, image)
	case config.OutputFormatMP3:
		return tp.writeMP3Tags(req, image)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedTagFormat, req.OutputFormat)
	}
}

func (tp *TagProcessorImpl) fetchCover(ctx context.Context, url string) (*imageMetadata, error) {
	reader, err := tp.catalogClient.DownloadFromURL(ctx, url)
	if err != nil {
		return nil, err
	}

	defer reader.Close() //nolint:errcheck // Error on close is not critical here.

	var source io.Reader = reader
	if tp.maxCoverSize > 0 {
		// One byte more than allowed tells an oversized image from one exactly at the limit.
		source = io.LimitReader(reader, tp.maxCoverSize+1)
	}

	data, err := io.ReadAll(source)
	if err != nil {
		return nil, err
	}

	if tp.maxCoverSize > 0 && int64(len(data)) > tp.maxCoverSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrCoverTooLarge, tp.maxCoverSize)
	}

	return &imageMetadata{
		data:     data,
		mimeType: http.DetectContentType(data),
	}, nil
}

// textTags maps tag names shared by both formats to their values.
func textTags(req *WriteTagsRequest) map[string]string {
	metadata := req.Metadata

	tags := map[string]string{
		"TITLE":       metadata.Title,
		"ARTIST":      strings.Join(metadata.Artists, artistsSeparator),
		"ALBUM":       metadata.ParentTitle,
		"ALBUMARTIST": strings.Join(metadata.AlbumArtists, artistsSeparator),
		"DATE":        metadata.ReleaseDate,
	}

	if req.TrackNumber > 0 {
		tags["TRACKNUMBER"] = strconv.Itoa(req.TrackNumber)
	}

	return tags
}

func (tp *TagProcessorImpl) writeFLACTags(ctx context.Context, req *WriteTagsRequest, image *imageMetadata) error {
	// Parse the FLAC file.
	f, err := flac.ParseFile(filepath.Clean(req.TrackPath))
	if err != nil {
		return err
	}

	commentResult, err := tp.extractFLACComment(f)
	if err != nil {
		return err
	}

	tag := commentResult.Comment

	// If no existing comments are found, create a new metadata block.
	if tag == nil {
		tag = flacvorbis.New()
	}

	for key, value := range textTags(req) {
		if value == "" {
			continue
		}

		if err = tag.Add(key, value); err != nil {
			return err
		}
	}

	tagMeta := tag.Marshal()
	if commentResult.Index >= 0 {
		f.Meta[commentResult.Index] = &tagMeta
	} else {
		f.Meta = append(f.Meta, &tagMeta)
	}

	tp.embedFLACCover(ctx, f, image)

	return f.Save(req.TrackPath)
}

func (tp *TagProcessorImpl) extractFLACComment(f *flac.File) (*extractFLACCommentResult, error) {
	// Iterate through the metadata blocks to find the Vorbis comment block.
	for idx, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}

		comment, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil, err
		}

		return &extractFLACCommentResult{
			Comment: comment,
			Index:   idx,
		}, nil
	}

	return &extractFLACCommentResult{
		Comment: nil,
		Index:   -1,
	}, nil
}

func (tp *TagProcessorImpl) embedFLACCover(ctx context.Context, f *flac.File, image *imageMetadata) {
	if image == nil {
		return
	}

	picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "", image.data, image.mimeType)
	if err != nil {
		logger.Warnf(ctx, "Failed to embed image to FLAC: %v", err)

		return
	}

	pictureMeta := picture.Marshal()
	f.Meta = append(f.Meta, &pictureMeta)
}

func (tp *TagProcessorImpl) writeMP3Tags(req *WriteTagsRequest, image *imageMetadata) error {
	//nolint:exhaustruct // ParseFrames intentionally omitted when Parse=false (parsing disabled).
	tag, err := id3v2.Open(req.TrackPath, id3v2.Options{Parse: false})
	if err != nil {
		return err
	}

	defer tag.Close()

	tags := textTags(req)

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(tags["TITLE"])
	tag.SetArtist(tags["ARTIST"])
	tag.SetAlbum(tags["ALBUM"])

	if year, _, _ := strings.Cut(tags["DATE"], "-"); year != "" {
		tag.SetYear(year)
	}

	if albumArtist := tags["ALBUMARTIST"]; albumArtist != "" {
		tag.AddTextFrame(tag.CommonID("Band/Orchestra/Accompaniment"), tag.DefaultEncoding(), albumArtist)
	}

	if number := tags["TRACKNUMBER"]; number != "" {
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"), tag.DefaultEncoding(), number)
	}

	if image != nil {
		//nolint:exhaustruct // Description field intentionally empty for cover images.
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    image.mimeType,
			PictureType: id3v2.PTFrontCover,
			Picture:     image.data,
		})
	}

	return tag.Save()
}
