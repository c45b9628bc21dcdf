package spotify

import (
	"context"
	"slices"

	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/logger"
)

// Source encodings the session can serve.
const (
	sourceOggVorbis96  = "OGG_VORBIS_96"
	sourceOggVorbis160 = "OGG_VORBIS_160"
	sourceOggVorbis320 = "OGG_VORBIS_320"
	sourceMP3_96       = "MP3_96"
	sourceMP3_160      = "MP3_160"
	sourceMP3_256      = "MP3_256"
	sourceMP3_320      = "MP3_320"
)

// sourcePreferences lists the acceptable source encodings per quality tier, best match first.
//
//nolint:gochecknoglobals // Immutable lookup table used as a constant.
var sourcePreferences = map[string][]string{
	config.QualityLow: {
		sourceOggVorbis96, sourceMP3_96,
		sourceOggVorbis160, sourceMP3_160,
		sourceMP3_256,
		sourceOggVorbis320, sourceMP3_320,
	},
	config.QualityMedium: {
		sourceOggVorbis160, sourceMP3_160,
		sourceOggVorbis96, sourceMP3_96,
		sourceMP3_256,
		sourceOggVorbis320, sourceMP3_320,
	},
	config.QualityHigh: {
		sourceOggVorbis320, sourceMP3_320,
		sourceMP3_256,
		sourceOggVorbis160, sourceMP3_160,
		sourceOggVorbis96, sourceMP3_96,
	},
}

// sourceBitrates maps every known source encoding to its bitrate in kbit/s.
//
//nolint:gochecknoglobals // Immutable lookup table used as a constant.
var sourceBitrates = map[string]int{
	sourceOggVorbis96:  96,
	sourceOggVorbis160: 160,
	sourceOggVorbis320: 320,
	sourceMP3_96:       96,
	sourceMP3_160:      160,
	sourceMP3_256:      256,
	sourceMP3_320:      320,
	"MP3_160_ENC":      160,
	"AAC_24":           24,
	"AAC_48":           48,
	"AAC_160":          160,
	"AAC_320":          320,
	"MP4_128":          128,
	"XHE_AAC_12":       12,
	"XHE_AAC_16":       16,
	"XHE_AAC_24":       24,
	"FLAC_FLAC":        1411,
	"FLAC_FLAC_24BIT":  1411,
}

// selectSourceFormat returns the first preferred encoding of the tier that is available.
// The result is empty when none is.
func selectSourceFormat(ctx context.Context, quality, itemName string, available []string) string {
	preferences, ok := sourcePreferences[quality]
	if !ok {
		preferences = sourcePreferences[config.QualityHigh]
	}

	for _, format := range preferences {
		if slices.Contains(available, format) {
			return format
		}
	}

	logger.Warnf(ctx, "<%s> is not available in any supported format", itemName)

	return ""
}

// sourceBitrate returns the bitrate of a source encoding in kbit/s, 0 when unknown.
func sourceBitrate(format string) int {
	return sourceBitrates[format]
}

// isLosslessFormat reports whether an output format takes no bitrate.
func isLosslessFormat(outputFormat string) bool {
	return outputFormat == config.OutputFormatWAV || outputFormat == config.OutputFormatFLAC
}

// targetBitrate returns the encoder bitrate in kbit/s, 0 to let the encoder decide.
func targetBitrate(outputFormat, sourceFormat string) int {
	if isLosslessFormat(outputFormat) || sourceFormat == "" {
		return 0
	}

	return sourceBitrate(sourceFormat)
}
