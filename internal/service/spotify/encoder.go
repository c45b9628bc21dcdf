package spotify

//go:generate $MOCKGEN -source=encoder.go -destination=mocks/encoder_mock.go

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/logger"
)

// Encoder converts raw PCM into an audio file.
type Encoder interface {
	// Encode reads stereo s16le PCM from InputPath and writes OutputPath.
	// It blocks until the encoder exits.
	Encode(ctx context.Context, req *EncodeRequest) error
}

// EncodeRequest contains parameters for one encoder run.
type EncodeRequest struct {
	// InputPath is the raw PCM file.
	InputPath string
	// OutputPath is the file to write; its extension selects the container.
	OutputPath string
	// Bitrate is the target bitrate in kbit/s, 0 to omit it.
	Bitrate int
}

// FFmpegEncoder runs ffmpeg as a subprocess.
type FFmpegEncoder struct {
	// binaryPath is the ffmpeg executable.
	binaryPath string
}

// defaultFFmpegBinary is used when no path is configured.
const defaultFFmpegBinary = "ffmpeg"

// NewFFmpegEncoder creates an encoder that runs the configured ffmpeg binary.
func NewFFmpegEncoder(cfg *config.Config) Encoder {
	binaryPath := strings.TrimSpace(cfg.FFmpegPath)
	if binaryPath == "" {
		binaryPath = defaultFFmpegBinary
	}

	return &FFmpegEncoder{binaryPath: binaryPath}
}

// Encode runs ffmpeg and waits for it to exit.
func (e *FFmpegEncoder) Encode(ctx context.Context, req *EncodeRequest) error {
	args := ffmpegArgs(req)

	logger.Debugf(ctx, "Running %s %s", e.binaryPath, strings.Join(args, " "))

	var stderr bytes.Buffer

	//nolint:gosec // The binary comes from the user's own configuration.
	cmd := exec.CommandContext(ctx, e.binaryPath, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		details := strings.TrimSpace(stderr.String())
		if details == "" {
			return fmt.Errorf("%w: %w", ErrEncodeFailed, err)
		}

		return fmt.Errorf("%w: %w: %s", ErrEncodeFailed, err, details)
	}

	return nil
}

// ffmpegArgs builds the argument list: stereo s16le input, optional bitrate in bit/s, then the output.
func ffmpegArgs(req *EncodeRequest) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "s16le",
		"-ac", "2",
		"-i", req.InputPath,
	}

	if req.Bitrate > 0 {
		args = append(args, "-b:a", strconv.Itoa(req.Bitrate*1000))
	}

	return append(args, req.OutputPath)
}
