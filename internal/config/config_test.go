package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/daytrip/internal/constants"
)

// validConfig returns a config that passes validation.
func validConfig() *Config {
	return &Config{
		AccessToken:      "token",
		OutputFormat:     OutputFormatOpus,
		Quality:          QualityHigh,
		FilenameTemplate: DefaultFilenameTemplate,
		MaxTries:         DefaultMaxTries,
		MaxCoverSize:     "10MB",
		RequestTimeout:   "60s",
		LogLevel:         "info",
	}
}

// TestLoadConfig tests the LoadConfig function.
//
//nolint:paralleltest // Viper keeps global state.
func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		writeFile     bool
		expectedError string
		check         func(t *testing.T, cfg *Config)
	}{
		{
			name:      "values from file override defaults",
			writeFile: true,
			content: `
access_token: "file_token"
output_format: "mp3"
quality: "low"
filename_template: "%n - %t"
max_tries: 5
log_level: "debug"
`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "file_token", cfg.AccessToken)
				assert.Equal(t, "mp3", cfg.OutputFormat)
				assert.Equal(t, "low", cfg.Quality)
				assert.Equal(t, "%n - %t", cfg.FilenameTemplate)
				assert.Equal(t, int64(5), cfg.MaxTries)
				assert.Equal(t, zapcore.DebugLevel, cfg.ParsedLogLevel)
				assert.Equal(t, DefaultSessionURL, cfg.SessionURL)
				assert.True(t, cfg.EmbedTags)
			},
		},
		{
			name:          "explicit missing file",
			writeFile:     false,
			expectedError: "failed to read config from file",
		},
		{
			name:          "invalid yaml",
			writeFile:     true,
			content:       "invalid: yaml: content: [unclosed",
			expectedError: "failed to read config from file",
		},
		{
			name:          "unknown log level",
			writeFile:     true,
			content:       `log_level: "loud"`,
			expectedError: "unknown log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()

			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if tt.writeFile {
				require.NoError(t, os.WriteFile(configPath, []byte(tt.content), constants.DefaultFilePermissions))
			}

			cfg, err := LoadConfig(configPath)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, cfg)

				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

// TestLoadConfig_MissingDefaultFile tests that a missing default file falls back to defaults.
//
//nolint:paralleltest // Changes the working directory and viper state.
func TestLoadConfig_MissingDefaultFile(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultFilenameTemplate, cfg.FilenameTemplate)
	assert.Equal(t, QualityHigh, cfg.Quality)
	assert.Equal(t, int64(DefaultMaxTries), cfg.MaxTries)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Empty(t, cfg.AccessToken)
}

// TestValidateConfig tests the ValidateConfig function.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		expectedErr error
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid config",
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, int64(10*1000*1000), cfg.ParsedMaxCoverSize)
				assert.Equal(t, 60*time.Second, cfg.ParsedRequestTimeout)
				assert.Nil(t, cfg.ParsedTitleFilter)
			},
		},
		{
			name:        "empty access token",
			mutate:      func(cfg *Config) { cfg.AccessToken = "  " },
			expectedErr: ErrEmptyAccessToken,
		},
		{
			name:        "unsupported format",
			mutate:      func(cfg *Config) { cfg.OutputFormat = "aac" },
			expectedErr: ErrInvalidOutputFormat,
		},
		{
			name:   "format is normalized",
			mutate: func(cfg *Config) { cfg.OutputFormat = " MP3 " },
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, OutputFormatMP3, cfg.OutputFormat)
			},
		},
		{
			name: "format inferred from template extension",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = ""
				cfg.FilenameTemplate = "%a - %t.flac"
			},
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, OutputFormatFLAC, cfg.OutputFormat)
			},
		},
		{
			name:   "format defaults to opus",
			mutate: func(cfg *Config) { cfg.OutputFormat = "" },
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, OutputFormatOpus, cfg.OutputFormat)
			},
		},
		{
			name:        "unsupported quality",
			mutate:      func(cfg *Config) { cfg.Quality = "lossless" },
			expectedErr: ErrInvalidQuality,
		},
		{
			name:        "empty template",
			mutate:      func(cfg *Config) { cfg.FilenameTemplate = "" },
			expectedErr: ErrEmptyFilenameTemplate,
		},
		{
			name:        "zero tries",
			mutate:      func(cfg *Config) { cfg.MaxTries = 0 },
			expectedErr: ErrInvalidMaxTries,
		},
		{
			name:        "negative timeout",
			mutate:      func(cfg *Config) { cfg.RequestTimeout = "-1s" },
			expectedErr: ErrInvalidRequestTimeout,
		},
		{
			name:        "unknown log level",
			mutate:      func(cfg *Config) { cfg.LogLevel = "chatty" },
			expectedErr: ErrUnknownLogLevel,
		},
		{
			name:   "valid title filter is compiled",
			mutate: func(cfg *Config) { cfg.TitleFilter = ` - Remaster(ed)? \d{4}` },
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				require.NotNil(t, cfg.ParsedTitleFilter)
				assert.Equal(t, "Song", cfg.ParsedTitleFilter.ReplaceAllString("Song - Remastered 2011", ""))
			},
		},
		{
			name:   "invalid title filter is ignored",
			mutate: func(cfg *Config) { cfg.TitleFilter = "([" },
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Nil(t, cfg.ParsedTitleFilter)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			err := ValidateConfig(cfg)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)

				return
			}

			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// TestSaveConfig tests that the access token is written without disturbing other keys.
//
//nolint:paralleltest // Viper keeps global state.
func TestSaveConfig(t *testing.T) {
	t.Run("updates existing key", func(t *testing.T) {
		viper.Reset()

		configPath := filepath.Join(t.TempDir(), "config.yaml")
		content := "# downloads\noutput_path: /music\naccess_token: old\nquality: low\n"
		require.NoError(t, os.WriteFile(configPath, []byte(content), constants.DefaultFilePermissions))

		_, err := LoadConfig(configPath)
		require.NoError(t, err)

		require.NoError(t, SaveConfig(&Config{AccessToken: "new-token"}))

		saved, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Contains(t, string(saved), `access_token: "new-token"`)
		assert.Contains(t, string(saved), "# downloads")
		assert.Less(t, strings.Index(string(saved), "output_path"), strings.Index(string(saved), "quality"))
	})

	t.Run("appends missing key", func(t *testing.T) {
		viper.Reset()

		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("quality: low\n"), constants.DefaultFilePermissions))

		_, err := LoadConfig(configPath)
		require.NoError(t, err)

		require.NoError(t, SaveConfig(&Config{AccessToken: "fresh"}))

		saved, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Contains(t, string(saved), "quality: low")
		assert.Contains(t, string(saved), `access_token: "fresh"`)
	})
}
