package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/constants"
	"github.com/oshokin/daytrip/internal/version"
)

const testBaseConfigContent = `
access_token: "config_token"
output_path: "/config/output"
output_format: "mp3"
quality: "medium"
filename_template: "%A - %t"
number_tracks: false
remove_feature_tags: false
force_download: false
max_tries: 3
log_level: "info"
`

// loadTestConfig writes the content into a temporary file and loads it.
func loadTestConfig(t *testing.T, content string) *config.Config {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "test-config.yaml")

	err := os.WriteFile(
		configPath,
		[]byte(content),
		constants.DefaultFilePermissions,
	) //nolint:gosec // It's a test file.
	require.NoError(t, err)

	cfg, err := config.LoadConfig(configPath)
	require.NoError(t, err)

	return cfg
}

// newTestGetCommand returns a command carrying the same flags as the get command.
func newTestGetCommand() *cobra.Command {
	testCmd := &cobra.Command{Use: "test"}
	registerGetFlags(testCmd.Flags())

	return testCmd
}

// TestFlagOverrides tests that command-line flags correctly override configuration file values.
//
//nolint:funlen,nolintlint,tparallel // It's a comprehensive integration test. Cannot run in parallel due to Viper global state.
func TestFlagOverrides(t *testing.T) {
	tests := []struct {
		name           string
		flags          map[string]string
		expectedConfig func(*testing.T, *config.Config)
	}{
		{
			name:  "no flags - use config values",
			flags: map[string]string{},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/config/output", cfg.OutputPath)
				assert.Equal(t, config.OutputFormatMP3, cfg.OutputFormat)
				assert.Equal(t, config.QualityMedium, cfg.Quality)
				assert.Equal(t, "%A - %t", cfg.FilenameTemplate)
				assert.False(t, cfg.ForceDownload)
				assert.Equal(t, int64(3), cfg.MaxTries)
			},
		},
		{
			name:  "format flag only - override format",
			flags: map[string]string{"format": "FLAC"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, config.OutputFormatFLAC, cfg.OutputFormat)
				assert.Equal(t, "/config/output", cfg.OutputPath)
			},
		},
		{
			name:  "output flag only - override output path",
			flags: map[string]string{"output": "/flag/output"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/flag/output", cfg.OutputPath)
				assert.Equal(t, config.OutputFormatMP3, cfg.OutputFormat)
			},
		},
		{
			name:  "quality flag only - override quality",
			flags: map[string]string{"quality": "low"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, config.QualityLow, cfg.Quality)
			},
		},
		{
			name:  "template and title filter",
			flags: map[string]string{"template": "%t", "title-filter": `\s*\[.*\]`},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "%t", cfg.FilenameTemplate)
				require.NotNil(t, cfg.ParsedTitleFilter)
				assert.Equal(t, "Song", cfg.ParsedTitleFilter.ReplaceAllString("Song [Live]", ""))
			},
		},
		{
			name: "boolean flags",
			flags: map[string]string{
				"number-tracks":       "true",
				"remove-feature-tags": "true",
				"force":               "true",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.True(t, cfg.NumberTracks)
				assert.True(t, cfg.RemoveFeatureTags)
				assert.True(t, cfg.ForceDownload)
			},
		},
		{
			name:  "max tries flag",
			flags: map[string]string{"max-tries": "7"},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, int64(7), cfg.MaxTries)
			},
		},
		{
			name: "all flags - override everything",
			flags: map[string]string{
				"output":    "/all/flags/output",
				"format":    "wav",
				"quality":   "high",
				"template":  "%n %t",
				"force":     "true",
				"max-tries": "1",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/all/flags/output", cfg.OutputPath)
				assert.Equal(t, config.OutputFormatWAV, cfg.OutputFormat)
				assert.Equal(t, config.QualityHigh, cfg.Quality)
				assert.Equal(t, "%n %t", cfg.FilenameTemplate)
				assert.True(t, cfg.ForceDownload)
				assert.Equal(t, int64(1), cfg.MaxTries)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadTestConfig(t, testBaseConfigContent)
			testCmd := newTestGetCommand()

			for flagName, flagValue := range tt.flags {
				require.NoError(t, testCmd.Flags().Set(flagName, flagValue), "failed to set flag %s", flagName)
			}

			err := bindFlagsToConfig(testCmd.Flags(), cfg)
			require.NoError(t, err)

			tt.expectedConfig(t, cfg)
		})
	}
}

// TestFlagOverrides_InferredFormat tests that the format follows the template extension when unset.
//
//nolint:nolintlint,tparallel // Cannot run in parallel due to Viper global state.
func TestFlagOverrides_InferredFormat(t *testing.T) {
	content := `
access_token: "config_token"
log_level: "info"
`

	tests := []struct {
		name           string
		template       string
		expectedFormat string
	}{
		{"plain template - opus", "%a - %t", config.OutputFormatOpus},
		{"flac extension", "%a - %t.flac", config.OutputFormatFLAC},
		{"mp3 extension", "%t.mp3", config.OutputFormatMP3},
		{"upper case extension is not a format", "%t.MP3", config.OutputFormatOpus},
		{"unknown extension", "%t.aac", config.OutputFormatOpus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadTestConfig(t, content)
			testCmd := newTestGetCommand()
			require.NoError(t, testCmd.Flags().Set("template", tt.template))

			require.NoError(t, bindFlagsToConfig(testCmd.Flags(), cfg))
			assert.Equal(t, tt.expectedFormat, cfg.OutputFormat)
		})
	}
}

// TestFlagOverrides_InvalidValues tests that invalid flag values are rejected.
//
//nolint:nolintlint,tparallel // Cannot run in parallel due to Viper global state.
func TestFlagOverrides_InvalidValues(t *testing.T) {
	tests := []struct {
		name        string
		flagName    string
		flagValue   string
		expectedErr error
	}{
		{"unknown format", "format", "aac", config.ErrInvalidOutputFormat},
		{"unknown quality", "quality", "lossless", config.ErrInvalidQuality},
		{"zero max tries", "max-tries", "0", config.ErrInvalidMaxTries},
		{"negative max tries", "max-tries", "-2", config.ErrInvalidMaxTries},
		{"blank template", "template", "  ", config.ErrEmptyFilenameTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadTestConfig(t, testBaseConfigContent)
			testCmd := newTestGetCommand()
			require.NoError(t, testCmd.Flags().Set(tt.flagName, tt.flagValue))

			err := bindFlagsToConfig(testCmd.Flags(), cfg)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

// TestFlagOverrides_MissingToken tests that downloads require an access token.
func TestFlagOverrides_MissingToken(t *testing.T) {
	cfg := loadTestConfig(t, `log_level: "info"`)

	err := bindFlagsToConfig(newTestGetCommand().Flags(), cfg)
	require.ErrorIs(t, err, config.ErrEmptyAccessToken)
}

// TestDumpConfig tests the JSON dump of the effective settings.
func TestDumpConfig(t *testing.T) {
	cfg := loadTestConfig(t, testBaseConfigContent)
	require.NoError(t, bindFlagsToConfig(newTestGetCommand().Flags(), cfg))

	var out bytes.Buffer

	testCmd := &cobra.Command{Use: "test"}
	testCmd.SetOut(&out)

	require.NoError(t, dumpConfig(testCmd, cfg))
	assert.JSONEq(t, `{
		"output_path": "/config/output",
		"output_format": "mp3",
		"quality": "medium",
		"filename_template": "%A - %t",
		"number_tracks": false,
		"title_filter": "",
		"remove_feature_tags": false,
		"force_download": false,
		"max_tries": 3
	}`, out.String())
}

// TestSaveOptionsFromFlags tests the save command flags.
func TestSaveOptionsFromFlags(t *testing.T) {
	cfg := loadTestConfig(t, testBaseConfigContent)

	testCmd := &cobra.Command{Use: "test"}
	registerSaveFlags(testCmd.Flags())
	require.NoError(t, testCmd.Flags().Set("title", "Road Trip"))
	require.NoError(t, testCmd.Flags().Set("with-names", "true"))
	require.NoError(t, testCmd.Flags().Set("output", "trip.json"))

	opts, err := saveOptionsFromFlags(testCmd, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Road Trip", opts.Title)
	assert.True(t, opts.WithNames)
	assert.Equal(t, "trip.json", opts.OutputPath)
}

// TestVersionCommand tests the version output.
func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer

	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, version.Full()+"\n", out.String())
}

// TestGetFlags_TemplateHelp tests that the template help names the placeholders correctly.
func TestGetFlags_TemplateHelp(t *testing.T) {
	testCmd := newTestGetCommand()

	usage := testCmd.Flags().Lookup("template").Usage
	assert.Contains(t, usage, "%a = primary artist")
	assert.Contains(t, usage, "%A = all artists")
}
