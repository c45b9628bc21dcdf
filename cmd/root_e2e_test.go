package cmd_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// testBinaryName is the name of the test binary for E2E tests.
	testBinaryName = "daytrip-test"

	// testReference is a track reference that is never fetched by the config dump.
	testReference = "spotify:track:4iV5W9uYEdYUVa79Axb7Rh"

	// testBaseConfig is the configuration shared by the E2E tests.
	testBaseConfig = `
access_token: "test_token_123"
output_path: "/config/output"
output_format: "opus"
quality: "high"
filename_template: "%A - %t"
max_tries: 3
log_level: "info"
`
)

// TestMain builds the binary before running E2E tests.
func TestMain(m *testing.M) {
	// Build the binary for testing.
	//nolint:noctx // TestMain doesn't have access to context, and build is needed before tests run.
	buildCmd := exec.Command("go", "build", "-o", testBinaryName, "../.")
	if err := buildCmd.Run(); err != nil {
		os.Exit(1)
	}

	// Run tests.
	code := m.Run()

	// Cleanup.
	_ = os.Remove(testBinaryName)

	os.Exit(code)
}

// TestE2E_FlagOverrides tests that get flags override the config file.
//
//nolint:funlen // It's a comprehensive E2E test.
func TestE2E_FlagOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flags    []string
		expected ConfigDump
	}{
		{
			name:  "no flags - use config",
			flags: []string{},
			expected: ConfigDump{
				OutputPath:       "/config/output",
				OutputFormat:     "opus",
				Quality:          "high",
				FilenameTemplate: "%A - %t",
				MaxTries:         3,
			},
		},
		{
			name:  "format and quality",
			flags: []string{"--format", "mp3", "-q", "low"},
			expected: ConfigDump{
				OutputPath:       "/config/output",
				OutputFormat:     "mp3",
				Quality:          "low",
				FilenameTemplate: "%A - %t",
				MaxTries:         3,
			},
		},
		{
			name: "all flags",
			flags: []string{
				"-o", "/all/flags",
				"-f", "flac",
				"-t", "%a - %t",
				"--title-filter", `\s*\(Remaster.*\)`,
				"-n", "-r", "--force",
				"--max-tries", "5",
			},
			expected: ConfigDump{
				OutputPath:        "/all/flags",
				OutputFormat:      "flac",
				Quality:           "high",
				FilenameTemplate:  "%a - %t",
				NumberTracks:      true,
				TitleFilter:       `\s*\(Remaster.*\)`,
				RemoveFeatureTags: true,
				ForceDownload:     true,
				MaxTries:          5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath := writeTestConfig(t, testBaseConfig)

			config := runWithConfigDump(t, configPath, tt.flags)
			require.NotNil(t, config, "Failed to get config dump")

			assert.Equal(t, tt.expected, *config)
		})
	}
}

// TestE2E_FlagOverrides_InvalidValues tests that invalid flag values are rejected.
func TestE2E_FlagOverrides_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		flags            []string
		expectedErrorMsg string
	}{
		{
			name:             "invalid format",
			flags:            []string{"--format", "aac"},
			expectedErrorMsg: "invalid output format",
		},
		{
			name:             "invalid quality",
			flags:            []string{"--quality", "ultra"},
			expectedErrorMsg: "invalid quality",
		},
		{
			name:             "invalid max tries",
			flags:            []string{"--max-tries", "0"},
			expectedErrorMsg: "max_tries must be a positive integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath := writeTestConfig(t, testBaseConfig)

			args := []string{"get", "--config", configPath, testReference}
			args = append(args, tt.flags...)

			//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
			cmd := exec.Command("./"+testBinaryName, args...)
			output, err := cmd.CombinedOutput()

			require.Error(t, err)

			outputStr := string(output)
			assert.Contains(t, strings.ToLower(outputStr), strings.ToLower(tt.expectedErrorMsg),
				"Expected error message about '%s' but got: %s", tt.expectedErrorMsg, outputStr)
		})
	}
}

// TestE2E_Version tests the version command.
func TestE2E_Version(t *testing.T) {
	t.Parallel()

	//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
	output, err := exec.Command("./"+testBinaryName, "version").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "version: ")
}

// ConfigDump represents the config dump structure.
type ConfigDump struct {
	// OutputPath is the root folder for downloaded files.
	OutputPath string `json:"output_path"`
	// OutputFormat is the output container.
	OutputFormat string `json:"output_format"`
	// Quality is the source quality tier.
	Quality string `json:"quality"`
	// FilenameTemplate is the track naming template.
	FilenameTemplate string `json:"filename_template"`
	// NumberTracks reports whether collection members are numbered.
	NumberTracks bool `json:"number_tracks"`
	// TitleFilter is the cleanup regular expression.
	TitleFilter string `json:"title_filter"`
	// RemoveFeatureTags reports whether feature suffixes are stripped.
	RemoveFeatureTags bool `json:"remove_feature_tags"`
	// ForceDownload reports whether existing files are overwritten.
	ForceDownload bool `json:"force_download"`
	// MaxTries is the number of attempts per track.
	MaxTries int64 `json:"max_tries"`
}

// writeTestConfig writes the content into a temporary config file.
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "test-config.yaml")
	err := os.WriteFile(configPath, []byte(content), 0o644) //nolint:gosec // It's a test file.
	require.NoError(t, err)

	return configPath
}

// runWithConfigDump runs the get command with config dump enabled and parses the output.
func runWithConfigDump(t *testing.T, configPath string, flags []string) *ConfigDump {
	t.Helper()

	args := []string{"get", "--config", configPath, testReference}
	args = append(args, flags...)

	//nolint:gosec,noctx // Test binary name is a constant, not user input. No context available in test.
	cmd := exec.Command("./"+testBinaryName, args...)

	cmd.Env = append(os.Environ(), "DAYTRIP_DUMP_CONFIG=1")

	output, err := cmd.Output()
	if err != nil {
		t.Logf("Command failed: %v, output: %s", err, string(output))
		return nil
	}

	var config ConfigDump
	if err := json.Unmarshal(output, &config); err != nil {
		t.Logf("Failed to parse config: %v, output: %s", err, string(output))
		return nil
	}

	return &config
}
