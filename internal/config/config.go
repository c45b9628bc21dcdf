package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/daytrip/internal/constants"
	"github.com/oshokin/daytrip/internal/logger"
	"github.com/oshokin/daytrip/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// AccessToken is the bearer token for the catalog API.
	AccessToken string `mapstructure:"access_token"`
	// ClientID is the OAuth client identifier used by the browser login.
	ClientID string `mapstructure:"client_id"`
	// CatalogURL is the base URL of the catalog metadata API.
	CatalogURL string `mapstructure:"catalog_url"`
	// SessionURL is the base URL of the streaming session bridge.
	SessionURL string `mapstructure:"session_url"`
	// OutputPath is the root folder for downloaded files.
	OutputPath string `mapstructure:"output_path"`
	// OutputFormat is the target container: opus, ogg, mp3, wav or flac.
	// Empty means "infer from the filename template, else opus".
	OutputFormat string `mapstructure:"output_format"`
	// Quality is the preferred source quality tier: low, medium or high.
	Quality string `mapstructure:"quality"`
	// FilenameTemplate is the track naming template (%a, %A, %t, %n).
	FilenameTemplate string `mapstructure:"filename_template"`
	// NumberTracks prefixes "%n " to the template for collection members.
	NumberTracks bool `mapstructure:"number_tracks"`
	// TitleFilter is a regular expression whose matches are removed from file names.
	TitleFilter string `mapstructure:"title_filter"`
	// RemoveFeatureTags strips "(feat. X)" style suffixes from titles.
	RemoveFeatureTags bool `mapstructure:"remove_feature_tags"`
	// ForceDownload overwrites existing files instead of skipping them.
	ForceDownload bool `mapstructure:"force_download"`
	// MaxTries is the number of attempts per track before a batch is aborted.
	MaxTries int64 `mapstructure:"max_tries"`
	// FFmpegPath is the encoder binary.
	FFmpegPath string `mapstructure:"ffmpeg_path"`
	// ScratchDir is the folder holding the raw audio scratch buffer.
	ScratchDir string `mapstructure:"scratch_dir"`
	// EmbedTags writes metadata tags and cover art into mp3 and flac files.
	EmbedTags bool `mapstructure:"embed_tags"`
	// MaxCoverSize caps the size of embedded cover art (e.g., "10MB").
	MaxCoverSize string `mapstructure:"max_cover_size"`
	// RequestTimeout is the HTTP client timeout (e.g., "60s").
	RequestTimeout string `mapstructure:"request_timeout"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// ParsedTitleFilter is the compiled TitleFilter, nil when unset or invalid.
	ParsedTitleFilter *regexp.Regexp
	// ParsedMaxCoverSize is MaxCoverSize in bytes.
	ParsedMaxCoverSize int64
	// ParsedRequestTimeout is the parsed RequestTimeout.
	ParsedRequestTimeout time.Duration
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".daytrip.yaml"

	// DefaultClientID is the public desktop client identifier used for the OAuth login.
	DefaultClientID = "65b708073fc0480ea92a077233ca87bd"

	// DefaultCatalogURL is the catalog API base URL.
	DefaultCatalogURL = "https://api.spotify.com/v1"

	// DefaultSessionURL is the streaming session bridge base URL.
	DefaultSessionURL = "http://127.0.0.1:3678"

	// DefaultFilenameTemplate is the default track naming template.
	DefaultFilenameTemplate = "%A - %t"

	// DefaultMaxTries is the default number of attempts per track.
	DefaultMaxTries = 3

	// DefaultMaxLogLength is the default maximum size (in bytes) of a logged HTTP dump.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB
)

// Output formats.
const (
	OutputFormatOpus = "opus"
	OutputFormatOgg  = "ogg"
	OutputFormatMP3  = "mp3"
	OutputFormatWAV  = "wav"
	OutputFormatFLAC = "flac"
)

// Quality tiers.
const (
	QualityLow    = "low"
	QualityMedium = "medium"
	QualityHigh   = "high"
)

// Static error definitions for better error handling.
var (
	// ErrEmptyAccessToken indicates that the access token is missing.
	ErrEmptyAccessToken = errors.New("access token cannot be empty, run 'daytrip auth login' first")
	// ErrInvalidOutputFormat indicates that the output format is not supported.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidQuality indicates that the quality tier is not supported.
	ErrInvalidQuality = errors.New("invalid quality")
	// ErrEmptyFilenameTemplate indicates that the filename template is empty.
	ErrEmptyFilenameTemplate = errors.New("filename template cannot be empty")
	// ErrInvalidMaxTries indicates that the retry budget is not positive.
	ErrInvalidMaxTries = errors.New("max_tries must be a positive integer")
	// ErrInvalidRequestTimeout indicates that the request timeout is not positive.
	ErrInvalidRequestTimeout = errors.New("request_timeout must be positive")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
)

// SupportedOutputFormats returns every accepted output format.
func SupportedOutputFormats() []string {
	return []string{OutputFormatOpus, OutputFormatOgg, OutputFormatMP3, OutputFormatWAV, OutputFormatFLAC}
}

// SupportedQualities returns every accepted quality tier.
func SupportedQualities() []string {
	return []string{QualityLow, QualityMedium, QualityHigh}
}

// LoadConfig loads configuration settings from a YAML file.
// A missing default file is not an error: built-in defaults are used instead.
func LoadConfig(configFilename string) (*Config, error) {
	isDefaultFile := configFilename == ""
	if isDefaultFile {
		configFilename = DefaultConfigFilename
	}

	setDefaults()
	viper.SetConfigFile(configFilename)

	if err := viper.ReadInConfig(); err != nil {
		if !isDefaultFile || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("client_id", DefaultClientID)
	viper.SetDefault("catalog_url", DefaultCatalogURL)
	viper.SetDefault("session_url", DefaultSessionURL)
	viper.SetDefault("output_path", ".")
	viper.SetDefault("quality", QualityHigh)
	viper.SetDefault("filename_template", DefaultFilenameTemplate)
	viper.SetDefault("max_tries", DefaultMaxTries)
	viper.SetDefault("ffmpeg_path", "ffmpeg")
	viper.SetDefault("embed_tags", true)
	viper.SetDefault("max_cover_size", "10MB")
	viper.SetDefault("request_timeout", "60s")
	viper.SetDefault("log_level", "info")
}

// ValidateConfig checks the download settings and fills the derived fields.
//
//nolint:cyclop // Validation is a flat sequence of independent checks.
func ValidateConfig(cfg *Config) error {
	var err error

	if strings.TrimSpace(cfg.AccessToken) == "" {
		return ErrEmptyAccessToken
	}

	if strings.TrimSpace(cfg.FilenameTemplate) == "" {
		return ErrEmptyFilenameTemplate
	}

	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = inferOutputFormat(cfg.FilenameTemplate)
	}

	if !slices.Contains(SupportedOutputFormats(), cfg.OutputFormat) {
		return fmt.Errorf("%w: '%s', must be one of %s",
			ErrInvalidOutputFormat, cfg.OutputFormat, strings.Join(SupportedOutputFormats(), ", "))
	}

	cfg.Quality = strings.ToLower(strings.TrimSpace(cfg.Quality))
	if !slices.Contains(SupportedQualities(), cfg.Quality) {
		return fmt.Errorf("%w: '%s', must be one of %s",
			ErrInvalidQuality, cfg.Quality, strings.Join(SupportedQualities(), ", "))
	}

	if cfg.MaxTries <= 0 {
		return ErrInvalidMaxTries
	}

	cfg.ParsedTitleFilter = nil

	if cfg.TitleFilter != "" {
		cfg.ParsedTitleFilter, err = regexp.Compile(cfg.TitleFilter)
		if err != nil {
			// An unusable filter is ignored rather than stopping the download.
			logger.Warnf(context.Background(), "Invalid title filter %q, ignoring it: %v", cfg.TitleFilter, err)

			cfg.ParsedTitleFilter = nil
		}
	}

	if maxCoverSize := strings.TrimSpace(cfg.MaxCoverSize); maxCoverSize != "" && maxCoverSize != "0" {
		parsedMaxCoverSize, parseErr := humanize.ParseBytes(maxCoverSize)
		if parseErr != nil {
			return fmt.Errorf("failed to parse max cover size: %w", parseErr)
		}

		cfg.ParsedMaxCoverSize = utils.SafeUint64ToInt64(parsedMaxCoverSize)
	}

	cfg.ParsedRequestTimeout, err = time.ParseDuration(cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse request timeout: %w", err)
	}

	if cfg.ParsedRequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	return nil
}

// inferOutputFormat picks the format from a template that already ends with a known extension.
// The extension must match exactly, as the file name keeps it unchanged.
func inferOutputFormat(template string) string {
	ext := strings.TrimPrefix(filepath.Ext(template), ".")
	if slices.Contains(SupportedOutputFormats(), ext) {
		return ext
	}

	return OutputFormatOpus
}

// SaveConfig writes the access token into the config file, preserving the order and style of other keys.
func SaveConfig(cfg *Config) error {
	configFile := getConfigFilePath()

	originalContent, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return handleMissingConfigFile(configFile, cfg.AccessToken, err)
	}

	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	setAccessTokenInNode(&node, cfg.AccessToken)

	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile, accessToken string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	viper.Set("access_token", accessToken)

	if err = viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// setAccessTokenInNode updates access_token in the YAML tree, appending the key when absent.
func setAccessTokenInNode(node *yaml.Node, accessToken string) {
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return
	}

	mapNode := node.Content[0]

	// Keys and values alternate.
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		if mapNode.Content[i].Value != "access_token" {
			continue
		}

		valueNode := mapNode.Content[i+1]
		valueNode.Value = accessToken
		valueNode.Tag = "!!str"

		if valueNode.Style == 0 {
			valueNode.Style = yaml.DoubleQuotedStyle
		}

		return
	}

	mapNode.Content = append(mapNode.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "access_token"},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: accessToken, Style: yaml.DoubleQuotedStyle},
	)
}
