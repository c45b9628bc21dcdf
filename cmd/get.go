package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/daytrip/internal/app"
	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/logger"
)

// dumpConfigEnv makes the get command print the effective configuration as JSON and exit.
const dumpConfigEnv = "DAYTRIP_DUMP_CONFIG"

// configDump is the JSON view of the effective download settings.
type configDump struct {
	// OutputPath is the root folder for downloaded files.
	OutputPath string `json:"output_path"`
	// OutputFormat is the validated output container.
	OutputFormat string `json:"output_format"`
	// Quality is the validated source quality tier.
	Quality string `json:"quality"`
	// FilenameTemplate is the track naming template.
	FilenameTemplate string `json:"filename_template"`
	// NumberTracks reports whether collection members are numbered.
	NumberTracks bool `json:"number_tracks"`
	// TitleFilter is the cleanup regular expression.
	TitleFilter string `json:"title_filter"`
	// RemoveFeatureTags reports whether "(feat. X)" suffixes are stripped.
	RemoveFeatureTags bool `json:"remove_feature_tags"`
	// ForceDownload reports whether existing files are overwritten.
	ForceDownload bool `json:"force_download"`
	// MaxTries is the number of attempts per track.
	MaxTries int64 `json:"max_tries"`
}

//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
var getCmd = &cobra.Command{
	Use:   "get [flags] {references or files}",
	Short: "Download tracks, albums, playlists, episodes or shows.",
	Long: `Downloads every reference in order.

A reference is a URI (spotify:album:<id>), a share link
(https://open.spotify.com/album/<id>) or a bare track identifier.
A ".txt" file is read as a list of references, one per line.
A ".yaml" or ".json" file is read as a saved playlist.

Existing files are skipped unless --force is given, so a stopped
download resumes when the same command is run again.`,
	Args:             cobra.MinimumNArgs(1),
	PersistentPreRun: initConfig,
	Run: func(cmd *cobra.Command, inputs []string) {
		if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
			logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
		}

		if os.Getenv(dumpConfigEnv) == "1" {
			if err := dumpConfig(cmd, appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to dump configuration: %v", err)
			}

			return
		}

		app.ExecuteGetCommand(cmd.Context(), appConfig, inputs)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	registerGetFlags(getCmd.Flags())
	rootCmd.AddCommand(getCmd)
}

// registerGetFlags adds the download setting overrides to the flag set.
func registerGetFlags(flags *pflag.FlagSet) {
	flags.StringP(
		"output",
		"o",
		"",
		"root folder for downloaded files (created if it doesn't exist).")

	flags.StringP(
		"format",
		"f",
		"",
		"output format: "+strings.Join(config.SupportedOutputFormats(), ", ")+".")

	flags.StringP(
		"quality",
		"q",
		"",
		"source quality: "+strings.Join(config.SupportedQualities(), ", ")+".")

	flags.StringP(
		"template",
		"t",
		"",
		"file name template: %a = primary artist, %A = all artists, %t = title, %n = track number.")

	flags.String(
		"title-filter",
		"",
		"regular expression whose matches are removed from file names.")

	flags.BoolP(
		"number-tracks",
		"n",
		false,
		"prefix track numbers to album and playlist members.")

	flags.BoolP(
		"remove-feature-tags",
		"r",
		false,
		"remove \"(feat. X)\" style suffixes from titles.")

	flags.Bool(
		"force",
		false,
		"overwrite files that already exist.")

	flags.Int64(
		"max-tries",
		0,
		"attempts per track before the download stops.")
}

//nolint:cyclop // Flat sequence of independent flag overrides.
func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("format"); flag != nil && flag.Changed {
		cfg.OutputFormat, _ = flags.GetString("format")
	}

	if flag := flags.Lookup("quality"); flag != nil && flag.Changed {
		cfg.Quality, _ = flags.GetString("quality")
	}

	if flag := flags.Lookup("template"); flag != nil && flag.Changed {
		cfg.FilenameTemplate, _ = flags.GetString("template")
	}

	if flag := flags.Lookup("title-filter"); flag != nil && flag.Changed {
		cfg.TitleFilter, _ = flags.GetString("title-filter")
	}

	if flag := flags.Lookup("number-tracks"); flag != nil && flag.Changed {
		cfg.NumberTracks, _ = flags.GetBool("number-tracks")
	}

	if flag := flags.Lookup("remove-feature-tags"); flag != nil && flag.Changed {
		cfg.RemoveFeatureTags, _ = flags.GetBool("remove-feature-tags")
	}

	if flag := flags.Lookup("force"); flag != nil && flag.Changed {
		cfg.ForceDownload, _ = flags.GetBool("force")
	}

	if flag := flags.Lookup("max-tries"); flag != nil && flag.Changed {
		cfg.MaxTries, _ = flags.GetInt64("max-tries")
	}

	return config.ValidateConfig(cfg)
}

// dumpConfig writes the effective download settings to stdout.
func dumpConfig(cmd *cobra.Command, cfg *config.Config) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())

	return encoder.Encode(&configDump{
		OutputPath:        cfg.OutputPath,
		OutputFormat:      cfg.OutputFormat,
		Quality:           cfg.Quality,
		FilenameTemplate:  cfg.FilenameTemplate,
		NumberTracks:      cfg.NumberTracks,
		TitleFilter:       cfg.TitleFilter,
		RemoveFeatureTags: cfg.RemoveFeatureTags,
		ForceDownload:     cfg.ForceDownload,
		MaxTries:          cfg.MaxTries,
	})
}
