package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/daytrip/internal/app"
	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/logger"
)

//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
var saveCmd = &cobra.Command{
	Use:   "save [flags] {reference}",
	Short: "Save an album, playlist or show as an editable playlist file.",
	Long: `Expands a reference into a playlist file.

Reorder, remove or rename entries in the file, then download it with
'daytrip get <file>'. With --with-names every entry keeps the file name
it has now, so later catalog changes don't rename your files.`,
	Args:             cobra.ExactArgs(1),
	PersistentPreRun: initConfig,
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := saveOptionsFromFlags(cmd, appConfig)
		if err != nil {
			logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
		}

		app.ExecuteSaveCommand(cmd.Context(), appConfig, args[0], opts)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	registerSaveFlags(saveCmd.Flags())
	rootCmd.AddCommand(saveCmd)
}

// registerSaveFlags adds the snapshot options to the flag set.
func registerSaveFlags(flags *pflag.FlagSet) {
	flags.String(
		"title",
		"",
		"playlist title, the collection title by default.")

	flags.Bool(
		"with-names",
		false,
		"store the current file name of every entry.")

	flags.StringP(
		"output",
		"o",
		"",
		"playlist file, \"<title>.yaml\" by default (\".json\" writes JSON).")
}

// saveOptionsFromFlags reads the save flags and validates the config the names are rendered with.
func saveOptionsFromFlags(cmd *cobra.Command, cfg *config.Config) (*app.SaveOptions, error) {
	flags := cmd.Flags()

	title, _ := flags.GetString("title")
	withNames, _ := flags.GetBool("with-names")
	outputPath, _ := flags.GetString("output")

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return &app.SaveOptions{
		Title:      title,
		WithNames:  withNames,
		OutputPath: outputPath,
	}, nil
}
