package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/daytrip/internal/app"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Authentication management commands",
		Long: `Manage authentication for the catalog API.

Use 'auth login' to log in via browser and save your access token.`,
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authLoginCmd = &cobra.Command{
		Use:   "login",
		Short: "Log in and save the access token",
		Long: `Opens a browser window on the account login page.

The login process:
1. Browser opens at the authorization page
2. Log in with your account
3. Click "Agree" to grant access
4. Wait for the browser to reach the local redirect page

After the redirect the authorization code is exchanged for an access
token, which is saved to the configuration file.

You can then download music:
daytrip get https://open.spotify.com/album/1DFixLWuPkv3KT3TnV35m3`,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthLoginCommand(cmd.Context(), appConfig)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	authCmd.AddCommand(authLoginCmd)
	rootCmd.AddCommand(authCmd)
}
