package app

import (
	"context"

	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/logger"
	"github.com/oshokin/daytrip/internal/service/auth"
)

// ExecuteAuthLoginCommand executes the auth login command.
// It opens a browser, waits for the user to grant access, and saves
// the access token to the configuration file.
func ExecuteAuthLoginCommand(ctx context.Context, cfg *config.Config) {
	logger.Info(ctx, "Starting authentication process")

	token, err := auth.NewService(cfg).Login(ctx)
	if err != nil {
		logger.Fatalf(ctx, "Authentication failed: %v", err)
	}

	cfg.AccessToken = token

	if err = config.SaveConfig(cfg); err != nil {
		logger.Fatalf(ctx, "Failed to save configuration: %v", err)
	}

	logger.Info(ctx, "Configuration updated successfully!")
	logger.Info(ctx, "Authentication complete! You can now download music.")
	logger.Info(ctx, "")
	logger.Info(ctx, "Try downloading an album:")
	logger.Info(ctx, "daytrip get https://open.spotify.com/album/1DFixLWuPkv3KT3TnV35m3")
	logger.Info(ctx, "")
	logger.Info(ctx, "Or save a playlist to edit it first:")
	logger.Info(ctx, "daytrip save spotify:playlist:37i9dQZF1DXcBWIGoYBM5M -o trip.yaml")
}
