package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/oshokin/daytrip/internal/logger"
)

// initBrowser launches a visible browser with a throwaway profile and opens a stealth page.
func (s *ServiceImpl) initBrowser(ctx context.Context) error {
	logger.Debug(ctx, "Initializing browser")

	tempDir, err := os.MkdirTemp("", "daytrip-auth-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary user data directory: %w", err)
	}

	logger.Debugf(ctx, "Using temporary profile directory: %s", tempDir)

	s.tempDir = tempDir

	// The user needs to see the browser to log in.
	browserLauncher := launcher.New().
		Headless(false).
		UserDataDir(tempDir)

	if chromePath, exists := launcher.LookPath(); exists {
		logger.Debugf(ctx, "Using system Chrome installation at: %s", chromePath)

		browserLauncher = browserLauncher.Bin(chromePath)
	} else {
		logger.Info(ctx, "System Chrome not found, downloading Chromium")
	}

	launcherURL, err := browserLauncher.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	logger.Debugf(ctx, "Browser launched at: %s", launcherURL)

	browserInstance := rod.New().ControlURL(launcherURL).Context(ctx)

	if logger.IsDebugLevel() {
		logger.Debug(ctx, "Debug mode enabled - enabling browser trace and slow motion")

		browserInstance = browserInstance.
			Trace(true).
			SlowMotion(browserSlowMotionDelay)
	}

	if err = browserInstance.Connect(); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}

	s.browser = browserInstance

	s.page, err = stealth.Page(s.browser)
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}

	logger.Debug(ctx, "Browser initialized successfully with stealth mode")

	return nil
}

// currentURL returns the URL of the consent page. An error means the browser is gone.
func (s *ServiceImpl) currentURL(ctx context.Context) (currentURL string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debugf(ctx, "currentURL panic recovered: %v", r)

			err = ErrBrowserClosed
		}
	}()

	info, err := s.page.Info()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBrowserClosed, err)
	}

	return info.URL, nil
}

// cleanup closes the browser and cleans up resources.
func (s *ServiceImpl) cleanup(ctx context.Context) {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			logger.Debugf(ctx, "Browser close error (expected): %v", err)
		}
	}

	if s.tempDir != "" {
		// Give Chrome a moment to release file locks.
		time.Sleep(browserCleanupDelay)

		if err := os.RemoveAll(s.tempDir); err != nil {
			logger.Debugf(ctx, "Could not clean up temp directory %s: %v", s.tempDir, err)
		}
	}
}
