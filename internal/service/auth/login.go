package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/oshokin/daytrip/internal/logger"
	"github.com/oshokin/daytrip/internal/utils"
)

// allowedLoginHosts are the hosts the consent flow may visit, matched as suffixes.
//
//nolint:gochecknoglobals // Immutable list used as a constant.
var allowedLoginHosts = []string{
	"spotify.com",
	"scdn.co",
	"google.com",
	"facebook.com",
	"apple.com",
	"127.0.0.1",
}

// authorizeInBrowser opens the consent page and waits until the browser is redirected.
func (s *ServiceImpl) authorizeInBrowser(ctx context.Context, authorizeURL string) (string, error) {
	if err := s.initBrowser(ctx); err != nil {
		return "", fmt.Errorf("failed to initialize browser: %w", err)
	}

	defer s.cleanup(ctx)

	if err := s.page.Navigate(authorizeURL); err != nil {
		return "", fmt.Errorf("failed to open the consent page: %w", err)
	}

	logger.Info(ctx, "")
	logger.Info(ctx, "╔══════════════════════════════════════════════════════════════════╗")
	logger.Info(ctx, "║                      LOGIN INSTRUCTIONS                          ║")
	logger.Info(ctx, "╚══════════════════════════════════════════════════════════════════╝")
	logger.Info(ctx, "")
	logger.Info(ctx, "1. Log in to your account in the browser window")
	logger.Info(ctx, "2. Press 'Agree' on the consent page")
	logger.Info(ctx, "3. DO NOT CLOSE THE BROWSER - it closes itself when done")
	logger.Info(ctx, "")
	logger.Info(ctx, "Waiting for login to complete...")

	return s.waitForRedirect(ctx)
}

// waitForRedirect polls the page URL until it reaches the redirect URI.
func (s *ServiceImpl) waitForRedirect(ctx context.Context) (string, error) {
	var (
		deadline = time.Now().Add(maxLoginWaitTime)
		lastURL  string
	)

	for {
		if time.Now().After(deadline) {
			return "", fmt.Errorf("%w: waited for %v", ErrLoginTimeout, maxLoginWaitTime)
		}

		currentURL, err := s.currentURL(ctx)
		if err != nil {
			return "", err
		}

		if currentURL != lastURL {
			logger.Debugf(ctx, "URL changed: %s", currentURL)

			lastURL = currentURL
		}

		if isRedirect(currentURL) {
			logger.Info(ctx, "Login completed successfully!")

			return currentURL, nil
		}

		if err = validateLoginURL(currentURL); err != nil {
			return "", err
		}

		s.simulateHumanBehavior(ctx)

		if err = utils.Pause(ctx, loginPollInterval); err != nil {
			return "", err
		}
	}
}

// validateLoginURL checks that the page stayed on the login providers.
func validateLoginURL(currentURL string) error {
	if currentURL == "" || strings.HasPrefix(currentURL, "about:") {
		return nil
	}

	parsed, err := url.Parse(currentURL)
	if err != nil {
		return fmt.Errorf("%w to: %s", ErrNavigatedAway, currentURL)
	}

	host := parsed.Hostname()

	for _, allowed := range allowedLoginHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return nil
		}
	}

	return fmt.Errorf("%w to: %s", ErrNavigatedAway, currentURL)
}
