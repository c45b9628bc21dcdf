package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-rod/rod"

	"github.com/oshokin/daytrip/internal/config"
	"github.com/oshokin/daytrip/internal/logger"
	http_transport "github.com/oshokin/daytrip/internal/transport/http"
	"github.com/oshokin/daytrip/internal/utils"
)

const (
	// browserSlowMotionDelay is the delay between browser actions for visibility during debugging.
	browserSlowMotionDelay = 200 * time.Millisecond

	// defaultAccountsURL is the OAuth server.
	defaultAccountsURL = "https://accounts.spotify.com"

	// authorizePath is the consent page.
	authorizePath = "/authorize"

	// tokenPath is the code exchange endpoint.
	tokenPath = "/api/token"

	// redirectURI receives the authorization code. Nothing listens there:
	// the browser is watched and closed as soon as it is redirected.
	redirectURI = "http://127.0.0.1:5907/login"

	// loginPollInterval is the interval for polling the login status.
	loginPollInterval = 1 * time.Second

	// maxLoginWaitTime is the maximum time to wait for user to complete login.
	maxLoginWaitTime = 10 * time.Minute

	// browserCleanupDelay is the delay to wait for Chrome to release file locks before cleanup.
	browserCleanupDelay = 500 * time.Millisecond
)

// oauthScopes are the scopes the desktop client asks for.
//
//nolint:gochecknoglobals // Immutable list used as a constant.
var oauthScopes = []string{
	"playlist-read",
	"playlist-read-collaborative",
	"playlist-read-private",
	"streaming",
	"user-library-read",
	"user-read-email",
	"user-read-playback-state",
	"user-read-private",
}

var (
	// ErrLoginTimeout is returned when login takes too long.
	ErrLoginTimeout = errors.New("login timeout exceeded")

	// ErrBrowserClosed is returned when the browser is closed by the user.
	ErrBrowserClosed = errors.New("browser was closed by user")

	// ErrNavigatedAway is returned when the user navigates away from the login flow.
	ErrNavigatedAway = errors.New("user navigated away from login flow")

	// ErrAuthorizationDenied is returned when the redirect carries an error instead of a code.
	ErrAuthorizationDenied = errors.New("authorization denied")

	// ErrStateMismatch is returned when the redirect state differs from the one sent.
	ErrStateMismatch = errors.New("authorization state mismatch")

	// ErrTokenExchange is returned when the code cannot be exchanged for a token.
	ErrTokenExchange = errors.New("failed to exchange authorization code")
)

// Service provides browser-based authentication.
type Service interface {
	// Login opens a browser, waits for the user to grant access and returns an access token.
	Login(ctx context.Context) (string, error)
}

// ServiceImpl runs the PKCE flow in a go-rod browser.
type ServiceImpl struct {
	// clientID is the OAuth client identifier.
	clientID string
	// accountsURL is the OAuth server base URL.
	accountsURL string
	// httpClient performs the token exchange.
	httpClient *http.Client
	// authorize opens the consent page and returns the URL the browser was redirected to.
	authorize func(ctx context.Context, authorizeURL string) (string, error)
	// browser is the running browser, nil before the login starts.
	browser *rod.Browser
	// page is the consent page tab.
	page *rod.Page
	// tempDir stores the temporary profile directory for cleanup.
	tempDir string
}

// NewService creates a new browser authentication service.
func NewService(cfg *config.Config) *ServiceImpl {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = config.DefaultClientID
	}

	timeout := cfg.ParsedRequestTimeout
	if timeout <= 0 {
		timeout = http_transport.DefaultTimeout
	}

	s := &ServiceImpl{
		clientID:    clientID,
		accountsURL: defaultAccountsURL,
		httpClient: &http.Client{
			Transport: http_transport.NewUserAgentInjector(
				http_transport.NewLogTransport(http.DefaultTransport, 0),
				utils.NewSimpleUserAgentProvider(http_transport.DefaultUserAgent)),
			Timeout: timeout,
		},
	}

	s.authorize = s.authorizeInBrowser

	return s
}

// Login runs the authorization code flow and returns the access token.
func (s *ServiceImpl) Login(ctx context.Context) (string, error) {
	logger.Info(ctx, "Starting browser-based authentication")

	challenge, err := newPKCEChallenge()
	if err != nil {
		return "", err
	}

	state, err := randomURLSafeString(stateLength)
	if err != nil {
		return "", err
	}

	authorizeURL := s.authorizeURL(challenge.challenge, state)
	logger.Debugf(ctx, "Authorization URL: %s", authorizeURL)

	redirectedTo, err := s.authorize(ctx, authorizeURL)
	if err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}

	code, err := parseRedirect(redirectedTo, state)
	if err != nil {
		return "", err
	}

	token, err := s.exchangeCode(ctx, code, challenge.verifier)
	if err != nil {
		return "", err
	}

	logger.Infof(ctx, "Access token received, valid for %s", time.Duration(token.ExpiresIn)*time.Second)

	return token.AccessToken, nil
}
