package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

const (
	// verifierLength is the number of random bytes behind the code verifier.
	verifierLength = 64
	// stateLength is the number of random bytes behind the state parameter.
	stateLength = 16
)

// pkceChallenge is a code verifier and its S256 challenge.
type pkceChallenge struct {
	// verifier is sent with the token exchange.
	verifier string
	// challenge is sent with the authorization request.
	challenge string
}

func newPKCEChallenge() (*pkceChallenge, error) {
	verifier, err := randomURLSafeString(verifierLength)
	if err != nil {
		return nil, err
	}

	return &pkceChallenge{
		verifier:  verifier,
		challenge: s256(verifier),
	}, nil
}

// s256 is the PKCE S256 transform.
func s256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))

	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// randomURLSafeString returns n random bytes in unpadded base64url.
func randomURLSafeString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// authorizeURL builds the consent page URL.
func (s *ServiceImpl) authorizeURL(challenge, state string) string {
	query := url.Values{
		"client_id":             {s.clientID},
		"response_type":         {"code"},
		"redirect_uri":          {redirectURI},
		"code_challenge_method": {"S256"},
		"code_challenge":        {challenge},
		"state":                 {state},
		"scope":                 {strings.Join(oauthScopes, " ")},
	}

	return strings.TrimSuffix(s.accountsURL, "/") + authorizePath + "?" + query.Encode()
}

// isRedirect reports whether the browser reached the redirect URI.
func isRedirect(rawURL string) bool {
	return strings.HasPrefix(rawURL, redirectURI)
}

// parseRedirect extracts the authorization code from the redirect URL.
func parseRedirect(rawURL, state string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URL: %w", err)
	}

	query := parsed.Query()

	if reason := query.Get("error"); reason != "" {
		return "", fmt.Errorf("%w: %s", ErrAuthorizationDenied, reason)
	}

	if query.Get("state") != state {
		return "", ErrStateMismatch
	}

	code := query.Get("code")
	if code == "" {
		return "", fmt.Errorf("%w: redirect has no code", ErrAuthorizationDenied)
	}

	return code, nil
}
