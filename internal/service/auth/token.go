package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxErrorBodyLength caps the response body quoted in exchange errors.
const maxErrorBodyLength = 512

// tokenResponse is the token endpoint reply.
type tokenResponse struct {
	// AccessToken is the bearer token for the catalog API.
	AccessToken string `json:"access_token"`
	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
	// RefreshToken renews the access token.
	RefreshToken string `json:"refresh_token"`
	// Scope lists the granted scopes.
	Scope string `json:"scope"`
}

// exchangeCode trades the authorization code and the PKCE verifier for a token.
func (s *ServiceImpl) exchangeCode(ctx context.Context, code, verifier string) (*tokenResponse, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"client_id":     {s.clientID},
		"code_verifier": {verifier},
	}

	endpoint := strings.TrimSuffix(s.accountsURL, "/") + tokenPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}

	defer resp.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLength)) //nolint:errcheck // Body is informational.

		return nil, fmt.Errorf("%w: status %d: %s", ErrTokenExchange, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token tokenResponse
	if err = json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}

	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrTokenExchange)
	}

	return &token, nil
}
