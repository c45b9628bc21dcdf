package http

import (
	"net/http"
)

// authorizationHeader is the HTTP header name for credentials.
const authorizationHeader = "Authorization"

// AuthorizationInjector adds a bearer token to requests that carry no credentials.
type AuthorizationInjector struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// token is the bearer token.
	token string
}

// NewAuthorizationInjector creates an AuthorizationInjector.
// An empty token leaves requests untouched.
func NewAuthorizationInjector(next http.RoundTripper, token string) http.RoundTripper {
	return &AuthorizationInjector{
		next:  next,
		token: token,
	}
}

// RoundTrip implements the http.RoundTripper interface.
func (t *AuthorizationInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == "" || req.Header.Get(authorizationHeader) != "" {
		return t.next.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set(authorizationHeader, "Bearer "+t.token)

	return t.next.RoundTrip(clone)
}
