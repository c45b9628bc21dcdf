// Package auth provides browser-based authentication for the catalog API.
//
// It runs the OAuth authorization code flow with PKCE: a stealth go-rod
// browser opens the consent page, the authorization code is read from the
// redirect URL, and the code is exchanged for an access token.
package auth
