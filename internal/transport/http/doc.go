// Package http provides http.RoundTripper decorators used by the API clients:
// User-Agent injection, bearer token injection and debug-level dumps
// of requests and responses.
package http
