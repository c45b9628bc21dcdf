// Package utils provides small helpers shared across the application:
// path legalization, file checks, context-aware pauses and
// the User-Agent provider used by the HTTP transport.
package utils
