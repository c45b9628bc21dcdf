// Package snapshot reads and writes persisted playlist documents in YAML or JSON.
package snapshot
