// Package app wires the configuration, the catalog and session clients and the
// services together for each command: downloading items, saving playlist
// snapshots and logging in.
package app
