// Package spotify resolves catalog references and downloads their items:
// it streams decoded audio from the session, encodes it with ffmpeg and names
// the files from a template.
package spotify
