package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/daytrip/internal/constants"
)

// SavedPlaylist is an ordered list of items persisted under a title.
type SavedPlaylist struct {
	// Title names the playlist and its download folder.
	Title string `json:"title" yaml:"title"`
	// Tracks are the entries in download order.
	Tracks []SavedTrack `json:"tracks" yaml:"tracks"`
}

// SavedTrack is a playlist entry: a bare identifier, or an identifier with a frozen file name.
type SavedTrack struct {
	// ID is an item reference in any form the resolver accepts.
	ID string
	// Name overrides template-based naming when not empty.
	Name string
}

// savedTrackObject is the mapping form of SavedTrack.
type savedTrackObject struct {
	// ID is an item reference.
	ID string `json:"id" yaml:"id"`
	// Name is the optional frozen file name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Format is the encoding of a snapshot document.
type Format uint8

const (
	// FormatYAML encodes documents as YAML.
	FormatYAML Format = iota
	// FormatJSON encodes documents as JSON.
	FormatJSON
)

// yamlIndent is the indentation of written YAML documents.
const yamlIndent = 2

// ErrInvalidSnapshot indicates a document that does not follow the snapshot schema.
var ErrInvalidSnapshot = errors.New("invalid playlist snapshot")

// String returns the name of the format.
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}

	return "yaml"
}

// FormatFromPath picks the format by file extension: ".json" is JSON, everything else is YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), constants.ExtensionJSON) {
		return FormatJSON
	}

	return FormatYAML
}

// IsSnapshotPath reports whether the path has a snapshot document extension.
func IsSnapshotPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case constants.ExtensionYAML, constants.ExtensionYML, constants.ExtensionJSON:
		return true
	default:
		return false
	}
}

// Marshal encodes the playlist in the given format.
func Marshal(playlist *SavedPlaylist, format Format) ([]byte, error) {
	if err := playlist.Validate(); err != nil {
		return nil, err
	}

	// An empty list is written as a list, never as null.
	if playlist.Tracks == nil {
		playlist = &SavedPlaylist{Title: playlist.Title, Tracks: []SavedTrack{}}
	}

	if format == FormatJSON {
		data, err := json.MarshalIndent(playlist, "", "  ")
		if err != nil {
			return nil, err
		}

		return append(data, '\n'), nil
	}

	var buffer bytes.Buffer

	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)

	if err := encoder.Encode(playlist); err != nil {
		return nil, err
	}

	if err := encoder.Close(); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// Unmarshal decodes a playlist in the given format and validates it.
func Unmarshal(data []byte, format Format) (*SavedPlaylist, error) {
	var (
		playlist SavedPlaylist
		err      error
	)

	if format == FormatJSON {
		err = json.Unmarshal(data, &playlist)
	} else {
		err = yaml.Unmarshal(data, &playlist)
	}

	if err != nil {
		if errors.Is(err, ErrInvalidSnapshot) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	if playlist.Tracks == nil {
		playlist.Tracks = []SavedTrack{}
	}

	if err = playlist.Validate(); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// Load reads a snapshot file, choosing the format by its extension.
func Load(path string) (*SavedPlaylist, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist file: %w", err)
	}

	playlist, err := Unmarshal(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return playlist, nil
}

// Save writes a snapshot file, choosing the format by its extension.
func Save(path string, playlist *SavedPlaylist) error {
	data, err := Marshal(playlist, FormatFromPath(path))
	if err != nil {
		return err
	}

	if err = os.WriteFile(path, data, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write playlist file: %w", err)
	}

	return nil
}

// Validate checks the title and every entry.
func (p *SavedPlaylist) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidSnapshot)
	}

	for i, track := range p.Tracks {
		if strings.TrimSpace(track.ID) == "" {
			return fmt.Errorf("%w: entry %d has no id", ErrInvalidSnapshot, i+1)
		}
	}

	return nil
}

// MarshalYAML writes entries without a name as bare strings.
func (t SavedTrack) MarshalYAML() (any, error) {
	if t.Name == "" {
		return t.ID, nil
	}

	return savedTrackObject{ID: t.ID, Name: t.Name}, nil
}

// UnmarshalYAML accepts a string scalar or an {id, name} mapping.
func (t *SavedTrack) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() != "!!str" {
			return fmt.Errorf("%w: line %d: entry must be a string, got %s",
				ErrInvalidSnapshot, node.Line, node.ShortTag())
		}

		*t = SavedTrack{ID: node.Value}
	case yaml.MappingNode:
		var object savedTrackObject
		if err := node.Decode(&object); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrInvalidSnapshot, node.Line, err)
		}

		*t = SavedTrack(object)
	case yaml.DocumentNode, yaml.SequenceNode, yaml.AliasNode:
		return fmt.Errorf("%w: line %d: unexpected entry", ErrInvalidSnapshot, node.Line)
	}

	if t.ID == "" {
		return fmt.Errorf("%w: line %d: entry has no id", ErrInvalidSnapshot, node.Line)
	}

	return nil
}

// MarshalJSON writes entries without a name as bare strings.
func (t SavedTrack) MarshalJSON() ([]byte, error) {
	if t.Name == "" {
		return json.Marshal(t.ID)
	}

	return json.Marshal(savedTrackObject(t))
}

// UnmarshalJSON accepts a string or an {id, name} object.
func (t *SavedTrack) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("%w: empty entry", ErrInvalidSnapshot)
	}

	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}

		*t = SavedTrack{ID: id}
	case '{':
		var object savedTrackObject
		if err := json.Unmarshal(data, &object); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}

		*t = SavedTrack(object)
	default:
		return fmt.Errorf("%w: entry must be a string or an object, got %s", ErrInvalidSnapshot, data)
	}

	if t.ID == "" {
		return fmt.Errorf("%w: entry has no id", ErrInvalidSnapshot)
	}

	return nil
}
