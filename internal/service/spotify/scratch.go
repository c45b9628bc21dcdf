package spotify

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/oshokin/daytrip/internal/constants"
)

// scratchBuffer is the reusable file holding raw audio between streaming and encoding.
type scratchBuffer struct {
	// path is the scratch file location.
	path string
}

// scratchFilePrefix starts every scratch file name.
const scratchFilePrefix = "daytrip-"

// scratchWriteOptions open the scratch file empty for writing.
const scratchWriteOptions = os.O_CREATE | os.O_TRUNC | os.O_WRONLY

// newScratchBuffer names a scratch file unique to this process in dir, the OS temp dir when empty.
func newScratchBuffer(dir string) *scratchBuffer {
	if dir == "" {
		dir = os.TempDir()
	}

	return &scratchBuffer{
		path: filepath.Join(dir, scratchFilePrefix+uuid.NewString()+constants.ExtensionPCM),
	}
}

// Path returns the scratch file location.
func (b *scratchBuffer) Path() string {
	return b.path
}

// Open creates or empties the scratch file and opens it for writing.
func (b *scratchBuffer) Open() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(b.path), constants.DefaultFolderPermissions); err != nil {
		return nil, fmt.Errorf("failed to create scratch folder: %w", err)
	}

	file, err := os.OpenFile(filepath.Clean(b.path), scratchWriteOptions, constants.DefaultFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to open scratch file: %w", err)
	}

	return file, nil
}

// Truncate empties the scratch file, leaving it in place.
func (b *scratchBuffer) Truncate() error {
	err := os.Truncate(b.path, 0)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to truncate scratch file: %w", err)
	}

	return nil
}

// Remove deletes the scratch file.
func (b *scratchBuffer) Remove() error {
	err := os.Remove(b.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove scratch file: %w", err)
	}

	return nil
}
