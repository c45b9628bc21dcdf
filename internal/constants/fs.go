package constants

import "os"

const (
	// DefaultFilePermissions sets the default permissions for regular files: (rw-r--r--).
	DefaultFilePermissions os.FileMode = 0o644

	// DefaultFolderPermissions sets the default permissions for folders: (rwxr-xr-x).
	DefaultFolderPermissions os.FileMode = 0o755
)

// File extension constants.
const (
	ExtensionOpus = ".opus"
	ExtensionOgg  = ".ogg"
	ExtensionMP3  = ".mp3"
	ExtensionWAV  = ".wav"
	ExtensionFLAC = ".flac"
	ExtensionPCM  = ".pcm"
	ExtensionPart = ".part"
	ExtensionTXT  = ".txt"
	ExtensionYAML = ".yaml"
	ExtensionYML  = ".yml"
	ExtensionJSON = ".json"
)
