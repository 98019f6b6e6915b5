package pathutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	homeShortcutConstant               = "~"
	homeShortcutSlashPrefixConstant    = "~/"
	homeDirectoryErrorTemplateConstant = "unable to expand %s: %w"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// LocalPathResolver turns user supplied local locations into file system paths.
type LocalPathResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
}

// NewLocalPathResolver constructs a resolver. A nil provider uses os.UserHomeDir.
func NewLocalPathResolver(provider HomeDirectoryProvider) *LocalPathResolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &LocalPathResolver{homeDirectoryProvider: provider}
}

// Resolve expands a leading home shortcut and cleans the path.
// "~user" forms are not expanded.
func (resolver *LocalPathResolver) Resolve(localPath string) (string, error) {
	if !hasHomeShortcut(localPath) {
		return filepath.Clean(localPath), nil
	}

	homeDirectory, homeDirectoryError := resolver.homeDirectoryProvider()
	if homeDirectoryError != nil {
		return "", fmt.Errorf(homeDirectoryErrorTemplateConstant, localPath, homeDirectoryError)
	}
	return filepath.Join(homeDirectory, strings.TrimPrefix(localPath, homeShortcutConstant)), nil
}

func hasHomeShortcut(localPath string) bool {
	if localPath == homeShortcutConstant || strings.HasPrefix(localPath, homeShortcutSlashPrefixConstant) {
		return true
	}
	return strings.HasPrefix(localPath, homeShortcutConstant+string(os.PathSeparator))
}
