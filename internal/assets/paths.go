package assets

import (
	"path/filepath"
	"strings"
)

// Resolver maps logical storage paths onto the physical library tree.
type Resolver struct {
	// Root is the library directory on disk.
	Root string
	// Prefix identifies library-relative logical paths, e.g. "upload/".
	Prefix string
}

// Resolve maps a stored logical path to a physical path. The second return
// value is false when the stored path does not carry the library prefix;
// such assets (legacy or externally linked) are outside Reclaim's scope.
// Resolve never touches the filesystem.
func (r Resolver) Resolve(stored string) (string, bool) {
	if !strings.HasPrefix(stored, r.Prefix) {
		return "", false
	}
	return filepath.Join(r.Root, strings.TrimPrefix(stored, r.Prefix)), true
}
