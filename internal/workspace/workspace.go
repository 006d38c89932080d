// Package workspace provides the scratch directory that holds one
// invocation's intermediate clips. Every path an invocation writes goes
// through the workspace, so nothing depends on the process working directory
// and teardown removes everything in one sweep.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/sebastiangraz/videolooper/internal/types"
)

type Workspace struct {
	root   string
	closed bool
}

// New creates a unique scratch directory under baseDir (os.TempDir when
// empty). The directory is exclusively owned by one invocation.
func New(baseDir string) (*Workspace, error) {
	if baseDir != "" {
		if err := os.MkdirAll(baseDir, 0o755); err != nil {
			return nil, &types.ResourceError{Op: "create", Err: err}
		}
	}
	root, err := os.MkdirTemp(baseDir, "videolooper-")
	if err != nil {
		return nil, &types.ResourceError{Op: "create", Err: err}
	}
	return &Workspace{root: root}, nil
}

func (w *Workspace) Root() string { return w.root }

// Path returns the absolute path for a named intermediate file.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.root, name)
}

// Close removes the scratch directory and everything in it. Safe to call
// more than once.
func (w *Workspace) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := os.RemoveAll(w.root); err != nil {
		return &types.ResourceError{Op: "teardown", Err: err}
	}
	return nil
}
