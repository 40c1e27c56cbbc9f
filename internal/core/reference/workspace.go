package reference

import (
	"os"
	"sync"
)

// Workspace is a private temp directory for one resolution. Everything
// written under Dir is removed by Close.
type Workspace struct {
	Dir  string
	once sync.Once
	err  error
}

// NewWorkspace creates a directory under base (os.TempDir when empty).
func NewWorkspace(base string) (*Workspace, error) {
	if base != "" {
		if err := os.MkdirAll(base, 0755); err != nil {
			return nil, err
		}
	}
	dir, err := os.MkdirTemp(base, "copywriter-ref-*")
	if err != nil {
		return nil, err
	}
	return &Workspace{Dir: dir}, nil
}

// Close removes the workspace. It is safe to call more than once.
func (w *Workspace) Close() error {
	w.once.Do(func() {
		w.err = os.RemoveAll(w.Dir)
	})
	return w.err
}
