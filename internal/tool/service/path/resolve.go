package path

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver maps paths reported by search tools onto the codebase root.
type Resolver struct {
	root string
}

// NewResolver creates a resolver for an already canonical root.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Root returns the canonical root.
func (r *Resolver) Root() string {
	return r.root
}

// CanonicaliseRoot makes root absolute and resolves symlinks.
// Returns an error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &RootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &RootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &RootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &RootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Abs resolves path against the root and rejects anything that escapes it.
func (r *Resolver) Abs(path string) (string, error) {
	if r.root == "" {
		return "", ErrRootNotSet
	}

	abs := filepath.Clean(path)
	if !filepath.IsAbs(path) {
		abs = filepath.Clean(filepath.Join(r.root, path))
	}

	if abs != r.root && !strings.HasPrefix(abs, r.root+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return abs, nil
}

// Rel returns path relative to the root in slash form. The root itself is "".
func (r *Resolver) Rel(path string) (string, error) {
	abs, err := r.Abs(path)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", ErrOutsideRoot
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}
