package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/wisemcp/internal/tool/helper/content"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// GitignoreReadError is returned when .gitignore cannot be read.
type GitignoreReadError struct {
	Path  string
	Cause error
}

func (e *GitignoreReadError) Error() string {
	return fmt.Sprintf("failed to read .gitignore at %s: %v", e.Path, e.Cause)
}
func (e *GitignoreReadError) Unwrap() error { return e.Cause }
func (e *GitignoreReadError) IOError() bool { return true }

// fileSystem defines the minimal filesystem interface needed to load .gitignore.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFileRange(path string, offset, limit int64) ([]byte, error)
}

// IgnoreMatcher implements gitignore pattern matching using go-git's gitignore matcher.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

// NewIgnoreMatcher loads .gitignore from the codebase root.
// Returns a matcher that never ignores if .gitignore doesn't exist (no error).
// The .git directory is always ignored.
func NewIgnoreMatcher(root string, fs fileSystem) (*IgnoreMatcher, error) {
	if root == "" {
		panic("root is required")
	}
	if fs == nil {
		panic("fs is required")
	}
	gitignorePath := filepath.Join(root, ".gitignore")

	patterns := []gitignore.Pattern{gitignore.ParsePattern(".git/", nil)}

	if _, err := fs.Stat(gitignorePath); err != nil {
		return &IgnoreMatcher{matcher: gitignore.NewMatcher(patterns)}, nil
	}

	data, err := fs.ReadFileRange(gitignorePath, 0, 0)
	if err != nil {
		return nil, &GitignoreReadError{Path: gitignorePath, Cause: err}
	}

	for _, line := range content.SplitLines(string(data)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}

	return &IgnoreMatcher{matcher: gitignore.NewMatcher(patterns)}, nil
}

// ShouldIgnore checks if a path relative to the root matches any gitignore pattern.
func (m *IgnoreMatcher) ShouldIgnore(relativePath string) bool {
	segments := splitPath(relativePath)
	if len(segments) == 0 {
		return false
	}
	// a file is ignored when it or any parent directory matches
	for i := 1; i < len(segments); i++ {
		if m.matcher.Match(segments[:i], true) {
			return true
		}
	}
	return m.matcher.Match(segments, false)
}

// splitPath splits a path into segments for gitignore matching.
// It normalizes path separators and filters out empty and "." segments.
func splitPath(path string) []string {
	normalized := filepath.ToSlash(path)

	var segments []string
	for _, part := range strings.Split(normalized, "/") {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}
