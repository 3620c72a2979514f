package search

import (
	"context"
	"os"
	"time"

	"github.com/Cyclone1070/wisemcp/internal/tool/service/executor"
)

// fileSystem defines the filesystem operations needed to ingest matched files.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFileRange(path string, offset, limit int64) ([]byte, error)
}

// commandExecutor runs the search command.
type commandExecutor interface {
	RunWithTimeout(ctx context.Context, cmd []string, dir string, env []string, timeout time.Duration) (*executor.Result, error)
}

// pathResolver maps reported paths onto the codebase root.
type pathResolver interface {
	Root() string
	Rel(path string) (string, error)
}

// ignoreMatcher decides which matched files stay out of the knowledge store.
type ignoreMatcher interface {
	ShouldIgnore(relativePath string) bool
}
