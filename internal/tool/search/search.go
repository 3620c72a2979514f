// Package search implements the search_local_codebase tool on top of ripgrep.
package search

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Cyclone1070/wisemcp/internal/config"
	"github.com/Cyclone1070/wisemcp/internal/tool"
	"github.com/Cyclone1070/wisemcp/internal/tool/helper/content"
	"github.com/Cyclone1070/wisemcp/internal/tool/service/executor"
)

// readConcurrency bounds parallel file reads during ingestion.
const readConcurrency = 8

// CodebaseTool searches the configured codebase root.
type CodebaseTool struct {
	fs       fileSystem
	executor commandExecutor
	paths    pathResolver
	ignore   ignoreMatcher
	config   *config.Config
	logger   *zap.Logger
}

// NewCodebaseTool creates a CodebaseTool with injected dependencies.
func NewCodebaseTool(
	fs fileSystem,
	commandExecutor commandExecutor,
	paths pathResolver,
	ignore ignoreMatcher,
	cfg *config.Config,
	logger *zap.Logger,
) *CodebaseTool {
	if fs == nil {
		panic("fs is required")
	}
	if commandExecutor == nil {
		panic("commandExecutor is required")
	}
	if paths == nil {
		panic("paths is required")
	}
	if ignore == nil {
		panic("ignore is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CodebaseTool{
		fs:       fs,
		executor: commandExecutor,
		paths:    paths,
		ignore:   ignore,
		config:   cfg,
		logger:   logger,
	}
}

// Declaration returns the tool's parameter schema.
func (t *CodebaseTool) Declaration() tool.Descriptor {
	return tool.Descriptor{
		Name:        tool.NameSearchLocalCode,
		Description: "Search the contents of files in the current project directory using a regular expression.",
		Parameters: tool.Schema{
			Properties: []tool.Property{
				{Name: "query", Type: tool.TypeString, Description: "The ripgrep-compatible regex pattern to search for."},
			},
			Required: []string{"query"},
		},
	}
}

// Run searches case-sensitively with ripgrep. Every matched file that is not
// gitignored, not binary and within the size limit becomes an ingestible document.
func (t *CodebaseTool) Run(ctx context.Context, call tool.Call, req *Request) (*tool.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	root := t.paths.Root()
	// "--" keeps queries that start with a dash from being read as flags
	cmd := []string{"rg", "--json", "--case-sensitive", "--", req.Query, "."}
	timeout := time.Duration(t.config.Tools.DefaultCommandTimeout) * time.Second

	res, err := t.executor.RunWithTimeout(ctx, cmd, root, nil, timeout)
	if err != nil {
		var cmdErr *executor.CommandError
		switch {
		case errors.As(err, &cmdErr):
			return nil, err
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.Is(err, executor.ErrTimeout):
			return nil, &CommandFailedError{Cmd: "rg", ExitCode: -1, Cause: err}
		case res == nil:
			return nil, &CommandFailedError{Cmd: "rg", ExitCode: -1, Cause: err}
		case res.ExitCode != 1:
			// rg exits 1 for no matches; 2+ is a real error
			return nil, &CommandFailedError{Cmd: "rg", ExitCode: res.ExitCode, Stderr: strings.TrimSpace(res.Stderr), Cause: err}
		}
	}

	matches, hitMax := t.parse(res.Stdout)
	if len(matches) == 0 {
		return nil, tool.Errorf(tool.KindNoResultsFound, "no results found in the local codebase for %q", req.Query)
	}

	payload, err := json.MarshalIndent(Response{
		Matches:       matches,
		TotalCount:    len(matches),
		HitMaxResults: hitMax,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode matches: %w", err)
	}

	return &tool.Result{Payload: string(payload), Documents: t.documents(ctx, matches)}, nil
}

// parse reads rg --json output, keeping match events only.
func (t *CodebaseTool) parse(stdout string) ([]Match, bool) {
	maxResults := t.config.Tools.MaxSearchContentResults
	maxLineLength := t.config.Tools.MaxLineLength

	var matches []Match
	hitMax := false

	scanner := bufio.NewScanner(strings.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), len(stdout)+1)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var ev rgEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			// output may be cut mid-line when it exceeds the collector limit
			continue
		}
		if ev.Type != "match" {
			continue
		}

		rel, err := t.paths.Rel(ev.Data.Path.Text)
		if err != nil || rel == "" {
			continue
		}

		lineContent := strings.TrimRight(ev.Data.Lines.Text, "\r\n")
		if len(lineContent) > maxLineLength {
			lineContent = lineContent[:maxLineLength] + "...[truncated]"
		}

		matches = append(matches, Match{
			File:        rel,
			LineNumber:  ev.Data.LineNumber,
			LineContent: lineContent,
		})

		if len(matches) >= maxResults {
			hitMax = true
			break
		}
	}

	// rg searches in parallel so its output order varies between runs
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].File != matches[j].File {
			return matches[i].File < matches[j].File
		}
		return matches[i].LineNumber < matches[j].LineNumber
	})
	return matches, hitMax
}

// documents loads each distinct matched file for ingestion. Unreadable files are skipped.
func (t *CodebaseTool) documents(ctx context.Context, matches []Match) []tool.Document {
	var files []string
	seen := make(map[string]bool)
	for _, m := range matches {
		if seen[m.File] {
			continue
		}
		seen[m.File] = true
		files = append(files, m.File)
	}

	loaded := make([]*tool.Document, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, rel := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			loaded[i] = t.load(rel)
			return nil
		})
	}
	_ = g.Wait()

	docs := make([]tool.Document, 0, len(files))
	for _, d := range loaded {
		if d != nil {
			docs = append(docs, *d)
		}
	}
	return docs
}

func (t *CodebaseTool) load(rel string) *tool.Document {
	if t.ignore.ShouldIgnore(rel) {
		return nil
	}

	abs := filepath.Join(t.paths.Root(), filepath.FromSlash(rel))
	info, err := t.fs.Stat(abs)
	if err != nil {
		t.logger.Debug("skipping unreadable match", zap.String("file", rel), zap.Error(err))
		return nil
	}
	if info.IsDir() || info.Size() > t.config.Tools.MaxIngestFileSize {
		return nil
	}

	data, err := t.fs.ReadFileRange(abs, 0, 0)
	if err != nil {
		t.logger.Debug("skipping unreadable match", zap.String("file", rel), zap.Error(err))
		return nil
	}
	if content.IsBinaryContent(data) {
		return nil
	}

	return &tool.Document{
		Content:  string(data),
		Metadata: map[string]any{"source": "local_codebase", "file_path": abs},
	}
}
