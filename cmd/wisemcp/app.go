package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/Cyclone1070/wisemcp/internal/config"
	"github.com/Cyclone1070/wisemcp/internal/history"
	"github.com/Cyclone1070/wisemcp/internal/knowledge"
	"github.com/Cyclone1070/wisemcp/internal/tool/arxiv"
	"github.com/Cyclone1070/wisemcp/internal/tool/github"
	"github.com/Cyclone1070/wisemcp/internal/tool/memory"
	"github.com/Cyclone1070/wisemcp/internal/tool/search"
	"github.com/Cyclone1070/wisemcp/internal/tool/service/executor"
	"github.com/Cyclone1070/wisemcp/internal/tool/service/fs"
	"github.com/Cyclone1070/wisemcp/internal/tool/service/git"
	"github.com/Cyclone1070/wisemcp/internal/tool/service/path"
	"github.com/Cyclone1070/wisemcp/internal/tool/web"
	"github.com/Cyclone1070/wisemcp/internal/workflow/toolmanager"
)

// app owns the long-lived stores and the dispatcher built on top of them.
type app struct {
	ledger  *history.Ledger
	store   *knowledge.Store
	manager *toolmanager.ToolManager
}

func ensureDir(p string) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory for %s: %w", p, err)
	}
	return nil
}

func openLedger(ctx context.Context, cfg *config.Config) (*history.Ledger, error) {
	if err := ensureDir(cfg.Storage.HistoryPath); err != nil {
		return nil, err
	}
	return history.Open(ctx, cfg.Storage.HistoryPath)
}

func openStore(cfg *config.Config) (*knowledge.Store, error) {
	if err := ensureDir(cfg.Storage.KnowledgePath); err != nil {
		return nil, err
	}
	return knowledge.Open(cfg.Storage.KnowledgePath)
}

// newApp wires every adapter to its real dependencies.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...toolmanager.Option) (*app, error) {
	root, err := path.CanonicaliseRoot(cfg.Tools.LocalCodebasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalise codebase root: %w", err)
	}

	osFS := fs.NewOSFileSystem()
	ignore, err := git.NewIgnoreMatcher(root, osFS)
	if err != nil {
		return nil, err
	}

	ledger, err := openLedger(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		_ = ledger.Close()
		return nil, err
	}

	timeout := time.Duration(cfg.Tools.HTTPTimeoutSeconds) * time.Second
	plain := &http.Client{Timeout: timeout}

	tools := toolmanager.Tools{
		Arxiv:  arxiv.NewQueryTool(plain, cfg),
		GitHub: github.NewSearchCodeTool(newGitHubClient(ctx, timeout, logger), cfg),
		Web:    web.NewExtractTool(plain, cfg, logger.Named("web")),
		Search: search.NewCodebaseTool(osFS, executor.NewOSCommandExecutor(cfg), path.NewResolver(root), ignore, cfg, logger.Named("search")),
		Memory: memory.NewSearchTool(store, cfg),
	}

	pipeline := knowledge.NewPipeline(store, logger.Named("knowledge"))
	manager, err := toolmanager.NewToolManager(tools, ledger, pipeline, logger.Named("dispatch"), opts...)
	if err != nil {
		_ = store.Close()
		_ = ledger.Close()
		return nil, err
	}

	return &app{ledger: ledger, store: store, manager: manager}, nil
}

// newGitHubClient authenticates with GITHUB_TOKEN when set.
// Unauthenticated requests work but share a much smaller rate limit.
func newGitHubClient(ctx context.Context, timeout time.Duration, logger *zap.Logger) *http.Client {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		logger.Debug("GITHUB_TOKEN not set; GitHub requests are unauthenticated")
		return &http.Client{Timeout: timeout}
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client.Timeout = timeout
	return client
}

func (a *app) Close() error {
	return errors.Join(a.store.Close(), a.ledger.Close())
}
