package toolmanager

import (
	"context"

	"github.com/Cyclone1070/wisemcp/internal/history"
	"github.com/Cyclone1070/wisemcp/internal/tool"
	"github.com/Cyclone1070/wisemcp/internal/tool/arxiv"
	"github.com/Cyclone1070/wisemcp/internal/tool/github"
	"github.com/Cyclone1070/wisemcp/internal/tool/memory"
	"github.com/Cyclone1070/wisemcp/internal/tool/search"
	"github.com/Cyclone1070/wisemcp/internal/tool/web"
)

// declarer is implemented by every adapter.
type declarer interface {
	// Declaration returns the tool's name, description and parameter schema.
	Declaration() tool.Descriptor
}

type arxivTool interface {
	declarer
	Run(ctx context.Context, call tool.Call, req *arxiv.Request) (*tool.Result, error)
}

type githubTool interface {
	declarer
	Run(ctx context.Context, call tool.Call, req *github.Request) (*tool.Result, error)
}

type webTool interface {
	declarer
	Run(ctx context.Context, call tool.Call, req *web.Request) (*tool.Result, error)
}

type searchTool interface {
	declarer
	Run(ctx context.Context, call tool.Call, req *search.Request) (*tool.Result, error)
}

type memoryTool interface {
	declarer
	Run(ctx context.Context, call tool.Call, req *memory.Request) (*tool.Result, error)
}

// ledger persists successful calls.
type ledger interface {
	Append(ctx context.Context, rec *history.Record) error
}

// ingester writes adapter documents into the knowledge store.
type ingester interface {
	Ingest(ctx context.Context, conversationID, text string, metadata map[string]any) (int, error)
}
