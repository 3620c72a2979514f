// Package memory implements search_internal_knowledge_base over the knowledge store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Cyclone1070/wisemcp/internal/config"
	"github.com/Cyclone1070/wisemcp/internal/knowledge"
	"github.com/Cyclone1070/wisemcp/internal/tool"
)

// querier is the read side of the knowledge store.
type querier interface {
	Query(ctx context.Context, queryTexts []string, limit int, where map[string]any) ([]knowledge.QueryResult, error)
}

// SearchTool queries previously ingested fragments.
type SearchTool struct {
	store  querier
	config *config.Config
}

// NewSearchTool creates a SearchTool reading from store.
func NewSearchTool(store querier, cfg *config.Config) *SearchTool {
	if store == nil {
		panic("store is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &SearchTool{store: store, config: cfg}
}

// Declaration returns the tool's parameter schema.
func (t *SearchTool) Declaration() tool.Descriptor {
	return tool.Descriptor{
		Name:        tool.NameSearchKnowledgeBase,
		Description: "Search the agent's long-term memory for relevant information, notes, and past findings.",
		Parameters: tool.Schema{
			Properties: []tool.Property{
				{Name: "query_texts", Type: tool.TypeArray, Items: &tool.Property{Type: tool.TypeString}, Description: "A list of texts to search for."},
				{Name: "n_results", Type: tool.TypeInteger, Description: "The number of results to return.", Default: t.config.Tools.DefaultKnowledgeResults},
				{Name: "where_filter", Type: tool.TypeObject, Description: "A metadata filter to apply (e.g., {\"source\": \"arxiv\"})."},
			},
			Required: []string{"query_texts"},
		},
	}
}

// Run returns ranked fragments for each query text. It never writes.
func (t *SearchTool) Run(ctx context.Context, call tool.Call, req *Request) (*tool.Result, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}

	results, err := t.store.Query(ctx, req.QueryTexts, req.NResults, req.WhereFilter)
	if err != nil {
		return nil, err
	}

	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode knowledge results: %w", err)
	}
	return &tool.Result{Payload: string(payload)}, nil
}
