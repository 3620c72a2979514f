package memory

import (
	"strings"

	"github.com/Cyclone1070/wisemcp/internal/config"
)

// Request represents the parameters of a search_internal_knowledge_base call.
type Request struct {
	QueryTexts  []string       `json:"query_texts"`
	NResults    int            `json:"n_results,omitempty"`
	WhereFilter map[string]any `json:"where_filter,omitempty"`
}

// Validate checks the request and applies the configured default result count.
func (r *Request) Validate(cfg *config.Config) error {
	if len(r.QueryTexts) == 0 {
		return &QueryTextsRequiredError{}
	}
	for i, q := range r.QueryTexts {
		if strings.TrimSpace(q) == "" {
			return &EmptyQueryTextError{Index: i}
		}
	}
	if r.NResults == 0 {
		r.NResults = cfg.Tools.DefaultKnowledgeResults
	}
	if r.NResults < 0 || r.NResults > cfg.Tools.MaxKnowledgeResults {
		return &NResultsError{Value: r.NResults, Max: cfg.Tools.MaxKnowledgeResults}
	}
	return nil
}
