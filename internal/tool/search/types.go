package search

import "strings"

// Request represents the parameters of a search_local_codebase call.
type Request struct {
	Query string `json:"query"`
}

// Validate checks the request.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return &QueryRequiredError{}
	}
	return nil
}

// Match is a single matching line.
type Match struct {
	File        string `json:"file"`         // Path relative to the codebase root
	LineNumber  int    `json:"line_number"`  // 1-based line number
	LineContent string `json:"line_content"` // Content of the matching line
}

// Response is the payload returned to the caller.
type Response struct {
	Matches       []Match `json:"matches"`
	TotalCount    int     `json:"total_count"`
	HitMaxResults bool    `json:"hit_max_results"`
}

// rgEvent is one line of `rg --json` output.
type rgEvent struct {
	Type string `json:"type"`
	Data struct {
		Path struct {
			Text string `json:"text"`
		} `json:"path"`
		Lines struct {
			Text string `json:"text"`
		} `json:"lines"`
		LineNumber int `json:"line_number"`
	} `json:"data"`
}
