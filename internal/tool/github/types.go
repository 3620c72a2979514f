package github

import "strings"

// Request represents the parameters of a search_github_code call.
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

// CodeFile is one code search hit as returned to the caller.
type CodeFile struct {
	Repository string  `json:"repository"`
	FilePath   string  `json:"file_path"`
	URL        string  `json:"url"`
	Score      float64 `json:"score"`
}

type rateLimitResponse struct {
	Resources struct {
		Core struct {
			Limit     int   `json:"limit"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"core"`
	} `json:"resources"`
}

type searchResponse struct {
	TotalCount int `json:"total_count"`
	Items      []struct {
		Path       string  `json:"path"`
		HTMLURL    string  `json:"html_url"`
		Score      float64 `json:"score"`
		Repository struct {
			FullName string `json:"full_name"`
		} `json:"repository"`
	} `json:"items"`
}
