// Package github implements the search_github_code tool against the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Cyclone1070/wisemcp/internal/config"
	"github.com/Cyclone1070/wisemcp/internal/tool"
)

const apiVersion = "2022-11-28"

// httpClient is the subset of *http.Client used by the tool.
// Authentication is the client's concern.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SearchCodeTool searches code hosted on GitHub.
type SearchCodeTool struct {
	client httpClient
	config *config.Config
}

// NewSearchCodeTool creates a SearchCodeTool with injected dependencies.
func NewSearchCodeTool(client httpClient, cfg *config.Config) *SearchCodeTool {
	if client == nil {
		panic("client is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &SearchCodeTool{client: client, config: cfg}
}

// Declaration returns the tool's parameter schema.
func (t *SearchCodeTool) Declaration() tool.Descriptor {
	return tool.Descriptor{
		Name:        tool.NameSearchGitHubCode,
		Description: "Search for code examples, libraries, and implementations on GitHub.",
		Parameters: tool.Schema{
			Properties: []tool.Property{
				{Name: "query", Type: tool.TypeString, Description: "The search query, including qualifiers like 'language:go' or 'repo:owner/repo'."},
			},
			Required: []string{"query"},
		},
	}
}

// Run checks the remaining quota, then searches code and returns the top hits.
// Results are not ingested.
func (t *SearchCodeTool) Run(ctx context.Context, call tool.Call, req *Request) (*tool.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := t.checkRateLimit(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", req.Query)
	q.Set("per_page", strconv.Itoa(t.config.Tools.GitHubMaxResults))

	var sr searchResponse
	if err := t.get(ctx, "/search/code?"+q.Encode(), &sr); err != nil {
		return nil, err
	}
	if sr.TotalCount == 0 || len(sr.Items) == 0 {
		return nil, tool.Errorf(tool.KindNoResultsFound, "no code found on GitHub for %q", req.Query)
	}

	items := sr.Items
	if len(items) > t.config.Tools.GitHubMaxResults {
		items = items[:t.config.Tools.GitHubMaxResults]
	}
	files := make([]CodeFile, 0, len(items))
	for _, it := range items {
		files = append(files, CodeFile{
			Repository: it.Repository.FullName,
			FilePath:   it.Path,
			URL:        it.HTMLURL,
			Score:      it.Score,
		})
	}

	payload, err := json.MarshalIndent(files, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode search results: %w", err)
	}
	return &tool.Result{Payload: string(payload)}, nil
}

// checkRateLimit refuses to search when the remaining quota is below the configured floor.
func (t *SearchCodeTool) checkRateLimit(ctx context.Context) error {
	var rl rateLimitResponse
	if err := t.get(ctx, "/rate_limit", &rl); err != nil {
		return err
	}
	core := rl.Resources.Core
	if core.Remaining < t.config.Tools.GitHubMinRemaining {
		msg := fmt.Sprintf("GitHub API rate limit is low (%d remaining)", core.Remaining)
		if core.Reset > 0 {
			msg += ", resets at " + time.Unix(core.Reset, 0).UTC().Format(time.RFC3339)
		}
		return tool.Errorf(tool.KindRateLimited, "%s", msg)
	}
	return nil
}

func (t *SearchCodeTool) get(ctx context.Context, path string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.config.Tools.GitHubBaseURL+path, nil)
	if err != nil {
		return tool.Wrap(tool.KindUpstreamCallFailure, err, "failed to build GitHub request")
	}
	httpReq.Header.Set("Accept", "application/vnd.github+json")
	httpReq.Header.Set("X-GitHub-Api-Version", apiVersion)
	httpReq.Header.Set("User-Agent", t.config.Tools.UserAgent)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return tool.Wrap(tool.KindUpstreamCallFailure, err, "failed to call GitHub")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0") {
		return tool.Errorf(tool.KindRateLimited, "GitHub API rate limit exceeded")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return tool.Errorf(tool.KindUpstreamCallFailure, "GitHub returned HTTP %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return tool.Wrap(tool.KindUpstreamCallFailure, err, "failed to decode GitHub response")
	}
	return nil
}
