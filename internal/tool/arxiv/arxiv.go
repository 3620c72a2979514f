// Package arxiv implements the query_arxiv tool against the arXiv Atom API.
package arxiv

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Cyclone1070/wisemcp/internal/config"
	"github.com/Cyclone1070/wisemcp/internal/tool"
)

// maxFeedBytes bounds how much of an Atom response is read.
const maxFeedBytes = 16 << 20

var whitespace = regexp.MustCompile(`\s+`)

// httpClient is the subset of *http.Client used by the tool.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// QueryTool searches arXiv for papers.
type QueryTool struct {
	client httpClient
	config *config.Config
}

// NewQueryTool creates a QueryTool with injected dependencies.
func NewQueryTool(client httpClient, cfg *config.Config) *QueryTool {
	if client == nil {
		panic("client is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &QueryTool{client: client, config: cfg}
}

// Declaration returns the tool's parameter schema.
func (t *QueryTool) Declaration() tool.Descriptor {
	return tool.Descriptor{
		Name:        tool.NameQueryArxiv,
		Description: "Search for scientific papers on ArXiv to find cutting-edge research, algorithms, and theoretical foundations.",
		Parameters: tool.Schema{
			Properties: []tool.Property{
				{Name: "query", Type: tool.TypeString, Description: "The search query (e.g., 'quantum computing', 'au:LeCun')."},
				{Name: "max_results", Type: tool.TypeInteger, Description: "The maximum number of papers to return.", Default: t.config.Tools.DefaultArxivMaxResults},
			},
			Required: []string{"query"},
		},
	}
}

// Run queries arXiv, newest submissions first. Every paper becomes an ingestible document.
func (t *QueryTool) Run(ctx context.Context, call tool.Call, req *Request) (*tool.Result, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}

	entries, err := t.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, tool.Errorf(tool.KindNoResultsFound, "no papers found on arXiv for %q", req.Query)
	}

	papers := make([]Paper, 0, len(entries))
	docs := make([]tool.Document, 0, len(entries))
	for _, e := range entries {
		p := toPaper(e)
		papers = append(papers, p)
		docs = append(docs, tool.Document{
			Content: fmt.Sprintf("Title: %s\nSummary: %s", p.Title, p.Summary),
			Metadata: map[string]any{
				"source": "arxiv",
				"query":  req.Query,
				"url":    p.PDFURL,
			},
		})
	}

	payload, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode papers: %w", err)
	}

	return &tool.Result{Payload: string(payload), Documents: docs}, nil
}

func (t *QueryTool) fetch(ctx context.Context, req *Request) ([]entry, error) {
	q := url.Values{}
	q.Set("search_query", req.Query)
	q.Set("start", "0")
	q.Set("max_results", strconv.Itoa(req.MaxResults))
	q.Set("sortBy", "submittedDate")
	q.Set("sortOrder", "descending")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.config.Tools.ArxivBaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, tool.Wrap(tool.KindUpstreamCallFailure, err, "failed to build arXiv request")
	}
	httpReq.Header.Set("User-Agent", t.config.Tools.UserAgent)
	httpReq.Header.Set("Accept", "application/atom+xml")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, tool.Wrap(tool.KindUpstreamCallFailure, err, "failed to query arXiv")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusServiceUnavailable:
		return nil, tool.Errorf(tool.KindRateLimited, "arXiv is throttling requests (HTTP %d)", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, tool.Errorf(tool.KindUpstreamCallFailure, "arXiv returned HTTP %d", resp.StatusCode)
	}

	var f feed
	if err := xml.NewDecoder(io.LimitReader(resp.Body, maxFeedBytes)).Decode(&f); err != nil {
		return nil, tool.Wrap(tool.KindUpstreamCallFailure, err, "failed to parse arXiv response")
	}
	return f.Entries, nil
}

func toPaper(e entry) Paper {
	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		authors = append(authors, strings.TrimSpace(a.Name))
	}

	published := strings.TrimSpace(e.Published)
	if ts, err := time.Parse(time.RFC3339, published); err == nil {
		published = ts.UTC().Format(time.RFC3339)
	}

	return Paper{
		Title:         whitespace.ReplaceAllString(strings.TrimSpace(e.Title), " "),
		Authors:       authors,
		Summary:       strings.TrimSpace(e.Summary),
		PDFURL:        pdfURL(e),
		PublishedDate: published,
	}
}

// pdfURL prefers the explicit pdf link and falls back to rewriting the abstract id.
func pdfURL(e entry) string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	return strings.Replace(strings.TrimSpace(e.ID), "/abs/", "/pdf/", 1)
}
