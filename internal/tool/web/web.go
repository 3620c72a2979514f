// Package web implements the extract_web_content tool.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"

	"github.com/Cyclone1070/wisemcp/internal/config"
	"github.com/Cyclone1070/wisemcp/internal/tool"
)

// httpClient is the subset of *http.Client used by the tool.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ExtractTool fetches a page and extracts its main text.
// Extracted text is cached per URL; concurrent fetches of one URL share a request.
type ExtractTool struct {
	client httpClient
	config *config.Config
	logger *zap.Logger
	cache  *lru.Cache[string, string]
	group  singleflight.Group
}

// NewExtractTool creates an ExtractTool with injected dependencies.
func NewExtractTool(client httpClient, cfg *config.Config, logger *zap.Logger) *ExtractTool {
	if client == nil {
		panic("client is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := lru.New[string, string](cfg.Tools.WebCacheSize)
	if err != nil {
		// only fails for a non-positive size, which config validation rejects
		panic(fmt.Sprintf("web cache: %v", err))
	}
	return &ExtractTool{client: client, config: cfg, logger: logger, cache: cache}
}

// Declaration returns the tool's parameter schema.
func (t *ExtractTool) Declaration() tool.Descriptor {
	return tool.Descriptor{
		Name:        tool.NameExtractWebContent,
		Description: "Extract the main textual content from a URL. Useful for reading documentation, articles, or blog posts.",
		Parameters: tool.Schema{
			Properties: []tool.Property{
				{Name: "url", Type: tool.TypeString, Description: "The URL to scrape."},
			},
			Required: []string{"url"},
		},
	}
}

// Run extracts the page text. The caller gets the full text, the history keeps a
// truncated copy, and the full text is ingested.
func (t *ExtractTool) Run(ctx context.Context, call tool.Call, req *Request) (*tool.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	text, err := t.content(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	payload, err := json.MarshalIndent(Page{URL: req.URL, Content: text}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}
	recorded, err := json.MarshalIndent(Page{URL: req.URL, Content: truncateRunes(text, t.config.Tools.WebHistoryContentSize)}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}

	return &tool.Result{
		Payload:        string(payload),
		HistoryPayload: string(recorded),
		Documents: []tool.Document{{
			Content:  text,
			Metadata: map[string]any{"source": "web", "url": req.URL},
		}},
	}, nil
}

// content returns the extracted text of url. Callers asking for the same URL at the
// same time share one fetch; each caller still stops waiting when its own ctx ends.
func (t *ExtractTool) content(ctx context.Context, url string) (string, error) {
	if text, ok := t.cache.Get(url); ok {
		t.logger.Debug("web content cache hit", zap.String("url", url))
		return text, nil
	}

	// the shared fetch outlives any single caller; the client timeout bounds it
	fetchCtx := context.WithoutCancel(ctx)
	ch := t.group.DoChan(url, func() (any, error) {
		if text, ok := t.cache.Get(url); ok {
			return text, nil
		}
		text, err := t.fetch(fetchCtx, url)
		if err != nil {
			return "", err
		}
		t.cache.Add(url, text)
		return text, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (t *ExtractTool) fetch(ctx context.Context, url string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", tool.Wrap(tool.KindUpstreamCallFailure, err, "failed to build request for %s", url)
	}
	httpReq.Header.Set("User-Agent", t.config.Tools.UserAgent)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", tool.Wrap(tool.KindUpstreamCallFailure, err, "failed to fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", tool.Errorf(tool.KindUpstreamCallFailure, "HTTP error fetching URL %s: %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.config.Tools.WebMaxBodyBytes))
	if err != nil {
		return "", tool.Wrap(tool.KindUpstreamCallFailure, err, "failed to read %s", url)
	}

	var text string
	if mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mediaType == "text/plain" {
		text = clean(string(body))
	} else {
		doc, err := html.Parse(bytes.NewReader(body))
		if err != nil {
			return "", tool.Wrap(tool.KindContentExtractionFailure, err, "failed to parse %s", url)
		}
		text = extractMain(doc, t.config.Tools.WebMinWords)
	}

	if text == "" {
		return "", tool.Errorf(tool.KindContentExtractionFailure, "could not extract meaningful content from %s", url)
	}
	t.logger.Debug("extracted web content", zap.String("url", url), zap.Int("bytes", len(text)))
	return text, nil
}
