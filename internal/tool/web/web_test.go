package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Cyclone1070/wisemcp/internal/config"
	"github.com/Cyclone1070/wisemcp/internal/tool"
)

func newTestTool(t *testing.T, cfg *config.Config, handler http.HandlerFunc) (*ExtractTool, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return NewExtractTool(srv.Client(), cfg, zaptest.NewLogger(t)), srv.URL
}

func article(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>t</title></head><body><article>")
	for _, p := range paragraphs {
		b.WriteString("<p>" + p + "</p>")
	}
	b.WriteString("</article></body></html>")
	return b.String()
}

func TestRun_ExtractsArticle(t *testing.T) {
	wt, base := newTestTool(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(article(words(30), words(30))))
	})

	res, err := wt.Run(context.Background(), tool.Call{}, &Request{URL: base + "/post"})

	require.NoError(t, err)
	var page Page
	require.NoError(t, json.Unmarshal([]byte(res.Payload), &page))
	assert.Equal(t, base+"/post", page.URL)
	assert.Equal(t, words(30)+"\n\n"+words(30), page.Content)

	require.Len(t, res.Documents, 1)
	assert.Equal(t, page.Content, res.Documents[0].Content)
	assert.Equal(t, map[string]any{"source": "web", "url": base + "/post"}, res.Documents[0].Metadata)
}

func TestRun_HistoryPayloadTruncated(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tools.WebHistoryContentSize = 20
	wt, base := newTestTool(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(article(words(100))))
	})

	res, err := wt.Run(context.Background(), tool.Call{}, &Request{URL: base})

	require.NoError(t, err)
	var full, recorded Page
	require.NoError(t, json.Unmarshal([]byte(res.Payload), &full))
	require.NoError(t, json.Unmarshal([]byte(res.Recorded()), &recorded))
	assert.Equal(t, words(100), full.Content)
	assert.Len(t, recorded.Content, 20)
}

func TestRun_PlainText(t *testing.T) {
	wt, base := newTestTool(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("first  para\n\n\n\nsecond"))
	})

	res, err := wt.Run(context.Background(), tool.Call{}, &Request{URL: base})

	require.NoError(t, err)
	assert.Equal(t, "first para\n\nsecond", res.Documents[0].Content)
}

func TestRun_SecondCallServedFromCache(t *testing.T) {
	var hits atomic.Int32
	wt, base := newTestTool(t, nil, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(article(words(60))))
	})

	_, err := wt.Run(context.Background(), tool.Call{}, &Request{URL: base})
	require.NoError(t, err)
	_, err = wt.Run(context.Background(), tool.Call{}, &Request{URL: base})
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
}

func TestRun_ConcurrentCallers_OneUpstreamFetch(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	wt, base := newTestTool(t, nil, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(article(words(60))))
	})

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = wt.Run(context.Background(), tool.Call{}, &Request{URL: base})
		}()
	}
	require.Eventually(t, func() bool { return hits.Load() == 1 }, 5*time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestRun_CancelledCaller_OthersUnaffected(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	wt, base := newTestTool(t, nil, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(article(words(60))))
	})
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }
	defer unblock()

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := wt.Run(ctx, tool.Call{}, &Request{URL: base})
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return hits.Load() == 1 }, 5*time.Second, 5*time.Millisecond)

	const n = 4
	results := make([]*tool.Result, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = wt.Run(context.Background(), tool.Call{}, &Request{URL: base})
		}()
	}

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	unblock()
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		var page Page
		require.NoError(t, json.Unmarshal([]byte(results[i].Payload), &page))
		assert.Equal(t, words(60), page.Content)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestRun_FailuresNotCached(t *testing.T) {
	var hits atomic.Int32
	wt, base := newTestTool(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(article(words(60))))
	})

	_, err := wt.Run(context.Background(), tool.Call{}, &Request{URL: base})
	assert.Equal(t, tool.KindUpstreamCallFailure, tool.KindOf(err))

	_, err = wt.Run(context.Background(), tool.Call{}, &Request{URL: base})
	assert.NoError(t, err)
}

func TestRun_NotFound_UpstreamCallFailure(t *testing.T) {
	wt, base := newTestTool(t, nil, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := wt.Run(context.Background(), tool.Call{}, &Request{URL: base})

	assert.Equal(t, tool.KindUpstreamCallFailure, tool.KindOf(err))
}

func TestRun_EmptyPage_ContentExtractionFailure(t *testing.T) {
	wt, base := newTestTool(t, nil, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><script>only()</script></body></html>"))
	})

	_, err := wt.Run(context.Background(), tool.Call{}, &Request{URL: base})

	assert.Equal(t, tool.KindContentExtractionFailure, tool.KindOf(err))
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		url  string
		ok   bool
	}{
		{"https", "https://example.com/a", true},
		{"trimmed", "  http://example.com  ", true},
		{"empty", "", false},
		{"no scheme", "example.com/a", false},
		{"ftp", "ftp://example.com", false},
		{"no host", "http:///path", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Request{URL: tt.url}
			err := req.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var urlErr *InvalidURLError
			require.ErrorAs(t, err, &urlErr)
			assert.True(t, urlErr.InvalidInput())
		})
	}
}
