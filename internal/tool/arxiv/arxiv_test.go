package arxiv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/wisemcp/internal/config"
	"github.com/Cyclone1070/wisemcp/internal/tool"
)

const atomEntry = `
  <entry>
    <id>http://arxiv.org/abs/2401.0000%[1]dv1</id>
    <published>2024-01-0%[1]dT10:00:00Z</published>
    <title>Paper
      Number %[1]d</title>
    <summary>  Abstract of paper %[1]d.  </summary>
    <author><name>Alice %[1]d</name></author>
    <author><name>Bob</name></author>
    <link href="http://arxiv.org/abs/2401.0000%[1]dv1" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2401.0000%[1]dv1" rel="related" type="application/pdf"/>
  </entry>`

func atomFeed(n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><feed xmlns="http://www.w3.org/2005/Atom">`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, atomEntry, i)
	}
	b.WriteString(`</feed>`)
	return b.String()
}

func newTestTool(t *testing.T, handler http.HandlerFunc) *QueryTool {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Tools.ArxivBaseURL = srv.URL + "/api/query"
	return NewQueryTool(srv.Client(), cfg)
}

func TestRun_ThreePapers_ReturnsPayloadAndDocuments(t *testing.T) {
	var gotQuery string
	qt := newTestTool(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(atomFeed(3)))
	})

	res, err := qt.Run(context.Background(), tool.Call{ConversationID: "c1"}, &Request{Query: "quantum error correction", MaxResults: 3})

	require.NoError(t, err)
	var papers []Paper
	require.NoError(t, json.Unmarshal([]byte(res.Payload), &papers))
	require.Len(t, papers, 3)
	assert.Equal(t, "Paper Number 1", papers[0].Title)
	assert.Equal(t, []string{"Alice 1", "Bob"}, papers[0].Authors)
	assert.Equal(t, "Abstract of paper 1.", papers[0].Summary)
	assert.Equal(t, "http://arxiv.org/pdf/2401.00001v1", papers[0].PDFURL)
	assert.Equal(t, "2024-01-01T10:00:00Z", papers[0].PublishedDate)

	require.Len(t, res.Documents, 3)
	assert.Equal(t, "Title: Paper Number 2\nSummary: Abstract of paper 2.", res.Documents[1].Content)
	assert.Equal(t, map[string]any{
		"source": "arxiv",
		"query":  "quantum error correction",
		"url":    "http://arxiv.org/pdf/2401.00002v1",
	}, res.Documents[1].Metadata)

	assert.Contains(t, gotQuery, "sortBy=submittedDate")
	assert.Contains(t, gotQuery, "max_results=3")
	assert.Contains(t, gotQuery, "search_query=quantum+error+correction")
}

func TestRun_DefaultMaxResults_Applied(t *testing.T) {
	var gotMax string
	qt := newTestTool(t, func(w http.ResponseWriter, r *http.Request) {
		gotMax = r.URL.Query().Get("max_results")
		_, _ = w.Write([]byte(atomFeed(1)))
	})

	_, err := qt.Run(context.Background(), tool.Call{}, &Request{Query: "graphs"})

	require.NoError(t, err)
	assert.Equal(t, "5", gotMax)
}

func TestRun_NoEntries_NoResultsFound(t *testing.T) {
	qt := newTestTool(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(atomFeed(0)))
	})

	_, err := qt.Run(context.Background(), tool.Call{}, &Request{Query: "nothing"})

	assert.Equal(t, tool.KindNoResultsFound, tool.KindOf(err))
}

func TestRun_Throttled_RateLimited(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			qt := newTestTool(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			})

			_, err := qt.Run(context.Background(), tool.Call{}, &Request{Query: "q"})

			assert.Equal(t, tool.KindRateLimited, tool.KindOf(err))
		})
	}
}

func TestRun_ServerError_UpstreamCallFailure(t *testing.T) {
	qt := newTestTool(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := qt.Run(context.Background(), tool.Call{}, &Request{Query: "q"})

	assert.Equal(t, tool.KindUpstreamCallFailure, tool.KindOf(err))
}

func TestRun_MalformedFeed_UpstreamCallFailure(t *testing.T) {
	qt := newTestTool(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<feed><entry>"))
	})

	_, err := qt.Run(context.Background(), tool.Call{}, &Request{Query: "q"})

	assert.Equal(t, tool.KindUpstreamCallFailure, tool.KindOf(err))
}

func TestRun_InvalidRequest_NoUpstreamCall(t *testing.T) {
	called := false
	qt := newTestTool(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := qt.Run(context.Background(), tool.Call{}, &Request{Query: "q", MaxResults: 1000})

	var maxErr *MaxResultsError
	require.ErrorAs(t, err, &maxErr)
	assert.True(t, maxErr.InvalidInput())
	assert.False(t, called)
}

func TestPDFURL_FallsBackToAbstractID(t *testing.T) {
	got := pdfURL(entry{ID: "http://arxiv.org/abs/1234.5678v2"})
	assert.Equal(t, "http://arxiv.org/pdf/1234.5678v2", got)
}

func TestDeclaration_ValidAndDefaulted(t *testing.T) {
	qt := NewQueryTool(http.DefaultClient, config.DefaultConfig())
	decl := qt.Declaration()

	require.NoError(t, decl.Check())
	prop, ok := decl.Parameters.Lookup("max_results")
	require.True(t, ok)
	assert.Equal(t, 5, prop.Default)
}
