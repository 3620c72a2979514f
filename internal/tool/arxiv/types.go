package arxiv

import (
	"strings"

	"github.com/Cyclone1070/wisemcp/internal/config"
)

// Request represents the parameters of a query_arxiv call.
type Request struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

// Validate checks the request and applies the configured default result count.
func (r *Request) Validate(cfg *config.Config) error {
	if strings.TrimSpace(r.Query) == "" {
		return &QueryRequiredError{}
	}
	if r.MaxResults == 0 {
		r.MaxResults = cfg.Tools.DefaultArxivMaxResults
	}
	if r.MaxResults < 0 {
		return &MaxResultsError{Value: r.MaxResults, Max: cfg.Tools.MaxArxivMaxResults}
	}
	if r.MaxResults > cfg.Tools.MaxArxivMaxResults {
		return &MaxResultsError{Value: r.MaxResults, Max: cfg.Tools.MaxArxivMaxResults}
	}
	return nil
}

// Paper is one search hit as returned to the caller.
type Paper struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Summary       string   `json:"summary"`
	PDFURL        string   `json:"pdf_url"`
	PublishedDate string   `json:"published_date"`
}

// feed is the subset of the Atom response we read.
type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	ID        string   `xml:"id"`
	Title     string   `xml:"title"`
	Summary   string   `xml:"summary"`
	Published string   `xml:"published"`
	Authors   []author `xml:"author"`
	Links     []link   `xml:"link"`
}

type author struct {
	Name string `xml:"name"`
}

type link struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}
