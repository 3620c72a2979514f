package web

import (
	"net/url"
	"strings"
)

// Request represents the parameters of an extract_web_content call.
type Request struct {
	URL string `json:"url"`
}

// Validate checks that URL is an absolute http(s) URL.
func (r *Request) Validate() error {
	raw := strings.TrimSpace(r.URL)
	if raw == "" {
		return &InvalidURLError{URL: r.URL, Reason: "url is required"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &InvalidURLError{URL: r.URL, Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &InvalidURLError{URL: r.URL, Reason: "scheme must be http or https"}
	}
	if u.Host == "" {
		return &InvalidURLError{URL: r.URL, Reason: "host is required"}
	}
	r.URL = raw
	return nil
}

// Page is the payload returned to the caller.
type Page struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}
