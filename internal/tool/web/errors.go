package web

import "fmt"

// InvalidURLError is returned when the url parameter cannot be fetched.
type InvalidURLError struct {
	URL    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url %q: %s", e.URL, e.Reason)
}
func (e *InvalidURLError) InvalidInput() bool { return true }
