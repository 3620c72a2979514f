package github

// QueryRequiredError is returned when query is empty.
type QueryRequiredError struct{}

func (e *QueryRequiredError) Error() string      { return "query is required" }
func (e *QueryRequiredError) InvalidInput() bool { return true }
