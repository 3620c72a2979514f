package arxiv

import "fmt"

// QueryRequiredError is returned when query is empty.
type QueryRequiredError struct{}

func (e *QueryRequiredError) Error() string      { return "query is required" }
func (e *QueryRequiredError) InvalidInput() bool { return true }

// MaxResultsError is returned when max_results is out of range.
type MaxResultsError struct {
	Value int
	Max   int
}

func (e *MaxResultsError) Error() string {
	return fmt.Sprintf("max_results must be between 1 and %d, got %d", e.Max, e.Value)
}
func (e *MaxResultsError) InvalidInput() bool { return true }
