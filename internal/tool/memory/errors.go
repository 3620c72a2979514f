package memory

import "fmt"

// QueryTextsRequiredError is returned when no query text is given.
type QueryTextsRequiredError struct{}

func (e *QueryTextsRequiredError) Error() string      { return "query_texts must contain at least one text" }
func (e *QueryTextsRequiredError) InvalidInput() bool { return true }

// EmptyQueryTextError is returned when one of the query texts is blank.
type EmptyQueryTextError struct {
	Index int
}

func (e *EmptyQueryTextError) Error() string {
	return fmt.Sprintf("query_texts[%d] is empty", e.Index)
}
func (e *EmptyQueryTextError) InvalidInput() bool { return true }

// NResultsError is returned when n_results is out of range.
type NResultsError struct {
	Value int
	Max   int
}

func (e *NResultsError) Error() string {
	return fmt.Sprintf("n_results must be between 1 and %d, got %d", e.Max, e.Value)
}
func (e *NResultsError) InvalidInput() bool { return true }
