package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIOError struct{}

func (fakeIOError) Error() string { return "disk gone" }
func (fakeIOError) IOError() bool { return true }

type fakeCommandError struct{}

func (fakeCommandError) Error() string       { return "rg exited 2" }
func (fakeCommandError) CommandFailed() bool { return true }

type fakeInputError struct{}

func (fakeInputError) Error() string      { return "bad input" }
func (fakeInputError) InvalidInput() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"InvalidInput", fakeInputError{}, KindInvalidParameter},
		{"WrappedInvalidInput", fmt.Errorf("ctx: %w", fakeInputError{}), KindInvalidParameter},
		{"IOError", fakeIOError{}, KindLocalOperationFailure},
		{"CommandFailed", fakeCommandError{}, KindLocalOperationFailure},
		{"Cancelled", context.Canceled, KindExecutionFailure},
		{"Plain", errPlain, KindExecutionFailure},
		{"AlreadyClassified", Errorf(KindRateLimited, "slow down"), KindRateLimited},
		{"WrappedClassified", fmt.Errorf("outer: %w", Errorf(KindNoResultsFound, "none")), KindNoResultsFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(NameSearchLocalCode, tt.err)

			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, NameSearchLocalCode, got.ToolName)
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, Classify(NameQueryArxiv, nil))
}

func TestClassify_KeepsExistingToolName(t *testing.T) {
	orig := &Error{Kind: KindUpstreamCallFailure, Message: "502", ToolName: NameQueryArxiv}

	got := Classify(NameSearchGitHubCode, orig)

	assert.Equal(t, NameQueryArxiv, got.ToolName)
}

func TestClassify_DoesNotMutateOriginal(t *testing.T) {
	orig := Errorf(KindNoResultsFound, "none")

	got := Classify(NameQueryArxiv, orig)

	assert.Equal(t, NameQueryArxiv, got.ToolName)
	assert.Empty(t, orig.ToolName)
}

func TestClassify_UnknownKeepsMessageAndCause(t *testing.T) {
	got := Classify(NameExtractWebContent, errPlain)

	assert.Equal(t, "plain", got.Message)
	assert.ErrorIs(t, got, errPlain)
}

func TestError_MarshalJSON(t *testing.T) {
	err := &Error{Kind: KindToolNotFound, Message: "no such tool", ToolName: "nope", Cause: errors.New("hidden")}

	raw, mErr := json.Marshal(err)

	require.NoError(t, mErr)
	assert.JSONEq(t, `{"error_code":"ToolNotFound","message":"no such tool","tool_name":"nope"}`, string(raw))
}

func TestError_Error(t *testing.T) {
	assert.Equal(t, "RateLimited [search_github_code]: slow down",
		(&Error{Kind: KindRateLimited, Message: "slow down", ToolName: NameSearchGitHubCode}).Error())
	assert.Equal(t, "StoreFailure: write failed (closed)",
		Wrap(KindStoreFailure, errors.New("closed"), "write failed").Error())
}

func TestError_Retryable(t *testing.T) {
	assert.True(t, Errorf(KindRateLimited, "x").Retryable())
	assert.False(t, Errorf(KindUpstreamCallFailure, "x").Retryable())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindStoreFailure, KindOf(fmt.Errorf("w: %w", Errorf(KindStoreFailure, "x"))))
	assert.Equal(t, Kind(""), KindOf(errPlain))
}
