// Package workflow defines the events emitted while a tool call is dispatched.
package workflow

import "github.com/Cyclone1070/wisemcp/internal/tool"

// Event is the interface for all workflow events.
// Consumers handle events via type switch.
type Event interface {
	isEvent()
}

// ToolStartEvent is emitted once a call has passed validation and is about to run.
type ToolStartEvent struct {
	ToolName       tool.Name
	ConversationID string
}

func (ToolStartEvent) isEvent() {}

// ToolEndEvent is emitted when the adapter returns.
type ToolEndEvent struct {
	ToolName       tool.Name
	ConversationID string
	Err            *tool.Error
}

func (ToolEndEvent) isEvent() {}

// RecordedEvent is emitted after the history ledger accepted the call.
type RecordedEvent struct {
	ToolName       tool.Name
	ConversationID string
	RecordID       int64
}

func (RecordedEvent) isEvent() {}

// IngestedEvent is emitted after a document was written to the knowledge store.
type IngestedEvent struct {
	ToolName       tool.Name
	ConversationID string
	Fragments      int
}

func (IngestedEvent) isEvent() {}
