// Package toolmanager dispatches tool calls by name and performs the bookkeeping
// that follows a successful call: one history record and knowledge ingestion.
package toolmanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Cyclone1070/wisemcp/internal/history"
	"github.com/Cyclone1070/wisemcp/internal/tool"
	"github.com/Cyclone1070/wisemcp/internal/workflow"
)

// Tools holds one adapter per tool of the closed catalogue.
type Tools struct {
	Arxiv  arxivTool
	GitHub githubTool
	Web    webTool
	Search searchTool
	Memory memoryTool
}

func (t Tools) declarers() []declarer {
	return []declarer{t.Arxiv, t.GitHub, t.Web, t.Search, t.Memory}
}

// Outcome is the result of a successful call.
type Outcome struct {
	ConversationID string
	ToolName       tool.Name
	// Result is the adapter payload returned to the caller.
	Result string
	// Recorded is false when the history ledger rejected the record.
	Recorded bool
	// Fragments counts the knowledge fragments written.
	Fragments int
}

// Option configures a ToolManager.
type Option func(*ToolManager)

// WithEvents makes the manager report progress on events. Sends block, so the
// consumer must keep draining until Execute returns.
func WithEvents(events chan<- workflow.Event) Option {
	return func(m *ToolManager) { m.events = events }
}

// WithIDGenerator replaces the conversation id generator.
func WithIDGenerator(newID func() string) Option {
	return func(m *ToolManager) { m.newID = newID }
}

type ToolManager struct {
	registry *Registry
	tools    Tools
	ledger   ledger
	ingester ingester
	logger   *zap.Logger
	events   chan<- workflow.Event
	newID    func() string
}

// NewToolManager registers every adapter in tools. All five adapters, the ledger
// and the ingester are required; a nil pointer stored in an interface counts as
// missing.
func NewToolManager(tools Tools, ledger ledger, ingester ingester, logger *zap.Logger, opts ...Option) (*ToolManager, error) {
	if isNil(ledger) {
		return nil, errors.New("history ledger missing")
	}
	if isNil(ingester) {
		return nil, errors.New("knowledge ingester missing")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	decls := tools.declarers()
	descriptors := make([]tool.Descriptor, 0, len(decls))
	for _, d := range decls {
		if isNil(d) {
			return nil, fmt.Errorf("tool adapter missing (have %d of %d)", len(descriptors), len(decls))
		}
		descriptors = append(descriptors, d.Declaration())
	}

	registry, err := NewRegistry(descriptors...)
	if err != nil {
		return nil, err
	}

	m := &ToolManager{
		registry: registry,
		tools:    tools,
		ledger:   ledger,
		ingester: ingester,
		logger:   logger,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Describe returns the descriptors of every registered tool.
func (m *ToolManager) Describe() []tool.Descriptor {
	return m.registry.Describe()
}

// Execute validates params, runs the named tool and, on success, records the call
// and ingests the adapter's documents. Failures are always *tool.Error and leave
// no history record and no fragments behind.
func (m *ToolManager) Execute(ctx context.Context, name string, params map[string]any) (*Outcome, error) {
	desc, ok := m.registry.Resolve(name)
	if !ok {
		return nil, &tool.Error{
			Kind:     tool.KindToolNotFound,
			Message:  fmt.Sprintf("tool %q does not exist; available tools: %s", name, m.available()),
			ToolName: tool.Name(name),
		}
	}

	checked, err := desc.Validate(params)
	if err != nil {
		return nil, tool.Classify(desc.Name, err)
	}

	call := tool.Call{ConversationID: m.newID()}
	log := m.logger.With(zap.String("tool", string(desc.Name)), zap.String("conversation_id", call.ConversationID))

	m.emit(workflow.ToolStartEvent{ToolName: desc.Name, ConversationID: call.ConversationID})
	start := time.Now()

	res, err := m.invoke(ctx, desc.Name, call, checked)
	if err == nil && res == nil {
		err = tool.Errorf(tool.KindExecutionFailure, "tool returned no result")
	}
	if err != nil {
		te := tool.Classify(desc.Name, err)
		log.Warn("tool call failed", zap.String("error_code", string(te.Kind)), zap.Error(err))
		m.emit(workflow.ToolEndEvent{ToolName: desc.Name, ConversationID: call.ConversationID, Err: te})
		return nil, te
	}
	m.emit(workflow.ToolEndEvent{ToolName: desc.Name, ConversationID: call.ConversationID})

	// bookkeeping must complete even if the caller has gone away
	bctx := context.WithoutCancel(ctx)

	out := &Outcome{
		ConversationID: call.ConversationID,
		ToolName:       desc.Name,
		Result:         res.Payload,
	}
	if !desc.Name.Stateless() {
		out.Recorded = m.record(bctx, log, desc.Name, call, checked, res)
	}
	out.Fragments = m.ingest(bctx, log, desc.Name, call, res.Documents)

	log.Info("tool call completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("recorded", out.Recorded),
		zap.Int("fragments", out.Fragments))
	return out, nil
}

// invoke decodes params into the tool's request type and runs it.
func (m *ToolManager) invoke(ctx context.Context, name tool.Name, call tool.Call, params map[string]any) (*tool.Result, error) {
	switch name {
	case tool.NameQueryArxiv:
		return run(ctx, name, call, params, m.tools.Arxiv.Run)
	case tool.NameSearchGitHubCode:
		return run(ctx, name, call, params, m.tools.GitHub.Run)
	case tool.NameExtractWebContent:
		return run(ctx, name, call, params, m.tools.Web.Run)
	case tool.NameSearchLocalCode:
		return run(ctx, name, call, params, m.tools.Search.Run)
	case tool.NameSearchKnowledgeBase:
		return run(ctx, name, call, params, m.tools.Memory.Run)
	default:
		return nil, tool.Errorf(tool.KindExecutionFailure, "no handler registered for %s", name)
	}
}

func run[Req any](
	ctx context.Context,
	name tool.Name,
	call tool.Call,
	params map[string]any,
	fn func(context.Context, tool.Call, *Req) (*tool.Result, error),
) (*tool.Result, error) {
	var req Req
	if err := tool.Decode(name, params, &req); err != nil {
		return nil, err
	}
	return fn(ctx, call, &req)
}

func (m *ToolManager) record(ctx context.Context, log *zap.Logger, name tool.Name, call tool.Call, params map[string]any, res *tool.Result) bool {
	encoded, err := json.Marshal(params)
	if err != nil {
		log.Error("failed to encode request params for history", zap.Error(err))
		return false
	}

	rec := &history.Record{
		ConversationID:  call.ConversationID,
		ToolName:        name,
		RequestParams:   string(encoded),
		ResponseContent: res.Recorded(),
	}
	if err := m.ledger.Append(ctx, rec); err != nil {
		log.Error("failed to record tool call", zap.Error(err))
		return false
	}
	m.emit(workflow.RecordedEvent{ToolName: name, ConversationID: call.ConversationID, RecordID: rec.ID})
	return true
}

// ingest is best effort: a failed document is logged and skipped.
func (m *ToolManager) ingest(ctx context.Context, log *zap.Logger, name tool.Name, call tool.Call, docs []tool.Document) int {
	total := 0
	for i, doc := range docs {
		n, err := m.ingester.Ingest(ctx, call.ConversationID, doc.Content, doc.Metadata)
		if err != nil {
			log.Warn("failed to ingest document", zap.Int("document", i), zap.Error(err))
			continue
		}
		total += n
		m.emit(workflow.IngestedEvent{ToolName: name, ConversationID: call.ConversationID, Fragments: n})
	}
	return total
}

func (m *ToolManager) emit(ev workflow.Event) {
	if m.events != nil {
		m.events <- ev
	}
}

func (m *ToolManager) available() string {
	names := m.registry.Names()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}
