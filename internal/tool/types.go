package tool

import (
	"bytes"
	"encoding/json"
)

// Type represents JSON Schema types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Name identifies one tool of the closed catalogue.
type Name string

const (
	NameQueryArxiv          Name = "query_arxiv"
	NameSearchGitHubCode    Name = "search_github_code"
	NameExtractWebContent   Name = "extract_web_content"
	NameSearchLocalCode     Name = "search_local_codebase"
	NameSearchKnowledgeBase Name = "search_internal_knowledge_base"
)

// Stateless reports whether calls to the tool are kept out of the history ledger.
func (n Name) Stateless() bool {
	return n == NameSearchKnowledgeBase
}

// Property is a single declared parameter of a tool.
type Property struct {
	Name        string
	Type        Type
	Description string
	Default     any
	Items       *Property // element schema for arrays
}

// Schema is the parameter schema of a tool. Properties keep declaration order.
type Schema struct {
	Properties []Property
	Required   []string
}

// Lookup returns the declared property with the given name.
func (s Schema) Lookup(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

type propertyJSON struct {
	Type        Type          `json:"type"`
	Description string        `json:"description,omitempty"`
	Default     any           `json:"default,omitempty"`
	Items       *propertyJSON `json:"items,omitempty"`
}

func toPropertyJSON(p Property) *propertyJSON {
	out := &propertyJSON{Type: p.Type, Description: p.Description, Default: p.Default}
	if p.Items != nil {
		out.Items = toPropertyJSON(*p.Items)
	}
	return out
}

// MarshalJSON renders the schema as a JSON Schema object, properties in declaration order.
func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"object","properties":{`)
	for i, p := range s.Properties {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(toPropertyJSON(p))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString(`},"required":`)
	required := s.Required
	if required == nil {
		required = []string{}
	}
	req, err := json.Marshal(required)
	if err != nil {
		return nil, err
	}
	buf.Write(req)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Descriptor declares a tool's name, purpose and parameter schema.
type Descriptor struct {
	Name        Name   `json:"name"`
	Description string `json:"description"`
	Parameters  Schema `json:"parameters"`
}

// Call carries the per-invocation context handed to every adapter.
type Call struct {
	ConversationID string
}

// Document is adapter output that should be ingested into the knowledge store.
type Document struct {
	Content  string
	Metadata map[string]any
}

// Result is returned by adapters on success.
type Result struct {
	// Payload is the serialized result returned to the caller.
	Payload string
	// HistoryPayload, when set, is stored in the ledger instead of Payload.
	HistoryPayload string
	// Documents lists content to ingest. Nil for tools that are not ingestible.
	Documents []Document
}

// Recorded returns the payload persisted in history.
func (r *Result) Recorded() string {
	if r.HistoryPayload != "" {
		return r.HistoryPayload
	}
	return r.Payload
}
