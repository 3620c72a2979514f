package knowledge

import (
	"context"
	"maps"

	"go.uber.org/zap"
)

// Metadata keys added to every fragment by the pipeline.
const (
	MetaConversationID = "conversation_id"
	MetaChunkIndex     = "chunk_index"
	MetaChunkCount     = "chunk_count"
)

// upserter is the write side of the knowledge store.
type upserter interface {
	Upsert(ctx context.Context, ids, fragments []string, metadatas []map[string]any) error
}

// Pipeline chunks text, derives content addresses and upserts the fragments.
type Pipeline struct {
	store  upserter
	logger *zap.Logger
}

// NewPipeline creates a Pipeline writing into store.
func NewPipeline(store upserter, logger *zap.Logger) *Pipeline {
	if store == nil {
		panic("store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{store: store, logger: logger}
}

// Ingest stores text as content-addressed fragments and returns how many were written.
// Each fragment gets its own copy of metadata extended with its chunk position.
// Text that yields no fragments is a no-op.
func (p *Pipeline) Ingest(ctx context.Context, conversationID, text string, metadata map[string]any) (int, error) {
	chunks := Chunk(text)
	if len(chunks) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(chunks))
	fragments := make([]string, 0, len(chunks))
	seen := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		id := AddressOf(c)
		// identical paragraphs within one document collapse to one fragment
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		fragments = append(fragments, c)
	}

	metadatas := make([]map[string]any, len(fragments))
	for i := range fragments {
		m := make(map[string]any, len(metadata)+3)
		maps.Copy(m, metadata)
		if conversationID != "" {
			m[MetaConversationID] = conversationID
		}
		m[MetaChunkIndex] = i
		m[MetaChunkCount] = len(fragments)
		metadatas[i] = m
	}

	if err := p.store.Upsert(ctx, ids, fragments, metadatas); err != nil {
		return 0, err
	}

	p.logger.Debug("ingested fragments",
		zap.String("conversation_id", conversationID),
		zap.Int("fragments", len(fragments)))
	return len(fragments), nil
}
