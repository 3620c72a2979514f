package knowledge

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/Cyclone1070/wisemcp/internal/tool"
)

const (
	contentField  = "content"
	metadataField = "metadata"

	// DefaultQueryLimit is used when Query is called with a non-positive limit.
	DefaultQueryLimit = 10
)

// Fragment is a chunk of ingested text with its metadata.
type Fragment struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Match is a fragment ranked against one query text.
type Match struct {
	Fragment
	Score float64 `json:"score"`
}

// QueryResult holds the ranked matches for one query text.
type QueryResult struct {
	Query   string  `json:"query"`
	Matches []Match `json:"matches"`
}

// FilterError is returned when a metadata filter value cannot be expressed as an exact match.
type FilterError struct {
	Key   string
	Value any
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("unsupported filter value for %q: %T", e.Key, e.Value)
}

func (e *FilterError) InvalidInput() bool { return true }

// indexedFragment is the document shape stored in the index.
type indexedFragment struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// Store is the similarity-searchable knowledge index.
// Writes are keyed by content address, so Upsert replaces instead of duplicating.
type Store struct {
	index bleve.Index
}

// Open opens the index at path, creating it when missing.
// An empty path opens an in-memory index.
func Open(path string) (*Store, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(newMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory knowledge index: %w", err)
		}
		return &Store{index: idx}, nil
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, newMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge index at %s: %w", path, err)
	}
	return &Store{index: idx}, nil
}

// newMapping indexes content as analysed text and metadata values as exact keywords.
func newMapping() mapping.IndexMapping {
	content := bleve.NewTextFieldMapping()
	content.Analyzer = standard.Name

	meta := bleve.NewDocumentMapping()
	meta.DefaultAnalyzer = keyword.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(contentField, content)
	doc.AddSubDocumentMapping(metadataField, meta)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	return im
}

// Upsert writes each (id, fragment, metadata) triple, replacing any entry with the same id.
func (s *Store) Upsert(ctx context.Context, ids, fragments []string, metadatas []map[string]any) error {
	if len(ids) != len(fragments) || len(ids) != len(metadatas) {
		return tool.Errorf(tool.KindStoreFailure,
			"upsert length mismatch: %d ids, %d fragments, %d metadatas", len(ids), len(fragments), len(metadatas))
	}
	if len(ids) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return tool.Wrap(tool.KindStoreFailure, err, "upsert cancelled")
	}

	batch := s.index.NewBatch()
	for i, id := range ids {
		doc := indexedFragment{Content: fragments[i], Metadata: metadatas[i]}
		if err := batch.Index(id, doc); err != nil {
			return tool.Wrap(tool.KindStoreFailure, err, "failed to stage fragment %s", id)
		}
	}
	if err := s.index.Batch(batch); err != nil {
		return tool.Wrap(tool.KindStoreFailure, err, "failed to write %d fragments", len(ids))
	}
	return nil
}

// Query ranks stored fragments against each query text.
// where restricts results to fragments whose metadata equals every given value.
func (s *Store) Query(ctx context.Context, queryTexts []string, limit int, where map[string]any) ([]QueryResult, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	filters, err := buildFilters(where)
	if err != nil {
		return nil, err
	}

	results := make([]QueryResult, 0, len(queryTexts))
	for _, text := range queryTexts {
		match := bleve.NewMatchQuery(text)
		match.SetField(contentField)

		var q query.Query = match
		if len(filters) > 0 {
			q = bleve.NewConjunctionQuery(append([]query.Query{match}, filters...)...)
		}

		req := bleve.NewSearchRequestOptions(q, limit, 0, false)
		req.Fields = []string{"*"}

		res, err := s.index.SearchInContext(ctx, req)
		if err != nil {
			return nil, tool.Wrap(tool.KindStoreFailure, err, "knowledge query failed")
		}

		matches := make([]Match, 0, len(res.Hits))
		for _, hit := range res.Hits {
			content, _ := hit.Fields[contentField].(string)
			matches = append(matches, Match{
				Fragment: Fragment{
					ID:       hit.ID,
					Content:  content,
					Metadata: metadataFromFields(hit.Fields),
				},
				Score: hit.Score,
			})
		}
		results = append(results, QueryResult{Query: text, Matches: matches})
	}
	return results, nil
}

// Count returns the number of stored fragments.
func (s *Store) Count() (uint64, error) {
	n, err := s.index.DocCount()
	if err != nil {
		return 0, tool.Wrap(tool.KindStoreFailure, err, "failed to count fragments")
	}
	return n, nil
}

// Close releases the underlying index.
func (s *Store) Close() error {
	return s.index.Close()
}

func buildFilters(where map[string]any) ([]query.Query, error) {
	if len(where) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	filters := make([]query.Query, 0, len(keys))
	for _, key := range keys {
		field := metadataField + "." + key
		switch v := where[key].(type) {
		case string:
			q := bleve.NewTermQuery(v)
			q.SetField(field)
			filters = append(filters, q)
		case bool:
			q := bleve.NewBoolFieldQuery(v)
			q.SetField(field)
			filters = append(filters, q)
		case float64, int, int64:
			f := toFloat(v)
			inclusive := true
			q := bleve.NewNumericRangeInclusiveQuery(&f, &f, &inclusive, &inclusive)
			q.SetField(field)
			filters = append(filters, q)
		default:
			return nil, &FilterError{Key: key, Value: v}
		}
	}
	return filters, nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func metadataFromFields(fields map[string]any) map[string]any {
	prefix := metadataField + "."
	var meta map[string]any
	for name, value := range fields {
		key, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		if meta == nil {
			meta = make(map[string]any)
		}
		meta[key] = value
	}
	return meta
}
