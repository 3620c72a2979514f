// Package history persists an append-only record of every successful tool call.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/Cyclone1070/wisemcp/internal/tool"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS tool_call_history (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id  TEXT    NOT NULL,
	timestamp        INTEGER NOT NULL,
	tool_name        TEXT    NOT NULL,
	request_params   TEXT    NOT NULL,
	response_content TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_conversation ON tool_call_history(conversation_id);
CREATE INDEX IF NOT EXISTS idx_history_tool ON tool_call_history(tool_name);
`

// Record is one persisted tool call.
type Record struct {
	ID              int64     `json:"id"`
	ConversationID  string    `json:"conversation_id"`
	Timestamp       time.Time `json:"timestamp"`
	ToolName        tool.Name `json:"tool_name"`
	RequestParams   string    `json:"request_params"`
	ResponseContent string    `json:"response_content"`
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	ConversationID string
	ToolName       tool.Name
	Limit          int
}

// Ledger is the SQLite-backed history store. It exposes no update or delete.
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the ledger database at path.
func Open(ctx context.Context, path string) (*Ledger, error) {
	source, err := dsn(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve history database path: %w", err)
	}
	db, err := sql.Open("sqlite", source)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// one writer connection; SQLite serialises writes anyway
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialise history schema: %w", err)
	}

	return &Ledger{db: db, now: time.Now}, nil
}

// dsn builds a file: URI for path. The path is made absolute, since a relative one
// would be read as the URI authority, and escaped so that '?', '#' and '%' stay part
// of the file name.
func dsn(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(abs),
		RawQuery: url.Values{
			"_pragma": {"busy_timeout(5000)", "journal_mode(WAL)"},
		}.Encode(),
	}
	return u.String(), nil
}

// Append writes rec and fills in its ID and Timestamp.
func (l *Ledger) Append(ctx context.Context, rec *Record) error {
	rec.Timestamp = l.now().UTC()

	res, err := l.db.ExecContext(ctx,
		`INSERT INTO tool_call_history (conversation_id, timestamp, tool_name, request_params, response_content)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ConversationID, rec.Timestamp.UnixNano(), string(rec.ToolName), rec.RequestParams, rec.ResponseContent,
	)
	if err != nil {
		return tool.Wrap(tool.KindStoreFailure, err, "failed to append history record")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return tool.Wrap(tool.KindStoreFailure, err, "failed to read history record id")
	}
	rec.ID = id
	return nil
}

// List returns records in append order.
func (l *Ledger) List(ctx context.Context, f Filter) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	if f.ConversationID != "" {
		where = append(where, "conversation_id = ?")
		args = append(args, f.ConversationID)
	}
	if f.ToolName != "" {
		where = append(where, "tool_name = ?")
		args = append(args, string(f.ToolName))
	}

	q := "SELECT id, conversation_id, timestamp, tool_name, request_params, response_content FROM tool_call_history"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, tool.Wrap(tool.KindStoreFailure, err, "failed to query history")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec  Record
			ts   int64
			name string
		)
		if err := rows.Scan(&rec.ID, &rec.ConversationID, &ts, &name, &rec.RequestParams, &rec.ResponseContent); err != nil {
			return nil, tool.Wrap(tool.KindStoreFailure, err, "failed to scan history record")
		}
		rec.Timestamp = time.Unix(0, ts).UTC()
		rec.ToolName = tool.Name(name)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, tool.Wrap(tool.KindStoreFailure, err, "failed to read history")
	}
	return records, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
