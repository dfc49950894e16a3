package metadatastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dod-acq/orchestrator/doctype"
	"github.com/dod-acq/orchestrator/doctype/docid"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	doc_id     TEXT PRIMARY KEY,
	doc_type   TEXT NOT NULL,
	program    TEXT NOT NULL,
	created_at TEXT NOT NULL,
	payload    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_type_program_created
	ON documents(doc_type, program, created_at DESC);
`

// SQLiteStore is the durable Store backed by a pure-Go (cgo-free) SQLite
// database. One row per doc_id; the full GeneratedDocument round-trips
// through a JSON payload column rather than a wide relational schema, since
// callers only ever address documents by doc_id or by the (type, program)
// pair indexed above.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) a SQLite database at path
// and ensures its schema exists. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrap("open", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite: one writer at a time is simplest and safe
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, wrap("migrate", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type payload struct {
	Type          doctype.Type          `json:"type"`
	Program       string                `json:"program"`
	Content       string                `json:"content"`
	ExtractedData doctype.ExtractedData `json:"extracted_data"`
	References    *doctype.References   `json:"references"`
	Metadata      doctype.Metadata      `json:"metadata"`
	CreatedAt     time.Time             `json:"created_at"`
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, doc *doctype.GeneratedDocument) (string, error) {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.DocID == "" {
		doc.DocID = docid.New(string(doc.Type), doc.Program, doc.CreatedAt)
	}

	p := payload{
		Type:          doc.Type,
		Program:       doc.Program,
		Content:       doc.Content,
		ExtractedData: doc.ExtractedData,
		References:    doc.References,
		Metadata:      doc.Metadata,
		CreatedAt:     doc.CreatedAt,
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", wrap("save", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (doc_id, doc_type, program, created_at, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			doc_type=excluded.doc_type, program=excluded.program,
			created_at=excluded.created_at, payload=excluded.payload
	`, doc.DocID, string(doc.Type), doc.Program, doc.CreatedAt.UTC().Format(time.RFC3339Nano), string(raw))
	if err != nil {
		return "", wrap("save", err)
	}
	return doc.DocID, nil
}

// FindLatest implements Store.
func (s *SQLiteStore) FindLatest(ctx context.Context, t doctype.Type, program string) (*doctype.GeneratedDocument, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT doc_id, payload FROM documents
		WHERE doc_type = ? AND program = ?
		ORDER BY created_at DESC LIMIT 1
	`, string(t), program)
	doc, err := scanOne(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("find_latest", err)
	}
	return doc, nil
}

// FindByProgram implements Store.
func (s *SQLiteStore) FindByProgram(ctx context.Context, program string) ([]*doctype.GeneratedDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, payload FROM documents
		WHERE program = ?
		ORDER BY created_at DESC
	`, program)
	if err != nil {
		return nil, wrap("find_by_program", err)
	}
	defer rows.Close()

	var out []*doctype.GeneratedDocument
	for rows.Next() {
		doc, err := scanRows(rows)
		if err != nil {
			return nil, wrap("find_by_program", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("find_by_program", err)
	}
	return out, nil
}

// Lookup implements Store.
func (s *SQLiteStore) Lookup(ctx context.Context, docID string) (*doctype.GeneratedDocument, error) {
	row := s.db.QueryRowContext(ctx, `SELECT doc_id, payload FROM documents WHERE doc_id = ?`, docID)
	doc, err := scanOne(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("lookup", err)
	}
	return doc, nil
}

func scanOne(row *sql.Row) (*doctype.GeneratedDocument, error) {
	var docID, raw string
	if err := row.Scan(&docID, &raw); err != nil {
		return nil, err
	}
	return decode(docID, raw)
}

func scanRows(rows *sql.Rows) (*doctype.GeneratedDocument, error) {
	var docID, raw string
	if err := rows.Scan(&docID, &raw); err != nil {
		return nil, err
	}
	return decode(docID, raw)
}

func decode(docID, raw string) (*doctype.GeneratedDocument, error) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode payload for %s: %w", docID, err)
	}
	return &doctype.GeneratedDocument{
		DocID:         docID,
		Type:          p.Type,
		Program:       p.Program,
		Content:       p.Content,
		ExtractedData: p.ExtractedData,
		References:    p.References,
		Metadata:      p.Metadata,
		CreatedAt:     p.CreatedAt,
	}, nil
}

var _ Store = (*SQLiteStore)(nil)
