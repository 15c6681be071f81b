package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/docstore"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT        NOT NULL,
    id         TEXT        NOT NULL,
    data       JSONB       NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_data_gin ON documents USING GIN (data);
`

const uniqueViolation = "23505"

type Store struct {
	DB  *sqlx.DB
	now func() time.Time
}

var _ docstore.Client = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	return &Store{DB: db, now: time.Now}
}

// Migrate creates the documents table if needed.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, schema)
	return err
}

type documentRow struct {
	ID        string    `db:"id"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (s *Store) ListDocuments(ctx context.Context, collection string, queries ...docstore.Query) (*docstore.DocumentList, error) {
	q, err := buildListQuery(collection, queries)
	if err != nil {
		return nil, err
	}

	var total int
	if err := s.DB.GetContext(ctx, &total, s.DB.Rebind(q.CountSQL), q.CountArgs...); err != nil {
		return nil, fmt.Errorf("count %s: %w", collection, err)
	}

	var rows []documentRow
	if err := s.DB.SelectContext(ctx, &rows, s.DB.Rebind(q.SQL), q.Args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	out := &docstore.DocumentList{Total: total, Documents: make([]docstore.Document, 0, len(rows))}
	for _, row := range rows {
		doc, err := row.toDocument()
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		out.Documents = append(out.Documents, *doc)
	}
	return out, nil
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (*docstore.Document, error) {
	var row documentRow
	query := `SELECT id, data, created_at, updated_at FROM documents WHERE collection = $1 AND id = $2 LIMIT 1`
	if err := s.DB.GetContext(ctx, &row, query, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return row.toDocument()
}

func (s *Store) CreateDocument(ctx context.Context, collection, id string, data map[string]any) (*docstore.Document, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	var row documentRow
	query := `
        INSERT INTO documents (collection, id, data, created_at, updated_at)
        VALUES ($1, $2, $3::jsonb, $4, $4)
        RETURNING id, data, created_at, updated_at
    `
	if err := s.DB.GetContext(ctx, &row, query, collection, id, string(payload), s.now().UTC()); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, docstore.ErrConflict
		}
		return nil, fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	return row.toDocument()
}

// UpdateDocument merges data into the stored object; attributes not named are kept.
func (s *Store) UpdateDocument(ctx context.Context, collection, id string, data map[string]any) (*docstore.Document, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	var row documentRow
	query := `
        UPDATE documents
        SET data = data || $3::jsonb,
            updated_at = $4
        WHERE collection = $1 AND id = $2
        RETURNING id, data, created_at, updated_at
    `
	if err := s.DB.GetContext(ctx, &row, query, collection, id, string(payload), s.now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return row.toDocument()
}

func (r documentRow) toDocument() (*docstore.Document, error) {
	fields := map[string]any{}
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &fields); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", r.ID, err)
		}
	}
	fields[docstore.AttrID] = r.ID
	fields[docstore.AttrCreatedAt] = r.CreatedAt.UTC().Format(time.RFC3339Nano)
	fields[docstore.AttrUpdatedAt] = r.UpdatedAt.UTC().Format(time.RFC3339Nano)

	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var doc docstore.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
