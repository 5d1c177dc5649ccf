package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"docintake/internal/model"
	"docintake/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// Authors and source pages are stored as JSONB arrays.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, organization_id, title, authors, department, data, source_pages, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*model.Document, error) {
	var d model.Document
	var authorsRaw, pagesRaw []byte
	if err := s.Scan(
		&d.ID,
		&d.OrganizationID,
		&d.Title,
		&authorsRaw,
		&d.Department,
		&d.Data,
		&pagesRaw,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if d.Authors, err = decodeList(authorsRaw); err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}
	if d.SourcePages, err = decodeList(pagesRaw); err != nil {
		return nil, fmt.Errorf("decode source_pages: %w", err)
	}
	return &d, nil
}

func decodeList(raw []byte) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	authors, err := encodeList(doc.Authors)
	if err != nil {
		return nil, fmt.Errorf("encode authors: %w", err)
	}
	pages, err := encodeList(doc.SourcePages)
	if err != nil {
		return nil, fmt.Errorf("encode source_pages: %w", err)
	}

	q := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.OrganizationID,
		doc.Title,
		authors,
		doc.Department,
		doc.Data,
		pages,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document of the organization by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, orgID, id string) (*model.Document, error) {
	q := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1 AND organization_id = $2
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id, orgID))
}

// List returns the organization's documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, orgID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents WHERE organization_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, orgID).Scan(&total); err != nil {
		return nil, err
	}

	qList := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE organization_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, orgID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, orgID, id string) error {
	const q = `DELETE FROM documents WHERE id = $1 AND organization_id = $2`
	_, err := r.db.ExecContext(ctx, q, id, orgID)
	return err
}
