package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/factura/internal/document"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanDocument decodes the JSONB payload and then lets the indexed columns win.
// Expected column order: id, user_id, kind, number, status, is_paid, template, payload, created_at, updated_at, deleted_at
func scanDocument(s scanner) (*document.Document, error) {
	var (
		doc       document.Document
		payload   []byte
		id        uuid.UUID
		userID    string
		kind      string
		number    string
		status    string
		isPaid    bool
		template  string
		createdAt time.Time
		updatedAt *time.Time
		deletedAt *time.Time
	)

	if err := s.Scan(
		&id, &userID, &kind, &number, &status, &isPaid, &template, &payload,
		&createdAt, &updatedAt, &deletedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}

	doc.ID = id
	doc.UserID = userID
	doc.Kind = document.Kind(kind)
	doc.Number = number
	doc.Status = document.Status(status)
	doc.IsPaid = isPaid
	doc.Template = template
	doc.CreatedAt = createdAt
	doc.UpdatedAt = updatedAt
	doc.DeletedAt = deletedAt

	return &doc, nil
}

const selectDocumentColumns = `
	id, user_id, kind, number, status, is_paid, template, payload, created_at, updated_at, deleted_at
`

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Store) CreateDocument(ctx context.Context, doc *document.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	query := `
		INSERT INTO documents (user_id, kind, number, issued_on, status, is_paid, template, total, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		doc.UserID,
		doc.Kind,
		doc.Number,
		doc.Date,
		doc.Status,
		doc.IsPaid,
		doc.Template,
		doc.Total,
		payload,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", document.ErrDuplicateNumber, doc.Number)
		}

		return fmt.Errorf("creating document: %w", err)
	}

	return nil
}

func (s *Store) GetDocument(ctx context.Context, userID string, id uuid.UUID) (*document.Document, error) {
	query := `SELECT ` + selectDocumentColumns + `
		FROM documents
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, document.ErrNotFound
		}

		return nil, fmt.Errorf("getting document: %w", err)
	}

	return doc, nil
}

func (s *Store) ListDocuments(ctx context.Context, filter document.ListFilter) ([]*document.Document, error) {
	query := `SELECT ` + selectDocumentColumns + `
		FROM documents
		WHERE deleted_at IS NULL AND user_id = $1`

	args := []any{filter.UserID}
	argIdx := 2

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argIdx)

		args = append(args, *filter.Kind)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND issued_on >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND issued_on <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY issued_on ASC, number ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.Document

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}

	return docs, nil
}

func (s *Store) UpdateDocument(ctx context.Context, doc *document.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	query := `
		UPDATE documents
		SET number = $1, issued_on = $2::date, status = $3, is_paid = $4, template = $5, total = $6, payload = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		doc.Number,
		doc.Date,
		doc.Status,
		doc.IsPaid,
		doc.Template,
		doc.Total,
		payload,
		doc.ID,
		doc.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", document.ErrDuplicateNumber, doc.Number)
		}

		return fmt.Errorf("updating document: %w", err)
	}

	return expectOneRow(res)
}

func (s *Store) UpdateStatus(ctx context.Context, userID string, id uuid.UUID, status document.Status) error {
	query := `
		UPDATE documents
		SET status = $1, is_paid = ($1 = 'paid') OR is_paid, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, status, id, userID)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return expectOneRow(res)
}

func (s *Store) DeleteDocument(ctx context.Context, userID string, id uuid.UUID) error {
	query := `
		UPDATE documents
		SET deleted_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return document.ErrNotFound
	}

	return nil
}
