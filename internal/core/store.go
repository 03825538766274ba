package core

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/JonMunkholm/tblstore/internal/table"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// ErrUploadNotFound is returned for unknown or malformed upload IDs.
var ErrUploadNotFound = errors.New("upload not found")

// Store persists parsed tables.
type Store interface {
	// SaveTable stores rec, the decoded body and every cell of t in one
	// transaction. The returned record carries the creation time.
	SaveTable(ctx context.Context, rec UploadRecord, body string, t *table.Table) (UploadRecord, error)

	// LoadTable returns the record and decoded body for id.
	LoadTable(ctx context.Context, id string) (UploadRecord, string, error)

	// ListUploads returns the newest uploads first.
	ListUploads(ctx context.Context, limit int) ([]UploadRecord, error)

	DeleteUpload(ctx context.Context, id string) error
}

// cellColumns is the COPY column order produced by cellRow.
var cellColumns = []string{
	"upload_id", "row_index", "column_index", "row_key",
	"kind", "int_value", "float_value", "text_value",
}

// PgStore is the PostgreSQL Store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a store backed by pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureSchema creates the upload and cell tables if they do not exist.
func (s *PgStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SaveTable implements Store.
func (s *PgStore) SaveTable(ctx context.Context, rec UploadRecord, body string, t *table.Table) (UploadRecord, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return rec, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if rec, err = insertTable(ctx, tx, rec, body, t); err != nil {
		return rec, err
	}

	if err := tx.Commit(ctx); err != nil {
		return rec, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

func insertTable(ctx context.Context, db DBTX, rec UploadRecord, body string, t *table.Table) (UploadRecord, error) {
	id := ToPgUUID(rec.ID)
	if !id.Valid {
		return rec, fmt.Errorf("invalid upload id %q", rec.ID)
	}

	err := db.QueryRow(ctx, `
		INSERT INTO table_uploads
			(id, file_name, delimiter, number_format, num_rows, num_columns, columns, size_bytes, client_ip, body)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		id, rec.FileName, rec.Delimiter, rec.Format, rec.NumRows, rec.NumColumns,
		rec.Columns, rec.SizeBytes, ToPgText(rec.ClientIP), body,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return rec, fmt.Errorf("insert upload: %w", err)
	}

	keys := t.RowKeys()
	total := t.NumRows() * t.NumColumns()
	n, err := db.CopyFrom(ctx, pgx.Identifier{"table_cells"}, cellColumns,
		pgx.CopyFromSlice(total, func(i int) ([]any, error) {
			return cellRow(id, t, keys, i), nil
		}))
	if err != nil {
		return rec, fmt.Errorf("copy cells: %w", err)
	}
	if n != int64(total) {
		return rec, fmt.Errorf("copy cells: wrote %d of %d", n, total)
	}
	return rec, nil
}

// cellRow converts the i-th cell in row-major order to a COPY row.
func cellRow(id pgtype.UUID, t *table.Table, keys []string, i int) []any {
	row, col := i/t.NumColumns(), i%t.NumColumns()
	c := t.Data(row, col)
	return []any{
		id,
		int32(row),
		int32(col),
		keys[row],
		c.Kind().String(),
		CellToPgInt8(c),
		CellToPgFloat8(c),
		CellToPgText(c),
	}
}

// LoadTable implements Store.
func (s *PgStore) LoadTable(ctx context.Context, id string) (UploadRecord, string, error) {
	pgID := ToPgUUID(id)
	if !pgID.Valid {
		return UploadRecord{}, "", ErrUploadNotFound
	}

	var body string
	row := s.pool.QueryRow(ctx, `SELECT `+uploadColumns+`, body FROM table_uploads WHERE id = $1`, pgID)
	rec, err := scanUpload(row, &body)
	if errors.Is(err, pgx.ErrNoRows) {
		return UploadRecord{}, "", ErrUploadNotFound
	}
	if err != nil {
		return UploadRecord{}, "", fmt.Errorf("load upload: %w", err)
	}
	return rec, body, nil
}

// ListUploads implements Store.
func (s *PgStore) ListUploads(ctx context.Context, limit int) ([]UploadRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+uploadColumns+` FROM table_uploads ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (UploadRecord, error) {
		return scanUpload(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return recs, nil
}

// DeleteUpload implements Store. Cells go with the upload via ON DELETE CASCADE.
func (s *PgStore) DeleteUpload(ctx context.Context, id string) error {
	pgID := ToPgUUID(id)
	if !pgID.Valid {
		return ErrUploadNotFound
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM table_uploads WHERE id = $1`, pgID)
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUploadNotFound
	}
	return nil
}

const uploadColumns = `id, file_name, delimiter, number_format, num_rows, num_columns, columns, size_bytes, client_ip, created_at`

// scanUpload reads the uploadColumns, followed by any extra destinations.
func scanUpload(row pgx.Row, extra ...any) (UploadRecord, error) {
	var (
		rec      UploadRecord
		id       pgtype.UUID
		clientIP pgtype.Text
	)
	dest := append([]any{
		&id, &rec.FileName, &rec.Delimiter, &rec.Format, &rec.NumRows, &rec.NumColumns,
		&rec.Columns, &rec.SizeBytes, &clientIP, &rec.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return UploadRecord{}, err
	}
	rec.ID = PgUUIDToString(id)
	rec.ClientIP = clientIP.String
	return rec, nil
}
