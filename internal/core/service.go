package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/tblstore/internal/config"
	"github.com/JonMunkholm/tblstore/internal/logging"
	"github.com/JonMunkholm/tblstore/internal/table"
	"github.com/google/uuid"
)

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrEmptyFile    = errors.New("empty file")
	ErrNoFile       = errors.New("no file provided")
)

// Service parses uploaded delimited text and keeps parsed tables in a Store.
type Service struct {
	store   Store
	limiter *Limiter

	maxFileSize   int64
	uploadTimeout time.Duration
	historyLimit  int

	newID func() string
}

// NewService creates a Service using the upload settings in cfg.
func NewService(store Store, cfg config.UploadConfig) *Service {
	return &Service{
		store:         store,
		limiter:       NewLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		maxFileSize:   cfg.MaxFileSize,
		uploadTimeout: cfg.Timeout,
		historyLimit:  cfg.HistoryLimit,
		newID:         uuid.NewString,
	}
}

// Parse decodes and parses r without storing it. size is the expected byte
// count, or 0 if unknown. A table that fails to parse is returned as an error
// wrapping its *table.ParseError.
func (s *Service) Parse(ctx context.Context, name string, r io.Reader, size int64) (*ParseResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	return s.parse(ctx, name, r, size)
}

func (s *Service) parse(ctx context.Context, name string, r io.Reader, size int64) (*ParseResult, error) {
	start := time.Now()
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return nil, fmt.Errorf("%s: %w", name, ErrFileTooLarge)
	}

	if s.maxFileSize > 0 {
		r = io.LimitReader(r, s.maxFileSize+1)
	}
	tr := NewTextReader(r, size)
	var sb strings.Builder
	if size > 0 {
		sb.Grow(int(size))
	}
	if _, err := io.Copy(&sb, tr); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case s.maxFileSize > 0 && tr.BytesRead() > s.maxFileSize:
		return nil, fmt.Errorf("%s: %w", name, ErrFileTooLarge)
	case tr.BytesRead() == 0:
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyFile)
	}

	text := sb.String()
	t := table.Parse(text)
	if !t.Valid() {
		logging.WithFields(ctx, "file", name).Info("parse failed", "error", t.Err())
		return nil, fmt.Errorf("parse %s: %w", name, t.Err())
	}

	res := &ParseResult{
		FileName:  name,
		SizeBytes: tr.BytesRead(),
		Duration:  time.Since(start),
		Table:     t,
		text:      text,
	}
	logging.WithFields(ctx, "file", name).Debug("parsed table",
		"delimiter", t.Dialect().DelimiterName(),
		"format", t.Dialect().Format.String(),
		"rows", t.NumRows(),
		"columns", t.NumColumns(),
		"duration", res.Duration,
	)
	return res, nil
}

// Upload parses r and stores the table under a new ID.
func (s *Service) Upload(ctx context.Context, name string, r io.Reader, size int64) (*UploadResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	res, err := s.parse(ctx, name, r, size)
	if err != nil {
		return nil, err
	}

	rec := recordFor(s.newID(), name, res.SizeBytes, res.Table)
	rec.ClientIP = ClientIPFromContext(ctx)

	saveCtx := ctx
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		saveCtx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}
	rec, err = s.store.SaveTable(saveCtx, rec, res.text, res.Table)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", name, err)
	}

	logging.WithFields(ctx, "upload_id", rec.ID, "file", name).Info("table stored",
		"rows", rec.NumRows,
		"columns", rec.NumColumns,
		"bytes", rec.SizeBytes,
	)
	return &UploadResult{
		Record:   rec,
		Columns:  Summarize(res.Table),
		Duration: res.Duration,
	}, nil
}

// Table loads a stored upload and parses it again.
func (s *Service) Table(ctx context.Context, id string) (*StoredTable, error) {
	rec, body, err := s.store.LoadTable(ctx, id)
	if err != nil {
		return nil, err
	}
	t := table.Parse(body)
	if !t.Valid() {
		return nil, fmt.Errorf("stored upload %s: %w", id, t.Err())
	}
	return &StoredTable{Record: rec, Table: t}, nil
}

// ListUploads returns the newest uploads; limit <= 0 uses the configured
// history limit.
func (s *Service) ListUploads(ctx context.Context, limit int) ([]UploadRecord, error) {
	if limit <= 0 {
		limit = s.historyLimit
	}
	return s.store.ListUploads(ctx, limit)
}

// DeleteUpload removes an upload and its cells.
func (s *Service) DeleteUpload(ctx context.Context, id string) error {
	if err := s.store.DeleteUpload(ctx, id); err != nil {
		return err
	}
	logging.WithFields(ctx, "upload_id", id).Info("upload deleted")
	return nil
}

// LimiterStatus reports upload slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
