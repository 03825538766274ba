package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/tblstore/internal/table"
)

// MemStore is a Store held in memory. Records are lost on restart.
type MemStore struct {
	mu      sync.RWMutex
	uploads map[string]memUpload
	now     func() time.Time
}

type memUpload struct {
	rec  UploadRecord
	body string
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		uploads: make(map[string]memUpload),
		now:     time.Now,
	}
}

// SaveTable implements Store.
func (m *MemStore) SaveTable(ctx context.Context, rec UploadRecord, body string, _ *table.Table) (UploadRecord, error) {
	if err := ctx.Err(); err != nil {
		return rec, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.CreatedAt = m.now()
	m.uploads[rec.ID] = memUpload{rec: rec, body: body}
	return rec, nil
}

// LoadTable implements Store.
func (m *MemStore) LoadTable(ctx context.Context, id string) (UploadRecord, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.uploads[id]
	if !ok {
		return UploadRecord{}, "", ErrUploadNotFound
	}
	return u.rec, u.body, nil
}

// ListUploads implements Store.
func (m *MemStore) ListUploads(ctx context.Context, limit int) ([]UploadRecord, error) {
	m.mu.RLock()
	recs := make([]UploadRecord, 0, len(m.uploads))
	for _, u := range m.uploads {
		recs = append(recs, u.rec)
	}
	m.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].ID > recs[j].ID
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// DeleteUpload implements Store.
func (m *MemStore) DeleteUpload(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.uploads[id]; !ok {
		return ErrUploadNotFound
	}
	delete(m.uploads, id)
	return nil
}
