package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/tblstore/internal/config"
	"github.com/JonMunkholm/tblstore/internal/table"
)

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		MaxFileSize:   1024,
		MaxConcurrent: 2,
		MaxWaitTime:   50 * time.Millisecond,
		Timeout:       time.Second,
		HistoryLimit:  2,
		PreviewRows:   10,
	}
}

func newTestService(t *testing.T) (*Service, *MemStore) {
	t.Helper()
	store := NewMemStore()
	svc := NewService(store, testUploadConfig())
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("00000000-0000-0000-0000-%012d", n)
	}
	return svc, store
}

func TestService_Upload(t *testing.T) {
	svc, store := newTestService(t)
	ctx := ContextWithClientIP(context.Background(), "203.0.113.7")

	text := "id,name,score\n1,Ann,3.5\n2,Bob,4\n"
	res, err := svc.Upload(ctx, "people.csv", strings.NewReader(text), int64(len(text)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	rec := res.Record
	if rec.ID != "00000000-0000-0000-0000-000000000001" {
		t.Errorf("ID = %q", rec.ID)
	}
	if rec.Delimiter != "comma" || rec.Format != "international" {
		t.Errorf("dialect = %s/%s, want comma/international", rec.Delimiter, rec.Format)
	}
	if rec.NumRows != 2 || rec.NumColumns != 3 {
		t.Errorf("shape = %dx%d, want 2x3", rec.NumRows, rec.NumColumns)
	}
	if rec.SizeBytes != int64(len(text)) {
		t.Errorf("SizeBytes = %d, want %d", rec.SizeBytes, len(text))
	}
	if rec.ClientIP != "203.0.113.7" {
		t.Errorf("ClientIP = %q", rec.ClientIP)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not set by store")
	}

	wantKinds := []string{"int", "string", "float"}
	for i, col := range res.Columns {
		if col.Kind() != wantKinds[i] {
			t.Errorf("column %s kind = %s, want %s", col.Name, col.Kind(), wantKinds[i])
		}
	}

	_, body, err := store.LoadTable(ctx, rec.ID)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if body != text {
		t.Errorf("stored body = %q, want %q", body, text)
	}
}

func TestService_Table(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	text := "name;price\napple;1,5\npear;2\n"
	res, err := svc.Upload(ctx, "fruit.csv", strings.NewReader(text), 0)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	st, err := svc.Table(ctx, res.Record.ID)
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if st.Record.ID != res.Record.ID {
		t.Errorf("record ID = %q", st.Record.ID)
	}
	if got := table.GetByName[float64](st.Table, "apple", "price"); got != 1.5 {
		t.Errorf("apple price = %v, want 1.5", got)
	}
	if got := table.GetByName[int64](st.Table, "pear", "price"); got != 2 {
		t.Errorf("pear price = %v, want 2", got)
	}

	if _, err := svc.Table(ctx, "missing"); !errors.Is(err, ErrUploadNotFound) {
		t.Errorf("Table(missing) err = %v, want ErrUploadNotFound", err)
	}
}

func TestService_ParseErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   []byte
		size    int64
		wantErr error
		line    int
	}{
		{"column mismatch", []byte("a,b\n1,2\n3\n"), 0, table.ErrColumnCount, 3},
		{"no delimiter", []byte("justone\n1\n"), 0, table.ErrNoDelimiter, 1},
		{"stray quote", []byte("a,b\n\"x\"y,1\n"), 0, table.ErrBareQuote, 2},
		{"empty", nil, 0, ErrEmptyFile, 0},
		{"declared too large", []byte("a,b\n"), 4096, ErrFileTooLarge, 0},
		{"actually too large", bytes.Repeat([]byte("a,b\n"), 300), 0, ErrFileTooLarge, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Parse(ctx, "f.csv", bytes.NewReader(tt.input), tt.size)
			if res != nil {
				t.Errorf("expected nil result, got %+v", res)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.line == 0 {
				return
			}
			var pe *table.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err %v does not wrap *table.ParseError", err)
			}
			if pe.Line != tt.line {
				t.Errorf("line = %d, want %d", pe.Line, tt.line)
			}
		})
	}
}

func TestService_ParseDecodesText(t *testing.T) {
	svc, _ := newTestService(t)

	input := append([]byte{0xEF, 0xBB, 0xBF}, "id\tcity\n7\tZürich\n"...)
	res, err := svc.Parse(context.Background(), "bom.tsv", bytes.NewReader(input), 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := res.Table.Columns()[0]; got != "id" {
		t.Errorf("first column = %q, want BOM stripped", got)
	}
	if got := table.Get[string](res.Table, 0, 1); got != "Zürich" {
		t.Errorf("city = %q", got)
	}
	if res.SizeBytes != int64(len(input)) {
		t.Errorf("SizeBytes = %d, want raw size %d", res.SizeBytes, len(input))
	}
}

func TestService_LimiterBusy(t *testing.T) {
	svc, _ := newTestService(t)
	for svc.limiter.TryAcquire() {
	}
	defer func() {
		for svc.limiter.Active() > 0 {
			svc.limiter.Release()
		}
	}()

	_, err := svc.Upload(context.Background(), "a.csv", strings.NewReader("a,b\n"), 0)
	if !errors.Is(err, ErrTooManyUploads) {
		t.Fatalf("err = %v, want ErrTooManyUploads", err)
	}
	if st := svc.LimiterStatus(); st.Available != 0 {
		t.Errorf("Available = %d, want 0", st.Available)
	}
}

func TestService_ListAndDelete(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, name := range []string{"a.csv", "b.csv", "c.csv"} {
		if _, err := svc.Upload(ctx, name, strings.NewReader("k,v\nx,1\n"), 0); err != nil {
			t.Fatalf("Upload %s: %v", name, err)
		}
	}

	recs, err := svc.ListUploads(ctx, 0)
	if err != nil {
		t.Fatalf("ListUploads: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d uploads, want history limit 2", len(recs))
	}
	if recs[0].FileName != "c.csv" || recs[1].FileName != "b.csv" {
		t.Errorf("order = %s, %s; want newest first", recs[0].FileName, recs[1].FileName)
	}

	if err := svc.DeleteUpload(ctx, recs[0].ID); err != nil {
		t.Fatalf("DeleteUpload: %v", err)
	}
	if err := svc.DeleteUpload(ctx, recs[0].ID); !errors.Is(err, ErrUploadNotFound) {
		t.Errorf("second delete err = %v, want ErrUploadNotFound", err)
	}

	recs, _ = svc.ListUploads(ctx, 10)
	if len(recs) != 2 {
		t.Errorf("after delete got %d uploads, want 2", len(recs))
	}
}

type failingStore struct {
	*MemStore
	err error
}

func (f failingStore) SaveTable(ctx context.Context, rec UploadRecord, body string, t *table.Table) (UploadRecord, error) {
	return rec, f.err
}

func TestService_UploadStoreFailure(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := NewService(failingStore{MemStore: NewMemStore(), err: storeErr}, testUploadConfig())

	_, err := svc.Upload(context.Background(), "a.csv", strings.NewReader("a,b\n1,2\n"), 0)
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
	if got := MapError(err).Code; got != "DB001" {
		t.Errorf("MapError code = %s, want DB001", got)
	}
	if svc.LimiterStatus().Active != 0 {
		t.Error("limiter slot leaked after failure")
	}
}

func TestService_WaitForUploads(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.WaitForUploads(ctx); err != nil {
		t.Errorf("WaitForUploads on idle service: %v", err)
	}
}
