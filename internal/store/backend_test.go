package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fiado-ledger/internal/store"

	"github.com/joho/godotenv"
)

// exerciseBackend checks the Get/Put contract every backend must satisfy.
func exerciseBackend(t *testing.T, b store.Backend) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := b.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v; want absent", ok, err)
	}
	if err := b.Put(ctx, "debtors", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := b.Put(ctx, "debtors", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := b.Get(ctx, "debtors")
	if err != nil || !ok {
		t.Fatalf("Get(debtors) = ok %v, err %v", ok, err)
	}
	if string(got) != "[]" {
		t.Errorf("Get(debtors) = %q, want []", got)
	}
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, store.NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b, err := store.NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	exerciseBackend(t, b)

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fiado.db")
	b, err := store.OpenSQLite(path, false)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer b.Close()
	exerciseBackend(t, b)
}

func TestSQLiteBackend_StoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fiado.db")

	b, err := store.OpenSQLite(path, false)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	s, err := store.Open(ctx, b, "1.3.0")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	mustMutate(t, s, store.KindTransactions, func(snap *store.Snapshot) error {
		snap.Transactions = append(snap.Transactions, sampleDebt())
		return nil
	})
	before := s.Snapshot()
	s.Close()

	b, err = store.OpenSQLite(path, false)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer b.Close()
	reopened, err := store.Open(ctx, b, "1.3.0")
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	assertSameSnapshot(t, before, reopened.Snapshot())
}

func TestPostgresBackend(t *testing.T) {
	_ = godotenv.Load("../../.env")

	// Use a dedicated test database; fiado_kv rows are overwritten.
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres backend test")
	}

	ctx := context.Background()
	b, err := store.OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer b.Close()

	if err := b.Put(ctx, "debtors", []byte("[]")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	exerciseBackend(t, b)
}
