package cryptofolio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestStore_LoadEmpty(t *testing.T) {
	testCases := []struct {
		name string
		raw  *string
	}{
		{"Nothing persisted", nil},
		{"Empty value", ptr("")},
		{"Null document", ptr("null")},
		{"Empty object", ptr("{}")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kv := new(MemoryKV)
			if tc.raw != nil {
				kv.Set(context.Background(), DefaultStorageKey, *tc.raw)
			}
			doc, err := NewStore(kv, "").Load(context.Background())
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if doc == nil || len(doc) != 0 {
				t.Errorf("Load() = %#v, want an empty document", doc)
			}
		})
	}
}

func TestStore_Append(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore()

	first := NewEntry("bitcoin", 2, 50000.0)
	other := NewEntry("solana", 10, 120.0)
	if err := s.Append(ctx, "blox", first); err != nil {
		t.Fatalf("Append() unexpected error: %v", err)
	}
	if err := s.Append(ctx, "bitvavo", other); err != nil {
		t.Fatalf("Append() unexpected error: %v", err)
	}

	before := mustLoad(s)
	second := NewEntry("ripple", 1000.5, 0.42)
	if err := s.Append(ctx, "blox", second); err != nil {
		t.Fatalf("Append() unexpected error: %v", err)
	}
	after := mustLoad(s)

	want := append(slices.Clone(before.Entries("blox")), second)
	if !slices.EqualFunc(after.Entries("blox"), want, Entry.Equal) {
		t.Errorf("blox = %v, want %v", after.Entries("blox"), want)
	}
	if !slices.EqualFunc(after.Entries("bitvavo"), before.Entries("bitvavo"), Entry.Equal) {
		t.Errorf("bitvavo changed: %v, want %v", after.Entries("bitvavo"), before.Entries("bitvavo"))
	}
}

func TestStore_Format(t *testing.T) {
	ctx := context.Background()
	kv := new(MemoryKV)
	s := NewStore(kv, "")
	if err := s.Append(ctx, "blox", NewEntry("bitcoin", 2, 50000.0)); err != nil {
		t.Fatalf("Append() unexpected error: %v", err)
	}
	raw, _, _ := kv.Get(ctx, DefaultStorageKey)
	if want := `{"blox":[{"coin":"bitcoin","amount":2,"priceEach":50000}]}`; raw != want {
		t.Errorf("persisted document = %s, want %s", raw, want)
	}

	// documents written with quoted decimals are read as well.
	kv.Set(ctx, DefaultStorageKey, `{"bitvavo":[{"coin":"cardano","amount":"100.5","priceEach":"0.3"}]}`)
	got := mustLoad(s).Entries("bitvavo")
	if len(got) != 1 || !got[0].Equal(NewEntry("cardano", 100.5, 0.3)) {
		t.Errorf("Load() bitvavo = %v", got)
	}
}

func TestStore_Corrupt(t *testing.T) {
	ctx := context.Background()
	kv := new(MemoryKV)
	const raw = `{"blox": [{"coin": "bitcoin", "amount": 2,`
	kv.Set(ctx, DefaultStorageKey, raw)
	s := NewStore(kv, "")

	doc, err := s.Load(ctx)
	var corrupt *CorruptError
	if !errors.As(err, &corrupt) {
		t.Fatalf("Load() error = %v, want a *CorruptError", err)
	}
	if corrupt.Raw != raw {
		t.Errorf("CorruptError.Raw = %q, want %q", corrupt.Raw, raw)
	}
	if len(doc) != 0 {
		t.Errorf("Load() = %v, want an empty document", doc)
	}

	if err := s.Append(ctx, "blox", NewEntry("bitcoin", 1, 1.0)); !errors.As(err, &corrupt) {
		t.Errorf("Append() error = %v, want a *CorruptError", err)
	}
	if got, _, _ := kv.Get(ctx, DefaultStorageKey); got != raw {
		t.Errorf("corrupt document was overwritten with %q", got)
	}
}

func TestFileKV(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "cryptofolio.json")
	kv := NewFileKV(path)

	if _, ok, err := kv.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("Get() on a missing file = %v, %v, want false, nil", ok, err)
	}
	if err := kv.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if err := kv.Set(ctx, "other", "x"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if err := kv.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}

	// a fresh instance reads what was persisted.
	got, ok, err := NewFileKV(path).Get(ctx, "k")
	if err != nil || !ok || got != "v2" {
		t.Errorf("Get() = %q, %v, %v, want %q, true, nil", got, ok, err, "v2")
	}
	if got, _, _ := kv.Get(ctx, "other"); got != "x" {
		t.Errorf("Get(other) = %q, want %q", got, "x")
	}

	// no temporary file is left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("storage directory holds %d files, want 1", len(entries))
	}
}

func TestFileKV_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cryptofolio.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	kv := NewFileKV(path)
	if _, _, err := kv.Get(context.Background(), "k"); err == nil {
		t.Error("Get() on an invalid file expected an error")
	}
	if err := kv.Set(context.Background(), "k", "v"); err == nil {
		t.Error("Set() on an invalid file expected an error")
	}
}

func ptr[T any](v T) *T { return &v }

func TestStore_OutOfBounds(t *testing.T) {
	ctx := context.Background()
	kv := new(MemoryKV)
	const raw = `{"blox":[{"coin":"bitcoin","amount":1e5000000,"priceEach":1}]}`
	kv.Set(ctx, DefaultStorageKey, raw)

	doc, err := NewStore(kv, "").Load(ctx)
	var corrupt *CorruptError
	if !errors.As(err, &corrupt) {
		t.Fatalf("Load() error = %v, want a *CorruptError", err)
	}
	if len(doc) != 0 {
		t.Errorf("Load() = %v, want an empty document", doc)
	}
}

// closingKV records whether it was closed.
type closingKV struct {
	MemoryKV
	closed bool
}

func (c *closingKV) Close() error {
	c.closed = true
	return nil
}

func TestStore_Close(t *testing.T) {
	kv := new(closingKV)
	if err := NewStore(kv, "").Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if !kv.closed {
		t.Error("Close() did not close the KV")
	}
	if err := newMemoryStore().Close(); err != nil {
		t.Errorf("Close() on a memory store unexpected error: %v", err)
	}
}
