package cryptofolio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DefaultStorageKey is the key holding the holdings document.
const DefaultStorageKey = "cryptoData"

// CorruptError is returned when the persisted holdings document cannot be
// decoded. It keeps the raw content so that it can be recovered by hand.
type CorruptError struct {
	Key string
	Raw string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("holdings document %q is corrupt: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Store reads and writes the holdings Document under a single key of a KV.
type Store struct {
	kv  KV
	key string
}

// NewStore returns a store of the document under key in kv.
func NewStore(kv KV, key string) *Store {
	if key == "" {
		key = DefaultStorageKey
	}
	return &Store{kv: kv, key: key}
}

// Load returns the persisted document.
//
// If nothing is persisted yet, it returns an empty document. If the persisted
// value cannot be decoded, it returns an empty document and a *CorruptError,
// so callers can display an empty portfolio while the raw data is preserved.
func (s *Store) Load(ctx context.Context) (Document, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return Document{}, fmt.Errorf("could not read holdings document %q: %w", s.key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return Document{}, nil
	}
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Document{}, &CorruptError{Key: s.key, Raw: raw, Err: err}
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Save replaces the persisted document with doc.
func (s *Store) Save(ctx context.Context, doc Document) error {
	if doc == nil {
		doc = Document{}
	}
	content, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("could not encode holdings document: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(content)); err != nil {
		return fmt.Errorf("could not write holdings document %q: %w", s.key, err)
	}
	return nil
}

// Append adds e at the end of section and persists the document.
//
// It is not atomic with respect to other writers of the same key. A corrupt
// document is never overwritten: the *CorruptError from Load is returned.
func (s *Store) Append(ctx context.Context, section string, e Entry) error {
	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return s.Save(ctx, doc.Append(section, e))
}

// Close releases the underlying KV if it holds a connection.
func (s *Store) Close() error {
	if c, ok := s.kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
