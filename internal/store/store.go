package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"fiado-ledger/internal/core"
)

// Kind names one of the persisted collections. Its value is the storage key.
type Kind string

const (
	KindDebtors      Kind = "debtors"
	KindProducts     Kind = "products"
	KindTransactions Kind = "transactions"

	versionKey = "app_version"
)

var Kinds = []Kind{KindDebtors, KindProducts, KindTransactions}

// Snapshot is an in-memory copy of the three collections.
type Snapshot struct {
	Debtors      []core.Debtor
	Products     []core.Product
	Transactions []core.Transaction
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Debtors:      append([]core.Debtor(nil), s.Debtors...),
		Products:     append([]core.Product(nil), s.Products...),
		Transactions: append([]core.Transaction(nil), s.Transactions...),
	}
}

func (s *Snapshot) encode(kind Kind) ([]byte, error) {
	switch kind {
	case KindDebtors:
		return json.Marshal(nonNil(s.Debtors))
	case KindProducts:
		return json.Marshal(nonNil(s.Products))
	case KindTransactions:
		return json.Marshal(nonNil(s.Transactions))
	}
	return nil, fmt.Errorf("unknown collection %q", kind)
}

func (s *Snapshot) decode(kind Kind, data []byte) error {
	switch kind {
	case KindDebtors:
		return json.Unmarshal(data, &s.Debtors)
	case KindProducts:
		return json.Unmarshal(data, &s.Products)
	case KindTransactions:
		return json.Unmarshal(data, &s.Transactions)
	}
	return fmt.Errorf("unknown collection %q", kind)
}

func (s *Snapshot) setDefault(kind Kind) {
	switch kind {
	case KindDebtors:
		s.Debtors = []core.Debtor{}
	case KindProducts:
		s.Products = core.DefaultProducts()
	case KindTransactions:
		s.Transactions = []core.Transaction{}
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Store owns the collections. Every mutation goes through Mutate, which
// persists the affected collection before the change becomes visible.
type Store struct {
	mu          sync.RWMutex
	backend     Backend
	snap        Snapshot
	prevVersion string
}

// Open loads every collection from backend, falling back to defaults for
// collections never saved, and records version as the running app version.
func Open(ctx context.Context, backend Backend, version string) (*Store, error) {
	s := &Store{backend: backend}
	for _, kind := range Kinds {
		if err := s.Load(ctx, kind); err != nil {
			return nil, err
		}
	}
	if err := s.checkVersion(ctx, version); err != nil {
		return nil, err
	}
	return s, nil
}

// checkVersion is the hook for future data migrations. Today a mismatch only
// logs a notice and stores the new version.
func (s *Store) checkVersion(ctx context.Context, version string) error {
	saved, ok, err := s.backend.Get(ctx, versionKey)
	if err != nil {
		return fmt.Errorf("failed to read app version: %w", err)
	}
	if ok {
		if err := json.Unmarshal(saved, &s.prevVersion); err != nil {
			s.prevVersion = string(saved)
		}
	}
	if s.prevVersion == version {
		return nil
	}
	log.Printf("store: updating version from %q to %q", s.prevVersion, version)
	data, _ := json.Marshal(version)
	if err := s.backend.Put(ctx, versionKey, data); err != nil {
		return fmt.Errorf("failed to write app version: %w", err)
	}
	return nil
}

// PreviousVersion is the version found in storage at Open ("" on first run).
func (s *Store) PreviousVersion() string {
	return s.prevVersion
}

// Load replaces the in-memory collection with the persisted one, or with its
// default when nothing was saved yet.
func (s *Store) Load(ctx context.Context, kind Kind) error {
	data, ok, err := s.backend.Get(ctx, string(kind))
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", kind, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snap.clone()
	if !ok {
		next.setDefault(kind)
	} else if err := next.decode(kind, data); err != nil {
		return fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	s.snap = next
	return nil
}

// Save writes the whole in-memory collection.
func (s *Store) Save(ctx context.Context, kind Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, kind, &s.snap)
}

func (s *Store) saveLocked(ctx context.Context, kind Kind, snap *Snapshot) error {
	data, err := snap.encode(kind)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", kind, err)
	}
	if err := s.backend.Put(ctx, string(kind), data); err != nil {
		return fmt.Errorf("failed to save %s: %w", kind, err)
	}
	return nil
}

// Mutate applies fn to a copy of the current state and persists kind. If fn
// or the write fails, nothing changes.
func (s *Store) Mutate(ctx context.Context, kind Kind, fn func(*Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	next := s.snap.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.saveLocked(ctx, kind, &next); err != nil {
		return err
	}
	s.snap = next
	return nil
}

// Snapshot returns a copy of all collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

func (s *Store) Close() error {
	return s.backend.Close()
}
