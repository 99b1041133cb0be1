package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// artifactKeyPrefix namespaces artifact records inside the key space.
const artifactKeyPrefix = "artifact:"

// BadgerStore implements Store on BadgerDB for persistence across restarts.
type BadgerStore struct {
	mu       sync.RWMutex
	db       *badger.DB
	path     string
	inMemory bool
	closed   bool
}

// NewBadgerStore opens (or creates) a badger-backed artifact store.
func NewBadgerStore(_ context.Context, opts ...Option) (*BadgerStore, error) {
	s := &BadgerStore{
		path: "data/models",
	}
	for _, opt := range opts {
		opt(s)
	}

	badgerOpts := badger.DefaultOptions(s.path)
	if s.inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	// Badger's default logger writes straight to stderr; the service has its
	// own logging, so silence it.
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}
	s.db = db
	return s, nil
}

// Load returns the raw encoded artifact for name.
func (s *BadgerStore) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(artifactKeyPrefix + name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		if err != nil {
			return fmt.Errorf("get artifact %s: %w", name, err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save persists the raw encoded artifact under name.
func (s *BadgerStore) Save(_ context.Context, name string, data []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(artifactKeyPrefix+name), data)
	})
	if err != nil {
		return fmt.Errorf("save artifact %s: %w", name, err)
	}
	return nil
}

// Names returns the names of all stored artifacts.
func (s *BadgerStore) Names(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(artifactKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, artifactKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	return names, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close artifact store: %w", err)
	}
	return nil
}
