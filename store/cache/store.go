package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/pkg/errors"
)

// Store is an optional persistent second cache tier. It survives restarts,
// so dimensions of large capabilities documents are not recomputed.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// BadgerStore keeps entries in a BadgerDB directory.
type BadgerStore struct {
	db     *badger.DB
	prefix []byte
}

// OpenBadgerStore opens (or creates) a store at path. An empty path keeps the
// data in memory only.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithCompression(options.ZSTD).
		WithNumVersionsToKeep(1).
		WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open badger store at %q", path)
	}

	slog.Info("cache store opened", slog.String("path", path), slog.Bool("in_memory", path == ""))
	return &BadgerStore{db: db, prefix: []byte("dim:")}, nil
}

func (s *BadgerStore) key(key string) []byte {
	return append(append([]byte{}, s.prefix...), key...)
}

// Get returns the bytes stored under key.
func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to read cache store")
	}
	return value, true, nil
}

// SetWithTTL stores value under key. A zero ttl never expires.
func (s *BadgerStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(s.key(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	return errors.Wrap(err, "failed to write cache store")
}

// Delete removes key.
func (s *BadgerStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key(key))
	})
	return errors.Wrap(err, "failed to delete from cache store")
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return errors.Wrap(s.db.Close(), "failed to close cache store")
}
