package storage

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	domainerrors "github.com/watchlist/triage/internal/errors"
	"github.com/watchlist/triage/internal/logger"
)

// keyPrefix namespaces preference keys inside the badger keyspace.
const keyPrefix = "pref:"

// Badger is a Storage backed by a badger database.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadger opens (or creates) the preference database at path. An empty
// path opens an in-memory database.
func OpenBadger(path string, log *slog.Logger) (*Badger, error) {
	log = logger.OrDiscard(log)

	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Preferences are tiny; durability matters more than throughput
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, domainerrors.Storage(err, "failed to open preference store")
	}

	log.Info("Preference store opened", "path", path, "in_memory", path == "")
	return &Badger{db: db, logger: log}, nil
}

// Close closes the underlying database.
func (b *Badger) Close() error {
	b.logger.Info("Closing preference store")
	return b.db.Close()
}

// Get implements Storage.
func (b *Badger) Get(key string) (string, bool, error) {
	var value string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements Storage.
func (b *Badger) Set(key, value string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove implements Storage.
func (b *Badger) Remove(key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + key))
	})
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
