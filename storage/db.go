// Package storage provides the byte-prefixed key/value persistence layer
// shared by the Oracle, Ledger, and Bridge contract state managers.
package storage

import (
	"errors"
	"sort"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	leveldberrors "github.com/syndtr/goleveldb/leveldb/errors"
)

// ErrNotFound is returned by Get when the requested key is absent. Contract
// state managers treat it as "no record", not a storage failure.
var ErrNotFound = errors.New("storage: key not found")

// Database is a generic interface for a key-value store, allowing every
// contract's state manager to run against either an in-memory store (tests,
// the local simulator) or a persistent one (a real deployment).
type Database interface {
	Put(key []byte, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	// Iterate calls fn for every stored key with the given prefix, in
	// lexicographic key order, until fn returns false or all matches are
	// exhausted.
	Iterate(prefix []byte, fn func(key, value []byte) bool) error
	Close() error
}

// --- In-memory database (tests, the local simulator) ---

// MemDB is a goroutine-safe in-memory Database.
type MemDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemDB constructs an empty in-memory database.
func NewMemDB() *MemDB {
	return &MemDB{data: make(map[string][]byte)}
}

func (db *MemDB) Put(key []byte, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (db *MemDB) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	value, ok := db.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (db *MemDB) Delete(key []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.data, string(key))
	return nil
}

func (db *MemDB) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	db.mu.RLock()
	keys := make([]string, 0, len(db.data))
	for k := range db.data {
		if hasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	db.mu.RUnlock()
	sort.Strings(keys)
	for _, k := range keys {
		db.mu.RLock()
		v, ok := db.data[k]
		db.mu.RUnlock()
		if !ok {
			continue
		}
		if !fn([]byte(k), append([]byte(nil), v...)) {
			break
		}
	}
	return nil
}

// Close satisfies the Database interface for MemDB.
func (db *MemDB) Close() error { return nil }

func hasPrefix(s, prefix string) bool {
	return len(prefix) == 0 || (len(s) >= len(prefix) && s[:len(prefix)] == prefix)
}

// --- Persistent database (real deployments) ---

// LevelDB is a persistent key-value store backed by goleveldb.
type LevelDB struct {
	db *leveldb.DB
}

// NewLevelDB creates or opens a LevelDB database at the specified path.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

// Put inserts or updates a key-value pair.
func (ldb *LevelDB) Put(key []byte, value []byte) error {
	return ldb.db.Put(key, value, nil)
}

// Get retrieves a value for a given key.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	value, err := ldb.db.Get(key, nil)
	if err == leveldberrors.ErrNotFound {
		return nil, ErrNotFound
	}
	return value, err
}

// Delete removes a key-value pair.
func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, nil)
}

// Iterate walks every stored key sharing the given prefix in key order.
func (ldb *LevelDB) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	iter := ldb.db.NewIterator(nil, nil)
	defer iter.Release()
	for ok := iter.Seek(prefix); ok; ok = iter.Next() {
		key := iter.Key()
		if !hasPrefix(string(key), string(prefix)) {
			break
		}
		if !fn(append([]byte(nil), key...), append([]byte(nil), iter.Value()...)) {
			break
		}
	}
	return iter.Error()
}

// Close closes the database connection.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}
