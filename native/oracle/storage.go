package oracle

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"verifiedgov/storage"
)

// Storage key prefixes are part of the on-chain ABI (spec §9): changing
// them breaks in-place upgrades, so they are frozen here as constants
// rather than derived.
var (
	prefixNullifiers = []byte("Nullifiers/")
	prefixAccounts   = []byte("Accounts/")
	prefixOrder      = []byte("AccountOrder/")
	keyBackendWallet = []byte("Meta/BackendWallet")
	keyPaused        = []byte("Meta/Paused")
	keyCount         = []byte("Meta/Count")
	keyMigratedTo    = []byte("Meta/MigratedTo")
)

// Store is the Oracle's persistence layer: NullifierSet, AccountIndex,
// BackendWallet, and PausedFlag (spec §3.1), each namespaced under its own
// storage prefix.
type Store struct {
	db storage.Database
}

// NewStore wraps db as an Oracle Store.
func NewStore(db storage.Database) *Store {
	return &Store{db: db}
}

func nullifierKey(nullifier string) []byte {
	return append(append([]byte(nil), prefixNullifiers...), nullifier...)
}

func accountKey(account string) []byte {
	return append(append([]byte(nil), prefixAccounts...), account...)
}

func orderKey(index uint64) []byte {
	key := append([]byte(nil), prefixOrder...)
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], index)
	return append(key, idx[:]...)
}

// HasNullifier reports whether nullifier has ever been recorded (I1).
func (s *Store) HasNullifier(nullifier string) (bool, error) {
	_, err := s.db.Get(nullifierKey(nullifier))
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) putNullifier(nullifier string) error {
	return s.db.Put(nullifierKey(nullifier), []byte{1})
}

// GetRecord returns the stored VersionedVerification for account, if any.
func (s *Store) GetRecord(account string) (VersionedVerification, bool, error) {
	raw, err := s.db.Get(accountKey(account))
	if errors.Is(err, storage.ErrNotFound) {
		return VersionedVerification{}, false, nil
	}
	if err != nil {
		return VersionedVerification{}, false, err
	}
	var v VersionedVerification
	if err := json.Unmarshal(raw, &v); err != nil {
		return VersionedVerification{}, false, fmt.Errorf("oracle: corrupt stored record for %s: %w", account, err)
	}
	return v, true, nil
}

// HasAccount reports whether account already has a record (I2).
func (s *Store) HasAccount(account string) (bool, error) {
	_, ok, err := s.GetRecord(account)
	return ok, err
}

// PutRecord inserts a brand-new record for account (store_verification is
// the only writer; records are immutable once stored, spec §3.1). It also
// appends the account to the insertion-ordered index used for pagination
// and bumps the stored count, keeping I4 (|AccountIndex| = stored count)
// true by construction.
func (s *Store) PutRecord(account string, record VersionedVerification) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := s.db.Put(accountKey(account), payload); err != nil {
		return err
	}
	count, err := s.Count()
	if err != nil {
		return err
	}
	if err := s.db.Put(orderKey(count), []byte(account)); err != nil {
		return err
	}
	return s.db.Put(keyCount, encodeUint64(count+1))
}

// Count returns the number of stored records.
func (s *Store) Count() (uint64, error) {
	raw, err := s.db.Get(keyCount)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return decodeUint64(raw), nil
}

// ListAccountsFrom returns up to limit account ids starting at insertion
// index from, in insertion order.
func (s *Store) ListAccountsFrom(from uint64, limit uint64) ([]string, error) {
	if limit > PageLimit {
		limit = PageLimit
	}
	count, err := s.Count()
	if err != nil {
		return nil, err
	}
	accounts := make([]string, 0, limit)
	for i := from; i < count && uint64(len(accounts)) < limit; i++ {
		raw, err := s.db.Get(orderKey(i))
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, string(raw))
	}
	return accounts, nil
}

// BackendWallet returns the currently configured authorized writer.
func (s *Store) BackendWallet() (string, error) {
	raw, err := s.db.Get(keyBackendWallet)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SetBackendWallet rotates the authorized writer.
func (s *Store) SetBackendWallet(account string) error {
	return s.db.Put(keyBackendWallet, []byte(account))
}

// Paused reports the PausedFlag.
func (s *Store) Paused() (bool, error) {
	raw, err := s.db.Get(keyPaused)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return raw[0] == 1, nil
}

// SetPaused updates the PausedFlag.
func (s *Store) SetPaused(paused bool) error {
	var b byte
	if paused {
		b = 1
	}
	return s.db.Put(keyPaused, []byte{b})
}

// MigratedTo records the contract version migrate() last transformed state
// into, so repeated calls after the first are safe no-ops (spec §4.1.3,
// scenario 8: migrate() "is idempotent-safe after upgrade").
func (s *Store) MigratedTo() (uint8, bool, error) {
	raw, err := s.db.Get(keyMigratedTo)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return raw[0], true, nil
}

// SetMigratedTo records the version migrate() transformed state into.
func (s *Store) SetMigratedTo(version uint8) error {
	return s.db.Put(keyMigratedTo, []byte{version})
}

func encodeUint64(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

func decodeUint64(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
