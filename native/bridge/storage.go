package bridge

import (
	"encoding/json"
	"errors"

	"verifiedgov/storage"
)

var keyConfig = []byte("Meta/Config")

// Store persists the Bridge's Config, its only durable state (spec §3.3).
type Store struct {
	db storage.Database
}

// NewStore wraps db as a Bridge Store.
func NewStore(db storage.Database) *Store {
	return &Store{db: db}
}

// GetConfig returns the stored Config, or the zero value if unset.
func (s *Store) GetConfig() (Config, error) {
	raw, err := s.db.Get(keyConfig)
	if errors.Is(err, storage.ErrNotFound) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// PutConfig stores Config.
func (s *Store) PutConfig(cfg Config) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.db.Put(keyConfig, payload)
}
