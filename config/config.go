package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the local simulator's configuration: the accounts the three
// contracts are deployed under, the backend wallet authorized to drive
// writes, the external DAO's account and citizen role name, and the
// governance and gas parameters the contracts run under.
type Config struct {
	DataDir       string `toml:"DataDir"`
	OracleAccount string `toml:"OracleAccount"`
	LedgerAccount string `toml:"LedgerAccount"`
	BridgeAccount string `toml:"BridgeAccount"`
	DAOAccount    string `toml:"DAOAccount"`
	BackendWallet string `toml:"BackendWallet"`
	CitizenRole   string `toml:"CitizenRole"`
	Global        Global `toml:"Global"`
}

// Load loads the configuration from the given path, creating a default
// file there if none exists yet. If the file omits the [Global] section
// entirely, defaultGlobalConfig is used in its place; individual fields
// left out of a present [Global] section are not defaulted and are
// validated as their zero values.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if !meta.IsDefined("Global") {
		cfg.Global = defaultGlobalConfig()
	}
	if err := ValidateConfig(cfg.Global); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir:       "./citizensim-data",
		OracleAccount: "oracle.near",
		LedgerAccount: "ledger.near",
		BridgeAccount: "bridge.near",
		DAOAccount:    "dao.near",
		BackendWallet: "backend.near",
		CitizenRole:   "citizen",
		Global:        defaultGlobalConfig(),
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
