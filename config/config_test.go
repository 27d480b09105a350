package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "oracle.near", cfg.OracleAccount)
	require.Equal(t, "dao.near", cfg.DAOAccount)
	require.Equal(t, uint8(10), cfg.Global.Governance.DefaultQuorumPct)
	require.FileExists(t, path)
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `DataDir = "./data"
OracleAccount = "oracle.v2.near"
LedgerAccount = "ledger.v2.near"
BridgeAccount = "bridge.v2.near"
DAOAccount = "dao.v2.near"
BackendWallet = "backend.v2.near"
CitizenRole = "verified-citizen"

[Global.Governance]
DefaultQuorumPct = 25
VotingPeriodSecs = 604800

[Global.Gas]
StoreVerification = 20
CreateProposal = 25
Vote = 30
FinalizeProposal = 25
BridgeAddMember = 255
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "oracle.v2.near", cfg.OracleAccount)
	require.Equal(t, "verified-citizen", cfg.CitizenRole)
	require.Equal(t, uint8(25), cfg.Global.Governance.DefaultQuorumPct)
	require.Equal(t, uint64(30), cfg.Global.Gas.Vote)
}

func TestLoadAppliesGlobalDefaultsWhenSectionOmitted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := fmt.Sprintf(`DataDir = "%s"
OracleAccount = "oracle.near"
`, dir)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, defaultGlobalConfig(), cfg.Global)
}

func TestLoadRejectsInvalidQuorumPct(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `[Global.Governance]
DefaultQuorumPct = 0
VotingPeriodSecs = 604800

[Global.Gas]
CreateProposal = 25
Vote = 30
FinalizeProposal = 25
BridgeAddMember = 255
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	_, err := Load(path)
	require.ErrorContains(t, err, "default_quorum_pct")
}

func TestValidateConfigRejectsZeroGasBudget(t *testing.T) {
	g := defaultGlobalConfig()
	g.Gas.Vote = 0
	require.ErrorContains(t, ValidateConfig(g), "gas budgets")
}

func TestValidateConfigRejectsShortVotingPeriod(t *testing.T) {
	g := defaultGlobalConfig()
	g.Governance.VotingPeriodSecs = 60
	require.ErrorContains(t, ValidateConfig(g), "voting_period_seconds")
}
