package bridge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"verifiedgov/chainsim"
	"verifiedgov/core/events"
	"verifiedgov/dao"
	"verifiedgov/storage"
)

const (
	backendWallet = "backend.near"
	daoAccount    = "dao.near"
	oracleAccount = "oracle.near"
	citizenRole   = "citizen"
)

func newTestBridge(t *testing.T, verified map[string]bool) (*Contract, *dao.MemoryDAO, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	store := NewStore(storage.NewMemDB())
	require.NoError(t, store.PutConfig(Config{
		BackendWallet: backendWallet,
		DAOAccount:    daoAccount,
		OracleAccount: oracleAccount,
		CitizenRole:   citizenRole,
	}))
	memDAO := dao.NewMemoryDAO(citizenRole)
	oracle := func(account string) (bool, error) { return verified[account], nil }
	runner := chainsim.NewRunner(nil)
	return New(store, rec, memDAO, oracle, runner, Params{}), memDAO, rec
}

func ctxAs(account string) *chainsim.Context {
	return &chainsim.Context{Predecessor: chainsim.AccountID(account)}
}

func TestAddMemberFullPipelineSucceeds(t *testing.T) {
	bridgeC, memDAO, rec := newTestBridge(t, map[string]bool{"alice.near": true})

	require.NoError(t, bridgeC.AddMember(ctxAs(backendWallet), "alice.near"))

	role, ok := memDAO.GetPolicy().RoleByName(citizenRole)
	require.True(t, ok)
	require.Contains(t, role.Members, "alice.near")
	require.Contains(t, rec.Names(), "member_added")
	require.Contains(t, rec.Names(), "quorum_updated")

	policy, ok := memDAO.GetPolicy().RoleByName(citizenRole)
	require.True(t, ok)
	vp := policy.VotePolicy["default"]
	require.Equal(t, uint64(1), vp.Quorum) // ceil(7*1/100) = 1
}

func TestAddMemberAbortsWhenUnverified(t *testing.T) {
	bridgeC, memDAO, rec := newTestBridge(t, map[string]bool{})

	err := bridgeC.AddMember(ctxAs(backendWallet), "mallory.near")
	require.EqualError(t, err, "Account is not verified - cannot add to DAO")
	require.NotContains(t, rec.Names(), "member_added")
	_, ok := memDAO.GetPolicy().RoleByName(citizenRole)
	require.True(t, ok)
	role, _ := memDAO.GetPolicy().RoleByName(citizenRole)
	require.Empty(t, role.Members)
}

func TestAddMemberRejectsNonBackendCaller(t *testing.T) {
	bridgeC, _, _ := newTestBridge(t, map[string]bool{"alice.near": true})

	err := bridgeC.AddMember(ctxAs("mallory.near"), "alice.near")
	require.EqualError(t, err, "Only backend wallet can call this function")
}

func TestCalculateQuorumRoundsUp(t *testing.T) {
	q, err := CalculateQuorum(15)
	require.NoError(t, err)
	require.Equal(t, uint64(2), q) // ceil(7*15/100) = ceil(1.05) = 2

	q, err = CalculateQuorum(0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), q)
}

func TestCreateProposalValidatesDescription(t *testing.T) {
	bridgeC, _, _ := newTestBridge(t, nil)

	_, err := bridgeC.CreateProposal(ctxAs(backendWallet), "")
	require.EqualError(t, err, "Description cannot be empty")
}

func TestCreateProposalSucceeds(t *testing.T) {
	bridgeC, _, rec := newTestBridge(t, nil)

	id, err := bridgeC.CreateProposal(ctxAs(backendWallet), "raise the roof")
	require.NoError(t, err)
	require.Equal(t, uint64(0), id)
	require.Contains(t, rec.Names(), "proposal_created")
}
