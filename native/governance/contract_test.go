package governance

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"verifiedgov/chainsim"
	"verifiedgov/core/events"
	"verifiedgov/storage"
)

// verificationFixture is a stand-in Oracle: a map of account -> verifiedAt.
type verificationFixture struct {
	verified map[string]int64
}

func (f *verificationFixture) query(account string) ([]byte, error) {
	at, ok := f.verified[account]
	if !ok {
		return nil, fmt.Errorf("account is not verified")
	}
	return json.Marshal(verificationView{AccountID: account, VerifiedAt: at})
}

func newTestLedger(t *testing.T, fixture *verificationFixture) (*Contract, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	store := NewStore(storage.NewMemDB())
	require.NoError(t, store.SetOracleAccount("oracle.near"))
	runner := chainsim.NewRunner(nil)
	return New(store, rec, fixture.query, runner, Params{}), rec
}

func ctxAt(account string, ts int64) *chainsim.Context {
	return &chainsim.Context{Predecessor: chainsim.AccountID(account), AttachedDeposit: chainsim.OneYocto(), BlockTimestamp: ts}
}

func countQuery(n uint64) VerifiedCitizenCountQuery {
	return func() ([]byte, error) { return json.Marshal(n) }
}

func TestCreateProposalRequiresVerifiedCitizen(t *testing.T) {
	fixture := &verificationFixture{verified: map[string]int64{}}
	ledger, _ := newTestLedger(t, fixture)

	_, err := ledger.CreateProposal(ctxAt("alice.near", 100), "Title", "Description", "", 10)
	require.EqualError(t, err, "Only verified citizens can create proposals")
}

func TestCreateProposalSucceedsAndDefaultsQuorum(t *testing.T) {
	fixture := &verificationFixture{verified: map[string]int64{"alice.near": 50}}
	ledger, rec := newTestLedger(t, fixture)

	id, err := ledger.CreateProposal(ctxAt("alice.near", 100), "Title", "Description", "", 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), id)

	p, err := ledger.GetProposal(id)
	require.NoError(t, err)
	require.Equal(t, uint8(DefaultQuorumPct), p.QuorumPct)
	require.Equal(t, StatusActive, p.Status)
	require.Contains(t, rec.Names(), "proposal_created")
}

func TestCreateProposalRejectsEmptyTitle(t *testing.T) {
	fixture := &verificationFixture{verified: map[string]int64{"alice.near": 50}}
	ledger, _ := newTestLedger(t, fixture)

	_, err := ledger.CreateProposal(ctxAt("alice.near", 100), "", "Description", "", 10)
	require.EqualError(t, err, "Title cannot be empty")
}

func TestVoteEnforcesSnapshotRule(t *testing.T) {
	fixture := &verificationFixture{verified: map[string]int64{"alice.near": 50}}
	ledger, _ := newTestLedger(t, fixture)
	id, err := ledger.CreateProposal(ctxAt("alice.near", 100), "Title", "Description", "", 10)
	require.NoError(t, err)

	fixture.verified["bob.near"] = 150 // verified AFTER proposal creation
	err = ledger.Vote(ctxAt("bob.near", 200), id, ChoiceYes)
	require.EqualError(t, err, "You must be verified before the proposal was created to vote on it")

	fixture.verified["carol.near"] = 50
	require.NoError(t, ledger.Vote(ctxAt("carol.near", 200), id, ChoiceYes))
}

func TestVoteRejectsDoubleVoting(t *testing.T) {
	fixture := &verificationFixture{verified: map[string]int64{"alice.near": 50}}
	ledger, _ := newTestLedger(t, fixture)
	id, err := ledger.CreateProposal(ctxAt("alice.near", 100), "Title", "Description", "", 10)
	require.NoError(t, err)

	require.NoError(t, ledger.Vote(ctxAt("alice.near", 200), id, ChoiceYes))
	err = ledger.Vote(ctxAt("alice.near", 201), id, ChoiceNo)
	require.EqualError(t, err, "Already voted on this proposal")
}

func TestFinalizeQuorumNotMet(t *testing.T) {
	fixture := &verificationFixture{verified: map[string]int64{"alice.near": 50, "bob.near": 50}}
	ledger, _ := newTestLedger(t, fixture)
	id, err := ledger.CreateProposal(ctxAt("alice.near", 100), "Title", "Description", "", 50)
	require.NoError(t, err)
	require.NoError(t, ledger.Vote(ctxAt("alice.near", 200), id, ChoiceYes))

	status, err := ledger.FinalizeProposal(ctxAt("anyone.near", 100+VotingPeriodSeconds+1), id, countQuery(10))
	require.NoError(t, err)
	require.Equal(t, StatusQuorumNotMet, status)
}

func TestFinalizeTieFails(t *testing.T) {
	fixture := &verificationFixture{verified: map[string]int64{"alice.near": 50, "bob.near": 50}}
	ledger, _ := newTestLedger(t, fixture)
	id, err := ledger.CreateProposal(ctxAt("alice.near", 100), "Title", "Description", "", 10)
	require.NoError(t, err)
	require.NoError(t, ledger.Vote(ctxAt("alice.near", 200), id, ChoiceYes))
	require.NoError(t, ledger.Vote(ctxAt("bob.near", 200), id, ChoiceNo))

	status, err := ledger.FinalizeProposal(ctxAt("anyone.near", 100+VotingPeriodSeconds+1), id, countQuery(2))
	require.NoError(t, err)
	require.Equal(t, StatusFailed, status) // tie: yes == no -> Failed
}

func TestFinalizeBeforeVotingEndsFails(t *testing.T) {
	fixture := &verificationFixture{verified: map[string]int64{"alice.near": 50}}
	ledger, _ := newTestLedger(t, fixture)
	id, err := ledger.CreateProposal(ctxAt("alice.near", 100), "Title", "Description", "", 10)
	require.NoError(t, err)

	_, err = ledger.FinalizeProposal(ctxAt("anyone.near", 200), id, countQuery(1))
	require.EqualError(t, err, "Voting period has not ended yet")
}

func TestCancelProposalOnlyByProposer(t *testing.T) {
	fixture := &verificationFixture{verified: map[string]int64{"alice.near": 50}}
	ledger, _ := newTestLedger(t, fixture)
	id, err := ledger.CreateProposal(ctxAt("alice.near", 100), "Title", "Description", "", 10)
	require.NoError(t, err)

	err = ledger.CancelProposal(ctxAt("mallory.near", 200), id)
	require.EqualError(t, err, "Only proposer can cancel proposal")

	require.NoError(t, ledger.CancelProposal(ctxAt("alice.near", 200), id))
	p, err := ledger.GetProposal(id)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, p.Status)
}
