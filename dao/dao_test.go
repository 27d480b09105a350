package dao

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePolicyRejectsZeroDenominator(t *testing.T) {
	role := Role{
		Name: "citizen",
		VotePolicy: map[string]VotePolicy{
			"default": {WeightKind: "RoleWeight", Quorum: 1, Threshold: RatioThreshold(1, 0)},
		},
	}
	require.Error(t, ValidatePolicy(role))
}

func TestValidatePolicyAcceptsFixedThreshold(t *testing.T) {
	role := Role{
		Name: "citizen",
		VotePolicy: map[string]VotePolicy{
			"default": {WeightKind: "RoleWeight", Quorum: 1, Threshold: FixedThreshold("1")},
		},
	}
	require.NoError(t, ValidatePolicy(role))
}

func TestMemoryDAOAddMemberRoundTrip(t *testing.T) {
	d := NewMemoryDAO("citizen")
	id, err := d.AddProposal("add alice", VoteAddMemberToRole("alice.near", "citizen"))
	require.NoError(t, err)

	require.NoError(t, d.ActProposal(id, ActionVoteApprove, VoteAddMemberToRole("alice.near", "citizen")))

	role, ok := d.GetPolicy().RoleByName("citizen")
	require.True(t, ok)
	require.Contains(t, role.Members, "alice.near")
}

func TestMemoryDAOActProposalRejectsWrongKind(t *testing.T) {
	d := NewMemoryDAO("citizen")
	id, err := d.AddProposal("add alice", VoteAddMemberToRole("alice.near", "citizen"))
	require.NoError(t, err)

	err = d.ActProposal(id, ActionVoteApprove, VoteAddMemberToRole("bob.near", "citizen"))
	require.ErrorIs(t, err, ErrWrongKind)
}
