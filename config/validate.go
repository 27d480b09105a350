package config

import "fmt"

var MinVotingPeriodSeconds = uint64(3600)

func ValidateConfig(g Global) error {
	if g.Governance.DefaultQuorumPct < 1 || g.Governance.DefaultQuorumPct > 100 {
		return fmt.Errorf("governance: default_quorum_pct must be between 1 and 100")
	}
	if g.Governance.VotingPeriodSecs < MinVotingPeriodSeconds {
		return fmt.Errorf("governance: voting_period_seconds too small")
	}
	if g.Gas.StoreVerification == 0 || g.Gas.CreateProposal == 0 || g.Gas.Vote == 0 ||
		g.Gas.FinalizeProposal == 0 || g.Gas.BridgeAddMember == 0 {
		return fmt.Errorf("gas: all gas budgets must be nonzero")
	}
	return nil
}
