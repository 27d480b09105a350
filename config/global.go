package config

// defaultGlobalConfig returns the governance and gas defaults applied when a
// config file omits the [Global] section entirely.
func defaultGlobalConfig() Global {
	return Global{
		Governance: Governance{
			DefaultQuorumPct: 10,
			VotingPeriodSecs: 7 * 24 * 60 * 60,
		},
		Gas: Gas{
			StoreVerification: 20,
			CreateProposal:    25,
			Vote:              30,
			FinalizeProposal:  25,
			BridgeAddMember:   255,
		},
	}
}
