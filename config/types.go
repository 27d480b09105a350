package config

// Governance captures the default voting policy knobs new proposals are
// created with when the caller does not override them.
type Governance struct {
	DefaultQuorumPct uint8
	VotingPeriodSecs uint64
}

// Gas captures the static per-operation gas budgets the contracts enforce
// (spec §6.5), expressed in whole TGas units.
type Gas struct {
	StoreVerification uint64
	CreateProposal    uint64
	Vote              uint64
	FinalizeProposal  uint64
	BridgeAddMember   uint64
}

// Global bundles the runtime configuration values enforced by ValidateConfig.
type Global struct {
	Governance Governance
	Gas        Gas
}
