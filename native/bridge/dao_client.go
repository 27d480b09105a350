package bridge

import "verifiedgov/dao"

// DAOClient is the subset of the external DAO's ABI the Bridge drives
// (spec §6.2). It is satisfied directly by *dao.MemoryDAO in tests and the
// local demo; a real deployment would implement it over scheduled
// cross-contract calls instead of direct Go calls.
type DAOClient interface {
	AddProposal(description string, kind dao.ProposalKind) (uint64, error)
	ActProposal(id uint64, action dao.Action, kind dao.ProposalKind) error
	GetPolicy() dao.Policy
	GetProposal(id uint64) (*dao.Proposal, error)
}

// OracleIsVerifiedQuery schedules the cross-contract is_verified(account)
// call the add_member pipeline's first hop depends on.
type OracleIsVerifiedQuery func(account string) (bool, error)
