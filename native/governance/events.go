package governance

import "verifiedgov/core/events"

const standard = "near-governance"

// ProposalCreated is emitted when create_proposal commits.
type ProposalCreated struct {
	ProposalID uint64 `json:"proposalId"`
	Proposer   string `json:"proposer"`
	Title      string `json:"title"`
}

func (ProposalCreated) Standard() string { return standard }
func (ProposalCreated) Name() string     { return "proposal_created" }
func (e ProposalCreated) Payload() any   { return e }

// VoteCast is emitted when vote commits.
type VoteCast struct {
	ProposalID uint64 `json:"proposalId"`
	Voter      string `json:"voter"`
	Vote       Choice `json:"vote"`
}

func (VoteCast) Standard() string { return standard }
func (VoteCast) Name() string     { return "vote_cast" }
func (e VoteCast) Payload() any   { return e }

// ProposalFinalized is emitted by finalize_proposal.
type ProposalFinalized struct {
	ProposalID     uint64 `json:"proposalId"`
	Status         Status `json:"status"`
	YesVotes       uint64 `json:"yesVotes"`
	NoVotes        uint64 `json:"noVotes"`
	TotalVotes     uint64 `json:"totalVotes"`
	QuorumRequired uint64 `json:"quorumRequired"`
}

func (ProposalFinalized) Standard() string { return standard }
func (ProposalFinalized) Name() string     { return "proposal_finalized" }
func (e ProposalFinalized) Payload() any   { return e }

// ProposalCancelled is emitted by cancel_proposal.
type ProposalCancelled struct {
	ProposalID  uint64 `json:"proposalId"`
	CancelledBy string `json:"cancelledBy"`
}

func (ProposalCancelled) Standard() string { return standard }
func (ProposalCancelled) Name() string     { return "proposal_cancelled" }
func (e ProposalCancelled) Payload() any   { return e }

var (
	_ events.Event = ProposalCreated{}
	_ events.Event = VoteCast{}
	_ events.Event = ProposalFinalized{}
	_ events.Event = ProposalCancelled{}
)
