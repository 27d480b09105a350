package bridge

import "verifiedgov/core/events"

const standard = "sputnik-bridge"

// MemberAdded is emitted once the DAO has actually auto-approved the
// AddMemberToRole proposal (spec §6.1). It is the event whose absence
// tests assert on when a DAO promise fails partway through the pipeline.
type MemberAdded struct {
	MemberID   string `json:"memberId"`
	Role       string `json:"role"`
	ProposalID uint64 `json:"proposalId"`
}

func (MemberAdded) Standard() string { return standard }
func (MemberAdded) Name() string     { return "member_added" }
func (e MemberAdded) Payload() any   { return e }

// ProposalCreated is emitted by create_proposal's two-hop chain.
type ProposalCreated struct {
	ProposalID  uint64 `json:"proposalId"`
	Description string `json:"description"`
}

func (ProposalCreated) Standard() string { return standard }
func (ProposalCreated) Name() string     { return "proposal_created" }
func (e ProposalCreated) Payload() any   { return e }

// QuorumUpdated is emitted once the quorum-update proposal is approved.
type QuorumUpdated struct {
	CitizenCount uint64 `json:"citizenCount"`
	NewQuorum    uint64 `json:"newQuorum"`
	ProposalID   uint64 `json:"proposalId"`
}

func (QuorumUpdated) Standard() string { return standard }
func (QuorumUpdated) Name() string     { return "quorum_updated" }
func (e QuorumUpdated) Payload() any   { return e }

var (
	_ events.Event = MemberAdded{}
	_ events.Event = ProposalCreated{}
	_ events.Event = QuorumUpdated{}
)
