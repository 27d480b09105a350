// Package dao models the external Sputnik-style DAO contract the Bridge
// drives (spec §6.2): the proposal/role/vote-policy vocabulary, plus a
// reference in-memory implementation for tests and the local demo.
package dao

import "fmt"

// Action is one of the DAO's act_proposal verbs.
type Action string

const (
	ActionVoteApprove Action = "VoteApprove"
	ActionVoteReject  Action = "VoteReject"
	ActionVoteRemove  Action = "VoteRemove"
	ActionFinalize    Action = "Finalize"
	ActionMoveToHub   Action = "MoveToHub"
)

// ProposalKind is the tagged union of proposal shapes the DAO accepts
// (spec §6.2). Only the fields of the variant named by Tag are populated.
type ProposalKind struct {
	Tag string `json:"tag"`

	// Vote carries no payload.

	// AddMemberToRole / RemoveMemberFromRole.
	MemberID string `json:"memberId,omitempty"`
	Role     string `json:"role,omitempty"`

	// ChangePolicyAddOrUpdateRole.
	NewRole *Role `json:"newRole,omitempty"`
}

const (
	KindVote                        = "Vote"
	KindAddMemberToRole              = "AddMemberToRole"
	KindRemoveMemberFromRole         = "RemoveMemberFromRole"
	KindChangePolicyAddOrUpdateRole = "ChangePolicyAddOrUpdateRole"
)

// VoteAddMemberToRole builds an AddMemberToRole proposal kind.
func VoteAddMemberToRole(memberID, role string) ProposalKind {
	return ProposalKind{Tag: KindAddMemberToRole, MemberID: memberID, Role: role}
}

// KindRemoveMember builds a RemoveMemberFromRole proposal kind.
func KindRemoveMember(memberID, role string) ProposalKind {
	return ProposalKind{Tag: KindRemoveMemberFromRole, MemberID: memberID, Role: role}
}

// KindChangePolicy builds a ChangePolicyAddOrUpdateRole proposal kind.
func KindChangePolicy(role Role) ProposalKind {
	return ProposalKind{Tag: KindChangePolicyAddOrUpdateRole, NewRole: &role}
}

// KindVoteOnly builds a text-only Vote proposal kind.
func KindVoteOnly() ProposalKind {
	return ProposalKind{Tag: KindVote}
}

// RoleKind discriminates whether a Role's membership is open or a fixed
// group.
type RoleKind string

const (
	RoleKindEveryone RoleKind = "Everyone"
	RoleKindGroup    RoleKind = "Group"
)

// Threshold is either a fixed weight (a big-integer string) or a
// (numerator, denominator) ratio. It encodes to JSON as an object with
// fixedWeight or ratioNum/ratioDenom fields, not as a two-element array;
// after decoding, a ratio is recognised only by a non-zero ratioDenom.
type Threshold struct {
	FixedWeight string `json:"fixedWeight,omitempty"`
	RatioNum    uint64 `json:"ratioNum,omitempty"`
	RatioDenom  uint64 `json:"ratioDenom,omitempty"`
	isRatio     bool
}

// FixedThreshold builds a fixed-weight threshold.
func FixedThreshold(weight string) Threshold { return Threshold{FixedWeight: weight} }

// RatioThreshold builds a (num, denom) ratio threshold.
func RatioThreshold(num, denom uint64) Threshold {
	return Threshold{RatioNum: num, RatioDenom: denom, isRatio: true}
}

// IsRatio reports whether the threshold is expressed as a ratio.
func (t Threshold) IsRatio() bool { return t.isRatio || t.RatioDenom != 0 }

// VotePolicy is a role's per-kind voting configuration (spec §6.2).
type VotePolicy struct {
	WeightKind string    `json:"weightKind"`
	Quorum     uint64    `json:"quorum"`
	Threshold  Threshold `json:"threshold"`
}

// Validate enforces the spec's hard invariant: a ratio threshold must
// never carry a zero denominator (spec §6.2, "the Bridge must never emit
// a zero denominator").
func (p VotePolicy) Validate() error {
	if p.Threshold.IsRatio() && p.Threshold.RatioDenom == 0 {
		return fmt.Errorf("vote policy ratio threshold denominator must be non-zero")
	}
	return nil
}

// Role is a DAO role definition (spec §6.2).
type Role struct {
	Name        string                `json:"name"`
	Kind        RoleKind              `json:"kind"`
	Members     []string              `json:"members,omitempty"`
	Permissions []string              `json:"permissions"`
	VotePolicy  map[string]VotePolicy `json:"votePolicy"`
}

// ValidatePolicy validates every VotePolicy attached to the role.
func ValidatePolicy(role Role) error {
	for kind, policy := range role.VotePolicy {
		if err := policy.Validate(); err != nil {
			return fmt.Errorf("role %s policy %s: %w", role.Name, kind, err)
		}
	}
	return nil
}

// Policy is the DAO-wide policy object get_policy() returns: the set of
// roles currently defined.
type Policy struct {
	Roles []Role `json:"roles"`
}

// RoleByName returns the named role, if present.
func (p Policy) RoleByName(name string) (Role, bool) {
	for _, r := range p.Roles {
		if r.Name == name {
			return r, true
		}
	}
	return Role{}, false
}

// Proposal is a DAO proposal (spec §6.2).
type Proposal struct {
	ID          uint64       `json:"id"`
	Description string       `json:"description"`
	Kind        ProposalKind `json:"kind"`
	Status      string       `json:"status"`
}

// ErrWrongKind is returned by act_proposal when the caller's re-supplied
// kind does not match the proposal's stored kind (spec §6.2).
var ErrWrongKind = fmt.Errorf("ERR_WRONG_KIND")
