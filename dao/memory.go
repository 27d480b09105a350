package dao

import (
	"encoding/json"
	"fmt"
)

// MemoryDAO is a reference in-memory implementation of the external DAO
// ABI (spec §6.2), used by Bridge tests and the local demo in place of a
// real Sputnik-style deployment.
type MemoryDAO struct {
	policy   Policy
	proposals []*Proposal
	nextID   uint64
}

// NewMemoryDAO constructs a DAO with a single named role and no members.
func NewMemoryDAO(citizenRole string) *MemoryDAO {
	return &MemoryDAO{
		policy: Policy{Roles: []Role{{
			Name:        citizenRole,
			Kind:        RoleKindGroup,
			Members:     nil,
			Permissions: []string{"VoteApprove", "VoteReject"},
			VotePolicy:  map[string]VotePolicy{},
		}}},
	}
}

// AddProposal implements add_proposal({description, kind}) -> u64.
func (d *MemoryDAO) AddProposal(description string, kind ProposalKind) (uint64, error) {
	if kind.Tag == KindChangePolicyAddOrUpdateRole {
		if kind.NewRole == nil {
			return 0, fmt.Errorf("missing role payload")
		}
		if err := ValidatePolicy(*kind.NewRole); err != nil {
			return 0, err
		}
	}
	id := d.nextID
	d.nextID++
	d.proposals = append(d.proposals, &Proposal{ID: id, Description: description, Kind: kind, Status: "InProgress"})
	return id, nil
}

// ActProposal implements act_proposal(id, action, kind, memo?). The
// caller must re-supply the proposal's kind; a mismatch yields
// ErrWrongKind (spec §6.2).
func (d *MemoryDAO) ActProposal(id uint64, action Action, kind ProposalKind) error {
	p := d.findProposal(id)
	if p == nil {
		return fmt.Errorf("proposal %d not found", id)
	}
	if !kindsEqual(p.Kind, kind) {
		return ErrWrongKind
	}
	switch action {
	case ActionVoteApprove:
		return d.approve(p)
	case ActionFinalize:
		p.Status = "Finalized"
		return nil
	default:
		p.Status = string(action)
		return nil
	}
}

func (d *MemoryDAO) approve(p *Proposal) error {
	p.Status = "Approved"
	switch p.Kind.Tag {
	case KindAddMemberToRole:
		role, ok := d.policy.RoleByName(p.Kind.Role)
		if !ok {
			return fmt.Errorf("role %s not found", p.Kind.Role)
		}
		role.Members = appendUnique(role.Members, p.Kind.MemberID)
		d.setRole(role)
	case KindRemoveMemberFromRole:
		role, ok := d.policy.RoleByName(p.Kind.Role)
		if !ok {
			return fmt.Errorf("role %s not found", p.Kind.Role)
		}
		role.Members = removeMember(role.Members, p.Kind.MemberID)
		d.setRole(role)
	case KindChangePolicyAddOrUpdateRole:
		if p.Kind.NewRole == nil {
			return fmt.Errorf("missing role payload")
		}
		d.setRole(*p.Kind.NewRole)
	}
	return nil
}

func (d *MemoryDAO) setRole(role Role) {
	for i, r := range d.policy.Roles {
		if r.Name == role.Name {
			d.policy.Roles[i] = role
			return
		}
	}
	d.policy.Roles = append(d.policy.Roles, role)
}

func (d *MemoryDAO) findProposal(id uint64) *Proposal {
	for _, p := range d.proposals {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// GetPolicy implements get_policy().
func (d *MemoryDAO) GetPolicy() Policy { return d.policy }

// GetProposal implements get_proposal(id).
func (d *MemoryDAO) GetProposal(id uint64) (*Proposal, error) {
	p := d.findProposal(id)
	if p == nil {
		return nil, fmt.Errorf("proposal %d not found", id)
	}
	return p, nil
}

// GetLastProposalID implements get_last_proposal_id().
func (d *MemoryDAO) GetLastProposalID() uint64 {
	if d.nextID == 0 {
		return 0
	}
	return d.nextID - 1
}

func kindsEqual(a, b ProposalKind) bool {
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return string(aj) == string(bj)
}

func appendUnique(members []string, member string) []string {
	for _, m := range members {
		if m == member {
			return members
		}
	}
	return append(members, member)
}

func removeMember(members []string, member string) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		if m != member {
			out = append(out, m)
		}
	}
	return out
}
