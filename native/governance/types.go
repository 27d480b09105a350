// Package governance implements the Governance Ledger (spec §3.2, §4.2):
// proposals and per-voter ballots, snapshot-based eligibility gated through
// the Identity Oracle via the verify-then-act two-step pattern, and quorum
// + majority finalization.
package governance

import "fmt"

// Status is a Proposal's position in its state machine (spec §4.2.4).
type Status string

const (
	StatusActive       Status = "Active"
	StatusPassed       Status = "Passed"
	StatusFailed       Status = "Failed"
	StatusQuorumNotMet Status = "QuorumNotMet"
	StatusCancelled    Status = "Cancelled"
)

// Terminal reports whether the status is absorbing.
func (s Status) Terminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusQuorumNotMet, StatusCancelled:
		return true
	default:
		return false
	}
}

// Choice is a ballot's vote.
type Choice string

const (
	ChoiceYes     Choice = "Yes"
	ChoiceNo      Choice = "No"
	ChoiceAbstain Choice = "Abstain"
)

// Valid reports whether c is one of the three accepted choices.
func (c Choice) Valid() bool {
	switch c {
	case ChoiceYes, ChoiceNo, ChoiceAbstain:
		return true
	default:
		return false
	}
}

const (
	MaxTitleBytes       = 200
	MaxDescriptionBytes = 10_000
	MaxURLBytes         = 500
	// VotingPeriodSeconds is the default voting window (spec §3.2:
	// voting-ends-at = created-at + 7 days); a non-zero
	// Params.VotingPeriodSecs replaces it.
	VotingPeriodSeconds = 7 * 24 * 60 * 60
	DefaultQuorumPct    = 10
	MinQuorumPct        = 1
	MaxQuorumPct        = 100
	PageLimit           = 100
)

// Proposal is the Ledger's central record (spec §3.2).
type Proposal struct {
	ID             uint64 `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	URL            string `json:"url,omitempty"`
	Proposer       string `json:"proposer"`
	CreatedAt      int64  `json:"createdAt"`
	VotingEndsAt   int64  `json:"votingEndsAt"`
	Status         Status `json:"status"`
	QuorumPct      uint8  `json:"quorumPct"`
}

// Tally is the cached per-proposal vote count (spec §3.2).
type Tally struct {
	Yes     uint64 `json:"yes"`
	No      uint64 `json:"no"`
	Abstain uint64 `json:"abstain"`
}

// Total returns yes + no + abstain.
func (t Tally) Total() uint64 { return t.Yes + t.No + t.Abstain }

// QuorumRequired computes floor(totalVerified * quorumPct / 100), the
// Ledger's quorum formula (spec §4.2.3). This formula is intentionally
// kept separate from the Bridge's ceil-based baseline quorum formula.
func QuorumRequired(totalVerified uint64, quorumPct uint8) uint64 {
	return totalVerified * uint64(quorumPct) / 100
}

// ValidateQuorumPct checks the 1-100 range (spec §6.4).
func ValidateQuorumPct(pct uint64) error {
	if pct < MinQuorumPct || pct > MaxQuorumPct {
		return fmt.Errorf("Quorum percentage must be between 1 and 100")
	}
	return nil
}

// ValidateTitle checks the non-empty, length-bounded title rule.
func ValidateTitle(title string) error {
	if len(title) == 0 {
		return fmt.Errorf("Title cannot be empty")
	}
	if len(title) > MaxTitleBytes {
		return fmt.Errorf("Title exceeds maximum length")
	}
	return nil
}

// ValidateDescription checks the non-empty, length-bounded description rule.
func ValidateDescription(desc string) error {
	if len(desc) == 0 {
		return fmt.Errorf("Description cannot be empty")
	}
	if len(desc) > MaxDescriptionBytes {
		return fmt.Errorf("Description exceeds maximum length")
	}
	return nil
}

// ValidateURL checks the optional discussion URL's length bound.
func ValidateURL(url string) error {
	if len(url) > MaxURLBytes {
		return fmt.Errorf("Discourse URL exceeds maximum length")
	}
	return nil
}
