package governance

import (
	"encoding/json"
	"fmt"
	"strings"

	"verifiedgov/chainsim"
	"verifiedgov/core/events"
	"verifiedgov/observability"
)

// Default gas budgets and governance knobs per spec §6.5, used whenever
// the operator's config leaves a Params field at its zero value.
const (
	DefaultGasCreateProposal chainsim.Gas = 25 * chainsim.TGas
	DefaultGasVote           chainsim.Gas = 30 * chainsim.TGas
	DefaultGasFinalize       chainsim.Gas = 25 * chainsim.TGas
)

// Params carries the operator-configurable gas budgets and governance
// knobs (config.Global.Gas, config.Global.Governance) the Ledger runs
// under. A zero field falls back to this package's Default*/spec default.
type Params struct {
	GasCreateProposal chainsim.Gas
	GasVote           chainsim.Gas
	GasFinalize       chainsim.Gas
	DefaultQuorumPct  uint8
	VotingPeriodSecs  int64
}

func (p Params) withDefaults() Params {
	if p.GasCreateProposal == 0 {
		p.GasCreateProposal = DefaultGasCreateProposal
	}
	if p.GasVote == 0 {
		p.GasVote = DefaultGasVote
	}
	if p.GasFinalize == 0 {
		p.GasFinalize = DefaultGasFinalize
	}
	if p.DefaultQuorumPct == 0 {
		p.DefaultQuorumPct = DefaultQuorumPct
	}
	if p.VotingPeriodSecs == 0 {
		p.VotingPeriodSecs = VotingPeriodSeconds
	}
	return p
}

// Contract is the Governance Ledger (spec §3.2, §4.2).
type Contract struct {
	store   *Store
	emitter events.Emitter
	query   OracleQuery
	runner  *chainsim.Runner
	params  Params
}

// New constructs a Ledger bound to db, querying the Oracle via query.
// Zero-valued fields of params fall back to this package's documented
// defaults.
func New(store *Store, emitter events.Emitter, query OracleQuery, runner *chainsim.Runner, params Params) *Contract {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Contract{store: store, emitter: emitter, query: query, runner: runner, params: params.withDefaults()}
}

// Init records the Oracle pointer (once, at deploy time).
func (c *Contract) Init(oracleAccount string) error {
	existing, err := c.store.OracleAccount()
	if err != nil {
		return err
	}
	if existing != "" {
		return fmt.Errorf("contract already initialized")
	}
	return c.store.SetOracleAccount(oracleAccount)
}

// CreateProposal schedules the verify-then-create two-step pattern (spec
// §4.2.2): first confirm the caller is a verified citizen, then -- in the
// private callback -- validate and commit the new proposal.
func (c *Contract) CreateProposal(ctx *chainsim.Context, title, description, url string, quorumPct uint8) (id uint64, err error) {
	defer func() { observability.Governance().RecordProposalCreated(err) }()
	if err := chainsim.RequireMinDeposit(ctx.Deposit(), chainsim.OneYocto()); err != nil {
		return 0, err
	}
	proposer := string(ctx.Predecessor)
	createdAt := ctx.BlockTimestamp

	var newID uint64
	_, err = c.runner.Run(c.params.GasCreateProposal, chainsim.Hop{
		Gas:  c.params.GasCreateProposal,
		Call: func() ([]byte, error) { return c.query(proposer) },
		Callback: func(result chainsim.PromiseResult) (*chainsim.Hop, error) {
			if !result.OK() {
				return nil, fmt.Errorf("Only verified citizens can create proposals")
			}
			if _, err := decodeVerification(result.Value()); err != nil {
				return nil, fmt.Errorf("Failed to create proposal")
			}

			title = strings.TrimSpace(title)
			description = strings.TrimSpace(description)
			url = strings.TrimSpace(url)
			if err := ValidateTitle(title); err != nil {
				return nil, err
			}
			if err := ValidateDescription(description); err != nil {
				return nil, err
			}
			if err := ValidateURL(url); err != nil {
				return nil, err
			}
			if quorumPct == 0 {
				quorumPct = c.params.DefaultQuorumPct
			}
			if err := ValidateQuorumPct(uint64(quorumPct)); err != nil {
				return nil, err
			}

			id, err := c.store.NextProposalID()
			if err != nil {
				return nil, err
			}
			p := &Proposal{
				ID:           id,
				Title:        title,
				Description:  description,
				URL:          url,
				Proposer:     proposer,
				CreatedAt:    createdAt,
				VotingEndsAt: createdAt + c.params.VotingPeriodSecs,
				Status:       StatusActive,
				QuorumPct:    quorumPct,
			}
			if err := c.store.PutProposal(p, true); err != nil {
				return nil, err
			}
			newID = id
			c.emitter.Emit(ProposalCreated{ProposalID: id, Proposer: proposer, Title: title})
			return nil, nil
		},
	})
	if err != nil {
		return 0, err
	}
	return newID, nil
}

// Vote schedules the verify-then-vote two-step pattern, applying the
// snapshot rule: the voter's VerificationRecord must predate the
// proposal's creation (spec §4.2.1 "Snapshot support").
func (c *Contract) Vote(ctx *chainsim.Context, proposalID uint64, choice Choice) (err error) {
	defer func() { observability.Governance().RecordVote(string(choice), err) }()
	if err := chainsim.RequireMinDeposit(ctx.Deposit(), chainsim.OneYocto()); err != nil {
		return err
	}
	if !choice.Valid() {
		return fmt.Errorf("invalid vote choice")
	}
	voter := string(ctx.Predecessor)

	_, err = c.runner.Run(c.params.GasVote, chainsim.Hop{
		Gas:  c.params.GasVote,
		Call: func() ([]byte, error) { return c.query(voter) },
		Callback: func(result chainsim.PromiseResult) (*chainsim.Hop, error) {
			if !result.OK() {
				return nil, fmt.Errorf("Only verified citizens can vote")
			}
			view, err := decodeVerification(result.Value())
			if err != nil {
				return nil, fmt.Errorf("Verification check failed")
			}

			p, err := c.store.GetProposal(proposalID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, fmt.Errorf("Proposal not found")
			}
			if p.Status != StatusActive {
				return nil, fmt.Errorf("Proposal is not active")
			}
			if ctx.BlockTimestamp >= p.VotingEndsAt {
				return nil, fmt.Errorf("Voting period has ended")
			}
			if view.VerifiedAt >= p.CreatedAt {
				return nil, fmt.Errorf("You must be verified before the proposal was created to vote on it")
			}
			if _, already, err := c.store.GetBallot(proposalID, voter); err != nil {
				return nil, err
			} else if already {
				return nil, fmt.Errorf("Already voted on this proposal")
			}

			if err := c.store.PutBallot(proposalID, voter, choice); err != nil {
				return nil, err
			}
			tally, err := c.store.GetTally(proposalID)
			if err != nil {
				return nil, err
			}
			switch choice {
			case ChoiceYes:
				tally.Yes++
			case ChoiceNo:
				tally.No++
			case ChoiceAbstain:
				tally.Abstain++
			}
			if err := c.store.PutTally(proposalID, tally); err != nil {
				return nil, err
			}
			c.emitter.Emit(VoteCast{ProposalID: proposalID, Voter: voter, Vote: choice})
			return nil, nil
		},
	})
	return err
}

// VerifiedCitizenCountQuery schedules the cross-contract call to the
// Oracle's get_verified_count(), used to compute quorum at finalization.
// It returns the count JSON-encoded, mirroring a promise's raw payload.
type VerifiedCitizenCountQuery func() ([]byte, error)

// FinalizeProposal schedules the fetch-count-then-finalize two-step
// pattern and applies the outcome decision from spec §4.2.3 in the
// callback. Any account may call it -- finalization is censorship-
// resistant by design.
func (c *Contract) FinalizeProposal(ctx *chainsim.Context, proposalID uint64, citizenCount VerifiedCitizenCountQuery) (Status, error) {
	var status Status
	_, err := c.runner.Run(c.params.GasFinalize, chainsim.Hop{
		Gas:  c.params.GasFinalize,
		Call: citizenCount,
		Callback: func(result chainsim.PromiseResult) (*chainsim.Hop, error) {
			p, err := c.store.GetProposal(proposalID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, fmt.Errorf("Proposal not found")
			}
			if ctx.BlockTimestamp < p.VotingEndsAt {
				return nil, fmt.Errorf("Voting period has not ended yet")
			}
			if p.Status != StatusActive {
				return nil, fmt.Errorf("Proposal is not active")
			}
			if !result.OK() {
				return nil, fmt.Errorf("Verification check failed")
			}
			var total uint64
			if err := json.Unmarshal(result.Value(), &total); err != nil {
				return nil, fmt.Errorf("Verification check failed")
			}

			tally, err := c.store.GetTally(proposalID)
			if err != nil {
				return nil, err
			}
			quorumRequired := QuorumRequired(total, p.QuorumPct)

			switch {
			case tally.Yes+tally.No < quorumRequired:
				status = StatusQuorumNotMet
			case tally.Yes > tally.No:
				status = StatusPassed
			default:
				status = StatusFailed
			}

			p.Status = status
			if err := c.store.PutProposal(p, false); err != nil {
				return nil, err
			}
			observability.Governance().RecordFinalized(string(status))
			c.emitter.Emit(ProposalFinalized{
				ProposalID:     proposalID,
				Status:         status,
				YesVotes:       tally.Yes,
				NoVotes:        tally.No,
				TotalVotes:     tally.Total(),
				QuorumRequired: quorumRequired,
			})
			return nil, nil
		},
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// CancelProposal is synchronous: only the proposer may cancel, and only
// while the proposal is still active (spec §4.2.1, I8).
func (c *Contract) CancelProposal(ctx *chainsim.Context, proposalID uint64) error {
	p, err := c.store.GetProposal(proposalID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("Proposal not found")
	}
	if string(ctx.Predecessor) != p.Proposer {
		return fmt.Errorf("Only proposer can cancel proposal")
	}
	if p.Status != StatusActive {
		return fmt.Errorf("Can only cancel active proposals")
	}
	p.Status = StatusCancelled
	if err := c.store.PutProposal(p, false); err != nil {
		return err
	}
	c.emitter.Emit(ProposalCancelled{ProposalID: proposalID, CancelledBy: p.Proposer})
	return nil
}

// GetProposal is a public read.
func (c *Contract) GetProposal(id uint64) (*Proposal, error) { return c.store.GetProposal(id) }

// GetVote returns the choice a voter cast, if any.
func (c *Contract) GetVote(id uint64, account string) (Choice, bool, error) {
	return c.store.GetBallot(id, account)
}

// HasVoted reports whether account has cast a ballot on id.
func (c *Contract) HasVoted(id uint64, account string) (bool, error) {
	_, ok, err := c.store.GetBallot(id, account)
	return ok, err
}

// GetVoteCounts returns the cached tally.
func (c *Contract) GetVoteCounts(id uint64) (Tally, error) { return c.store.GetTally(id) }

// GetProposals is the paginated, optionally status-filtered batch read.
func (c *Contract) GetProposals(from uint64, limit uint64, status *Status) ([]*Proposal, error) {
	return c.store.ListProposalsFrom(from, limit, status)
}

// GetProposalCount returns the number of proposals ever created.
func (c *Contract) GetProposalCount() (uint64, error) { return c.store.ProposalCount() }

// Parameters is the fixed set of configuration values get_parameters
// exposes to callers (spec §4.2.1).
type Parameters struct {
	DefaultQuorumPct    uint8 `json:"defaultQuorumPct"`
	VotingPeriodSeconds int64 `json:"votingPeriodSeconds"`
	MaxTitleBytes       int   `json:"maxTitleBytes"`
	MaxDescriptionBytes int   `json:"maxDescriptionBytes"`
	MaxURLBytes         int   `json:"maxUrlBytes"`
}

// GetParameters returns the Ledger's running configuration.
func (c *Contract) GetParameters() Parameters {
	return Parameters{
		DefaultQuorumPct:    c.params.DefaultQuorumPct,
		VotingPeriodSeconds: c.params.VotingPeriodSecs,
		MaxTitleBytes:       MaxTitleBytes,
		MaxDescriptionBytes: MaxDescriptionBytes,
		MaxURLBytes:         MaxURLBytes,
	}
}
