package bridge

import (
	"encoding/json"
	"fmt"
	"strings"

	"verifiedgov/chainsim"
	"verifiedgov/core/events"
	"verifiedgov/dao"
	"verifiedgov/observability"
)

// Default gas budgets per spec §6.5, used whenever the operator's config
// leaves a Params field at its zero value. add_member's seven-hop chain
// needs a generous total envelope; each hop gets a fixed static allocation.
const (
	DefaultGasAddMemberTotal chainsim.Gas = 255 * chainsim.TGas
	DefaultGasCreateProposal chainsim.Gas = 25 * chainsim.TGas
	DefaultGasPerHop         chainsim.Gas = 30 * chainsim.TGas
)

// Params carries the operator-configurable gas budgets (config.Global.Gas)
// the Bridge schedules its promise chains under. A zero field falls back to
// this package's Default* constant.
type Params struct {
	GasAddMemberTotal chainsim.Gas
	GasPerHop         chainsim.Gas
	GasCreateProposal chainsim.Gas
}

func (p Params) withDefaults() Params {
	if p.GasAddMemberTotal == 0 {
		p.GasAddMemberTotal = DefaultGasAddMemberTotal
	}
	if p.GasPerHop == 0 {
		p.GasPerHop = DefaultGasPerHop
	}
	if p.GasCreateProposal == 0 {
		p.GasCreateProposal = DefaultGasCreateProposal
	}
	return p
}

// Contract is the DAO-Role Bridge (spec §3.3, §4.3). It carries no
// transactional state beyond Config; all durable state lives on the DAO.
type Contract struct {
	store   *Store
	emitter events.Emitter
	dao     DAOClient
	oracle  OracleIsVerifiedQuery
	runner  *chainsim.Runner
	params  Params
}

// New constructs a Bridge bound to db, driving daoClient and querying the
// Oracle via oracle. Zero-valued fields of params fall back to this
// package's documented gas defaults.
func New(store *Store, emitter events.Emitter, daoClient DAOClient, oracle OracleIsVerifiedQuery, runner *chainsim.Runner, params Params) *Contract {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Contract{store: store, emitter: emitter, dao: daoClient, oracle: oracle, runner: runner, params: params.withDefaults()}
}

// Init stores the Bridge's configuration (once, at deploy time).
func (c *Contract) Init(cfg Config) error {
	existing, err := c.store.GetConfig()
	if err != nil {
		return err
	}
	if existing.BackendWallet != "" {
		return fmt.Errorf("contract already initialized")
	}
	return c.store.PutConfig(cfg)
}

func (c *Contract) requireBackendWallet(caller chainsim.AccountID) error {
	cfg, err := c.store.GetConfig()
	if err != nil {
		return err
	}
	if string(caller) != cfg.BackendWallet {
		return fmt.Errorf("Only backend wallet can call this function")
	}
	return nil
}

// UpdateBackendWallet rotates the authorized writer (spec §4.3.4: admin
// mutation, one yocto required).
func (c *Contract) UpdateBackendWallet(ctx *chainsim.Context, newWallet string) error {
	if err := chainsim.RequireOneYocto(ctx.Deposit()); err != nil {
		return err
	}
	if err := c.requireBackendWallet(ctx.Predecessor); err != nil {
		return err
	}
	cfg, err := c.store.GetConfig()
	if err != nil {
		return err
	}
	cfg.BackendWallet = newWallet
	return c.store.PutConfig(cfg)
}

// UpdateCitizenRole rotates the target DAO role name (spec §4.3.4: admin
// mutation, one yocto required).
func (c *Contract) UpdateCitizenRole(ctx *chainsim.Context, newRole string) error {
	if err := chainsim.RequireOneYocto(ctx.Deposit()); err != nil {
		return err
	}
	if err := c.requireBackendWallet(ctx.Predecessor); err != nil {
		return err
	}
	cfg, err := c.store.GetConfig()
	if err != nil {
		return err
	}
	cfg.CitizenRole = newRole
	return c.store.PutConfig(cfg)
}

// AddMember drives the full seven-hop add-member pipeline (spec §4.3.2).
// Only the backend wallet may call it.
func (c *Contract) AddMember(ctx *chainsim.Context, account string) (err error) {
	defer func() { observability.Bridge().RecordAddMember(err) }()
	if err := c.requireBackendWallet(ctx.Predecessor); err != nil {
		return err
	}
	cfg, err := c.store.GetConfig()
	if err != nil {
		return err
	}
	description := fmt.Sprintf("Add verified citizen %s to role %s", account, cfg.CitizenRole)

	_, err = c.runner.Run(c.params.GasAddMemberTotal, chainsim.Hop{
		IdemKey: fmt.Sprintf("bridge.add_member:%s", account),
		Gas:     c.params.GasPerHop,
		Call: func() ([]byte, error) {
			verified, err := c.oracle(account)
			if err != nil {
				return nil, err
			}
			return json.Marshal(verified)
		},
		Callback: c.cbAddMember(cfg, account, description),
	})
	return err
}

// cbAddMember is hop 1's callback: Oracle.is_verified -> DAO.add_proposal.
func (c *Contract) cbAddMember(cfg Config, account, description string) chainsim.PromiseCallback {
	return func(result chainsim.PromiseResult) (*chainsim.Hop, error) {
		if !result.OK() {
			return nil, fmt.Errorf("Verification check failed")
		}
		var verified bool
		if err := json.Unmarshal(result.Value(), &verified); err != nil {
			return nil, fmt.Errorf("Verification check failed")
		}
		if !verified {
			return nil, fmt.Errorf("Account is not verified - cannot add to DAO")
		}
		kind := dao.VoteAddMemberToRole(account, cfg.CitizenRole)
		return &chainsim.Hop{
			Gas:      c.params.GasPerHop,
			Call:     func() ([]byte, error) { return encodeUint64Result(c.dao.AddProposal(description, kind)) },
			Callback: c.cbProposalCreated(cfg, account, kind),
		}, nil
	}
}

// cbProposalCreated is hop 2's callback: decode the new proposal id, then
// auto-approve it.
func (c *Contract) cbProposalCreated(cfg Config, account string, kind dao.ProposalKind) chainsim.PromiseCallback {
	return func(result chainsim.PromiseResult) (*chainsim.Hop, error) {
		id, err := decodeUint64Result(result)
		if err != nil {
			return nil, err
		}
		return &chainsim.Hop{
			Gas: c.params.GasPerHop,
			Call: func() ([]byte, error) {
				return nil, c.dao.ActProposal(id, dao.ActionVoteApprove, kind)
			},
			Callback: c.cbMemberAdded(cfg, account, id),
		}, nil
	}
}

// cbMemberAdded is hop 3's callback: the member is now on the DAO. Emit
// member_added, then move on to recompute quorum.
func (c *Contract) cbMemberAdded(cfg Config, account string, proposalID uint64) chainsim.PromiseCallback {
	return func(result chainsim.PromiseResult) (*chainsim.Hop, error) {
		if !result.OK() {
			return nil, result.Err()
		}
		c.emitter.Emit(MemberAdded{MemberID: account, Role: cfg.CitizenRole, ProposalID: proposalID})
		return &chainsim.Hop{
			Gas:      c.params.GasPerHop,
			Call:     func() ([]byte, error) { return json.Marshal(c.dao.GetPolicy()) },
			Callback: c.cbPolicyForQuorum(cfg),
		}, nil
	}
}

// cbPolicyForQuorum is hop 4's callback: read the updated role's member
// count and compute the new baseline quorum.
func (c *Contract) cbPolicyForQuorum(cfg Config) chainsim.PromiseCallback {
	return func(result chainsim.PromiseResult) (*chainsim.Hop, error) {
		if !result.OK() {
			return nil, result.Err()
		}
		var policy dao.Policy
		if err := json.Unmarshal(result.Value(), &policy); err != nil {
			return nil, fmt.Errorf("Verification check failed")
		}
		role, ok := policy.RoleByName(cfg.CitizenRole)
		if !ok {
			return nil, fmt.Errorf("role %s not found", cfg.CitizenRole)
		}
		citizenCount := uint64(len(role.Members))
		quorum, err := CalculateQuorum(citizenCount)
		if err != nil {
			return nil, err
		}
		newRole := role
		if newRole.VotePolicy == nil {
			newRole.VotePolicy = map[string]dao.VotePolicy{}
		}
		newRole.VotePolicy["default"] = dao.VotePolicy{
			WeightKind: "RoleWeight",
			Quorum:     quorum,
			Threshold:  dao.RatioThreshold(1, 2),
		}
		if err := dao.ValidatePolicy(newRole); err != nil {
			return nil, err
		}
		kind := dao.KindChangePolicy(newRole)
		return &chainsim.Hop{
			Gas:      c.params.GasPerHop,
			Call:     func() ([]byte, error) { return encodeUint64Result(c.dao.AddProposal("update citizen role quorum", kind)) },
			Callback: c.cbQuorumPropCreated(citizenCount, quorum),
		}, nil
	}
}

// cbQuorumPropCreated is hop 5's callback: decode the new quorum-update
// proposal id, then fetch it back to retrieve its canonical kind.
func (c *Contract) cbQuorumPropCreated(citizenCount, quorum uint64) chainsim.PromiseCallback {
	return func(result chainsim.PromiseResult) (*chainsim.Hop, error) {
		id, err := decodeUint64Result(result)
		if err != nil {
			return nil, err
		}
		return &chainsim.Hop{
			Gas: c.params.GasPerHop,
			Call: func() ([]byte, error) {
				p, err := c.dao.GetProposal(id)
				if err != nil {
					return nil, err
				}
				return json.Marshal(p)
			},
			Callback: c.cbGotQuorumProposal(citizenCount, quorum, id),
		}, nil
	}
}

// cbGotQuorumProposal is hop 6's callback: re-supply the canonical kind
// and auto-approve.
func (c *Contract) cbGotQuorumProposal(citizenCount, quorum, proposalID uint64) chainsim.PromiseCallback {
	return func(result chainsim.PromiseResult) (*chainsim.Hop, error) {
		if !result.OK() {
			return nil, result.Err()
		}
		var p dao.Proposal
		if err := json.Unmarshal(result.Value(), &p); err != nil {
			return nil, fmt.Errorf("Verification check failed")
		}
		return &chainsim.Hop{
			Gas: c.params.GasPerHop,
			Call: func() ([]byte, error) {
				return nil, c.dao.ActProposal(proposalID, dao.ActionVoteApprove, p.Kind)
			},
			Callback: c.cbQuorumUpdated(citizenCount, quorum, proposalID),
		}, nil
	}
}

// cbQuorumUpdated is hop 7's callback: the quorum change is now live.
func (c *Contract) cbQuorumUpdated(citizenCount, quorum, proposalID uint64) chainsim.PromiseCallback {
	return func(result chainsim.PromiseResult) (*chainsim.Hop, error) {
		if !result.OK() {
			return nil, result.Err()
		}
		c.emitter.Emit(QuorumUpdated{CitizenCount: citizenCount, NewQuorum: quorum, ProposalID: proposalID})
		observability.Bridge().SetQuorum(quorum)
		return nil, nil
	}
}

// CreateProposal drives create_proposal's two-hop chain (spec §4.3.3).
func (c *Contract) CreateProposal(ctx *chainsim.Context, description string) (id uint64, err error) {
	defer func() { observability.Bridge().RecordProposalCreated(err) }()
	if err := c.requireBackendWallet(ctx.Predecessor); err != nil {
		return 0, err
	}
	description = strings.TrimSpace(description)
	if err := ValidateDescription(description); err != nil {
		return 0, err
	}

	var newID uint64
	_, err = c.runner.Run(c.params.GasCreateProposal, chainsim.Hop{
		Gas: c.params.GasCreateProposal,
		Call: func() ([]byte, error) {
			return encodeUint64Result(c.dao.AddProposal(description, dao.KindVoteOnly()))
		},
		Callback: func(result chainsim.PromiseResult) (*chainsim.Hop, error) {
			id, err := decodeUint64Result(result)
			if err != nil {
				return nil, err
			}
			newID = id
			c.emitter.Emit(ProposalCreated{ProposalID: id, Description: description})
			return nil, nil
		},
	})
	if err != nil {
		return 0, err
	}
	return newID, nil
}

func encodeUint64Result(id uint64, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	return json.Marshal(id)
}

func decodeUint64Result(result chainsim.PromiseResult) (uint64, error) {
	if !result.OK() {
		return 0, result.Err()
	}
	var id uint64
	if err := json.Unmarshal(result.Value(), &id); err != nil {
		return 0, fmt.Errorf("Verification check failed")
	}
	return id, nil
}
