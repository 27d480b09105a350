package governance

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"verifiedgov/storage"
)

// Key prefixes are frozen per spec §9's storage ABI: "Proposals", "Votes",
// "VoteCounts". Changing them breaks upgrades against existing state.
var (
	prefixProposals  = []byte("Proposals/")
	prefixVotes      = []byte("Votes/")
	prefixVoteCounts = []byte("VoteCounts/")
	prefixOrder      = []byte("ProposalOrder/")
	keyNextID        = []byte("Meta/NextProposalId")
	keyOracle        = []byte("Meta/OracleAccount")
)

// Store is the Ledger's persistence layer: Proposal, Ballot, and Tally
// tables plus the NextProposalId counter (spec §3.2).
type Store struct {
	db storage.Database
}

// NewStore wraps db as a Ledger Store.
func NewStore(db storage.Database) *Store {
	return &Store{db: db}
}

func proposalKey(id uint64) []byte {
	return append(append([]byte(nil), prefixProposals...), encodeUint64(id)...)
}

func ballotKey(id uint64, account string) []byte {
	key := append(append([]byte(nil), prefixVotes...), encodeUint64(id)...)
	return append(append(key, '/'), account...)
}

func tallyKey(id uint64) []byte {
	return append(append([]byte(nil), prefixVoteCounts...), encodeUint64(id)...)
}

func orderKey(index uint64) []byte {
	return append(append([]byte(nil), prefixOrder...), encodeUint64(index)...)
}

func encodeUint64(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

func decodeUint64(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// OracleAccount returns the configured Oracle pointer.
func (s *Store) OracleAccount() (string, error) {
	raw, err := s.db.Get(keyOracle)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return string(raw), err
}

// SetOracleAccount sets the Oracle pointer (init-only).
func (s *Store) SetOracleAccount(account string) error {
	return s.db.Put(keyOracle, []byte(account))
}

// NextProposalID returns and then increments the monotonic counter.
func (s *Store) NextProposalID() (uint64, error) {
	raw, err := s.db.Get(keyNextID)
	var id uint64
	if errors.Is(err, storage.ErrNotFound) {
		id = 0
	} else if err != nil {
		return 0, err
	} else {
		id = decodeUint64(raw)
	}
	if err := s.db.Put(keyNextID, encodeUint64(id+1)); err != nil {
		return 0, err
	}
	return id, nil
}

// ProposalCount returns the number of proposals created so far.
func (s *Store) ProposalCount() (uint64, error) {
	raw, err := s.db.Get(keyNextID)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return decodeUint64(raw), nil
}

// PutProposal inserts or updates a proposal and, for newly created ones,
// appends it to the pagination index.
func (s *Store) PutProposal(p *Proposal, isNew bool) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.db.Put(proposalKey(p.ID), payload); err != nil {
		return err
	}
	if isNew {
		return s.db.Put(orderKey(p.ID), encodeUint64(p.ID))
	}
	return nil
}

// GetProposal fetches a proposal by id.
func (s *Store) GetProposal(id uint64) (*Proposal, error) {
	raw, err := s.db.Get(proposalKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p Proposal
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("governance: corrupt proposal %d: %w", id, err)
	}
	return &p, nil
}

// ListProposalsFrom returns up to limit proposals starting at id from, in
// ascending id order, optionally filtered to a single status.
func (s *Store) ListProposalsFrom(from uint64, limit uint64, status *Status) ([]*Proposal, error) {
	if limit > PageLimit || limit == 0 {
		limit = PageLimit
	}
	count, err := s.ProposalCount()
	if err != nil {
		return nil, err
	}
	out := make([]*Proposal, 0, limit)
	for id := from; id < count && uint64(len(out)) < limit; id++ {
		p, err := s.GetProposal(id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		if status != nil && p.Status != *status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// GetBallot fetches the ballot (proposal_id, account) cast, if any.
func (s *Store) GetBallot(id uint64, account string) (Choice, bool, error) {
	raw, err := s.db.Get(ballotKey(id, account))
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return Choice(raw), true, nil
}

// PutBallot records a write-once ballot.
func (s *Store) PutBallot(id uint64, account string, choice Choice) error {
	return s.db.Put(ballotKey(id, account), []byte(choice))
}

// GetTally fetches the cached tally for a proposal.
func (s *Store) GetTally(id uint64) (Tally, error) {
	raw, err := s.db.Get(tallyKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return Tally{}, nil
	}
	if err != nil {
		return Tally{}, err
	}
	var t Tally
	if err := json.Unmarshal(raw, &t); err != nil {
		return Tally{}, fmt.Errorf("governance: corrupt tally %d: %w", id, err)
	}
	return t, nil
}

// PutTally stores the cached tally for a proposal.
func (s *Store) PutTally(id uint64, t Tally) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.db.Put(tallyKey(id), payload)
}
