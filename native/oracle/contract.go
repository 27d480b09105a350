package oracle

import (
	"encoding/json"
	"fmt"

	"verifiedgov/chainsim"
	"verifiedgov/core/events"
	"verifiedgov/native/common"
	"verifiedgov/observability"
	"verifiedgov/signing"
	"verifiedgov/storage"
)

// InterfaceVersion is returned by interface_version(); it identifies the
// contract ABI shape, independent of the stored-state version.
const InterfaceVersion = "1.0.0"

// Contract is the Identity Oracle (spec §3.1, §4.1).
type Contract struct {
	store   *Store
	emitter events.Emitter
	self    chainsim.AccountID
}

// New constructs an Oracle contract bound to db, emitting through emitter
// (events.NoopEmitter{} if nil).
func New(self chainsim.AccountID, db storage.Database, emitter events.Emitter) *Contract {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Contract{store: NewStore(db), emitter: emitter, self: self}
}

// pauseView adapts Store to native/common.PauseView so the Oracle's own
// pause gate reuses native/common.Guard instead of a separate check.
type pauseView struct{ s *Store }

func (p pauseView) IsPaused(_ string) bool {
	paused, err := p.s.Paused()
	return err == nil && paused
}

func (c *Contract) guardNotPaused() error {
	if err := common.Guard(pauseView{c.store}, "oracle"); err != nil {
		return fmt.Errorf("Contract is paused")
	}
	return nil
}

// Init sets the initial backend wallet. Once a backend wallet is stored,
// further calls fail with "contract already initialized".
func (c *Contract) Init(backendWallet string) error {
	existing, err := c.store.BackendWallet()
	if err != nil {
		return err
	}
	if existing != "" {
		return fmt.Errorf("contract already initialized")
	}
	return c.store.SetBackendWallet(backendWallet)
}

func (c *Contract) requireBackendWallet(caller chainsim.AccountID, errText string) error {
	wallet, err := c.store.BackendWallet()
	if err != nil {
		return err
	}
	if string(caller) != wallet {
		return fmt.Errorf(errText)
	}
	return nil
}

// StoreVerification implements the full store_verification step sequence
// from spec §4.1.2. All steps must succeed or no state changes.
func (c *Contract) StoreVerification(ctx *chainsim.Context, args StoreVerificationArgs) (err error) {
	defer func() { observability.Oracle().RecordVerification(string(args.AttestationID), err) }()
	if err := chainsim.RequireOneYocto(ctx.Deposit()); err != nil {
		return err
	}
	// Step 1: paused flag clear.
	if err := c.guardNotPaused(); err != nil {
		return err
	}
	// Step 2: caller is backend wallet.
	if err := c.requireBackendWallet(ctx.Predecessor, "Only backend wallet can store verifications"); err != nil {
		return err
	}
	// Step 3: shape/enum validation.
	if !args.AttestationID.Valid() {
		return fmt.Errorf("Attestation ID must be one of: 1, 2, 3")
	}
	if len(args.Nullifier) == 0 || len(args.Nullifier) > MaxNullifierBytes {
		return fmt.Errorf("invalid nullifier length")
	}
	if len(args.UserContextData) > MaxContextBytes {
		return fmt.Errorf("user context data exceeds maximum length")
	}
	if err := args.Proof.Validate(); err != nil {
		return err
	}
	// Steps 4-5: signature verification (embedded account_id/recipient
	// equality is checked inside VerifyChallenge).
	challenge := signing.Challenge{
		AccountID: args.Signature.AccountID,
		Signature: args.Signature.Signature,
		PublicKey: args.Signature.PublicKey,
		Message:   args.Signature.Challenge,
		Nonce:     args.Signature.Nonce,
		Recipient: args.Signature.Recipient,
	}
	if err := signing.VerifyChallenge(args.AccountID, challenge); err != nil {
		return err
	}
	// Step 6: nullifier uniqueness.
	used, err := c.store.HasNullifier(args.Nullifier)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("Nullifier already used")
	}
	// Step 7: account uniqueness.
	taken, err := c.store.HasAccount(args.AccountID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("NEAR account already verified")
	}
	// Step 8: commit.
	record := NewVersionedVerification(RecordV2{
		RecordV1: RecordV1{
			Nullifier:       args.Nullifier,
			AccountID:       args.AccountID,
			AttestationID:   args.AttestationID,
			VerifiedAt:      ctx.BlockTimestamp,
			UserContextData: args.UserContextData,
			Proof:           args.Proof,
		},
	})
	if err := c.store.putNullifier(args.Nullifier); err != nil {
		return err
	}
	if err := c.store.PutRecord(args.AccountID, record); err != nil {
		return err
	}
	c.emitter.Emit(VerificationStored{
		AccountID:     args.AccountID,
		AttestationID: args.AttestationID,
		Nullifier:     args.Nullifier,
	})
	if count, countErr := c.store.Count(); countErr == nil {
		observability.Oracle().SetVerifiedCount(count)
	}
	return nil
}

// UpdateBackendWallet rotates the authorized writer (spec §4.1.1).
func (c *Contract) UpdateBackendWallet(ctx *chainsim.Context, newWallet string) error {
	if err := chainsim.RequireOneYocto(ctx.Deposit()); err != nil {
		return err
	}
	if err := c.requireBackendWallet(ctx.Predecessor, "Only backend wallet can store verifications"); err != nil {
		return err
	}
	old, err := c.store.BackendWallet()
	if err != nil {
		return err
	}
	if err := c.store.SetBackendWallet(newWallet); err != nil {
		return err
	}
	c.emitter.Emit(BackendWalletUpdated{OldWallet: old, NewWallet: newWallet})
	return nil
}

// Pause sets PausedFlag. Idempotent-forbidden: fails if already paused.
func (c *Contract) Pause(ctx *chainsim.Context) error {
	if err := chainsim.RequireOneYocto(ctx.Deposit()); err != nil {
		return err
	}
	if err := c.requireBackendWallet(ctx.Predecessor, "Only backend wallet can pause contract"); err != nil {
		return err
	}
	paused, err := c.store.Paused()
	if err != nil {
		return err
	}
	if paused {
		return fmt.Errorf("Contract is paused")
	}
	if err := c.store.SetPaused(true); err != nil {
		return err
	}
	c.emitter.Emit(ContractPaused{By: string(ctx.Predecessor)})
	return nil
}

// Unpause clears PausedFlag. Idempotent-forbidden: fails if not paused.
func (c *Contract) Unpause(ctx *chainsim.Context) error {
	if err := chainsim.RequireOneYocto(ctx.Deposit()); err != nil {
		return err
	}
	if err := c.requireBackendWallet(ctx.Predecessor, "Only backend wallet can pause contract"); err != nil {
		return err
	}
	paused, err := c.store.Paused()
	if err != nil {
		return err
	}
	if !paused {
		return fmt.Errorf("contract is not paused")
	}
	if err := c.store.SetPaused(false); err != nil {
		return err
	}
	c.emitter.Emit(ContractUnpaused{By: string(ctx.Predecessor)})
	return nil
}

// IsVerified reports whether account has a stored record.
func (c *Contract) IsVerified(account string) (bool, error) {
	return c.store.HasAccount(account)
}

// GetVerification returns the proof-free summary view.
func (c *Contract) GetVerification(account string) (*Summary, error) {
	v, ok, err := c.store.GetRecord(account)
	if err != nil || !ok {
		return nil, err
	}
	rec := v.Materialize()
	return &Summary{AccountID: rec.AccountID, AttestationID: rec.AttestationID, VerifiedAt: rec.VerifiedAt}, nil
}

// GetFullVerification returns the full materialized record, including the
// proof blob.
func (c *Contract) GetFullVerification(account string) (*RecordV2, error) {
	v, ok, err := c.store.GetRecord(account)
	if err != nil || !ok {
		return nil, err
	}
	rec := v.Materialize()
	return &rec, nil
}

// AreVerified batch-checks accounts, capped at BatchLimit.
func (c *Contract) AreVerified(accounts []string) ([]bool, error) {
	if len(accounts) > BatchLimit {
		return nil, fmt.Errorf("batch exceeds maximum size")
	}
	out := make([]bool, len(accounts))
	for i, a := range accounts {
		ok, err := c.store.HasAccount(a)
		if err != nil {
			return nil, err
		}
		out[i] = ok
	}
	return out, nil
}

// GetVerifications batch-fetches summaries, parallel-indexed with accounts;
// an unverified slot is nil.
func (c *Contract) GetVerifications(accounts []string) ([]*Summary, error) {
	if len(accounts) > BatchLimit {
		return nil, fmt.Errorf("batch exceeds maximum size")
	}
	out := make([]*Summary, len(accounts))
	for i, a := range accounts {
		s, err := c.GetVerification(a)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// ListVerifications paginates over the AccountIndex in insertion order.
func (c *Contract) ListVerifications(from uint64, limit uint64) ([]Summary, error) {
	if limit > PageLimit || limit == 0 {
		limit = PageLimit
	}
	accounts, err := c.store.ListAccountsFrom(from, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(accounts))
	for _, a := range accounts {
		s, err := c.GetVerification(a)
		if err != nil {
			return nil, err
		}
		if s != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

// GetVerifiedCount returns the number of stored records.
func (c *Contract) GetVerifiedCount() (uint64, error) { return c.store.Count() }

// IsPaused reports PausedFlag.
func (c *Contract) IsPaused() (bool, error) { return c.store.Paused() }

// InterfaceVersion returns the ABI version string.
func (c *Contract) InterfaceVersion() string { return InterfaceVersion }

// GetBackendWallet returns the currently authorized writer.
func (c *Contract) GetBackendWallet() (string, error) { return c.store.BackendWallet() }

// currentMigrationVersion is the state-shape version migrate() transforms
// state into. Bump this, and add a case to Migrate, whenever RecordVersion
// gains a new variant that requires an eager (non-lazy) transform.
const currentMigrationVersion uint8 = uint8(RecordVersionV2)

// Migrate performs the Oracle's one-shot post-upgrade state transform
// (spec §4.1.3). It is #[private]: it fails unless ctx.IsSelf(), i.e.
// unless the contract's own account is the predecessor. Calling it again after it has already
// reached currentMigrationVersion is a safe no-op.
func (c *Contract) Migrate(ctx *chainsim.Context) error {
	if !ctx.IsSelf() {
		return fmt.Errorf("migrate can only be called by the contract's own account")
	}
	migrated, ok, err := c.store.MigratedTo()
	if err != nil {
		return err
	}
	if ok && migrated >= currentMigrationVersion {
		return nil
	}
	return c.store.SetMigratedTo(currentMigrationVersion)
}

// marshalForPromise renders v as the JSON payload a scheduled cross-contract
// call to the Oracle returns to its caller's callback (spec §4.2.2).
func marshalForPromise(v any) ([]byte, error) {
	return json.Marshal(v)
}

// QueryVerificationForPromise is the Oracle-side handler a Ledger/Bridge
// promise hop calls: it returns the full materialized record as the JSON
// payload the caller's callback decodes, or an error if the account has no
// record at all.
func (c *Contract) QueryVerificationForPromise(account string) ([]byte, error) {
	rec, err := c.GetFullVerification(account)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("account is not verified")
	}
	return marshalForPromise(rec)
}
