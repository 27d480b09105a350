package oracle

import (
	"crypto/ed25519"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"verifiedgov/chainsim"
	"verifiedgov/core/events"
	"verifiedgov/signing"
	"verifiedgov/storage"
)

const (
	backend = "backend.near"
	self    = "oracle.near"
)

func newTestContract(t *testing.T) (*Contract, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	c := New(self, storage.NewMemDB(), rec)
	require.NoError(t, c.Init(backend))
	return c, rec
}

func signedArgs(t *testing.T, priv ed25519.PrivateKey, account, nullifier string) StoreVerificationArgs {
	t.Helper()
	pub := priv.Public().(ed25519.PublicKey)
	var nonce [32]byte
	copy(nonce[:], []byte("0123456789012345678901234567890"))
	payload := signing.Payload{Message: "verify", Nonce: nonce, Recipient: account}
	sig := signing.Sign(priv, payload)
	return StoreVerificationArgs{
		Nullifier:     nullifier,
		AccountID:     account,
		AttestationID: AttestationPassport,
		Signature: SignatureData{
			AccountID: account,
			Signature: sig,
			PublicKey: signing.EncodePublicKey(pub),
			Challenge: "verify",
			Nonce:     nonce[:],
			Recipient: account,
		},
		Proof: ProofBlob{PublicSignals: []string{"1", "2"}},
	}
}

func backendCtx() *chainsim.Context {
	return &chainsim.Context{
		Predecessor:     backend,
		Current:         self,
		AttachedDeposit: chainsim.OneYocto(),
		BlockTimestamp:  1000,
	}
}

func TestStoreVerificationSucceeds(t *testing.T) {
	c, rec := newTestContract(t)
	_, priv, _ := ed25519.GenerateKey(nil)
	args := signedArgs(t, priv, "alice.near", "null-1")

	require.NoError(t, c.StoreVerification(backendCtx(), args))

	verified, err := c.IsVerified("alice.near")
	require.NoError(t, err)
	require.True(t, verified)
	require.Equal(t, []string{"verification_stored"}, rec.Names())
}

func TestStoreVerificationRejectsDuplicateNullifier(t *testing.T) {
	c, _ := newTestContract(t)
	_, priv, _ := ed25519.GenerateKey(nil)
	require.NoError(t, c.StoreVerification(backendCtx(), signedArgs(t, priv, "alice.near", "null-1")))

	err := c.StoreVerification(backendCtx(), signedArgs(t, priv, "bob.near", "null-1"))
	require.EqualError(t, err, "Nullifier already used")
}

func TestStoreVerificationRejectsDuplicateAccount(t *testing.T) {
	c, _ := newTestContract(t)
	_, priv, _ := ed25519.GenerateKey(nil)
	require.NoError(t, c.StoreVerification(backendCtx(), signedArgs(t, priv, "alice.near", "null-1")))

	err := c.StoreVerification(backendCtx(), signedArgs(t, priv, "alice.near", "null-2"))
	require.EqualError(t, err, "NEAR account already verified")
}

func TestStoreVerificationRequiresOneYocto(t *testing.T) {
	c, _ := newTestContract(t)
	_, priv, _ := ed25519.GenerateKey(nil)
	ctx := backendCtx()
	ctx.AttachedDeposit = big.NewInt(2)

	err := c.StoreVerification(ctx, signedArgs(t, priv, "alice.near", "null-1"))
	require.ErrorContains(t, err, "Requires attached deposit of exactly 1 yocto")
}

func TestStoreVerificationRejectsWrongCaller(t *testing.T) {
	c, _ := newTestContract(t)
	_, priv, _ := ed25519.GenerateKey(nil)
	ctx := backendCtx()
	ctx.Predecessor = "mallory.near"

	err := c.StoreVerification(ctx, signedArgs(t, priv, "alice.near", "null-1"))
	require.EqualError(t, err, "Only backend wallet can store verifications")
}

func TestStoreVerificationRejectsBadSignature(t *testing.T) {
	c, _ := newTestContract(t)
	_, priv, _ := ed25519.GenerateKey(nil)
	args := signedArgs(t, priv, "alice.near", "null-1")
	args.Signature.Signature[0] ^= 0xff

	err := c.StoreVerification(backendCtx(), args)
	require.EqualError(t, err, "Invalid NEAR signature")
}

func TestStoreVerificationRejectsInvalidAttestation(t *testing.T) {
	c, _ := newTestContract(t)
	_, priv, _ := ed25519.GenerateKey(nil)
	args := signedArgs(t, priv, "alice.near", "null-1")
	args.AttestationID = "9"

	err := c.StoreVerification(backendCtx(), args)
	require.EqualError(t, err, "Attestation ID must be one of: 1, 2, 3")
}

func TestStoreVerificationRejectsWhilePaused(t *testing.T) {
	c, _ := newTestContract(t)
	require.NoError(t, c.Pause(backendCtx()))

	_, priv, _ := ed25519.GenerateKey(nil)
	err := c.StoreVerification(backendCtx(), signedArgs(t, priv, "alice.near", "null-1"))
	require.EqualError(t, err, "Contract is paused")
}

func TestPauseIsIdempotentForbidden(t *testing.T) {
	c, _ := newTestContract(t)
	require.NoError(t, c.Pause(backendCtx()))
	require.EqualError(t, c.Pause(backendCtx()), "Contract is paused")

	require.NoError(t, c.Unpause(backendCtx()))
	require.EqualError(t, c.Unpause(backendCtx()), "contract is not paused")
}

func TestUpdateBackendWalletRotatesWriter(t *testing.T) {
	c, rec := newTestContract(t)
	require.NoError(t, c.UpdateBackendWallet(backendCtx(), "backend2.near"))

	wallet, err := c.GetBackendWallet()
	require.NoError(t, err)
	require.Equal(t, "backend2.near", wallet)
	require.Contains(t, rec.Names(), "backend_wallet_updated")

	_, priv, _ := ed25519.GenerateKey(nil)
	err = c.StoreVerification(backendCtx(), signedArgs(t, priv, "alice.near", "null-1"))
	require.EqualError(t, err, "Only backend wallet can store verifications")
}

func TestListVerificationsPaginatesInInsertionOrder(t *testing.T) {
	c, _ := newTestContract(t)
	_, priv, _ := ed25519.GenerateKey(nil)
	for i, account := range []string{"alice.near", "bob.near", "carol.near"} {
		args := signedArgs(t, priv, account, account)
		_ = i
		require.NoError(t, c.StoreVerification(backendCtx(), args))
	}

	page, err := c.ListVerifications(1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "bob.near", page[0].AccountID)
	require.Equal(t, "carol.near", page[1].AccountID)

	count, err := c.GetVerifiedCount()
	require.NoError(t, err)
	require.Equal(t, uint64(3), count)
}

func TestMigrateIsSelfOnlyAndIdempotent(t *testing.T) {
	c, _ := newTestContract(t)
	ctx := &chainsim.Context{Predecessor: "mallory.near", Current: self}
	require.ErrorContains(t, c.Migrate(ctx), "contract's own account")

	ctx.Predecessor = self
	require.NoError(t, c.Migrate(ctx))
	require.NoError(t, c.Migrate(ctx))
}

func TestMaterializeUpgradesV1RecordLazily(t *testing.T) {
	v1 := VersionedVerification{Version: RecordVersionV1, V1: &RecordV1{AccountID: "alice.near", AttestationID: AttestationPassport}}
	v2 := v1.Materialize()
	require.Equal(t, "alice.near", v2.AccountID)
	require.Nil(t, v2.RevokedAt)
}
