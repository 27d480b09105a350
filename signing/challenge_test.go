package signing

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	account = "alice.near"
)

func validChallenge(t *testing.T, priv ed25519.PrivateKey, pub ed25519.PublicKey) Challenge {
	t.Helper()
	var nonce [NonceSize]byte
	copy(nonce[:], []byte("0123456789012345678901234567890"))
	payload := Payload{Message: "verify", Nonce: nonce, Recipient: account}
	sig := Sign(priv, payload)
	return Challenge{
		AccountID: account,
		Signature: sig,
		PublicKey: EncodePublicKey(pub),
		Message:   payload.Message,
		Nonce:     nonce[:],
		Recipient: payload.Recipient,
	}
}

func TestVerifyChallengeAcceptsValidSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	require.NoError(t, VerifyChallenge(account, validChallenge(t, priv, pub)))
}

func TestVerifyChallengeRejectsShortNonce(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	c := validChallenge(t, priv, pub)
	c.Nonce = c.Nonce[:16]
	require.ErrorContains(t, VerifyChallenge(account, c), "Nonce must be exactly 32 bytes")
}

func TestVerifyChallengeRejectsLongNonce(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	c := validChallenge(t, priv, pub)
	c.Nonce = append(c.Nonce, 0x01)
	require.ErrorContains(t, VerifyChallenge(account, c), "Nonce must be exactly 32 bytes")
}

func TestVerifyChallengeRejectsWrongSignatureLength(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	c := validChallenge(t, priv, pub)
	c.Signature = c.Signature[:len(c.Signature)-1]
	require.ErrorContains(t, VerifyChallenge(account, c), "Signature must be 64 bytes")
}

func TestVerifyChallengeRejectsWrongPublicKeyLength(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	c := validChallenge(t, priv, pub)
	c.PublicKey = c.PublicKey[:len(c.PublicKey)-1]
	require.ErrorContains(t, VerifyChallenge(account, c), "Invalid NEAR signature")
}

func TestVerifyChallengeRejectsWrongPublicKeyTypeByte(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	c := validChallenge(t, priv, pub)
	c.PublicKey[0] = 0x01
	require.ErrorContains(t, VerifyChallenge(account, c), "Invalid NEAR signature")
}

func TestVerifyChallengeRejectsAccountIDMismatch(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	c := validChallenge(t, priv, pub)
	c.AccountID = "mallory.near"
	require.ErrorContains(t, VerifyChallenge(account, c), "Signature account ID must match")
}

func TestVerifyChallengeRejectsRecipientMismatch(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	c := validChallenge(t, priv, pub)
	c.Recipient = "mallory.near"
	require.ErrorContains(t, VerifyChallenge(account, c), "Signature recipient must match")
}

func TestVerifyChallengeRejectsBadSignatureBytes(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	c := validChallenge(t, priv, pub)
	c.Signature[0] ^= 0xFF
	require.ErrorContains(t, VerifyChallenge(account, c), "Invalid NEAR signature")
}

func TestVerifyChallengeRejectsSignatureFromWrongKey(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	otherPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	c := validChallenge(t, priv, pub)
	c.PublicKey = EncodePublicKey(otherPub)
	require.ErrorContains(t, VerifyChallenge(account, c), "Invalid NEAR signature")
}

func TestVerifyChallengeRejectsTamperedMessage(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	c := validChallenge(t, priv, pub)
	c.Message = "not what was signed"
	require.ErrorContains(t, VerifyChallenge(account, c), "Invalid NEAR signature")
}
