// Package signing implements the domain-separated, off-chain signed
// challenge format described in spec §6.3 (NEP-413-style): a wallet signs a
// canonical payload binding a message, a nonce, and a recipient account, and
// the Oracle verifies that signature on-chain before trusting the binding
// between a zero-knowledge attestation and a NEAR account.
package signing

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// NEP413DomainTag is the 4-byte little-endian domain separator prepended to
// every signed payload before hashing, so a key used for this purpose can
// never produce a signature that's also valid as a plain NEAR transaction
// signature (2^31 + 413).
const NEP413DomainTag uint32 = 1<<31 + 413

// NonceSize is the required length of the signed-challenge nonce.
const NonceSize = 32

// SignatureSize is the required length of an ed25519 signature.
const SignatureSize = ed25519.SignatureSize // 64

// PublicKeySize is the required length of the type-prefixed public key
// field: one type byte (0x00 == ed25519) followed by the 32-byte key.
const PublicKeySize = 1 + ed25519.PublicKeySize

// Payload is the canonical signed-challenge structure (spec §6.3).
type Payload struct {
	Message     string
	Nonce       [NonceSize]byte
	Recipient   string
	CallbackURL *string
}

// Challenge bundles the payload fields as they arrive over the wire,
// alongside the claimed account id, signature, and public key.
type Challenge struct {
	AccountID   string
	Signature   []byte
	PublicKey   []byte
	Message     string
	Nonce       []byte
	Recipient   string
	CallbackURL *string
}

// CanonicalBytes serializes the payload the way the wallet serialized it
// before signing: a borsh-style canonical encoding of
// { message, nonce, recipient, callback_url } with the domain tag prepended.
// There is no borsh library in this module's dependency set (see DESIGN.md);
// the encoding below reproduces borsh's rules for the specific shape used
// here (length-prefixed UTF-8 strings, a fixed byte array, and an Option
// tag byte) exactly, which is all this format ever needs.
func (p Payload) CanonicalBytes() []byte {
	buf := make([]byte, 0, 4+4+len(p.Message)+NonceSize+4+len(p.Recipient)+1)

	var tag [4]byte
	binary.LittleEndian.PutUint32(tag[:], NEP413DomainTag)
	buf = append(buf, tag[:]...)

	buf = appendBorshString(buf, p.Message)
	buf = append(buf, p.Nonce[:]...)
	buf = appendBorshString(buf, p.Recipient)

	if p.CallbackURL == nil {
		buf = append(buf, 0)
	} else {
		buf = append(buf, 1)
		buf = appendBorshString(buf, *p.CallbackURL)
	}
	return buf
}

func appendBorshString(buf []byte, s string) []byte {
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(s)))
	buf = append(buf, length[:]...)
	return append(buf, s...)
}

// Hash returns the SHA-256 digest of the payload's canonical byte
// representation -- the value the ed25519 signature is actually computed
// over.
func (p Payload) Hash() [32]byte {
	return sha256.Sum256(p.CanonicalBytes())
}

// VerifyChallenge checks a signed challenge against the expected account and
// recipient, per the Oracle's store_verification contract (spec §4.1.2
// steps 4-5). It returns the first violated invariant's exact error text
// from spec §6.4.
func VerifyChallenge(expectedAccount string, c Challenge) error {
	if len(c.Nonce) != NonceSize {
		return fmt.Errorf("Nonce must be exactly 32 bytes")
	}
	if len(c.Signature) != SignatureSize {
		return fmt.Errorf("Signature must be 64 bytes")
	}
	if len(c.PublicKey) != PublicKeySize {
		return fmt.Errorf("Invalid NEAR signature")
	}
	if c.PublicKey[0] != 0x00 {
		return fmt.Errorf("Invalid NEAR signature")
	}
	if c.AccountID != expectedAccount {
		return fmt.Errorf("Signature account ID must match")
	}
	if c.Recipient != expectedAccount {
		return fmt.Errorf("Signature recipient must match")
	}

	var nonce [NonceSize]byte
	copy(nonce[:], c.Nonce)
	payload := Payload{
		Message:     c.Message,
		Nonce:       nonce,
		Recipient:   c.Recipient,
		CallbackURL: c.CallbackURL,
	}
	digest := payload.Hash()

	pub := ed25519.PublicKey(c.PublicKey[1:])
	if !ed25519.Verify(pub, digest[:], c.Signature) {
		return fmt.Errorf("Invalid NEAR signature")
	}
	return nil
}

// Sign produces a signature over payload using priv, for use by tests that
// need to construct a valid Challenge without a real wallet.
func Sign(priv ed25519.PrivateKey, payload Payload) []byte {
	digest := payload.Hash()
	return ed25519.Sign(priv, digest[:])
}

// EncodePublicKey type-prefixes a raw ed25519 public key the way the
// wallet's signature_data.public_key field is encoded on the wire.
func EncodePublicKey(pub ed25519.PublicKey) []byte {
	out := make([]byte, 0, PublicKeySize)
	out = append(out, 0x00)
	return append(out, pub...)
}
