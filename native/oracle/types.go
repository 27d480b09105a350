// Package oracle implements the Identity Oracle (spec §3.1, §4.1): the
// authenticated binding between a zero-knowledge passport attestation and a
// NEAR-style account, with nullifier and account uniqueness enforced and
// signed-challenge proof of account control.
package oracle

import "fmt"

// AttestationID is the closed enumeration of attestation types the Oracle
// accepts (spec §3.1).
type AttestationID string

const (
	AttestationPassport AttestationID = "1"
	AttestationIDCard   AttestationID = "2"
	AttestationBiometric AttestationID = "3"
)

// Valid reports whether id is one of the three accepted attestation tags.
func (id AttestationID) Valid() bool {
	switch id {
	case AttestationPassport, AttestationIDCard, AttestationBiometric:
		return true
	default:
		return false
	}
}

const (
	// MaxNullifierBytes bounds VerificationRecord.Nullifier.
	MaxNullifierBytes = 80
	// MaxContextBytes bounds VerificationRecord.UserContextData.
	MaxContextBytes = 4096
	// MaxProofFieldBytes bounds every individual proof scalar / public
	// signal string.
	MaxProofFieldBytes = 80
	// MaxPublicSignals bounds the length of ProofBlob.PublicSignals.
	MaxPublicSignals = 21
	// BatchLimit bounds are_verified/get_verifications batch size.
	BatchLimit = 100
	// PageLimit bounds list_verifications pagination.
	PageLimit = 100
)

// ProofBlob is the bounded-shape zero-knowledge proof payload (spec §3.1):
// two scalar-pair arrays (A, C), one 2x2 array (B), and a bounded list of
// decimal-digit public signal strings. The Oracle does not verify the proof
// itself -- that's the trusted off-chain backend's job (spec §1 Non-goals)
// -- it only validates the shape before persisting it.
type ProofBlob struct {
	A             [2]string    `json:"a"`
	B             [2][2]string `json:"b"`
	C             [2]string    `json:"c"`
	PublicSignals []string     `json:"publicSignals"`
}

// Validate checks every scalar/signal against the per-field length bound.
func (p ProofBlob) Validate() error {
	for _, s := range p.A {
		if len(s) > MaxProofFieldBytes {
			return fmt.Errorf("proof scalar exceeds maximum length")
		}
	}
	for _, row := range p.B {
		for _, s := range row {
			if len(s) > MaxProofFieldBytes {
				return fmt.Errorf("proof scalar exceeds maximum length")
			}
		}
	}
	for _, s := range p.C {
		if len(s) > MaxProofFieldBytes {
			return fmt.Errorf("proof scalar exceeds maximum length")
		}
	}
	if len(p.PublicSignals) > MaxPublicSignals {
		return fmt.Errorf("too many public signals")
	}
	for _, s := range p.PublicSignals {
		if len(s) > MaxProofFieldBytes {
			return fmt.Errorf("public signal exceeds maximum length")
		}
	}
	return nil
}

// SignatureData is the off-chain signed challenge attached to a
// store_verification call (spec §4.1.2, §6.3).
type SignatureData struct {
	AccountID string
	Signature []byte
	PublicKey []byte
	Challenge string
	Nonce     []byte
	Recipient string
}

// StoreVerificationArgs bundles store_verification's inputs (spec §4.1.2).
type StoreVerificationArgs struct {
	Nullifier       string
	AccountID       string
	AttestationID   AttestationID
	Signature       SignatureData
	Proof           ProofBlob
	UserContextData string
}

// Summary is the public, proof-free view returned by get_verification.
type Summary struct {
	AccountID     string        `json:"accountId"`
	AttestationID AttestationID `json:"attestationId"`
	VerifiedAt    int64         `json:"verifiedAt"`
}
