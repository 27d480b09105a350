package oracle

import "verifiedgov/core/events"

const standard = "near-verified-accounts"

// VerificationStored is emitted the moment a new VersionedVerification is
// committed (spec §6.1).
type VerificationStored struct {
	AccountID     string        `json:"accountId"`
	AttestationID AttestationID `json:"attestationId"`
	Nullifier     string        `json:"nullifier"`
}

func (VerificationStored) Standard() string { return standard }
func (VerificationStored) Name() string     { return "verification_stored" }
func (e VerificationStored) Payload() any   { return e }

// ContractPaused is emitted by pause().
type ContractPaused struct {
	By string `json:"by"`
}

func (ContractPaused) Standard() string { return standard }
func (ContractPaused) Name() string     { return "contract_paused" }
func (e ContractPaused) Payload() any   { return e }

// ContractUnpaused is emitted by unpause().
type ContractUnpaused struct {
	By string `json:"by"`
}

func (ContractUnpaused) Standard() string { return standard }
func (ContractUnpaused) Name() string     { return "contract_unpaused" }
func (e ContractUnpaused) Payload() any   { return e }

// BackendWalletUpdated is emitted by update_backend_wallet.
type BackendWalletUpdated struct {
	OldWallet string `json:"oldWallet"`
	NewWallet string `json:"newWallet"`
}

func (BackendWalletUpdated) Standard() string { return standard }
func (BackendWalletUpdated) Name() string     { return "backend_wallet_updated" }
func (e BackendWalletUpdated) Payload() any   { return e }

var _ events.Event = VerificationStored{}
var _ events.Event = ContractPaused{}
var _ events.Event = ContractUnpaused{}
var _ events.Event = BackendWalletUpdated{}
