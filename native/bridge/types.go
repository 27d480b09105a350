// Package bridge implements the DAO-Role Bridge (spec §3.3, §4.3):
// translating a verified citizen into an external DAO's proposal/act
// vocabulary (AddMemberToRole + auto-approve + quorum policy update +
// auto-approve), hidden behind a single add_member(account) call.
package bridge

import "fmt"

// QuorumBasisPoints is the fixed percentage the Bridge targets for the
// citizen role's baseline quorum: ceil(7% * citizen_count) (spec §4.3.2).
const QuorumBasisPoints = 7

const (
	MaxDescriptionBytes = 10_000
	MinDescriptionBytes = 1
)

// ErrQuorumOverflow is the exact panic-turned-error text spec §6.4 and
// §4.3.2 require when the saturating quorum multiplication overflows.
var ErrQuorumOverflow = fmt.Errorf("Quorum calculation overflow")

// CalculateQuorum computes ceil(citizenCount * QuorumBasisPoints / 100),
// returning ErrQuorumOverflow instead of a value when the multiplication
// plus the rounding term would overflow uint64 (spec §4.3.2). This formula is intentionally
// kept separate from the Ledger's floor-based per-proposal quorum
// formula -- the two round in opposite directions for different reasons
// and must never be unified.
func CalculateQuorum(citizenCount uint64) (uint64, error) {
	const maxUint64 = ^uint64(0)
	if citizenCount != 0 && citizenCount > (maxUint64-99)/QuorumBasisPoints {
		return 0, ErrQuorumOverflow
	}
	numerator := citizenCount * QuorumBasisPoints
	return (numerator + 99) / 100, nil
}

// ValidateDescription enforces the 1-10000 byte bound shared by
// create_proposal's description (spec §4.3.3).
func ValidateDescription(desc string) error {
	if len(desc) < MinDescriptionBytes {
		return fmt.Errorf("Description cannot be empty")
	}
	if len(desc) > MaxDescriptionBytes {
		return fmt.Errorf("Description exceeds maximum length")
	}
	return nil
}

// Config is the Bridge's only durable state (spec §3.3): the Bridge
// itself is stateless across invocations beyond this configuration.
type Config struct {
	BackendWallet string `json:"backendWallet"`
	DAOAccount    string `json:"daoAccount"`
	OracleAccount string `json:"oracleAccount"`
	CitizenRole   string `json:"citizenRole"`
}
