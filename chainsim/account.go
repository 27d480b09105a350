// Package chainsim provides a deterministic, single-process stand-in for the
// asynchronous, promise-scheduling execution model the contracts in this
// repository are written against (see spec §5). It is not a blockchain: it
// gives contract code the handful of host primitives it needs (predecessor,
// attached deposit, block timestamp, promise scheduling) so that the
// contracts can be exercised and tested without a real validator network.
package chainsim

import (
	"fmt"
	"math/big"
	"strings"
)

// AccountID is an opaque account identifier, e.g. "backend.near" or
// "alice.near". The simulator never interprets its structure beyond basic
// non-emptiness checks; real account-id grammar validation belongs to the
// platform this core treats as an external collaborator.
type AccountID string

// Valid reports whether the account id is non-empty once trimmed.
func (a AccountID) Valid() bool {
	return strings.TrimSpace(string(a)) != ""
}

func (a AccountID) String() string { return string(a) }

// OneYocto is the minimal currency unit used by every anti-accident deposit
// check in the spec (§4.1.1, §4.3.4).
func OneYocto() *big.Int { return big.NewInt(1) }

// RequireOneYocto asserts that exactly one yocto was attached to the call,
// guarding against fat-fingered transactions the way every admin mutation in
// the spec requires.
func RequireOneYocto(deposit *big.Int) error {
	if deposit == nil || deposit.Cmp(OneYocto()) != 0 {
		return fmt.Errorf("Requires attached deposit of exactly 1 yocto, found %s", depositString(deposit))
	}
	return nil
}

// RequireMinDeposit asserts that at least min was attached.
func RequireMinDeposit(deposit *big.Int, min *big.Int) error {
	if deposit == nil || deposit.Cmp(min) < 0 {
		return fmt.Errorf("requires attached deposit of at least %s, found %s", min.String(), depositString(deposit))
	}
	return nil
}

func depositString(d *big.Int) string {
	if d == nil {
		return "0"
	}
	return d.String()
}
