package chainsim

import "math/big"

// Gas models the platform's abstract tera-gas budget (spec §6.5). It exists
// purely so gas-floor checks can be exercised deterministically; the
// simulator performs no real metering of work done.
type Gas uint64

// TGas is the conventional unit contracts express budgets in.
const TGas Gas = 1

// Context is the per-call execution context every contract method receives.
// It mirrors the handful of NEAR host functions the spec relies on:
// predecessor_account_id, current_account_id, attached_deposit,
// block_timestamp, and prepaid_gas.
type Context struct {
	Predecessor     AccountID
	Current         AccountID
	Signer          AccountID
	AttachedDeposit *big.Int
	// BlockTimestamp is seconds since the Unix epoch; the Ledger adds its
	// voting period in seconds to it.
	BlockTimestamp int64
	PrepaidGas     Gas
}

// Deposit returns the attached deposit, normalized to a non-nil big.Int so
// callers never need a nil check.
func (c *Context) Deposit() *big.Int {
	if c == nil || c.AttachedDeposit == nil {
		return big.NewInt(0)
	}
	return c.AttachedDeposit
}

// IsSelf reports whether the predecessor is the contract's own account,
// i.e. this call is only reachable from one of the contract's own scheduled
// callbacks (the `#[private]` authorization boundary in the spec).
func (c *Context) IsSelf() bool {
	return c.Predecessor == c.Current
}
