package chainsim

import "fmt"

// PromiseResult is the tagged outcome handed to a callback, mirroring
// NEAR's PromiseResult::Successful(Vec<u8>) / PromiseResult::Failed. A
// callback observes exactly the result of the single promise it was
// attached to (spec §5, "Ordering guarantees").
type PromiseResult struct {
	ok    bool
	value []byte
	err   error
}

// Successful builds a PromiseResult carrying the scheduled call's return
// payload.
func Successful(value []byte) PromiseResult {
	return PromiseResult{ok: true, value: value}
}

// Failed builds a PromiseResult carrying the scheduled call's failure.
func Failed(err error) PromiseResult {
	if err == nil {
		err = fmt.Errorf("promise failed")
	}
	return PromiseResult{ok: false, err: err}
}

// OK reports whether the scheduled call completed successfully.
func (r PromiseResult) OK() bool { return r.ok }

// Value returns the successful payload, or nil if the promise failed.
func (r PromiseResult) Value() []byte { return r.value }

// Err returns the failure reason, or nil if the promise succeeded.
func (r PromiseResult) Err() error { return r.err }

// PromiseCallback is a promise chain's private continuation. Returning a
// non-nil *Hop schedules another cross-contract call; returning (nil, nil)
// ends the chain successfully; returning a non-nil error aborts the chain,
// and no further hops run.
type PromiseCallback func(PromiseResult) (*Hop, error)

// Hop is one scheduled cross-contract call in a promise chain plus the
// private callback that inspects its result. Call performs the actual
// cross-contract invocation (in this single-process simulator, an ordinary
// Go function call into the target contract); Callback decides what to do
// next and, if the chain continues, returns the next Hop to schedule.
type Hop struct {
	// IdemKey, when set on the first Hop passed to Runner.Run, identifies
	// the whole chain for retry recognition. Leave it empty unless the
	// caller needs retry-safe re-submission.
	IdemKey string
	// Gas is this hop's static gas allocation, checked against the chain's
	// remaining prepaid budget before the call is attempted.
	Gas Gas
	// Call performs the scheduled cross-contract call. Any error it returns
	// is surfaced to Callback as a Failed PromiseResult, never as a Go
	// error that unwinds the chain directly -- exactly as a failed
	// cross-contract call surfaces to a NEAR callback.
	Call func() ([]byte, error)
	// Callback is the chain's private continuation.
	Callback PromiseCallback
}
