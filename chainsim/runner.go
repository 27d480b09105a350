package chainsim

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrExceededPrepaidGas is returned when a hop's gas allocation exceeds
// what remains of the caller-supplied budget (spec §6.5). Run checks each
// hop just before its call; a hop rejected this way never runs, but the
// hops that ran before it are not undone.
var ErrExceededPrepaidGas = fmt.Errorf("exceeded prepaid gas")

// chainOutcome is the cached result of a completed promise chain, recalled
// by idempotency key so a retried Run under the same key replays the
// original outcome instead of re-executing every hop.
type chainOutcome struct {
	value []byte
	err   error
}

// Runner executes promise chains. A chain suspends at every Hop boundary and
// resumes in that Hop's Callback with a handle to the previous call's
// result, matching spec §5: callbacks are distinct entry points that see
// exactly one prior PromiseResult, and a failure at any step aborts the
// chain at its current callback without rolling back commitments already
// made by earlier hops.
type Runner struct {
	logger *slog.Logger

	mu        sync.Mutex
	completed map[string]chainOutcome
}

// NewRunner constructs a Runner. A nil logger falls back to slog's default.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger, completed: make(map[string]chainOutcome)}
}

// Run drives a chain starting at first under the given total gas budget. It
// returns the final successful payload, or the first error encountered by
// any Call or Callback in the chain.
//
// first.IdemKey identifies the chain for retry recognition: a caller that
// re-submits the same logical operation (e.g. add_member against the same
// account after a crashed Runner) under the same key gets the original
// outcome replayed rather than the chain re-executing against
// possibly-already-mutated state. Callers that don't care about retry
// safety can leave IdemKey empty; Run then assigns a fresh
// github.com/google/uuid value so the chain still has a unique identity
// for logging and tracing.
func (r *Runner) Run(totalGas Gas, first Hop) ([]byte, error) {
	key := first.IdemKey
	trackOutcome := key != ""
	if !trackOutcome {
		key = uuid.NewString()
	} else if outcome, ok := r.cached(key); ok {
		r.logger.Warn("promise chain replayed from idempotency cache", "idemKey", key)
		return outcome.value, outcome.err
	}

	remaining := totalGas
	hop := &first
	var lastValue []byte
	for hop != nil {
		if hop.Gas > remaining {
			r.logger.Warn("promise chain aborted: gas budget exceeded", "idemKey", key, "required", hop.Gas, "remaining", remaining)
			return r.finish(key, trackOutcome, nil, ErrExceededPrepaidGas)
		}
		remaining -= hop.Gas

		result := r.invoke(hop.Call)
		next, err := hop.Callback(result)
		if err != nil {
			r.logger.Warn("promise chain callback failed", "idemKey", key, "error", err)
			return r.finish(key, trackOutcome, nil, err)
		}
		if result.OK() {
			lastValue = result.Value()
		}
		hop = next
	}
	return r.finish(key, trackOutcome, lastValue, nil)
}

func (r *Runner) cached(key string) (chainOutcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	outcome, ok := r.completed[key]
	return outcome, ok
}

// finish records the chain's outcome under key, only when the caller
// supplied an explicit IdemKey -- auto-generated keys exist purely for
// tracing and are never worth retaining in the replay cache.
func (r *Runner) finish(key string, track bool, value []byte, err error) ([]byte, error) {
	if track {
		r.mu.Lock()
		r.completed[key] = chainOutcome{value: value, err: err}
		r.mu.Unlock()
	}
	return value, err
}

// invoke performs the scheduled cross-contract call, converting both
// returned errors and recovered panics into a PromiseResult so that a bug
// in one contract's method can never silently corrupt the caller's chain
// bookkeeping.
func (r *Runner) invoke(call func() ([]byte, error)) (result PromiseResult) {
	defer func() {
		if p := recover(); p != nil {
			result = Failed(fmt.Errorf("%v", p))
		}
	}()
	value, err := call()
	if err != nil {
		return Failed(err)
	}
	return Successful(value)
}
