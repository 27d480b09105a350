// Package events defines the structured event envelope emitted by every
// contract in this repository (spec §6.1) and the small Emitter
// abstraction contracts use to stay agnostic of how events are actually
// delivered (logged, recorded in tests, or both).
package events

import "encoding/json"

// EventVersion is the fixed envelope version every emitted event carries.
const EventVersion = "1.0.0"

// Event is a structured state change a contract wants observers to see.
// Standard identifies the event family (spec §6.1: "near-verified-accounts",
// "near-governance", "sputnik-bridge"); Name is the specific event; Payload
// is the JSON-serializable data object.
type Event interface {
	Standard() string
	Name() string
	Payload() any
}

// envelope is the on-the-wire shape: EVENT_JSON:{...}.
type envelope struct {
	Standard string `json:"standard"`
	Version  string `json:"version"`
	Event    string `json:"event"`
	Data     any    `json:"data"`
}

// Encode renders an Event into the "EVENT_JSON:{...}" log line the spec
// requires every contract to emit.
func Encode(e Event) (string, error) {
	body, err := json.Marshal(envelope{
		Standard: e.Standard(),
		Version:  EventVersion,
		Event:    e.Name(),
		Data:     e.Payload(),
	})
	if err != nil {
		return "", err
	}
	return "EVENT_JSON:" + string(body), nil
}

// Emitter broadcasts events to downstream observers (a log, a test
// recorder, or both).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies Emitter while discarding everything. It is the
// default for contracts constructed without an explicit emitter.
type NoopEmitter struct{}

// Emit implements Emitter.
func (NoopEmitter) Emit(Event) {}
