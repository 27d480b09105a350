package events

import (
	"log/slog"
)

// LogEmitter renders every event through Encode and writes it to a
// structured logger, mirroring the runtime.Log("EVENT_JSON:...") calls the
// underlying platform surfaces to indexers.
type LogEmitter struct {
	Logger *slog.Logger
}

// Emit implements Emitter.
func (l LogEmitter) Emit(e Event) {
	if l.Logger == nil {
		return
	}
	line, err := Encode(e)
	if err != nil {
		l.Logger.Error("failed to encode event", "event", e.Name(), "error", err)
		return
	}
	l.Logger.Info(line, "standard", e.Standard(), "event", e.Name())
}

// Recorder captures every emitted event in order, for tests that assert on
// exactly which events a transaction produced (and, just as importantly,
// which events a failed transaction did NOT produce).
type Recorder struct {
	Events []Event
}

// Emit implements Emitter.
func (r *Recorder) Emit(e Event) {
	r.Events = append(r.Events, e)
}

// Names returns the Name() of every recorded event, in emission order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Events))
	for i, e := range r.Events {
		names[i] = e.Name()
	}
	return names
}

// Multi fans a single Emit out to every wrapped Emitter, in order.
type Multi []Emitter

// Emit implements Emitter.
func (m Multi) Emit(e Event) {
	for _, emitter := range m {
		if emitter != nil {
			emitter.Emit(e)
		}
	}
}
