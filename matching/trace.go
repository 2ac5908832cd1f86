package matching

import "github.com/mharbol/go-attrmatch/attr"

// EventKind classifies one explanation event.
type EventKind int

const (
	// EventIncompatible records a candidate rejected because its value for
	// Attribute failed the compatibility rule against Requested.
	EventIncompatible EventKind = iota

	// EventNoRule records a candidate rejected because the requested
	// Attribute has no registered strategy.
	EventNoRule

	// EventAbsentIncompatible records a candidate rejected because it lacks
	// Attribute and the strategy marks absence incompatible.
	EventAbsentIncompatible

	// EventMissingIgnored records a candidate that lacks Attribute and was
	// assumed compatible.
	EventMissingIgnored

	// EventCompatible records a candidate that passed every Phase 1 check.
	EventCompatible

	// EventRound records one disambiguation round: the distinct Values for
	// Attribute among the surviving set and the Preferred subset the rule
	// returned.
	EventRound

	// EventEliminated records a candidate dropped in a disambiguation round
	// because its Value for Attribute was outside the preferred subset.
	EventEliminated

	// EventExtraAttributes records the candidates surviving the
	// fewest-extra-attributes tie-break.
	EventExtraAttributes

	// EventStableOrder records that the schema's stable-first-wins fallback
	// picked the earliest surviving candidate.
	EventStableOrder
)

// Event is one entry of the explanation trail. Candidate indexes refer to
// the original candidate list handed to Match; -1 means the event is not
// about a single candidate.
type Event struct {
	Kind      EventKind
	Candidate int
	Attribute attr.Attribute
	Requested any
	Value     any

	// Values and Preferred are set for EventRound.
	Values    []any
	Preferred []any

	// Survivors is set for EventExtraAttributes and EventStableOrder.
	Survivors []int
}

// Sink receives explanation events from the matcher. Implementations must
// treat events as read-only; a sink can never affect the match outcome.
type Sink interface {
	Record(Event)
}

// Discard is a Sink that drops every event.
type Discard struct{}

// Record implements Sink.
func (Discard) Record(Event) {}

// Trace is a Sink that records every event in order, for consumption by a
// diagnostics layer after the match completes. A Trace is scoped to a
// single Match invocation and is not safe for concurrent use.
type Trace struct {
	Events []Event
}

// Record implements Sink.
func (t *Trace) Record(e Event) {
	t.Events = append(t.Events, e)
}

// RejectionFor returns the first Phase 1 rejection event for the candidate
// at index i, if any.
func (t *Trace) RejectionFor(i int) (Event, bool) {
	for _, e := range t.Events {
		if e.Candidate != i {
			continue
		}
		switch e.Kind {
		case EventIncompatible, EventNoRule, EventAbsentIncompatible:
			return e, true
		}
	}
	return Event{}, false
}

// Rounds returns the disambiguation round events in order.
func (t *Trace) Rounds() []Event {
	var out []Event
	for _, e := range t.Events {
		if e.Kind == EventRound {
			out = append(out, e)
		}
	}
	return out
}
