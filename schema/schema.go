// Package schema defines per-attribute matching strategies and the
// AttributesSchema that aggregates them.
//
// A Schema owns, for each attribute, a compatibility rule (does a candidate
// value satisfy a requested value?) and a disambiguation rule (which of
// several compatible values are preferred?), plus a precedence order that
// sequences disambiguation rounds. Schemas are built once during
// configuration and are immutable once a matcher has used them; they are
// then safe to share across concurrent matches.
package schema

import (
	"errors"
	"slices"
	"sync/atomic"

	"github.com/mharbol/go-attrmatch/attr"
)

// ErrFrozen is returned when a schema is mutated after its first use by a
// matcher. Schemas freeze on first use so in-flight matches never observe a
// half-updated rule set.
var ErrFrozen = errors.New("schema is frozen: it has already been used for matching")

// CompatibilityRule decides whether a candidate's value for one attribute
// satisfies the requested value. It is invoked only when both sides carry a
// value; absence is handled by the strategy's AbsenceIncompatible flag.
// Rules must be pure.
type CompatibilityRule func(requested, candidate any) bool

// DisambiguationRule narrows the distinct candidate values present among the
// still-compatible candidates for one attribute to the preferred subset.
// requested is the consumer's value for the attribute, or nil when the
// attribute is not part of the request. Returning two values declares them
// equally preferred. Returning an empty set, or values not drawn from
// candidates, is a rule-authoring defect surfaced as an invariant violation.
// Rules must be pure.
type DisambiguationRule func(requested any, candidates []any) []any

// Strategy bundles one attribute's rules.
//
// A zero Strategy means: values are compatible exactly when equal, no
// disambiguation preference, and a candidate missing the attribute stays
// eligible.
type Strategy struct {
	// Compatibility decides value compatibility. nil means exact equality.
	Compatibility CompatibilityRule

	// Disambiguation narrows compatible values to the preferred subset.
	// nil means every value is equally preferred (no narrowing).
	Disambiguation DisambiguationRule

	// AbsenceIncompatible rejects candidates that do not carry the attribute
	// at all. The default treats absence as still eligible.
	AbsenceIncompatible bool
}

func (s Strategy) compatible(requested, candidate any) bool {
	if s.Compatibility == nil {
		return requested == candidate
	}
	return s.Compatibility(requested, candidate)
}

// Schema maps attributes to strategies and carries the attribute precedence
// order used to sequence disambiguation rounds.
type Schema struct {
	strategies  map[attr.Attribute]Strategy
	precedence  []attr.Attribute
	stableOrder bool
	used        atomic.Bool
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{strategies: make(map[attr.Attribute]Strategy)}
}

// AddStrategy registers or replaces the strategy for an attribute.
func (s *Schema) AddStrategy(a attr.Attribute, st Strategy) error {
	if s.used.Load() {
		return ErrFrozen
	}
	s.strategies[a] = st
	return nil
}

// MustAddStrategy is AddStrategy for configuration-time schema assembly.
func (s *Schema) MustAddStrategy(a attr.Attribute, st Strategy) *Schema {
	if err := s.AddStrategy(a, st); err != nil {
		panic(err)
	}
	return s
}

// SetPrecedence declares the disambiguation sequence. Attributes not listed
// remain eligible for compatibility filtering but are never used to break
// ties. The list replaces any previous order.
func (s *Schema) SetPrecedence(order ...attr.Attribute) error {
	if s.used.Load() {
		return ErrFrozen
	}
	s.precedence = slices.Clone(order)
	return nil
}

// SetStableOrder enables the final "first candidate wins" fallback for ties
// that survive every disambiguation round and the extra-attributes
// tie-break. Off by default: unresolved ties are a hard ambiguity.
func (s *Schema) SetStableOrder(enabled bool) error {
	if s.used.Load() {
		return ErrFrozen
	}
	s.stableOrder = enabled
	return nil
}

// Strategy returns the registered strategy for a.
func (s *Schema) Strategy(a attr.Attribute) (Strategy, bool) {
	st, ok := s.strategies[a]
	return st, ok
}

// HasStrategy reports whether a has a registered strategy.
func (s *Schema) HasStrategy(a attr.Attribute) bool {
	_, ok := s.strategies[a]
	return ok
}

// Compatible applies a's compatibility rule.
func (s *Schema) Compatible(a attr.Attribute, requested, candidate any) bool {
	return s.strategies[a].compatible(requested, candidate)
}

// Precedence returns the disambiguation order. The returned slice must not
// be modified.
func (s *Schema) Precedence() []attr.Attribute { return s.precedence }

// StableOrder reports whether the stable-first-wins fallback is enabled.
func (s *Schema) StableOrder() bool { return s.stableOrder }

// Freeze marks the schema as used for matching. Subsequent mutation fails
// with ErrFrozen. Matchers call this on entry; callers never need to.
func (s *Schema) Freeze() { s.used.Store(true) }

// Merge returns a combined schema in which other's strategies win on
// conflicting attributes. This models producer rules overriding consumer
// defaults. The combined precedence is the receiver's order followed by any
// of other's ordered attributes not already placed. Neither input is
// mutated, and the result starts unfrozen.
func (s *Schema) Merge(other *Schema) *Schema {
	merged := New()
	for a, st := range s.strategies {
		merged.strategies[a] = st
	}
	if other != nil {
		for a, st := range other.strategies {
			merged.strategies[a] = st
		}
	}
	merged.precedence = slices.Clone(s.precedence)
	if other != nil {
		for _, a := range other.precedence {
			if !slices.Contains(merged.precedence, a) {
				merged.precedence = append(merged.precedence, a)
			}
		}
		merged.stableOrder = s.stableOrder || other.stableOrder
	} else {
		merged.stableOrder = s.stableOrder
	}
	return merged
}
