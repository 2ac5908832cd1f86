package matching

import (
	"fmt"

	"github.com/mharbol/go-attrmatch/attr"
	"github.com/mharbol/go-attrmatch/schema"
)

// Match runs the two-phase selection over candidates against requested and
// returns the surviving subset, preserving input order. The result may hold
// zero, one, or many candidates; callers needing exactly one should use
// SelectOne.
//
// The returned error is non-nil only for configuration and rule-authoring
// defects (attribute type conflicts, broken disambiguation rules), never
// for an empty or ambiguous result.
//
// Match freezes the schema on entry; inputs are never mutated. sink may be
// nil.
func Match(candidates []attr.Container, requested attr.Container, s *schema.Schema, sink Sink) ([]attr.Container, error) {
	surviving, err := MatchIndexes(candidates, requested, s, sink)
	if err != nil {
		return nil, err
	}
	result := make([]attr.Container, len(surviving))
	for i, idx := range surviving {
		result[i] = candidates[idx]
	}
	return result, nil
}

// MatchIndexes is Match returning indexes into the candidate list instead
// of the containers themselves, for callers that need to map survivors back
// to richer owning objects (configurations, sub-variants).
func MatchIndexes(candidates []attr.Container, requested attr.Container, s *schema.Schema, sink Sink) ([]int, error) {
	if sink == nil {
		sink = Discard{}
	}
	s.Freeze()

	surviving, err := compatibilityFilter(candidates, requested, s, sink)
	if err != nil {
		return nil, err
	}
	if len(surviving) == 0 {
		return nil, nil
	}
	return disambiguate(candidates, surviving, requested, s, sink)
}

// SelectOne runs Match and requires a single survivor. Zero survivors yield
// a NoMatchError, several an AmbiguousMatchError; both carry the data the
// diagnostics layer needs alongside the sink's trail.
func SelectOne(candidates []attr.Container, requested attr.Container, s *schema.Schema, sink Sink) (attr.Container, error) {
	matches, err := Match(candidates, requested, s, sink)
	if err != nil {
		return attr.Container{}, err
	}
	switch len(matches) {
	case 0:
		return attr.Container{}, &NoMatchError{Requested: requested, Candidates: candidates}
	case 1:
		return matches[0], nil
	default:
		return attr.Container{}, &AmbiguousMatchError{Requested: requested, Matches: matches}
	}
}

// compatibilityFilter implements Phase 1. It returns the indexes of
// candidates that passed every per-attribute check, in input order.
func compatibilityFilter(candidates []attr.Container, requested attr.Container, s *schema.Schema, sink Sink) ([]int, error) {
	surviving := make([]int, 0, len(candidates))

	for i, candidate := range candidates {
		ok, err := isCompatible(i, candidate, requested, s, sink)
		if err != nil {
			return nil, err
		}
		if ok {
			surviving = append(surviving, i)
			sink.Record(Event{Kind: EventCompatible, Candidate: i})
		}
	}
	return surviving, nil
}

func isCompatible(i int, candidate, requested attr.Container, s *schema.Schema, sink Sink) (bool, error) {
	for _, a := range requested.Keys() {
		reqVal, _ := requested.Value(a)

		// A name collision across kinds is a configuration error, never a
		// mismatch to be scored.
		if other, ok := candidate.ByName(a.Name()); ok && other != a {
			return false, &attr.TypeConflictError{Name: a.Name(), Existing: a.Kind(), Conflict: other.Kind()}
		}

		st, hasRule := s.Strategy(a)
		if !hasRule {
			sink.Record(Event{Kind: EventNoRule, Candidate: i, Attribute: a, Requested: reqVal})
			return false, nil
		}

		candVal, present := candidate.Value(a)
		if !present {
			if st.AbsenceIncompatible {
				sink.Record(Event{Kind: EventAbsentIncompatible, Candidate: i, Attribute: a, Requested: reqVal})
				return false, nil
			}
			sink.Record(Event{Kind: EventMissingIgnored, Candidate: i, Attribute: a, Requested: reqVal})
			continue
		}

		if !s.Compatible(a, reqVal, candVal) {
			sink.Record(Event{Kind: EventIncompatible, Candidate: i, Attribute: a, Requested: reqVal, Value: candVal})
			return false, nil
		}
	}
	return true, nil
}

// disambiguate implements Phase 2 plus the final tie-breaks. surviving holds
// candidate indexes and is narrowed round by round, never grown.
func disambiguate(candidates []attr.Container, surviving []int, requested attr.Container, s *schema.Schema, sink Sink) ([]int, error) {
	for _, a := range s.Precedence() {
		if len(surviving) <= 1 {
			break
		}

		distinct := distinctValues(candidates, surviving, a)
		if len(distinct) < 2 {
			continue
		}

		st, ok := s.Strategy(a)
		if !ok || st.Disambiguation == nil {
			continue
		}

		reqVal, _ := requested.Value(a)
		preferred := st.Disambiguation(reqVal, distinct)
		if len(preferred) == 0 {
			return nil, &InvariantError{Attribute: a, Detail: "disambiguation rule returned an empty preferred set"}
		}
		allowed, err := preferredSet(a, distinct, preferred)
		if err != nil {
			return nil, err
		}
		sink.Record(Event{Kind: EventRound, Candidate: -1, Attribute: a, Requested: reqVal, Values: distinct, Preferred: preferred})

		narrowed := surviving[:0:0]
		for _, idx := range surviving {
			v, present := candidates[idx].Value(a)
			if present && !allowed[v] {
				sink.Record(Event{Kind: EventEliminated, Candidate: idx, Attribute: a, Value: v})
				continue
			}
			// Candidates without the attribute carry no value to judge and
			// remain in the running.
			narrowed = append(narrowed, idx)
		}
		if len(narrowed) == 0 {
			return nil, &InvariantError{Attribute: a, Detail: "disambiguation eliminated every candidate"}
		}
		surviving = narrowed
	}

	if len(surviving) > 1 {
		surviving = fewestExtraAttributes(candidates, surviving, requested, sink)
	}
	if len(surviving) > 1 && s.StableOrder() {
		sink.Record(Event{Kind: EventStableOrder, Candidate: -1, Survivors: surviving[:1]})
		surviving = surviving[:1]
	}
	return surviving, nil
}

// distinctValues collects the distinct values for a among the surviving
// candidates, in first-seen candidate order so rule inputs are
// deterministic.
func distinctValues(candidates []attr.Container, surviving []int, a attr.Attribute) []any {
	var values []any
	seen := make(map[any]bool)
	for _, idx := range surviving {
		v, ok := candidates[idx].Value(a)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

// preferredSet validates that preferred is drawn from distinct and returns
// it as a membership set.
func preferredSet(a attr.Attribute, distinct, preferred []any) (map[any]bool, error) {
	inDistinct := make(map[any]bool, len(distinct))
	for _, v := range distinct {
		inDistinct[v] = true
	}
	allowed := make(map[any]bool, len(preferred))
	for _, v := range preferred {
		if !inDistinct[v] {
			return nil, &InvariantError{
				Attribute: a,
				Detail:    fmt.Sprintf("disambiguation rule preferred value %v which is not among the candidate values", v),
			}
		}
		allowed[v] = true
	}
	return allowed, nil
}

// fewestExtraAttributes keeps the candidates carrying the fewest attributes
// outside the requested set. A candidate that only answers what was asked
// beats one dragging in additional dimensions.
func fewestExtraAttributes(candidates []attr.Container, surviving []int, requested attr.Container, sink Sink) []int {
	best := -1
	counts := make([]int, len(surviving))
	for i, idx := range surviving {
		n := 0
		for _, a := range candidates[idx].Keys() {
			if !requested.Has(a) {
				n++
			}
		}
		counts[i] = n
		if best < 0 || n < best {
			best = n
		}
	}

	narrowed := surviving[:0:0]
	for i, idx := range surviving {
		if counts[i] == best {
			narrowed = append(narrowed, idx)
		}
	}
	if len(narrowed) < len(surviving) {
		sink.Record(Event{Kind: EventExtraAttributes, Candidate: -1, Survivors: narrowed})
	}
	return narrowed
}
