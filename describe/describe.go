// Package describe renders match results and explanation trails into
// human-readable failure text. The matcher core never formats strings; this
// package is the diagnostics collaborator that consumes its output.
package describe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mharbol/go-attrmatch/attr"
	"github.com/mharbol/go-attrmatch/graph"
	"github.com/mharbol/go-attrmatch/matching"
)

// Failure describes a resolution failure. trace is the explanation trail
// recorded during the failed match and may be nil; with a trace the
// description names, per candidate, the attribute that rejected it, and per
// ambiguity, the attributes that could not discriminate.
func Failure(err error, trace *matching.Trace) string {
	var noMatch *matching.NoMatchError
	if errors.As(err, &noMatch) {
		return describeNoMatch(noMatch, trace)
	}
	var ambiguous *matching.AmbiguousMatchError
	if errors.As(err, &ambiguous) {
		return describeAmbiguous(ambiguous)
	}
	var notConsumable *graph.NotConsumableError
	if errors.As(err, &notConsumable) {
		return notConsumable.Error()
	}
	var invariant *matching.InvariantError
	if errors.As(err, &invariant) {
		return "internal error in attribute rules (please review rule implementations): " + invariant.Error()
	}
	return err.Error()
}

func describeNoMatch(e *matching.NoMatchError, trace *matching.Trace) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "no variant matches the request %s\n", e.Requested)
	for i, c := range e.Candidates {
		fmt.Fprintf(&sb, "  - candidate %s rejected", c)
		if trace != nil {
			if ev, ok := trace.RejectionFor(i); ok {
				switch ev.Kind {
				case matching.EventIncompatible:
					fmt.Fprintf(&sb, ": attribute %q has value %v, requested %v",
						ev.Attribute.Name(), ev.Value, ev.Requested)
				case matching.EventNoRule:
					fmt.Fprintf(&sb, ": no rule registered for requested attribute %q",
						ev.Attribute.Name())
				case matching.EventAbsentIncompatible:
					fmt.Fprintf(&sb, ": required attribute %q is absent", ev.Attribute.Name())
				}
			}
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

func describeAmbiguous(e *matching.AmbiguousMatchError) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ambiguous variants for request %s:\n", e.Requested)
	for _, m := range e.Matches {
		fmt.Fprintf(&sb, "  - %s\n", m)
	}
	if diff := differingAttributes(e.Matches); len(diff) > 0 {
		names := make([]string, len(diff))
		for i, a := range diff {
			names[i] = fmt.Sprintf("%q", a.Name())
		}
		fmt.Fprintf(&sb, "the candidates differ only in attributes the request does not discriminate: %s\n",
			strings.Join(names, ", "))
	}
	sb.WriteString("consider adding attributes to the request, or a disambiguation rule for the differing attributes")
	return sb.String()
}

// differingAttributes returns the attributes that do not hold one agreed
// value across every match, in name order.
func differingAttributes(matches []attr.Container) []attr.Attribute {
	if len(matches) < 2 {
		return nil
	}
	seen := make(map[attr.Attribute]bool)
	var order []attr.Attribute
	for _, m := range matches {
		for _, a := range m.Keys() {
			if !seen[a] {
				seen[a] = true
				order = append(order, a)
			}
		}
	}
	var out []attr.Attribute
	for _, a := range order {
		first, haveFirst := matches[0].Value(a)
		agreed := haveFirst
		for _, m := range matches[1:] {
			v, ok := m.Value(a)
			if !ok || v != first {
				agreed = false
				break
			}
		}
		if !agreed {
			out = append(out, a)
		}
	}
	return out
}

// Selection describes a successful selection in one line, for CLI output.
func Selection(sel *graph.Selection) string {
	if sel.Variant != nil {
		return fmt.Sprintf("configuration %q, variant %q: %s",
			sel.Configuration.Name, sel.Variant.Name, sel.Attributes)
	}
	return fmt.Sprintf("configuration %q: %s", sel.Configuration.Name, sel.Attributes)
}
