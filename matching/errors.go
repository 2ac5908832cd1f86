package matching

import (
	"fmt"
	"strings"

	"github.com/mharbol/go-attrmatch/attr"
)

// NoMatchError reports that the compatibility phase eliminated every
// candidate. Candidates holds the original candidate list; the explanation
// trail identifies the rejecting attribute for each.
type NoMatchError struct {
	Requested  attr.Container
	Candidates []attr.Container
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no variant matches the requested attributes %s (%d candidates rejected)",
		e.Requested, len(e.Candidates))
}

// AmbiguousMatchError reports that more than one candidate survived every
// disambiguation round and tie-break. Matches holds the full surviving set.
type AmbiguousMatchError struct {
	Requested attr.Container
	Matches   []attr.Container
}

func (e *AmbiguousMatchError) Error() string {
	var sb strings.Builder
	for i, m := range e.Matches {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.String())
	}
	return fmt.Sprintf("ambiguous match for requested attributes %s: %d candidates remain: %s",
		e.Requested, len(e.Matches), sb.String())
}

// InvariantError reports a defect in rule authoring, such as a
// disambiguation rule returning an empty or non-narrowing preferred set.
// It is deliberately distinct from NoMatchError and AmbiguousMatchError so
// a broken rule is never mistaken for a legitimate resolution failure.
type InvariantError struct {
	Attribute attr.Attribute
	Detail    string
}

func (e *InvariantError) Error() string {
	if e.Attribute.IsZero() {
		return "matching invariant violated: " + e.Detail
	}
	return fmt.Sprintf("matching invariant violated for attribute %q: %s", e.Attribute.Name(), e.Detail)
}
