// Package graph models the producer side of a dependency-graph edge: a
// component exposing consumable configurations, each optionally refined into
// named sub-variants, and the two-round selection that picks exactly one of
// them for a consumer's requested attributes.
//
// Round 1 matches the consumer's request against the primary attribute
// containers of the component's consumable configurations. Only when that
// narrows to exactly one configuration does round 2 run, matching the same
// request against that configuration's sub-variants (which typically extend
// the primary attributes with more specific ones, such as distinguishing a
// jar from a classes directory). Both rounds are independent calls to the
// same pure matcher; no state is carried between them.
package graph
