// Package matching implements the two-phase variant selection algorithm.
//
// Given an ordered candidate list, a requested attribute container, and an
// attribute schema, Match runs:
//
// # Phase 1 — compatibility filter
//
// Every attribute present in the request is checked against every candidate.
// A candidate missing a requested attribute stays eligible unless the
// attribute's strategy marks absence incompatible. A requested attribute
// with no registered strategy rejects the candidate outright, so attributes
// nobody modeled are never silently ignored. A single incompatible value
// rejects the whole candidate.
//
// # Phase 2 — ordered disambiguation
//
// The schema's precedence list is walked in order. For each attribute with
// at least two distinct values among the surviving candidates, the
// disambiguation rule narrows the value set; candidates carrying a value
// outside the preferred subset are dropped, candidates without the
// attribute are retained. If more than one candidate remains after the
// precedence list is exhausted, the candidate with the fewest attributes
// outside the requested set wins ("fewest extra attributes"). Ties beyond
// that are a hard ambiguity unless the schema enables stable-first-wins.
//
// Match is a pure, synchronous computation: it never mutates its inputs,
// performs no I/O, and given identical inputs always produces the identical
// result. The explanation sink is a write-only observer that can never
// influence the outcome.
package matching
