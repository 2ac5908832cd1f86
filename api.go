// Package attrmatch provides attribute-based variant selection for
// dependency resolution: given a consumer's requested attribute set and a
// list of candidate variants, it deterministically picks the best match or
// fails with an explanation trail.
//
// # Overview
//
// The package is organized as a thin convenience layer over four leaf
// packages:
//
//   - attr: typed attribute identity, registries, immutable containers
//   - schema: per-attribute compatibility/disambiguation rules and precedence
//   - matching: the two-phase selection algorithm and explanation sinks
//   - graph: components, configurations, sub-variants, two-round edge resolution
//
// # Quick Start
//
//	usage := attr.String("usage")
//	s := schema.New()
//	s.AddStrategy(usage, schema.Strategy{})
//	s.SetPrecedence(usage)
//
//	result, err := attrmatch.Match(candidates, requested, s)
//
// Components with configurations and sub-variants resolve through Resolve,
// which runs the two-round selection:
//
//	res, err := attrmatch.Resolve(component, requested, s)
//
// # Declaration Files
//
// Components, attribute types, and rule selections can also be loaded from
// declaration files, either Starlark-syntax (ParseDefinition) or YAML
// (LoadDefinition).
//
// # Thread Safety
//
// Schemas freeze on first use and are then safe to share across concurrent
// resolutions. Each call operates purely on its own inputs.
package attrmatch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mharbol/go-attrmatch/attr"
	"github.com/mharbol/go-attrmatch/graph"
	"github.com/mharbol/go-attrmatch/matching"
	"github.com/mharbol/go-attrmatch/schema"
)

// Result is the outcome of a single Match call: the surviving candidates in
// input order plus the recorded explanation trail.
type Result struct {
	Matches []attr.Container
	Trace   *matching.Trace
}

// Match runs the two-phase selection and returns the surviving candidates
// together with the explanation trail. The error is non-nil only for
// configuration or rule-authoring defects; empty and ambiguous results are
// reported through the length of Matches.
func Match(candidates []attr.Container, requested attr.Container, s *schema.Schema, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	trace := &matching.Trace{}
	matches, err := matching.Match(candidates, requested, s, cfg.sinkFor(trace))
	if err != nil {
		return nil, err
	}
	cfg.log().Debug("variant match complete",
		"requested", requested.String(),
		"candidates", len(candidates),
		"matches", len(matches))
	return &Result{Matches: matches, Trace: trace}, nil
}

// Resolution is the outcome of resolving one graph edge.
type Resolution struct {
	Selection *graph.Selection
	Trace     *matching.Trace
}

// Resolve runs the two-round selection against a component: configurations
// first, then the winning configuration's sub-variants. Failures are
// *matching.NoMatchError, *matching.AmbiguousMatchError, or
// *graph.NotConsumableError and bubble up unmodified; on failure the
// returned Resolution still carries the recorded trace (with a nil
// Selection) so diagnostics can explain the outcome.
func Resolve(c *graph.Component, requested attr.Container, s *schema.Schema, opts ...Option) (*Resolution, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	trace := &matching.Trace{}
	sel, err := graph.ResolveEdge(c, requested, s, cfg.sinkFor(trace))
	if err != nil {
		cfg.log().Debug("edge resolution failed",
			"component", c.ID,
			"requested", requested.String(),
			"error", err)
		return &Resolution{Trace: trace}, err
	}
	cfg.log().Debug("edge resolved",
		"component", c.ID,
		"configuration", sel.Configuration.Name)
	return &Resolution{Selection: sel, Trace: trace}, nil
}

// ResolveConfiguration resolves an edge that names its target configuration
// explicitly. Round 2 still applies when the named configuration declares
// sub-variants. Selecting a non-consumable configuration fails with a
// *graph.NotConsumableError. Like Resolve, the returned Resolution carries
// the trace even on failure.
func ResolveConfiguration(c *graph.Component, name string, requested attr.Container, s *schema.Schema, opts ...Option) (*Resolution, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	trace := &matching.Trace{}
	sel, err := graph.SelectByName(c, name, requested, s, cfg.sinkFor(trace))
	if err != nil {
		return &Resolution{Trace: trace}, err
	}
	return &Resolution{Selection: sel, Trace: trace}, nil
}

// ResolveAll resolves several consumer requests against the same component
// concurrently, one goroutine per request. Typical use is resolving many
// independent classpaths against one producer. The schema is frozen by the
// first use and shared read-only; each request gets its own trace.
//
// The first failing request cancels the rest; its error is returned wrapped
// with the request name.
func ResolveAll(ctx context.Context, c *graph.Component, requests map[string]attr.Container, s *schema.Schema, opts ...Option) (map[string]*Resolution, error) {
	// Freeze up front so concurrent first uses never race a mutation.
	s.Freeze()

	type keyed struct {
		name string
		res  *Resolution
	}
	out := make(chan keyed, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	for name, requested := range requests {
		name, requested := name, requested
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Resolve(c, requested, s, opts...)
			if err != nil {
				return fmt.Errorf("request %q: %w", name, err)
			}
			out <- keyed{name: name, res: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(out)

	results := make(map[string]*Resolution, len(requests))
	for kr := range out {
		results[kr.name] = kr.res
	}
	return results, nil
}
