package graph

import (
	"github.com/mharbol/go-attrmatch/attr"
	"github.com/mharbol/go-attrmatch/matching"
	"github.com/mharbol/go-attrmatch/schema"
)

// ResolveEdge resolves one dependency-graph edge into the component: round 1
// over the primary attribute containers of the consumable configurations,
// then, on a unique winner with declared sub-variants, round 2 over those
// sub-variants' effective attributes.
//
// Zero survivors in either round yield a *matching.NoMatchError, several a
// *matching.AmbiguousMatchError; both bubble up unmodified. sink observes
// both rounds and may be nil.
func ResolveEdge(c *Component, requested attr.Container, s *schema.Schema, sink matching.Sink) (*Selection, error) {
	consumable := make([]*Configuration, 0, len(c.Configurations))
	candidates := make([]attr.Container, 0, len(c.Configurations))
	for _, cfg := range c.Configurations {
		if !cfg.Consumable {
			continue
		}
		consumable = append(consumable, cfg)
		candidates = append(candidates, cfg.Attributes)
	}

	idx, err := selectOneIndex(candidates, requested, s, sink)
	if err != nil {
		return nil, err
	}
	cfg := consumable[idx]

	if len(cfg.Variants) == 0 {
		return &Selection{Configuration: cfg, Attributes: cfg.Attributes}, nil
	}
	return resolveVariant(cfg, requested, s, sink)
}

// SelectByName resolves an edge that names its target configuration
// explicitly instead of matching attributes. Round 2 still applies when the
// configuration declares sub-variants.
func SelectByName(c *Component, name string, requested attr.Container, s *schema.Schema, sink matching.Sink) (*Selection, error) {
	for _, cfg := range c.Configurations {
		if cfg.Name != name {
			continue
		}
		if !cfg.Consumable {
			return nil, &NotConsumableError{Component: c.ID, Configuration: name}
		}
		if len(cfg.Variants) == 0 {
			return &Selection{Configuration: cfg, Attributes: cfg.Attributes}, nil
		}
		return resolveVariant(cfg, requested, s, sink)
	}
	return nil, &matching.NoMatchError{Requested: requested}
}

// resolveVariant runs round 2 over cfg's sub-variants.
func resolveVariant(cfg *Configuration, requested attr.Container, s *schema.Schema, sink matching.Sink) (*Selection, error) {
	candidates := make([]attr.Container, len(cfg.Variants))
	for i, v := range cfg.Variants {
		effective, err := v.EffectiveAttributes(cfg)
		if err != nil {
			return nil, err
		}
		candidates[i] = effective
	}

	idx, err := selectOneIndex(candidates, requested, s, sink)
	if err != nil {
		return nil, err
	}
	return &Selection{
		Configuration: cfg,
		Variant:       cfg.Variants[idx],
		Attributes:    candidates[idx],
	}, nil
}

// selectOneIndex narrows candidates to exactly one, converting zero and
// many into the matcher's terminal failure types.
func selectOneIndex(candidates []attr.Container, requested attr.Container, s *schema.Schema, sink matching.Sink) (int, error) {
	surviving, err := matching.MatchIndexes(candidates, requested, s, sink)
	if err != nil {
		return 0, err
	}
	switch len(surviving) {
	case 0:
		return 0, &matching.NoMatchError{Requested: requested, Candidates: candidates}
	case 1:
		return surviving[0], nil
	default:
		matches := make([]attr.Container, len(surviving))
		for i, idx := range surviving {
			matches[i] = candidates[idx]
		}
		return 0, &matching.AmbiguousMatchError{Requested: requested, Matches: matches}
	}
}
