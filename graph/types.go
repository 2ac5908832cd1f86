package graph

import (
	"fmt"

	"github.com/mharbol/go-attrmatch/attr"
)

// Component is one producer node in the dependency graph: a named owner of
// configurations a consumer can select among.
type Component struct {
	// ID identifies the component in diagnostics, e.g. "org.example:lib:1.0"
	// or a project path.
	ID string

	// Configurations are the component's configurations in declaration
	// order. Order matters only as the stable-first-wins fallback, when the
	// schema enables it.
	Configurations []*Configuration
}

// Configuration is a named bundle of attribute values describing one
// producible form of an artifact, optionally refined into sub-variants.
type Configuration struct {
	Name string

	// Attributes is the configuration's primary attribute container, the
	// candidate in round 1.
	Attributes attr.Container

	// Consumable marks configurations other components may select. A
	// non-consumable configuration is never a round 1 candidate.
	Consumable bool

	// Variants are the configuration's named sub-variants, the candidates
	// in round 2. A configuration without sub-variants resolves at round 1.
	Variants []*Variant
}

// Variant is a named sub-variant of a configuration. Its attributes extend
// the configuration's primary attributes, with the variant's own values
// winning on overlap.
type Variant struct {
	Name       string
	Attributes attr.Container
}

// EffectiveAttributes returns the variant's full attribute container: the
// configuration's primary attributes overlaid with the variant's own.
func (v *Variant) EffectiveAttributes(c *Configuration) (attr.Container, error) {
	merged, err := attr.Union(c.Attributes, v.Attributes)
	if err != nil {
		return attr.Container{}, fmt.Errorf("variant %q of configuration %q: %w", v.Name, c.Name, err)
	}
	return merged, nil
}

// Selection is the outcome of resolving one graph edge: the configuration
// that won round 1, the sub-variant that won round 2 (nil when the
// configuration declares none), and the effective attribute container of
// whatever was selected.
type Selection struct {
	Configuration *Configuration
	Variant       *Variant
	Attributes    attr.Container
}

// NotConsumableError reports an attempt to select a configuration that is
// not intended for consumption by other components.
type NotConsumableError struct {
	Component     string
	Configuration string
}

func (e *NotConsumableError) Error() string {
	return fmt.Sprintf("selected configuration %q on %q but it can't be used as a dependency because it isn't intended for consumption by other components",
		e.Configuration, e.Component)
}
