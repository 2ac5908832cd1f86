package attrmatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mharbol/go-attrmatch/attr"
	"github.com/mharbol/go-attrmatch/graph"
	"github.com/mharbol/go-attrmatch/schema"
)

// Definition is a fully loaded variant declaration: the attribute registry,
// the schema assembled from the declared rules, and the component with its
// configurations and sub-variants. Produced by ParseDefinition (Starlark
// syntax) and LoadDefinition (YAML).
type Definition struct {
	Registry  *attr.Registry
	Schema    *schema.Schema
	Component *graph.Component
}

// attributeDecl is the loader-internal form of one attribute declaration,
// shared by both file formats.
type attributeDecl struct {
	name                string
	typ                 string
	compatibility       string
	disambiguation      string
	prefer              any
	absenceIncompatible bool
}

// apply registers the attribute and its strategy.
func (d attributeDecl) apply(reg *attr.Registry, s *schema.Schema) (attr.Attribute, error) {
	kind, err := attr.ParseKind(d.typ)
	if err != nil {
		return attr.Attribute{}, fmt.Errorf("attribute %q: %w", d.name, err)
	}
	a, err := reg.Register(d.name, kind)
	if err != nil {
		return attr.Attribute{}, err
	}

	st := schema.Strategy{AbsenceIncompatible: d.absenceIncompatible}

	switch d.compatibility {
	case "", "equal":
		// zero value: exact equality
	case "at-most":
		switch kind {
		case attr.KindInt:
			st.Compatibility = schema.AtMostRequested()
		case attr.KindString:
			st.Compatibility = schema.VersionAtMostRequested()
		default:
			return attr.Attribute{}, fmt.Errorf("attribute %q: compatibility %q requires an int or string type", d.name, d.compatibility)
		}
	default:
		return attr.Attribute{}, fmt.Errorf("attribute %q: unknown compatibility rule %q", d.name, d.compatibility)
	}

	switch d.disambiguation {
	case "":
		if d.prefer != nil {
			if err := a.CheckValue(d.prefer); err != nil {
				return attr.Attribute{}, err
			}
			st.Disambiguation = schema.Prefer(d.prefer)
		}
	case "largest":
		switch kind {
		case attr.KindInt:
			st.Disambiguation = schema.LargestValue()
		case attr.KindString:
			st.Disambiguation = schema.ClosestVersion()
		default:
			return attr.Attribute{}, fmt.Errorf("attribute %q: disambiguation %q requires an int or string type", d.name, d.disambiguation)
		}
	default:
		return attr.Attribute{}, fmt.Errorf("attribute %q: unknown disambiguation rule %q", d.name, d.disambiguation)
	}

	if err := s.AddStrategy(a, st); err != nil {
		return attr.Attribute{}, err
	}
	return a, nil
}

// containerFrom builds an attribute container from name/value pairs,
// registering undeclared attributes by their value's kind. Declared
// attributes keep their declared kind; a value of another kind is a type
// conflict.
func containerFrom(reg *attr.Registry, pairs []declPair) (attr.Container, error) {
	b := attr.NewBuilder()
	for _, p := range pairs {
		kind, ok := attr.KindOf(p.value)
		if !ok {
			return attr.Container{}, fmt.Errorf("attribute %q: unsupported value %v (%T)", p.name, p.value, p.value)
		}
		if declared, found := reg.Lookup(p.name); found {
			kind = declared.Kind()
		}
		a, err := reg.Register(p.name, kind)
		if err != nil {
			return attr.Container{}, err
		}
		b.Set(a, p.value)
	}
	return b.Build()
}

// declPair is one attribute/value pair from a declaration file, in
// declaration order.
type declPair struct {
	name  string
	value any
}

// ParseRequest builds a requested attribute container from "name=value"
// strings, the form CLI flags arrive in. Values are coerced to the kind
// registered for the name; unregistered names are treated as string
// attributes.
func ParseRequest(reg *attr.Registry, pairs []string) (attr.Container, error) {
	b := attr.NewBuilder()
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		if !ok {
			return attr.Container{}, fmt.Errorf("invalid attribute %q: expected name=value", p)
		}
		if a, found := reg.Lookup(name); found {
			v, err := coerce(raw, a.Kind())
			if err != nil {
				return attr.Container{}, fmt.Errorf("attribute %q: %w", name, err)
			}
			b.Set(a, v)
			continue
		}
		b.Set(attr.String(name), raw)
	}
	return b.Build()
}

func coerce(raw string, kind attr.Kind) (any, error) {
	switch kind {
	case attr.KindString:
		return raw, nil
	case attr.KindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("expected an int value, got %q", raw)
		}
		return v, nil
	case attr.KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("expected a bool value, got %q", raw)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported kind %v", kind)
	}
}
