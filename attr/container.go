package attr

import (
	"fmt"
	"sort"
	"strings"
)

// Container is an immutable mapping from attributes to values of their
// declared kind. A container represents either a consumer's request or one
// candidate variant. Containers are value types; once built they are never
// mutated and are safe to share across concurrent matcher invocations.
//
// The zero Container is empty and usable.
type Container struct {
	values map[Attribute]any
	keys   []Attribute // sorted by name, fixed at Build time
}

// Empty is the empty container.
var Empty = Container{}

// Builder accumulates attribute/value pairs for a Container. The zero value
// is not usable; create builders with NewBuilder.
type Builder struct {
	values map[Attribute]any
	err    error
}

// NewBuilder returns an empty container builder.
func NewBuilder() *Builder {
	return &Builder{values: make(map[Attribute]any)}
}

// Set records a value for an attribute. Values are checked against the
// attribute's declared kind; a mismatch surfaces from Build. Setting the
// same attribute twice keeps the last value. Setting two attributes that
// share a name but differ in kind is a type conflict.
func (b *Builder) Set(a Attribute, v any) *Builder {
	if b.err != nil {
		return b
	}
	if err := a.CheckValue(v); err != nil {
		b.err = err
		return b
	}
	for existing := range b.values {
		if existing.Name() == a.Name() && existing != a {
			b.err = &TypeConflictError{Name: a.Name(), Existing: existing.Kind(), Conflict: a.Kind()}
			return b
		}
	}
	b.values[a] = v
	return b
}

// PutString sets a string-kinded attribute by name.
func (b *Builder) PutString(name, v string) *Builder { return b.Set(String(name), v) }

// PutInt sets an int-kinded attribute by name.
func (b *Builder) PutInt(name string, v int) *Builder { return b.Set(Int(name), v) }

// PutBool sets a bool-kinded attribute by name.
func (b *Builder) PutBool(name string, v bool) *Builder { return b.Set(Bool(name), v) }

// Build produces the immutable container, or the first error recorded while
// setting values.
func (b *Builder) Build() (Container, error) {
	if b.err != nil {
		return Container{}, b.err
	}
	return newContainer(b.values), nil
}

// MustBuild is Build for containers known to be well formed, typically in
// tests and examples.
func (b *Builder) MustBuild() Container {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

func newContainer(values map[Attribute]any) Container {
	m := make(map[Attribute]any, len(values))
	keys := make([]Attribute, 0, len(values))
	for a, v := range values {
		m[a] = v
		keys = append(keys, a)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Name() < keys[j].Name() })
	return Container{values: m, keys: keys}
}

// Value returns the value for a, if present. Lookup is by full identity:
// an attribute with the same name but a different kind does not match.
func (c Container) Value(a Attribute) (any, bool) {
	v, ok := c.values[a]
	return v, ok
}

// Has reports whether a is present.
func (c Container) Has(a Attribute) bool {
	_, ok := c.values[a]
	return ok
}

// ByName returns the attribute with the given name regardless of kind.
// Diagnostic layers use this to detect name collisions across kinds.
func (c Container) ByName(name string) (Attribute, bool) {
	for _, a := range c.keys {
		if a.Name() == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Keys returns the attributes in name order. The returned slice must not be
// modified.
func (c Container) Keys() []Attribute { return c.keys }

// Len returns the number of attributes present.
func (c Container) Len() int { return len(c.values) }

// String renders the container in canonical name order, for diagnostics.
func (c Container) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, a := range c.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%v", a.Name(), c.values[a])
	}
	sb.WriteByte('}')
	return sb.String()
}

// Equal reports whether two containers hold the same attribute/value pairs.
func (c Container) Equal(other Container) bool {
	if len(c.values) != len(other.values) {
		return false
	}
	for a, v := range c.values {
		ov, ok := other.values[a]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Union returns a container holding every pair from base plus every pair
// from overlay, with overlay winning where both define the same attribute.
// A name present in both with different kinds is a type conflict.
func Union(base, overlay Container) (Container, error) {
	b := NewBuilder()
	for _, a := range base.keys {
		if other, ok := overlay.ByName(a.Name()); ok && other != a {
			return Container{}, &TypeConflictError{Name: a.Name(), Existing: a.Kind(), Conflict: other.Kind()}
		}
		if _, ok := overlay.ByName(a.Name()); ok {
			continue
		}
		b.Set(a, base.values[a])
	}
	for _, a := range overlay.keys {
		b.Set(a, overlay.values[a])
	}
	return b.Build()
}

// ValueOf returns the value for a converted to T. The second return is false
// when the attribute is absent or holds a different type.
func ValueOf[T any](c Container, a Attribute) (T, bool) {
	var zero T
	v, ok := c.values[a]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
