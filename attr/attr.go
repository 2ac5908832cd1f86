// Package attr provides typed attribute identity and immutable attribute
// containers.
//
// An Attribute is a named, typed dimension of variant identity (for example
// a usage or a target JVM version). Two attributes are the same only if both
// their name and their value kind match; a name registered under two
// different kinds is a configuration error, never a silent mismatch.
package attr

import (
	"fmt"
)

// Kind is the declared value type of an attribute.
type Kind int

const (
	// KindString attributes hold string values.
	KindString Kind = iota
	// KindInt attributes hold int values.
	KindInt
	// KindBool attributes hold bool values.
	KindBool
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// KindOf reports the Kind a Go value maps to. The second return is false
// for values outside the supported set.
func KindOf(v any) (Kind, bool) {
	switch v.(type) {
	case string:
		return KindString, true
	case int:
		return KindInt, true
	case bool:
		return KindBool, true
	default:
		return 0, false
	}
}

// ParseKind parses a kind name as used in declaration files.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "string", "":
		return KindString, nil
	case "int":
		return KindInt, nil
	case "bool":
		return KindBool, nil
	default:
		return 0, fmt.Errorf("unknown attribute type %q", s)
	}
}

// Attribute identifies a named, typed attribute. The zero value is not a
// valid attribute; construct attributes with String, Int, Bool, or through
// a Registry.
//
// Attribute is a comparable value type and is safe to use as a map key.
// Two Attribute values are equal exactly when both name and kind match.
type Attribute struct {
	name string
	kind Kind
}

// String returns a string-kinded attribute with the given name.
func String(name string) Attribute { return Attribute{name: name, kind: KindString} }

// Int returns an int-kinded attribute with the given name.
func Int(name string) Attribute { return Attribute{name: name, kind: KindInt} }

// Bool returns a bool-kinded attribute with the given name.
func Bool(name string) Attribute { return Attribute{name: name, kind: KindBool} }

// Of returns an attribute with an explicit kind.
func Of(name string, kind Kind) Attribute { return Attribute{name: name, kind: kind} }

// Name returns the attribute name.
func (a Attribute) Name() string { return a.name }

// Kind returns the declared value kind.
func (a Attribute) Kind() Kind { return a.kind }

// IsZero reports whether a is the zero Attribute.
func (a Attribute) IsZero() bool { return a == Attribute{} }

// GoString is implemented so test failures print the full identity.
func (a Attribute) GoString() string {
	return fmt.Sprintf("attr.Of(%q, %v)", a.name, a.kind)
}

// CheckValue reports whether v is assignable to the attribute's kind.
func (a Attribute) CheckValue(v any) error {
	k, ok := KindOf(v)
	if !ok {
		return &ValueError{Attribute: a, Value: v}
	}
	if k != a.kind {
		return &ValueError{Attribute: a, Value: v}
	}
	return nil
}

// ValueError reports a value that does not match its attribute's declared kind.
type ValueError struct {
	Attribute Attribute
	Value     any
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("value %v (%T) is not assignable to attribute %q of type %v",
		e.Value, e.Value, e.Attribute.Name(), e.Attribute.Kind())
}

// TypeConflictError reports the same attribute name used with two different
// value kinds. This is fatal at configuration time and is never recovered.
type TypeConflictError struct {
	Name     string
	Existing Kind
	Conflict Kind
}

func (e *TypeConflictError) Error() string {
	return fmt.Sprintf("attribute %q already registered with type %v, cannot redeclare as %v",
		e.Name, e.Existing, e.Conflict)
}
