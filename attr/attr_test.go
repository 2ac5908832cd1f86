package attr

import (
	"errors"
	"testing"
)

func TestAttributeIdentity(t *testing.T) {
	if String("usage") != Of("usage", KindString) {
		t.Error("String() and Of(KindString) must produce the same identity")
	}
	if String("usage") == Int("usage") {
		t.Error("same name under different kinds must not compare equal")
	}
	if !(Attribute{}).IsZero() {
		t.Error("zero Attribute must report IsZero")
	}
	if String("usage").IsZero() {
		t.Error("constructed attribute must not report IsZero")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		value any
		kind  Kind
		ok    bool
	}{
		{"jar", KindString, true},
		{8, KindInt, true},
		{true, KindBool, true},
		{3.14, 0, false},
		{nil, 0, false},
		{int64(8), 0, false},
	}
	for _, tt := range tests {
		kind, ok := KindOf(tt.value)
		if ok != tt.ok || (ok && kind != tt.kind) {
			t.Errorf("KindOf(%v) = (%v, %v), want (%v, %v)", tt.value, kind, ok, tt.kind, tt.ok)
		}
	}
}

func TestParseKind(t *testing.T) {
	for name, want := range map[string]Kind{"string": KindString, "": KindString, "int": KindInt, "bool": KindBool} {
		got, err := ParseKind(name)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = (%v, %v), want (%v, nil)", name, got, err, want)
		}
	}
	if _, err := ParseKind("float"); err == nil {
		t.Error("ParseKind(\"float\") should fail")
	}
}

func TestCheckValue(t *testing.T) {
	jvm := Int("jvm.version")
	if err := jvm.CheckValue(8); err != nil {
		t.Errorf("CheckValue(8) on int attribute = %v", err)
	}
	err := jvm.CheckValue("8")
	var valueErr *ValueError
	if !errors.As(err, &valueErr) {
		t.Errorf("CheckValue(\"8\") on int attribute = %v, want ValueError", err)
	}
}

func TestRegistryIdempotentAndConflicting(t *testing.T) {
	r := NewRegistry()
	first, err := r.Register("usage", KindString)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	second, err := r.Register("usage", KindString)
	if err != nil {
		t.Fatalf("second Register() error = %v", err)
	}
	if first != second {
		t.Error("re-registering the same (name, kind) must return the same attribute")
	}

	_, err = r.Register("usage", KindInt)
	var conflict *TypeConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Register() under a second kind = %v, want TypeConflictError", err)
	}
	if conflict.Name != "usage" || conflict.Existing != KindString || conflict.Conflict != KindInt {
		t.Errorf("TypeConflictError = %+v", conflict)
	}
}

func TestRegistryAttributesSorted(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("usage", KindString)
	r.MustRegister("elements", KindString)
	r.MustRegister("jvm.version", KindInt)

	attrs := r.Attributes()
	if len(attrs) != 3 {
		t.Fatalf("Attributes() returned %d entries, want 3", len(attrs))
	}
	for i := 1; i < len(attrs); i++ {
		if attrs[i-1].Name() >= attrs[i].Name() {
			t.Errorf("Attributes() not sorted: %q before %q", attrs[i-1].Name(), attrs[i].Name())
		}
	}
}

func TestBuilderKindChecks(t *testing.T) {
	_, err := NewBuilder().Set(Int("jvm.version"), "not an int").Build()
	var valueErr *ValueError
	if !errors.As(err, &valueErr) {
		t.Errorf("Build() after kind mismatch = %v, want ValueError", err)
	}

	_, err = NewBuilder().
		Set(String("level"), "high").
		Set(Int("level"), 3).
		Build()
	var conflict *TypeConflictError
	if !errors.As(err, &conflict) {
		t.Errorf("Build() after cross-kind name collision = %v, want TypeConflictError", err)
	}
}

func TestBuilderLastValueWins(t *testing.T) {
	c := NewBuilder().PutString("usage", "java-api").PutString("usage", "java-runtime").MustBuild()
	v, ok := c.Value(String("usage"))
	if !ok || v != "java-runtime" {
		t.Errorf("Value(usage) = (%v, %v), want java-runtime", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestContainerLookupIsTyped(t *testing.T) {
	c := NewBuilder().PutInt("jvm.version", 8).MustBuild()
	if _, ok := c.Value(String("jvm.version")); ok {
		t.Error("lookup under a different kind must miss")
	}
	if a, ok := c.ByName("jvm.version"); !ok || a != Int("jvm.version") {
		t.Errorf("ByName() = (%#v, %v), want the int attribute", a, ok)
	}
}

func TestContainerStringCanonical(t *testing.T) {
	c := NewBuilder().PutInt("jvm.version", 8).PutString("usage", "java-api").PutString("elements", "jar").MustBuild()
	want := "{elements=jar, jvm.version=8, usage=java-api}"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := Empty.String(); got != "{}" {
		t.Errorf("empty String() = %q, want {}", got)
	}
}

func TestContainerEqual(t *testing.T) {
	a := NewBuilder().PutString("usage", "java-api").PutInt("jvm.version", 8).MustBuild()
	b := NewBuilder().PutInt("jvm.version", 8).PutString("usage", "java-api").MustBuild()
	if !a.Equal(b) {
		t.Error("containers with the same pairs must be equal regardless of insertion order")
	}
	c := NewBuilder().PutString("usage", "java-api").PutInt("jvm.version", 11).MustBuild()
	if a.Equal(c) {
		t.Error("containers differing in a value must not be equal")
	}
	if a.Equal(Empty) {
		t.Error("non-empty container must not equal Empty")
	}
}

func TestUnionOverlayWins(t *testing.T) {
	base := NewBuilder().PutString("usage", "java-api").PutInt("jvm.version", 8).MustBuild()
	overlay := NewBuilder().PutInt("jvm.version", 11).PutString("elements", "jar").MustBuild()

	merged, err := Union(base, overlay)
	if err != nil {
		t.Fatalf("Union() error = %v", err)
	}
	if v, _ := merged.Value(Int("jvm.version")); v != 11 {
		t.Errorf("overlay value lost: jvm.version = %v, want 11", v)
	}
	if v, _ := merged.Value(String("usage")); v != "java-api" {
		t.Errorf("base value lost: usage = %v", v)
	}
	if merged.Len() != 3 {
		t.Errorf("Len() = %d, want 3", merged.Len())
	}
}

func TestUnionKindConflict(t *testing.T) {
	base := NewBuilder().PutString("level", "high").MustBuild()
	overlay := NewBuilder().PutInt("level", 3).MustBuild()
	_, err := Union(base, overlay)
	var conflict *TypeConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Union() with cross-kind collision = %v, want TypeConflictError", err)
	}
}

func TestValueOf(t *testing.T) {
	c := NewBuilder().PutInt("jvm.version", 8).MustBuild()
	if v, ok := ValueOf[int](c, Int("jvm.version")); !ok || v != 8 {
		t.Errorf("ValueOf[int] = (%v, %v), want (8, true)", v, ok)
	}
	if _, ok := ValueOf[string](c, Int("jvm.version")); ok {
		t.Error("ValueOf with the wrong type parameter must miss")
	}
	if _, ok := ValueOf[int](c, Int("absent")); ok {
		t.Error("ValueOf on an absent attribute must miss")
	}
}
