package buildutil

import (
	"reflect"
	"testing"

	"github.com/bazelbuild/buildtools/build"
)

func parseCall(t *testing.T, src string) *build.CallExpr {
	t.Helper()
	f, err := build.ParseDefault("test.star", []byte(src))
	if err != nil {
		t.Fatalf("ParseDefault() error = %v", err)
	}
	if len(f.Stmt) == 0 {
		t.Fatal("no statements parsed")
	}
	call, ok := f.Stmt[0].(*build.CallExpr)
	if !ok {
		t.Fatalf("statement is %T, want CallExpr", f.Stmt[0])
	}
	return call
}

func TestFuncName(t *testing.T) {
	if got := FuncName(parseCall(t, `configuration(name = "a")`)); got != "configuration" {
		t.Errorf("FuncName() = %q, want configuration", got)
	}
}

func TestStringArg(t *testing.T) {
	call := parseCall(t, `attribute(name = "usage", type = "string")`)
	if got := StringArg(call, "name"); got != "usage" {
		t.Errorf("StringArg(name) = %q, want usage", got)
	}
	if got := StringArg(call, "missing"); got != "" {
		t.Errorf("StringArg(missing) = %q, want empty", got)
	}
}

func TestBoolArg(t *testing.T) {
	call := parseCall(t, `configuration(name = "a", consumable = False)`)
	if BoolArg(call, "consumable", true) {
		t.Error("BoolArg(consumable) = true, want false")
	}
	if !BoolArg(call, "missing", true) {
		t.Error("BoolArg(missing) must fall back to the default")
	}
}

func TestValueArg(t *testing.T) {
	call := parseCall(t, `attribute(name = "x", prefer = 8)`)
	v, ok := ValueArg(call, "prefer")
	if !ok || v != 8 {
		t.Errorf("ValueArg(prefer) = (%v, %v), want (8, true)", v, ok)
	}
}

func TestDictArgPreservesOrder(t *testing.T) {
	call := parseCall(t, `configuration(name = "a", attributes = {"usage": "java-api", "jvm.version": 8, "optimized": True})`)
	entries, ok := DictArg(call, "attributes")
	if !ok {
		t.Fatal("DictArg() did not find the attributes dict")
	}
	want := []DictEntry{
		{Key: "usage", Value: "java-api"},
		{Key: "jvm.version", Value: 8},
		{Key: "optimized", Value: true},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("DictArg() = %v, want %v", entries, want)
	}
}

func TestStringsArgPositional(t *testing.T) {
	call := parseCall(t, `precedence(["usage", "elements"])`)
	if got := StringsArg(call, ""); !reflect.DeepEqual(got, []string{"usage", "elements"}) {
		t.Errorf("StringsArg() = %v, want [usage elements]", got)
	}
}
