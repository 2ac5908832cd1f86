// Package buildutil provides helpers for extracting declaration values from
// buildtools AST nodes, shared by the Starlark-syntax definition parser.
package buildutil

import (
	"strconv"

	"github.com/bazelbuild/buildtools/build"
)

// FuncName returns the function name of a simple call, or "" for anything
// else (method calls, computed callees).
func FuncName(call *build.CallExpr) string {
	if ident, ok := call.X.(*build.Ident); ok {
		return ident.Name
	}
	return ""
}

// StringArg extracts a named string argument from a call. An empty name
// selects the first positional string argument.
func StringArg(call *build.CallExpr, name string) string {
	if name == "" && len(call.List) > 0 {
		if str, ok := call.List[0].(*build.StringExpr); ok {
			return str.Value
		}
		return ""
	}
	if rhs, ok := namedArg(call, name); ok {
		if str, ok := rhs.(*build.StringExpr); ok {
			return str.Value
		}
	}
	return ""
}

// BoolArg extracts a named boolean argument. def is returned when the
// argument is missing or not a True/False identifier.
func BoolArg(call *build.CallExpr, name string, def bool) bool {
	if rhs, ok := namedArg(call, name); ok {
		if ident, ok := rhs.(*build.Ident); ok {
			switch ident.Name {
			case "True":
				return true
			case "False":
				return false
			}
		}
	}
	return def
}

// ValueArg extracts a named argument as a Go value via Value.
func ValueArg(call *build.CallExpr, name string) (any, bool) {
	rhs, ok := namedArg(call, name)
	if !ok {
		return nil, false
	}
	return Value(rhs), true
}

// DictArg extracts a named dict argument as an ordered list of key/value
// pairs. Declaration order is preserved so downstream registration and
// error reporting stay deterministic.
func DictArg(call *build.CallExpr, name string) ([]DictEntry, bool) {
	rhs, ok := namedArg(call, name)
	if !ok {
		return nil, false
	}
	dict, ok := rhs.(*build.DictExpr)
	if !ok {
		return nil, false
	}
	entries := make([]DictEntry, 0, len(dict.List))
	for _, kv := range dict.List {
		key, ok := kv.Key.(*build.StringExpr)
		if !ok {
			continue
		}
		entries = append(entries, DictEntry{Key: key.Value, Value: Value(kv.Value)})
	}
	return entries, true
}

// DictEntry is one key/value pair of a dict argument.
type DictEntry struct {
	Key   string
	Value any
}

// StringsArg extracts a named list-of-strings argument. An empty name
// selects the first positional list argument.
func StringsArg(call *build.CallExpr, name string) []string {
	var expr build.Expr
	if name == "" && len(call.List) > 0 {
		if _, named := call.List[0].(*build.AssignExpr); !named {
			expr = call.List[0]
		}
	} else if rhs, ok := namedArg(call, name); ok {
		expr = rhs
	}
	list, ok := expr.(*build.ListExpr)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list.List))
	for _, elem := range list.List {
		if str, ok := elem.(*build.StringExpr); ok {
			out = append(out, str.Value)
		}
	}
	return out
}

// Value converts an expression to a Go value: strings, ints, and the
// True/False identifiers. Other shapes come back as nil.
func Value(expr build.Expr) any {
	switch e := expr.(type) {
	case *build.StringExpr:
		return e.Value
	case *build.LiteralExpr:
		if v, err := strconv.Atoi(e.Token); err == nil {
			return v
		}
		return nil
	case *build.Ident:
		switch e.Name {
		case "True":
			return true
		case "False":
			return false
		}
	}
	return nil
}

func namedArg(call *build.CallExpr, name string) (build.Expr, bool) {
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		lhs, ok := assign.LHS.(*build.Ident)
		if !ok || lhs.Name != name {
			continue
		}
		return assign.RHS, true
	}
	return nil, false
}
