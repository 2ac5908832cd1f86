package attrmatch

import (
	"fmt"
	"os"

	"github.com/bazelbuild/buildtools/build"

	"github.com/mharbol/go-attrmatch/attr"
	"github.com/mharbol/go-attrmatch/graph"
	"github.com/mharbol/go-attrmatch/internal/buildutil"
	"github.com/mharbol/go-attrmatch/schema"
)

// ParseDefinitionFile reads and parses a Starlark-syntax variant
// declaration file from disk.
func ParseDefinitionFile(filename string) (*Definition, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}
	return ParseDefinition(filename, data)
}

// ParseDefinition parses Starlark-syntax variant declarations:
//
//	component(id = "org.example:lib:1.0")
//
//	attribute(name = "usage", type = "string")
//	attribute(name = "jvm.version", type = "int", compatibility = "at-most", disambiguation = "largest")
//	attribute(name = "elements", type = "string", prefer = "jar")
//
//	precedence(["usage", "elements", "jvm.version"])
//	stable_order(True)
//
//	configuration(
//	    name = "apiElements",
//	    consumable = True,
//	    attributes = {"usage": "java-api", "jvm.version": 8},
//	)
//	variant(
//	    name = "jar",
//	    configuration = "apiElements",
//	    attributes = {"elements": "jar"},
//	)
//
// Attributes used in configuration or variant dicts without a prior
// attribute() declaration are registered with the kind of their first value.
func ParseDefinition(filename string, data []byte) (*Definition, error) {
	f, err := build.ParseDefault(filename, data)
	if err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	def := &Definition{
		Registry:  attr.NewRegistry(),
		Schema:    schema.New(),
		Component: &graph.Component{},
	}
	configs := make(map[string]*graph.Configuration)

	for _, stmt := range f.Stmt {
		call, ok := stmt.(*build.CallExpr)
		if !ok {
			continue
		}

		switch buildutil.FuncName(call) {
		case "component":
			def.Component.ID = buildutil.StringArg(call, "id")

		case "attribute":
			decl := attributeDecl{
				name:                buildutil.StringArg(call, "name"),
				typ:                 buildutil.StringArg(call, "type"),
				compatibility:       buildutil.StringArg(call, "compatibility"),
				disambiguation:      buildutil.StringArg(call, "disambiguation"),
				absenceIncompatible: buildutil.BoolArg(call, "absence_incompatible", false),
			}
			if v, ok := buildutil.ValueArg(call, "prefer"); ok {
				decl.prefer = v
			}
			if decl.name == "" {
				return nil, fmt.Errorf("attribute() requires a name")
			}
			if _, err := decl.apply(def.Registry, def.Schema); err != nil {
				return nil, err
			}

		case "precedence":
			names := buildutil.StringsArg(call, "")
			order := make([]attr.Attribute, 0, len(names))
			for _, name := range names {
				a, ok := def.Registry.Lookup(name)
				if !ok {
					return nil, fmt.Errorf("precedence lists undeclared attribute %q", name)
				}
				order = append(order, a)
			}
			if err := def.Schema.SetPrecedence(order...); err != nil {
				return nil, err
			}

		case "stable_order":
			enabled := true
			if len(call.List) > 0 {
				if v, ok := buildutil.Value(call.List[0]).(bool); ok {
					enabled = v
				}
			}
			if err := def.Schema.SetStableOrder(enabled); err != nil {
				return nil, err
			}

		case "configuration":
			name := buildutil.StringArg(call, "name")
			if name == "" {
				return nil, fmt.Errorf("configuration() requires a name")
			}
			if _, exists := configs[name]; exists {
				return nil, fmt.Errorf("configuration %q declared twice", name)
			}
			attrs, err := dictContainer(def.Registry, call)
			if err != nil {
				return nil, fmt.Errorf("configuration %q: %w", name, err)
			}
			cfg := &graph.Configuration{
				Name:       name,
				Attributes: attrs,
				Consumable: buildutil.BoolArg(call, "consumable", true),
			}
			configs[name] = cfg
			def.Component.Configurations = append(def.Component.Configurations, cfg)

		case "variant":
			name := buildutil.StringArg(call, "name")
			cfgName := buildutil.StringArg(call, "configuration")
			cfg, ok := configs[cfgName]
			if !ok {
				return nil, fmt.Errorf("variant %q references undeclared configuration %q", name, cfgName)
			}
			attrs, err := dictContainer(def.Registry, call)
			if err != nil {
				return nil, fmt.Errorf("variant %q: %w", name, err)
			}
			cfg.Variants = append(cfg.Variants, &graph.Variant{Name: name, Attributes: attrs})
		}
	}

	// Attributes introduced through dicts still need a strategy so requests
	// against them are not rejected as unmodeled.
	for _, a := range def.Registry.Attributes() {
		if !def.Schema.HasStrategy(a) {
			if err := def.Schema.AddStrategy(a, schema.Strategy{}); err != nil {
				return nil, err
			}
		}
	}

	return def, nil
}

func dictContainer(reg *attr.Registry, call *build.CallExpr) (attr.Container, error) {
	entries, ok := buildutil.DictArg(call, "attributes")
	if !ok {
		return attr.Container{}, nil
	}
	pairs := make([]declPair, 0, len(entries))
	for _, e := range entries {
		if e.Value == nil {
			return attr.Container{}, fmt.Errorf("attribute %q has an unsupported value", e.Key)
		}
		pairs = append(pairs, declPair{name: e.Key, value: e.Value})
	}
	return containerFrom(reg, pairs)
}
