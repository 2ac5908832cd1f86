package attrmatch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mharbol/go-attrmatch/attr"
	"github.com/mharbol/go-attrmatch/graph"
	"github.com/mharbol/go-attrmatch/schema"
)

// yamlDefinition mirrors the declaration file in YAML form:
//
//	component: org.example:lib:1.0
//	attributes:
//	  - name: usage
//	    type: string
//	  - name: jvm.version
//	    type: int
//	    compatibility: at-most
//	    disambiguation: largest
//	  - name: elements
//	    prefer: jar
//	precedence: [usage, elements, jvm.version]
//	stableOrder: false
//	configurations:
//	  - name: apiElements
//	    attributes:
//	      usage: java-api
//	      jvm.version: 8
//	    variants:
//	      - name: jar
//	        attributes:
//	          elements: jar
type yamlDefinition struct {
	Component   string          `yaml:"component"`
	Attributes  []yamlAttribute `yaml:"attributes"`
	Precedence  []string        `yaml:"precedence"`
	StableOrder bool            `yaml:"stableOrder"`
	Configs     []yamlConfig    `yaml:"configurations"`
}

type yamlAttribute struct {
	Name                string `yaml:"name"`
	Type                string `yaml:"type"`
	Compatibility       string `yaml:"compatibility"`
	Disambiguation      string `yaml:"disambiguation"`
	Prefer              any    `yaml:"prefer"`
	AbsenceIncompatible bool   `yaml:"absenceIncompatible"`
}

type yamlConfig struct {
	Name       string        `yaml:"name"`
	Consumable *bool         `yaml:"consumable"`
	Attributes yaml.Node     `yaml:"attributes"`
	Variants   []yamlVariant `yaml:"variants"`
}

type yamlVariant struct {
	Name       string    `yaml:"name"`
	Attributes yaml.Node `yaml:"attributes"`
}

// LoadDefinitionFile reads and parses a YAML variant declaration file.
func LoadDefinitionFile(filename string) (*Definition, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}
	return LoadDefinition(data)
}

// LoadDefinition parses YAML variant declarations. The semantics match
// ParseDefinition exactly; only the syntax differs.
func LoadDefinition(data []byte) (*Definition, error) {
	var raw yamlDefinition
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	def := &Definition{
		Registry:  attr.NewRegistry(),
		Schema:    schema.New(),
		Component: &graph.Component{ID: raw.Component},
	}

	for _, ya := range raw.Attributes {
		if ya.Name == "" {
			return nil, fmt.Errorf("attribute entry requires a name")
		}
		decl := attributeDecl{
			name:                ya.Name,
			typ:                 ya.Type,
			compatibility:       ya.Compatibility,
			disambiguation:      ya.Disambiguation,
			prefer:              normalizeYAMLValue(ya.Prefer),
			absenceIncompatible: ya.AbsenceIncompatible,
		}
		if _, err := decl.apply(def.Registry, def.Schema); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool)
	for _, yc := range raw.Configs {
		if yc.Name == "" {
			return nil, fmt.Errorf("configuration entry requires a name")
		}
		if seen[yc.Name] {
			return nil, fmt.Errorf("configuration %q declared twice", yc.Name)
		}
		seen[yc.Name] = true

		attrs, err := yamlContainer(def.Registry, &yc.Attributes)
		if err != nil {
			return nil, fmt.Errorf("configuration %q: %w", yc.Name, err)
		}
		cfg := &graph.Configuration{
			Name:       yc.Name,
			Attributes: attrs,
			Consumable: yc.Consumable == nil || *yc.Consumable,
		}
		for _, yv := range yc.Variants {
			vattrs, err := yamlContainer(def.Registry, &yv.Attributes)
			if err != nil {
				return nil, fmt.Errorf("variant %q: %w", yv.Name, err)
			}
			cfg.Variants = append(cfg.Variants, &graph.Variant{Name: yv.Name, Attributes: vattrs})
		}
		def.Component.Configurations = append(def.Component.Configurations, cfg)
	}

	order := make([]attr.Attribute, 0, len(raw.Precedence))
	for _, name := range raw.Precedence {
		a, ok := def.Registry.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("precedence lists undeclared attribute %q", name)
		}
		order = append(order, a)
	}
	if err := def.Schema.SetPrecedence(order...); err != nil {
		return nil, err
	}
	if err := def.Schema.SetStableOrder(raw.StableOrder); err != nil {
		return nil, err
	}

	for _, a := range def.Registry.Attributes() {
		if !def.Schema.HasStrategy(a) {
			if err := def.Schema.AddStrategy(a, schema.Strategy{}); err != nil {
				return nil, err
			}
		}
	}

	return def, nil
}

// yamlContainer decodes a mapping node into a container, preserving the
// document's key order for deterministic registration.
func yamlContainer(reg *attr.Registry, node *yaml.Node) (attr.Container, error) {
	if node.Kind == 0 {
		return attr.Container{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return attr.Container{}, fmt.Errorf("attributes must be a mapping")
	}
	var pairs []declPair
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return attr.Container{}, err
		}
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return attr.Container{}, err
		}
		value = normalizeYAMLValue(value)
		if value == nil {
			return attr.Container{}, fmt.Errorf("attribute %q has an unsupported value", name)
		}
		pairs = append(pairs, declPair{name: name, value: value})
	}
	return containerFrom(reg, pairs)
}

// normalizeYAMLValue maps the decoder's scalar types onto the supported
// attribute kinds.
func normalizeYAMLValue(v any) any {
	switch t := v.(type) {
	case string, int, bool:
		return t
	case int64:
		return int(t)
	case uint64:
		return int(t)
	default:
		return nil
	}
}
