package attrmatch

import (
	"context"
	"fmt"
	"testing"

	"github.com/mharbol/go-attrmatch/attr"
	"github.com/mharbol/go-attrmatch/graph"
	"github.com/mharbol/go-attrmatch/matching"
	"github.com/mharbol/go-attrmatch/schema"
)

var (
	usage    = attr.String("usage")
	elements = attr.String("elements")
	jvm      = attr.Int("jvm.version")
)

func apiSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s := schema.New()
	s.MustAddStrategy(usage, schema.Strategy{}).
		MustAddStrategy(elements, schema.Strategy{Disambiguation: schema.Prefer("jar")}).
		MustAddStrategy(jvm, schema.Strategy{
			Compatibility:  schema.AtMostRequested(),
			Disambiguation: schema.LargestValue(),
		})
	if err := s.SetPrecedence(usage, elements, jvm); err != nil {
		t.Fatalf("SetPrecedence() error = %v", err)
	}
	return s
}

func apiComponent() *graph.Component {
	return &graph.Component{
		ID: "org.example:lib:1.0",
		Configurations: []*graph.Configuration{
			{
				Name:       "apiElements",
				Consumable: true,
				Attributes: attr.NewBuilder().Set(usage, "java-api").Set(jvm, 8).MustBuild(),
				Variants: []*graph.Variant{
					{Name: "jar", Attributes: attr.NewBuilder().Set(elements, "jar").MustBuild()},
					{Name: "classes", Attributes: attr.NewBuilder().Set(elements, "classes").MustBuild()},
				},
			},
			{
				Name:       "runtimeElements",
				Consumable: true,
				Attributes: attr.NewBuilder().Set(usage, "java-runtime").Set(jvm, 8).MustBuild(),
			},
		},
	}
}

func TestMatchReturnsTrace(t *testing.T) {
	requested := attr.NewBuilder().Set(usage, "java-api").MustBuild()
	candidates := []attr.Container{
		attr.NewBuilder().Set(usage, "java-api").MustBuild(),
		attr.NewBuilder().Set(usage, "java-runtime").MustBuild(),
	}

	res, err := Match(candidates, requested, apiSchema(t))
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("Matches = %v, want one", res.Matches)
	}
	if res.Trace == nil || len(res.Trace.Events) == 0 {
		t.Error("Match() recorded no trace events")
	}
}

func TestResolveCarriesTraceOnFailure(t *testing.T) {
	requested := attr.NewBuilder().Set(usage, "native-link").MustBuild()

	res, err := Resolve(apiComponent(), requested, apiSchema(t))
	if !IsNoMatch(err) {
		t.Fatalf("Resolve() error = %v, want no-match", err)
	}
	if res == nil || res.Trace == nil || len(res.Trace.Events) == 0 {
		t.Fatal("failed Resolve() must still carry the recorded trace")
	}
	if res.Selection != nil {
		t.Error("failed Resolve() must not carry a selection")
	}
}

func TestResolveConfigurationByName(t *testing.T) {
	requested := attr.NewBuilder().Set(usage, "java-api").Set(elements, "jar").MustBuild()

	res, err := ResolveConfiguration(apiComponent(), "apiElements", requested, apiSchema(t))
	if err != nil {
		t.Fatalf("ResolveConfiguration() error = %v", err)
	}
	if res.Selection.Variant == nil || res.Selection.Variant.Name != "jar" {
		t.Errorf("variant = %+v, want jar", res.Selection.Variant)
	}
}

func TestWithSinkObservesEvents(t *testing.T) {
	requested := attr.NewBuilder().Set(usage, "java-api").MustBuild()
	candidates := []attr.Container{
		attr.NewBuilder().Set(usage, "java-api").MustBuild(),
	}

	extra := &matching.Trace{}
	res, err := Match(candidates, requested, apiSchema(t), WithSink(extra))
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(extra.Events) != len(res.Trace.Events) {
		t.Errorf("extra sink saw %d events, internal trace %d", len(extra.Events), len(res.Trace.Events))
	}
}

func TestResolveAll(t *testing.T) {
	requests := map[string]attr.Container{
		"compileClasspath": attr.NewBuilder().Set(usage, "java-api").Set(jvm, 11).MustBuild(),
		"runtimeClasspath": attr.NewBuilder().Set(usage, "java-runtime").Set(jvm, 11).MustBuild(),
	}

	results, err := ResolveAll(context.Background(), apiComponent(), requests, apiSchema(t))
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if got := results["compileClasspath"].Selection.Configuration.Name; got != "apiElements" {
		t.Errorf("compileClasspath resolved to %q, want apiElements", got)
	}
	if got := results["runtimeClasspath"].Selection.Configuration.Name; got != "runtimeElements" {
		t.Errorf("runtimeClasspath resolved to %q, want runtimeElements", got)
	}
}

func TestResolveAllPropagatesFailure(t *testing.T) {
	requests := map[string]attr.Container{
		"good": attr.NewBuilder().Set(usage, "java-api").Set(jvm, 11).MustBuild(),
		"bad":  attr.NewBuilder().Set(usage, "native-link").MustBuild(),
	}

	_, err := ResolveAll(context.Background(), apiComponent(), requests, apiSchema(t))
	if err == nil {
		t.Fatal("ResolveAll() succeeded, want failure from the bad request")
	}
	if !IsNoMatch(err) {
		t.Errorf("ResolveAll() error = %v, want a wrapped no-match", err)
	}
}

func TestResolveAllManyConcurrentRequests(t *testing.T) {
	// Many goroutines share one schema; the up-front freeze keeps them from
	// racing a first-use mutation.
	c := apiComponent()
	s := apiSchema(t)
	requests := make(map[string]attr.Container, 64)
	for i := 0; i < 64; i++ {
		requests[fmt.Sprintf("classpath-%d", i)] = attr.NewBuilder().Set(usage, "java-api").Set(jvm, 11).MustBuild()
	}

	results, err := ResolveAll(context.Background(), c, requests, s)
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	for name, res := range results {
		if res.Selection.Variant == nil || res.Selection.Variant.Name != "jar" {
			t.Fatalf("%s resolved to %+v, want the jar variant", name, res.Selection.Variant)
		}
	}
}

func TestErrorCategoryHelpers(t *testing.T) {
	requested := attr.NewBuilder().Set(usage, "java-api").MustBuild()
	s := apiSchema(t)

	_, err := matching.SelectOne(nil, requested, s, nil)
	if !IsNoMatch(err) || IsAmbiguous(err) {
		t.Errorf("no-match error misclassified: %v", err)
	}

	tied := []attr.Container{
		attr.NewBuilder().Set(usage, "java-api").PutString("a", "1").MustBuild(),
		attr.NewBuilder().Set(usage, "java-api").PutString("b", "2").MustBuild(),
	}
	_, err = matching.SelectOne(tied, requested, s, nil)
	if !IsAmbiguous(err) || IsNoMatch(err) {
		t.Errorf("ambiguity misclassified: %v", err)
	}

	if !IsNotConsumable(&graph.NotConsumableError{}) {
		t.Error("IsNotConsumable() = false for NotConsumableError")
	}
	if !IsTypeConflict(&attr.TypeConflictError{}) {
		t.Error("IsTypeConflict() = false for TypeConflictError")
	}
	if !IsInvariantViolation(&matching.InvariantError{}) {
		t.Error("IsInvariantViolation() = false for InvariantError")
	}
	if IsNoMatch(nil) || IsAmbiguous(nil) {
		t.Error("nil must not classify as a failure")
	}
}
