package graphs

import (
	"errors"
	"fmt"
	"testing"
)

func TestTopologicalSortChain(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(order))
	}

	// For every edge u -> v, v must precede u.
	pos := make(map[string]int)
	for i, v := range order {
		pos[v] = i
	}
	if !(pos["c"] < pos["b"] && pos["b"] < pos["a"]) {
		t.Errorf("ordering violated: %v", order)
	}
}

func TestTopologicalSortEdgeInsertsVertices(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")

	if len(g.VertexList()) != 2 {
		t.Fatalf("expected both endpoints inserted, got %v", g.VertexList())
	}
}

func TestTopologicalSortDeterministic(t *testing.T) {
	build := func() *Graph[string] {
		g := New[string]()
		g.AddVertex("root")
		for i := 0; i < 20; i++ {
			g.AddEdge("root", fmt.Sprintf("dep%02d", i))
		}
		return g
	}

	first, err := build().TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := build().TopologicalSort()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("run %d: ordering differs at %d: %s vs %s", run, i, first[i], again[i])
			}
		}
	}
}

func TestTopologicalSortCycle(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	_, err := g.TopologicalSort()
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !errors.Is(err, ErrCycleDetected) {
		t.Errorf("expected ErrCycleDetected, got: %v", err)
	}

	var cerr *CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CycleError, got %T", err)
	}
	if cerr.Vertex != "a" && cerr.Vertex != "b" {
		t.Errorf("cycle vertex should name a or b, got %s", cerr.Vertex)
	}
}

func TestSelfLoopIsCycle(t *testing.T) {
	g := New[string]()
	g.AddEdge("a", "a")

	if _, err := g.TopologicalSort(); err == nil {
		t.Fatal("expected cycle error for self-loop")
	}
}

// mapProvider adapts a plain dependents map for provider-based sorting.
type mapProvider struct {
	adjacent map[string][]string
	loaded   map[string]int
}

func (p *mapProvider) LoadVertexData(key string) (string, error) {
	if p.loaded != nil {
		p.loaded[key]++
	}
	return key, nil
}

func (p *mapProvider) AdjacencyList(data string) ([]string, error) {
	return p.adjacent[data], nil
}

func (p *mapProvider) FormatKey(key string) string { return key }

func TestTopologicalSortProvider(t *testing.T) {
	// b's dependents: a. Removing b must list a first.
	p := &mapProvider{adjacent: map[string][]string{"b": {"a"}}, loaded: make(map[string]int)}

	order, err := TopologicalSortProvider([]string{"b"}, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("expected [a b], got %v", order)
	}
}

func TestTopologicalSortProviderDeduplicates(t *testing.T) {
	p := &mapProvider{
		adjacent: map[string][]string{"a": {"c"}, "b": {"c"}},
		loaded:   make(map[string]int),
	}

	order, err := TopologicalSortProvider([]string{"a", "b", "c"}, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 vertices, got %v", order)
	}
	for key, count := range p.loaded {
		if count != 1 {
			t.Errorf("vertex %s loaded %d times", key, count)
		}
	}
}

func TestTopologicalSortProviderCycle(t *testing.T) {
	p := &mapProvider{adjacent: map[string][]string{"a": {"b"}, "b": {"a"}}}

	_, err := TopologicalSortProvider([]string{"a"}, p)
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got: %v", err)
	}
}
