package dag

import (
	"errors"
	"slices"
	"strconv"
	"testing"
)

func build(t *testing.T, root string, edges ...[2]string) *Graph {
	t.Helper()
	g := New(nil)
	if err := g.AddVertex(Vertex{ID: root, Kind: KindRoot}); err != nil {
		t.Fatalf("AddVertex(%s): %v", root, err)
	}
	for _, e := range edges {
		for _, id := range e {
			if _, ok := g.Vertex(id); !ok {
				if err := g.AddVertex(Vertex{ID: id, Kind: KindTransitive}); err != nil {
					t.Fatalf("AddVertex(%s): %v", id, err)
				}
			}
		}
		if _, err := g.AddEdge(Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%s->%s): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestAddVertexErrors(t *testing.T) {
	g := New(nil)
	if err := g.AddVertex(Vertex{}); !errors.Is(err, ErrInvalidVertexID) {
		t.Errorf("empty ID: got %v, want %v", err, ErrInvalidVertexID)
	}
	if err := g.AddVertex(Vertex{ID: "a", Kind: KindRoot}); err != nil {
		t.Fatalf("AddVertex(a): %v", err)
	}
	if err := g.AddVertex(Vertex{ID: "a", Kind: KindDirect}); !errors.Is(err, ErrDuplicateVertexID) {
		t.Errorf("duplicate: got %v, want %v", err, ErrDuplicateVertexID)
	}
	if err := g.AddVertex(Vertex{ID: "b", Kind: KindRoot}); !errors.Is(err, ErrMultipleRoots) {
		t.Errorf("second root: got %v, want %v", err, ErrMultipleRoots)
	}
	if g.Root() != "a" {
		t.Errorf("Root() = %q, want %q", g.Root(), "a")
	}
	if v, _ := g.Vertex("a"); v.Kind != KindRoot {
		t.Errorf("kind of a = %v, want root", v.Kind)
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New(nil)
	_ = g.AddVertex(Vertex{ID: "a", Kind: KindRoot})

	if _, err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceVertex) {
		t.Errorf("unknown source: got %v", err)
	}
	if _, err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetVertex) {
		t.Errorf("unknown target: got %v", err)
	}
}

func TestAddEdgeSetSemantics(t *testing.T) {
	g := New(nil)
	_ = g.AddVertex(Vertex{ID: "a", Kind: KindRoot})
	_ = g.AddVertex(Vertex{ID: "b", Kind: KindDirect})

	added, err := g.AddEdge(Edge{From: "a", To: "b", Meta: Metadata{"range": "^1.0"}})
	if err != nil || !added {
		t.Fatalf("first AddEdge = (%v, %v), want (true, nil)", added, err)
	}
	added, err = g.AddEdge(Edge{From: "a", To: "b", Meta: Metadata{"range": "^2.0"}})
	if err != nil || added {
		t.Fatalf("duplicate AddEdge = (%v, %v), want (false, nil)", added, err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	e, ok := g.Edge("a", "b")
	if !ok {
		t.Fatal("Edge(a, b) not found")
	}
	if e.Meta["range"] != "^1.0" {
		t.Errorf("range = %v, want first edge's ^1.0", e.Meta["range"])
	}
}

func TestOutKeepsInsertionOrder(t *testing.T) {
	g := build(t, "root", [2]string{"root", "c"}, [2]string{"root", "a"}, [2]string{"root", "b"})

	var got []string
	for _, e := range g.Out("root") {
		got = append(got, e.To)
	}
	want := []string{"c", "a", "b"}
	if !slices.Equal(got, want) {
		t.Errorf("Out(root) = %v, want %v", got, want)
	}
	if !slices.Equal(g.Children("root"), want) {
		t.Errorf("Children(root) = %v, want %v", g.Children("root"), want)
	}
	if g.Out("a") != nil {
		t.Errorf("Out(a) = %v, want nil", g.Out("a"))
	}
}

func TestEdgeMetaNeverNil(t *testing.T) {
	g := build(t, "a", [2]string{"a", "b"})
	for _, e := range g.Edges() {
		if e.Meta == nil {
			t.Errorf("edge %s->%s has nil Meta", e.From, e.To)
		}
	}
}

func TestDegrees(t *testing.T) {
	g := build(t, "a", [2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"b", "c"})
	if g.OutDegree("a") != 2 {
		t.Errorf("OutDegree(a) = %d, want 2", g.OutDegree("a"))
	}
	if g.InDegree("c") != 2 {
		t.Errorf("InDegree(c) = %d, want 2", g.InDegree("c"))
	}
	if !slices.Equal(g.Parents("c"), []string{"a", "b"}) {
		t.Errorf("Parents(c) = %v", g.Parents("c"))
	}
	if g.VertexCount() != 3 {
		t.Errorf("VertexCount() = %d, want 3", g.VertexCount())
	}
}

func TestHasCycle(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]string
		want  bool
	}{
		{"single vertex", nil, false},
		{"chain", [][2]string{{"a", "b"}, {"b", "c"}}, false},
		{"diamond", [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}}, false},
		{"self loop", [][2]string{{"a", "a"}}, true},
		{"two cycle", [][2]string{{"a", "b"}, {"b", "a"}}, true},
		{"deep cycle", [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "b"}}, true},
		{"cycle off root", [][2]string{{"a", "b"}, {"c", "d"}, {"d", "c"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, "a", tt.edges...)
			if got := g.HasCycle(); got != tt.want {
				t.Errorf("HasCycle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCyclePath(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]string
		want  []string
	}{
		{"acyclic", [][2]string{{"a", "b"}}, nil},
		{"self loop", [][2]string{{"a", "a"}}, []string{"a", "a"}},
		{"back edge", [][2]string{{"a", "b"}, {"b", "c"}, {"c", "b"}}, []string{"b", "c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, "a", tt.edges...)
			if got := g.Cycle(); !slices.Equal(got, tt.want) {
				t.Errorf("Cycle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasCycleDeepChain(t *testing.T) {
	g := New(nil)
	_ = g.AddVertex(Vertex{ID: "v0", Kind: KindRoot})
	prev := "v0"
	for i := 1; i < 100000; i++ {
		id := "v" + strconv.Itoa(i)
		_ = g.AddVertex(Vertex{ID: id, Kind: KindTransitive})
		_, _ = g.AddEdge(Edge{From: prev, To: id})
		prev = id
	}
	if g.HasCycle() {
		t.Fatal("HasCycle() = true on a chain")
	}
	_, _ = g.AddEdge(Edge{From: prev, To: "v0"})
	if !g.HasCycle() {
		t.Fatal("HasCycle() = false after closing the chain")
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindRoot:       "root",
		KindDirect:     "direct",
		KindTransitive: "transitive",
		Kind(42):       "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}

func TestDepths(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]string
		want  map[string]int
	}{
		{"single vertex", nil, map[string]int{"a": 0}},
		{"chain", [][2]string{{"a", "b"}, {"b", "c"}}, map[string]int{"a": 0, "b": 1, "c": 2}},
		{"longest path wins", [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}}, map[string]int{"a": 0, "b": 1, "c": 2}},
		{"disconnected", [][2]string{{"a", "b"}, {"c", "d"}}, map[string]int{"a": 0, "b": 1, "c": 0, "d": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := build(t, "a", tt.edges...).Depths()
			if err != nil {
				t.Fatalf("Depths: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Depths() = %v, want %v", got, tt.want)
			}
			for id, d := range tt.want {
				if got[id] != d {
					t.Errorf("depth(%s) = %d, want %d", id, got[id], d)
				}
			}
		})
	}
}

func TestDepthsCyclic(t *testing.T) {
	for _, edges := range [][][2]string{
		{{"a", "a"}},
		{{"a", "b"}, {"b", "c"}, {"c", "b"}},
	} {
		g := build(t, "a", edges...)
		if _, err := g.Depths(); !errors.Is(err, ErrCyclic) {
			t.Errorf("Depths(%v) error = %v, want %v", edges, err, ErrCyclic)
		}
		if _, err := g.Layers(); !errors.Is(err, ErrCyclic) {
			t.Errorf("Layers(%v) error = %v, want %v", edges, err, ErrCyclic)
		}
	}
}

func TestLayers(t *testing.T) {
	g := build(t, "a", [2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"b", "d"}, [2]string{"c", "d"})
	layers, err := g.Layers()
	if err != nil {
		t.Fatalf("Layers: %v", err)
	}
	want := [][]string{{"a"}, {"b", "c"}, {"d"}}
	if len(layers) != len(want) {
		t.Fatalf("Layers() = %v, want %v", layers, want)
	}
	for i := range want {
		if !slices.Equal(layers[i], want[i]) {
			t.Errorf("layer %d = %v, want %v", i, layers[i], want[i])
		}
	}
}
