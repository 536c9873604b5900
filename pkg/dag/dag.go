package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidVertexID is returned by [Graph.AddVertex] when the vertex ID
	// is empty. All vertices must have non-empty identifiers.
	ErrInvalidVertexID = errors.New("vertex ID must not be empty")

	// ErrDuplicateVertexID is returned by [Graph.AddVertex] when a vertex with
	// the same ID already exists. A graph holds at most one vertex per identity.
	ErrDuplicateVertexID = errors.New("duplicate vertex ID")

	// ErrMultipleRoots is returned by [Graph.AddVertex] when a second
	// [KindRoot] vertex is added. Every graph has exactly one root.
	ErrMultipleRoots = errors.New("graph already has a root vertex")

	// ErrUnknownSourceVertex is returned by [Graph.AddEdge] when the From
	// vertex does not exist.
	ErrUnknownSourceVertex = errors.New("unknown source vertex")

	// ErrUnknownTargetVertex is returned by [Graph.AddEdge] when the To vertex
	// does not exist.
	ErrUnknownTargetVertex = errors.New("unknown target vertex")
)

// Metadata stores arbitrary key-value pairs attached to edges or the graph.
// Metadata maps are never nil after insertion.
type Metadata map[string]any

// Kind is the role of a vertex within the graph of one resolve call.
type Kind int

const (
	// KindRoot is the mod the graph was built for. Exactly one per graph.
	KindRoot Kind = iota
	// KindDirect is a mod declared directly by the root.
	KindDirect
	// KindTransitive is a mod reached through some other dependency.
	KindTransitive
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindDirect:
		return "direct"
	case KindTransitive:
		return "transitive"
	default:
		return "unknown"
	}
}

// Vertex is a mod within a dependency graph. Its Kind is fixed when the
// vertex is first added and never changes afterwards.
type Vertex struct {
	ID   string // Identity of the underlying mod
	Kind Kind
}

// Edge is a directed edge meaning "From declares a dependency on To".
// Edges are identified by the (From, To) pair.
type Edge struct {
	From string   // Source vertex ID
	To   string   // Target vertex ID
	Meta Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

type edgeKey struct{ from, to string }

// Graph is a directed graph of mods built for a single resolve call.
//
// Vertices and edges keep insertion order, and out-edges of a vertex are
// returned in the order they were added. Parallel edges are not stored.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	vertices map[string]*Vertex
	order    []string
	edges    []Edge
	edgeSet  map[edgeKey]int // (from, to) -> index into edges
	outgoing map[string][]string
	incoming map[string][]string
	root     string
	meta     Metadata
}

// New creates an empty Graph with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		vertices: make(map[string]*Vertex),
		edgeSet:  make(map[edgeKey]int),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (g *Graph) Meta() Metadata { return g.meta }

// AddVertex adds a vertex to the graph.
// Returns ErrInvalidVertexID if the ID is empty, ErrDuplicateVertexID if a
// vertex with the same ID exists, or ErrMultipleRoots if v is a second root.
func (g *Graph) AddVertex(v Vertex) error {
	if v.ID == "" {
		return ErrInvalidVertexID
	}
	if _, exists := g.vertices[v.ID]; exists {
		return ErrDuplicateVertexID
	}
	if v.Kind == KindRoot {
		if g.root != "" {
			return ErrMultipleRoots
		}
		g.root = v.ID
	}
	vertex := v
	g.vertices[v.ID] = &vertex
	g.order = append(g.order, v.ID)
	return nil
}

// AddEdge adds a directed edge between two existing vertices.
// Returns ErrUnknownSourceVertex or ErrUnknownTargetVertex if an endpoint is
// missing. Adding an edge whose (From, To) pair already exists is a no-op and
// returns false; the first edge and its metadata are kept.
func (g *Graph) AddEdge(e Edge) (bool, error) {
	if _, ok := g.vertices[e.From]; !ok {
		return false, ErrUnknownSourceVertex
	}
	if _, ok := g.vertices[e.To]; !ok {
		return false, ErrUnknownTargetVertex
	}
	key := edgeKey{e.From, e.To}
	if _, dup := g.edgeSet[key]; dup {
		return false, nil
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	g.edgeSet[key] = len(g.edges)
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return true, nil
}

// HasEdge reports whether the edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edgeSet[edgeKey{from, to}]
	return ok
}

// Edge returns the edge from -> to and true, or a zero Edge and false.
func (g *Graph) Edge(from, to string) (Edge, bool) {
	i, ok := g.edgeSet[edgeKey{from, to}]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// Vertex returns the vertex with the given ID and true, or nil and false.
func (g *Graph) Vertex(id string) (*Vertex, bool) {
	v, ok := g.vertices[id]
	return v, ok
}

// Root returns the root vertex ID, or "" if no root was added.
func (g *Graph) Root() string { return g.root }

// Vertices returns all vertices in insertion order.
func (g *Graph) Vertices() []*Vertex {
	out := make([]*Vertex, len(g.order))
	for i, id := range g.order {
		out[i] = g.vertices[id]
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Out returns the edges leaving id in insertion order.
func (g *Graph) Out(id string) []Edge {
	children := g.outgoing[id]
	if len(children) == 0 {
		return nil
	}
	out := make([]Edge, len(children))
	for i, to := range children {
		out[i] = g.edges[g.edgeSet[edgeKey{id, to}]]
	}
	return out
}

// Children returns the IDs of vertices id has edges to, in insertion order.
// The returned slice should not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the IDs of vertices with edges to id, in insertion order.
// The returned slice should not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// OutDegree returns the number of edges leaving id.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of edges entering id.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasCycle reports whether some vertex can reach itself, i.e. whether the
// graph is not a DAG. Runs in O(V+E).
func (g *Graph) HasCycle() bool { return g.findCycle() != nil }

// Cycle returns the vertex IDs along the first cycle found, starting and
// ending with the same vertex, or nil if the graph is acyclic.
// A self-loop on A yields [A A].
func (g *Graph) Cycle() []string { return g.findCycle() }

// findCycle runs an iterative depth-first search with white/gray/black
// coloring over vertices in insertion order. The explicit stack keeps deep
// chains off the goroutine stack.
func (g *Graph) findCycle() []string {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		id   string
		next int // index of the next child to visit
	}

	color := make(map[string]int, len(g.order))
	for _, start := range g.order {
		if color[start] != white {
			continue
		}
		color[start] = gray
		stack := []frame{{id: start}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.outgoing[top.id]
			if top.next == len(children) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child})
			case gray:
				var path []string
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i].id == child {
						for _, f := range stack[i:] {
							path = append(path, f.id)
						}
						break
					}
				}
				return append(path, child)
			}
		}
	}
	return nil
}
