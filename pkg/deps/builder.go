package deps

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modstack/pkg/dag"
	"github.com/matzehuels/modstack/pkg/semver"
)

// Edge metadata keys set by the builder.
const (
	metaRange      = "range"      // string form, used by DOT export
	metaConstraint = "constraint" // semver.Constraint
)

// Finder looks up installed mods of one game.
//
// Implementations are scoped to a single game/mod set and must be
// synchronous. Package modset provides the standard implementation.
type Finder interface {
	// Find returns the installed mod matching a normalized reference.
	Find(ref Reference) (*Mod, bool)

	// Game returns the name of the game, used in Not-Found errors.
	Game() string
}

// Normalizer canonicalizes references before lookup (identifier casing,
// path separators, workshop id formatting).
type Normalizer interface {
	Normalize(ref Reference) Reference
}

// Graph is the dependency graph built for one mod. It wraps a [dag.Graph]
// whose vertex IDs are mod keys and remembers the concrete mods.
//
// A Graph is scoped to a single Build call and is never cached.
type Graph struct {
	*dag.Graph
	mods     map[string]*Mod
	expanded map[string]bool
}

func newGraph() *Graph {
	return &Graph{
		Graph:    dag.New(nil),
		mods:     make(map[string]*Mod),
		expanded: make(map[string]bool),
	}
}

// addMod inserts m with kind unless a vertex for it exists already, in which
// case the existing vertex (and its kind) is kept.
func (g *Graph) addMod(m *Mod, kind dag.Kind) (*dag.Vertex, error) {
	id := m.Key()
	if v, ok := g.Vertex(id); ok {
		return v, nil
	}
	if err := g.AddVertex(dag.Vertex{ID: id, Kind: kind}); err != nil {
		return nil, fmt.Errorf("add vertex %s: %w", id, err)
	}
	g.mods[id] = m
	v, _ := g.Vertex(id)
	return v, nil
}

// addDependency adds the edge from -> to carrying the required range.
func (g *Graph) addDependency(from, to *Mod, rng semver.Constraint) error {
	_, err := g.AddEdge(dag.Edge{
		From: from.Key(),
		To:   to.Key(),
		Meta: dag.Metadata{metaRange: rng.String(), metaConstraint: rng},
	})
	if err != nil {
		return fmt.Errorf("add edge %s -> %s: %w", from, to, err)
	}
	return nil
}

// Mod returns the mod behind a vertex ID.
func (g *Graph) Mod(id string) (*Mod, bool) {
	m, ok := g.mods[id]
	return m, ok
}

// RootMod returns the mod the graph was built for.
func (g *Graph) RootMod() *Mod { return g.mods[g.Root()] }

// Expanded reports whether the builder expanded the vertex, i.e. processed
// (or would have processed) its declared dependency list. The root is always
// expanded.
func (g *Graph) Expanded(id string) bool { return g.expanded[id] }

// Dependencies returns the first-level dependencies of the vertex id in
// declaration order, each with the range it was required under.
func (g *Graph) Dependencies(id string) []Entry {
	out := g.Out(id)
	if len(out) == 0 {
		return []Entry{}
	}
	entries := make([]Entry, 0, len(out))
	for _, e := range out {
		rng, _ := e.Meta[metaConstraint].(semver.Constraint)
		entries = append(entries, Entry{Mod: g.mods[e.To], Range: rng})
	}
	return entries
}

// Labels maps vertex IDs to display names, for [dag.Graph.ToDOT].
func (g *Graph) Labels() map[string]string {
	labels := make(map[string]string, len(g.mods))
	for id, m := range g.mods {
		labels[id] = m.Name()
	}
	return labels
}

// Builder constructs the dependency graph of a single mod.
//
// Use [NewBuilder] to construct instances.
type Builder struct {
	finder     Finder
	normalizer Normalizer
	logger     *log.Logger
}

// NewBuilder creates a Builder that resolves references with finder after
// canonicalizing them with normalizer. A nil normalizer leaves references
// unchanged.
func NewBuilder(finder Finder, normalizer Normalizer, opts Options) *Builder {
	opts = opts.WithDefaults()
	return &Builder{finder: finder, normalizer: normalizer, logger: opts.Logger}
}

// Build constructs the dependency graph rooted at root.
//
// The graph is built breadth-first from a work queue. Each mod's declared
// list is processed at most once. For every reference, in declaration order,
// the concrete mod is looked up, its version is checked against the
// reference's range, and an edge from the current mod is added. Whether the
// target is queued for expansion depends on the current mod's layout:
// FullResolved never, ResolveRecursive always, ResolveLastItem only for the
// last reference.
//
// Returns a [*NotFoundError] when a reference has no installed mod, or a
// [*VersionMismatchError] when a dependency's version is outside the required
// range. No partial graph is returned on error.
func (b *Builder) Build(root *Mod) (*Graph, error) {
	g := newGraph()
	if _, err := g.addMod(root, dag.KindRoot); err != nil {
		return nil, err
	}
	g.expanded[root.Key()] = true

	queue := []*Mod{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		decl := cur.Declared()
		if decl == nil {
			continue
		}
		src, _ := g.Vertex(cur.Key())

		n := len(decl.refs)
		for i, ref := range decl.refs {
			dep, err := b.lookup(ref)
			if err != nil {
				return nil, err
			}
			if !semver.Satisfies(dep.Version(), ref.Range) {
				return nil, &VersionMismatchError{
					Dependent:  cur,
					Dependency: dep,
					Range:      ref.Range,
					Version:    dep.Version(),
				}
			}

			kind := dag.KindTransitive
			if src.Kind == dag.KindRoot {
				kind = dag.KindDirect
			}
			if _, err := g.addMod(dep, kind); err != nil {
				return nil, err
			}
			if err := g.addDependency(cur, dep, ref.Range); err != nil {
				return nil, err
			}

			if decl.layout.expands(i, n) && !g.expanded[dep.Key()] {
				g.expanded[dep.Key()] = true
				queue = append(queue, dep)
			}
		}
	}

	b.logger.Debug("built dependency graph", "mod", root, "vertices", g.VertexCount(), "edges", g.EdgeCount())
	return g, nil
}

func (b *Builder) lookup(ref Reference) (*Mod, error) {
	norm := ref
	if b.normalizer != nil {
		norm = b.normalizer.Normalize(ref)
	}
	m, ok := b.finder.Find(norm)
	if !ok || m == nil {
		return nil, &NotFoundError{Ref: ref, Game: b.finder.Game()}
	}
	return m, nil
}
