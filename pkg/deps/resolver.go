package deps

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modstack/pkg/dag"
	"github.com/matzehuels/modstack/pkg/observability"
)

// Resolver materializes the resolve state of mods.
//
// Resolve is the single entry point that writes a mod's Dependencies and
// Status. A single call may write the state of every mod reachable through
// expanded edges, not only the root, so Resolver is not safe for concurrent
// use against mods that share dependencies. Callers serialize all Resolve
// calls for one mod set; no locking is done here.
//
// Use [NewResolver] to construct instances.
type Resolver struct {
	builder *Builder
	logger  *log.Logger
}

// NewResolver creates a Resolver over the mod set behind finder.
// A nil normalizer leaves references unchanged.
func NewResolver(finder Finder, normalizer Normalizer, opts Options) *Resolver {
	opts = opts.WithDefaults()
	return &Resolver{
		builder: NewBuilder(finder, normalizer, opts),
		logger:  opts.Logger,
	}
}

// Builder returns the graph builder the resolver uses.
func (r *Resolver) Builder() *Builder { return r.builder }

// Resolve computes and caches the first-level resolved dependencies of m.
//
// If m is already resolved this is a no-op. Otherwise the dependency graph
// rooted at m is built. When the graph contains a cycle, m becomes
// StatusFaulted and a [*CycleError] is returned. Otherwise every non-root mod
// that the builder expanded is resolved too, and finally m's dependencies are
// set to its direct edges in declaration order with StatusResolved.
//
// Expanded mods are materialized straight from m's graph: a mod expanded
// while building m's graph has its whole expansion inside that graph, so its
// out-edges there are exactly what resolving it on its own would produce.
// Mods already resolved or faulted are left untouched.
//
// Not-Found and Version-Mismatch errors from the builder are returned as-is
// and leave m at StatusNone, so the call can be retried once the mod set is
// fixed.
func (r *Resolver) Resolve(m *Mod) error {
	if m.Status() == StatusResolved {
		r.logger.Debug("resolve cache hit", "mod", m)
		observability.Cache().OnCacheHit(m.Key())
		return nil
	}

	hooks := observability.Resolve()
	hooks.OnResolveStart(m.Key())
	start := time.Now()

	g, err := r.builder.Build(m)
	if err != nil {
		hooks.OnResolveComplete(m.Key(), 0, 0, time.Since(start), err)
		return err
	}

	if path := g.Cycle(); path != nil {
		m.markFaulted()
		err := &CycleError{Mod: m, Path: path}
		hooks.OnResolveComplete(m.Key(), g.VertexCount(), g.EdgeCount(), time.Since(start), err)
		return err
	}

	for _, v := range g.Vertices() {
		if v.Kind == dag.KindRoot || !g.Expanded(v.ID) {
			continue
		}
		dep, _ := g.Mod(v.ID)
		if dep.Status() != StatusNone {
			continue
		}
		entries := g.Dependencies(v.ID)
		dep.markResolved(entries)
		observability.Cache().OnCacheFill(dep.Key(), len(entries))
	}

	m.markResolved(g.Dependencies(g.Root()))
	r.logger.Debug("resolved mod", "mod", m, "dependencies", len(m.deps))
	hooks.OnResolveComplete(m.Key(), g.VertexCount(), g.EdgeCount(), time.Since(start), nil)
	return nil
}
