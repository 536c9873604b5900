package deps

import (
	"slices"
	"time"

	"github.com/matzehuels/modstack/pkg/dag"
	"github.com/matzehuels/modstack/pkg/observability"
)

// Traverse flattens the resolved dependency chain of m into load order.
//
// m must be StatusResolved; Traverse never resolves anything itself and
// returns an [*InvalidOperationError] otherwise. The chain is read purely from
// cached Dependencies: dependencies that are not resolved contribute no
// children of their own.
//
// The result starts with m and lists mods breadth-first. A mod reached more
// than once keeps only its last position, so every mod appears after each of
// the mods that reach it later in the walk. A [*CycleError] is returned if the
// cached dependencies form a cycle.
func Traverse(m *Mod) ([]*Mod, error) {
	if m.Status() != StatusResolved {
		return nil, &InvalidOperationError{
			Op:     "traverse",
			Mod:    m,
			Reason: "mod is " + m.Status().String() + ", not resolved",
		}
	}

	start := time.Now()
	order, err := traverse(m)
	if err != nil {
		observability.Resolve().OnTraverse(m.Key(), 0, time.Since(start), err)
		return nil, err
	}
	observability.Resolve().OnTraverse(m.Key(), len(order), time.Since(start), nil)
	return order, nil
}

func traverse(m *Mod) ([]*Mod, error) {
	g, err := cachedGraph(m)
	if err != nil {
		return nil, err
	}
	if path := g.Cycle(); path != nil {
		return nil, &CycleError{Mod: m, Path: path}
	}
	return dedupKeepLast(flatten(m)), nil
}

// cachedGraph builds a graph from the cached dependencies reachable from m.
// No lookup or version validation happens here.
func cachedGraph(m *Mod) (*Graph, error) {
	g := newGraph()
	if _, err := g.addMod(m, dag.KindRoot); err != nil {
		return nil, err
	}

	visited := map[string]bool{m.Key(): true}
	queue := []*Mod{m}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		src, _ := g.Vertex(cur.Key())
		kind := dag.KindTransitive
		if src.Kind == dag.KindRoot {
			kind = dag.KindDirect
		}
		for _, e := range cur.deps {
			if _, err := g.addMod(e.Mod, kind); err != nil {
				return nil, err
			}
			if err := g.addDependency(cur, e.Mod, e.Range); err != nil {
				return nil, err
			}
			if !visited[e.Mod.Key()] {
				visited[e.Mod.Key()] = true
				queue = append(queue, e.Mod)
			}
		}
	}
	return g, nil
}

// flatten walks the cached dependencies breadth-first, one level at a time.
// Each level keeps only the last occurrence of a mod before its children are
// expanded, so the walk is bounded by depth*(V+E) even on diamond-shaped
// graphs. Mods reached on several levels still appear once per level.
// The cached graph must be acyclic.
func flatten(m *Mod) []*Mod {
	var out []*Mod
	level := []*Mod{m}
	for len(level) > 0 {
		level = dedupKeepLast(level)
		out = append(out, level...)

		var next []*Mod
		for _, cur := range level {
			for _, e := range cur.deps {
				next = append(next, e.Mod)
			}
		}
		level = next
	}
	return out
}

// dedupKeepLast drops every occurrence of a mod except the last one,
// preserving the relative order of the survivors.
func dedupKeepLast(mods []*Mod) []*Mod {
	seen := make(map[string]bool, len(mods))
	out := make([]*Mod, 0, len(mods))
	for i := len(mods) - 1; i >= 0; i-- {
		key := mods[i].Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, mods[i])
	}
	slices.Reverse(out)
	return out
}
