// Package dag provides the directed graph that one mod resolve call builds.
//
// # Overview
//
// A [Graph] holds one vertex per mod identity and one edge per declared
// dependency ("source declares a dependency on target"). Every graph has a
// single [KindRoot] vertex, the mod the graph was built for. Mods declared by
// the root are [KindDirect] and everything further away is [KindTransitive].
// A vertex keeps the kind it was first added with.
//
// # Ordering
//
// Vertices, edges and the out-edges of each vertex keep insertion order.
// Consumers that turn a graph into a load order rely on this: the order in
// which a mod declared its dependencies is the order [Graph.Out] and
// [Graph.Children] return them.
//
// Edges have set semantics. Adding the same (From, To) pair twice keeps the
// first edge and reports false from [Graph.AddEdge].
//
// # Cycles
//
// [Graph.HasCycle] reports whether the graph is not a DAG, and [Graph.Cycle]
// returns the offending path for diagnostics. Both use an iterative
// depth-first search with white/gray/black coloring in O(V+E).
//
// # Export
//
// [Graph.ToDOT] writes Graphviz DOT and [Graph.RenderSVG] renders it through
// github.com/goccy/go-graphviz.
package dag
