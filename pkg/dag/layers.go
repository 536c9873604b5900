package dag

import "errors"

// ErrCyclic is returned by operations that require an acyclic graph.
var ErrCyclic = errors.New("graph contains a cycle")

// Depths assigns every vertex its longest-path depth from the sources of the
// graph: vertices without parents are at depth 0 and every vertex sits one
// below its deepest parent.
//
// Depths uses Kahn's algorithm over insertion-ordered vertices, O(V + E).
// It returns [ErrCyclic] if the graph has a cycle.
func (g *Graph) Depths() (map[string]int, error) {
	inDegree := make(map[string]int, len(g.order))
	depths := make(map[string]int, len(g.order))
	queue := make([]string, 0, len(g.order))

	for _, id := range g.order {
		inDegree[id] = g.InDegree(id)
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		visited++

		for _, child := range g.Children(cur) {
			if d := depths[cur] + 1; d > depths[child] {
				depths[child] = d
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if visited != len(g.order) {
		return nil, ErrCyclic
	}
	return depths, nil
}

// Layers groups vertex IDs by [Graph.Depths]. Layer i holds the vertices at
// depth i in insertion order.
func (g *Graph) Layers() ([][]string, error) {
	depths, err := g.Depths()
	if err != nil {
		return nil, err
	}
	var layers [][]string
	for _, id := range g.order {
		d := depths[id]
		for len(layers) <= d {
			layers = append(layers, nil)
		}
		layers[d] = append(layers[d], id)
	}
	return layers, nil
}
