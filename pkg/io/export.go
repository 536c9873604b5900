package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/modstack/pkg/deps"
)

type graph struct {
	Root   string     `json:"root"`
	Nodes  []node     `json:"nodes"`
	Edges  []edge     `json:"edges"`
	Layers [][]string `json:"layers,omitempty"`
}

type node struct {
	ID       string `json:"id"`
	Mod      string `json:"mod"`
	Kind     string `json:"kind"`
	Role     string `json:"role"`
	Name     string `json:"name,omitempty"`
	Version  string `json:"version,omitempty"`
	Depth    *int   `json:"depth,omitempty"`
	Expanded bool   `json:"expanded,omitempty"`
}

type edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Range string `json:"range,omitempty"`
}

type order struct {
	Mod   string     `json:"mod"`
	Order []orderMod `json:"order"`
}

type orderMod struct {
	ID      string `json:"id"`
	Mod     string `json:"mod"`
	Kind    string `json:"kind"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// WriteJSON encodes a dependency graph as JSON and writes it to w.
// Node depths and layers are included only when the graph is acyclic.
func WriteJSON(g *deps.Graph, w io.Writer) error {
	layers, _ := g.Layers()
	depths := make(map[string]int)
	for d, layer := range layers {
		for _, id := range layer {
			depths[id] = d
		}
	}

	vertices := g.Vertices()
	edges := g.Edges()
	out := graph{
		Root:   g.Root(),
		Nodes:  make([]node, len(vertices)),
		Edges:  make([]edge, len(edges)),
		Layers: layers,
	}

	for i, v := range vertices {
		m, _ := g.Mod(v.ID)
		out.Nodes[i] = node{
			ID:       v.ID,
			Mod:      m.ID(),
			Kind:     m.Kind().String(),
			Role:     v.Kind.String(),
			Name:     displayName(m),
			Version:  m.Version().String(),
			Expanded: g.Expanded(v.ID),
		}
		if d, ok := depths[v.ID]; ok {
			out.Nodes[i].Depth = &d
		}
	}
	for i, e := range edges {
		rng, _ := e.Meta["range"].(string)
		out.Edges[i] = edge{From: e.From, To: e.To, Range: rng}
	}

	return encode(w, out)
}

// ExportJSON writes a dependency graph to a JSON file at path.
func ExportJSON(g *deps.Graph, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(g, w) })
}

// WriteOrder encodes the load order of mod as JSON and writes it to w.
// mods is expected to start with mod, as returned by [deps.Traverse].
func WriteOrder(mod *deps.Mod, mods []*deps.Mod, w io.Writer) error {
	out := order{Mod: mod.Key(), Order: make([]orderMod, len(mods))}
	for i, m := range mods {
		out.Order[i] = orderMod{
			ID:      m.Key(),
			Mod:     m.ID(),
			Kind:    m.Kind().String(),
			Name:    displayName(m),
			Version: m.Version().String(),
		}
	}
	return encode(w, out)
}

// ExportOrder writes a load order to a JSON file at path.
func ExportOrder(mod *deps.Mod, mods []*deps.Mod, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteOrder(mod, mods, w) })
}

// displayName returns the declared name only, so identifiers are not
// repeated as names.
func displayName(m *deps.Mod) string {
	if name := m.Name(); name != m.ID() {
		return name
	}
	return ""
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
