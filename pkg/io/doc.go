// Package io provides JSON export for dependency graphs and load orders.
//
// # Overview
//
// Both formats are meant for downstream tools (launchers, load-order
// managers, CI checks) that consume resolution results without linking
// against this module.
//
// # Graph Format
//
// [WriteJSON] encodes a [deps.Graph] as two arrays:
//
//	{
//	  "root": "default:patch",
//	  "nodes": [
//	    {"id": "default:patch", "mod": "patch", "kind": "default", "role": "root",
//	     "depth": 0, "expanded": true},
//	    {"id": "default:framework", "mod": "framework", "kind": "default", "role": "direct",
//	     "name": "Framework", "version": "1.2.0", "depth": 1}
//	  ],
//	  "edges": [
//	    {"from": "default:patch", "to": "default:framework", "range": "^1.0"}
//	  ],
//	  "layers": [["default:patch"], ["default:framework"]]
//	}
//
// Nodes and edges appear in discovery order. Empty optional fields are
// omitted. "depth" is the longest path from the root and "layers" groups node
// ids by depth; both are left out when the graph has a dependency cycle.
//
// # Load Order Format
//
// [WriteOrder] encodes the result of [deps.Traverse]:
//
//	{
//	  "mod": "default:patch",
//	  "order": [
//	    {"id": "default:patch", "mod": "patch", "kind": "default"},
//	    {"id": "default:framework", "mod": "framework", "kind": "default", "version": "1.2.0"}
//	  ]
//	}
//
// The first element is always the traversed mod.
//
// [deps.Graph]: github.com/matzehuels/modstack/pkg/deps.Graph
// [deps.Traverse]: github.com/matzehuels/modstack/pkg/deps.Traverse
package io
