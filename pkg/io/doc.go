// Package io reads and writes warehouse topologies.
//
// # Formats
//
// Three formats are supported:
//
//   - Topology JSON, the interchange format consumed by warehouse control
//     systems. It carries codes, types and flow attributes but no positions.
//   - Document JSON, the editor's own format. It round-trips every field of
//     the model, including positions, annotations and routing hints.
//   - DOT, read best-effort from line-oriented graph descriptions.
//
// # Topology JSON
//
//	{
//	  "whId": 1718000000000,
//	  "nodes": [
//	    {"code": "61-001", "type": "FEED", "cmd": 1, "attrs": {"ptlFeed": "true"}},
//	    {"code": "SC-01", "type": "SCANNER", "cmd": 2, "attrs": {}}
//	  ],
//	  "edges": [
//	    {"from": "61-001", "to": "SC-01", "distance": 0.5, "attrs": {}, "default": true, "capacity": 1}
//	  ],
//	  "loops": []
//	}
//
// Edges refer to nodes by code. On import, codes are resolved to freshly
// generated node IDs; edges naming an unknown code are dropped silently,
// as are self-loops and repeated (from, to) pairs. Imported nodes are placed
// on a five-column grid. On export, only topology nodes are written
// (annotations are skipped) and types are upper-cased.
//
// # Import
//
//	nodes, edges, err := io.ImportTopology("warehouse.json", io.Options{})
//
// Malformed input is reported as an *errors.Error with code INVALID_FORMAT.
//
// # Export
//
//	err := io.ExportTopology("warehouse.json", nodes, edges, io.Options{WarehouseID: 7})
package io
