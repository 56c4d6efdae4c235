// Package topo defines the warehouse topology data model shared by every
// other package: nodes (conveyor junctions, scanners, ejects, feed and zone
// nodes, free-text annotations), directed edges with flow attributes, typed
// partial patches, and the validation predicates used at connection time.
//
// # Values, not pointers
//
// Nodes and edges are plain values. Every mutation helper ([Node.Apply],
// [Edge.Apply]) returns a fresh copy with its own attribute maps, so a
// slice of nodes captured in a history snapshot is never changed behind the
// caller's back. Use [CloneNodes] and [CloneEdges] when a deep copy of a
// whole collection is needed.
//
// # Referential integrity
//
// The model itself does not forbid an edge whose endpoint is missing; the
// store enforces that by cascade deletion. Read-only consumers such as the
// layout engine build an [Index], which silently ignores dangling edges and
// self-loops.
package topo
