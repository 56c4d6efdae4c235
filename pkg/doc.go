// Package pkg holds the libraries behind whtopo, a warehouse topology
// editor engine.
//
// A topology is a directed graph of stations (feeds, scanners, ejects, pick
// and sort zones) joined by conveyor segments. The packages build on each
// other bottom-up:
//
//   - [topo]: nodes, edges, patches, validation and the adjacency index
//   - [layout]: hierarchical, horizontal, smart, grid, radial and flow layouts
//   - [align]: alignment guides and snapping while dragging
//   - [store]: the editing session with undo/redo, selection and clipboard
//   - [io]: topology JSON, editor documents and DOT import
//   - [render/nodelink]: Graphviz node-link diagrams at stored positions
//   - [cache]: memoized layout results
//   - [config]: TOML settings
//   - [server]: the HTTP layout service
//   - [errors], [observability], [buildinfo]: ambient support
//
// # Data flow
//
//	topology JSON / DOT / document
//	         ↓
//	     [io] package (decode, normalize, validate)
//	         ↓
//	     [store] package (edit with history)  ←  [align] snapping
//	         ↓
//	     [layout] package (arrange)  ←  [cache]
//	         ↓
//	     [io] / [render/nodelink] (export, draw)
//
// # Quick Start
//
//	nodes, edges, err := io.ImportTopology("plant.json", io.Options{})
//	s := store.New()
//	s.Load(nodes, edges)
//	s.ApplyLayout(ctx, layout.Flow)
//	err = io.ExportTopology("plant.out.json", s.Nodes(), s.Edges(), io.Options{})
//
// [topo]: github.com/matzehuels/whtopo/pkg/topo
// [layout]: github.com/matzehuels/whtopo/pkg/layout
// [align]: github.com/matzehuels/whtopo/pkg/align
// [store]: github.com/matzehuels/whtopo/pkg/store
// [io]: github.com/matzehuels/whtopo/pkg/io
// [render/nodelink]: github.com/matzehuels/whtopo/pkg/render/nodelink
// [cache]: github.com/matzehuels/whtopo/pkg/cache
// [config]: github.com/matzehuels/whtopo/pkg/config
// [server]: github.com/matzehuels/whtopo/pkg/server
// [errors]: github.com/matzehuels/whtopo/pkg/errors
// [observability]: github.com/matzehuels/whtopo/pkg/observability
// [buildinfo]: github.com/matzehuels/whtopo/pkg/buildinfo
package pkg
