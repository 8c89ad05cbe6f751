// Package nodelink renders the AS spanning tree as a node-link diagram.
//
// # Overview
//
// The LibSea document is meant for Walrus, which needs a Java runtime and
// a 3D display. This package offers a quick look at the same tree through
// Graphviz: [ToDOT] turns a [libsea.Document] into DOT source and
// [RenderSVG] lays it out in-process.
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{Limit: 200})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
//   - Detailed: node labels include the node number and label text
//   - Limit: keep only the first Limit nodes of the topological order
//
// Parents always precede their children in the topological order, so a
// limited diagram is still a connected tree hanging from the root.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for SVG rendering.
package nodelink
