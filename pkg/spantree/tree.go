// Package spantree picks a single parent for every placed AS, producing the
// spanning tree that the graph document exposes to the viewer.
//
// Node numbering follows the topological order: the AS at position i of
// [layering.Result.Order] is node i+1 and node 0 is a synthetic root that
// every clique member hangs from.
//
// # Parent selection
//
// A non-clique AS may have several providers. The parent is chosen among
// the registered providers that sit in the layer immediately above the AS:
// the provider with the largest customer cone (by cardinality) wins, and
// ties go to the provider placed first in that layer. The choice is a pure
// function of the input, so repeated runs yield identical trees.
package spantree

import (
	"github.com/matzehuels/asgraph/pkg/asrel"
	"github.com/matzehuels/asgraph/pkg/errors"
	"github.com/matzehuels/asgraph/pkg/layering"
)

// RootNode is the node number of the synthetic root.
const RootNode = 0

// Edge is a parent/child link between node numbers.
type Edge struct {
	Parent int
	Child  int
}

// NodeNumber returns the node number of the AS at position pos of the
// topological order.
func NodeNumber(pos int) int { return pos + 1 }

// Build returns one Edge per AS of lay.Order, produced in reverse
// topological order (the last placed AS first).
//
// cones must be aligned with g.Records. If an AS outside layer 0 has no
// registered provider in the preceding layer, Build fails with an
// [errors.MissingProviderError].
//
// [errors.MissingProviderError]: github.com/matzehuels/asgraph/pkg/errors.MissingProviderError
func Build(g *asrel.Graph, cones asrel.Cones, lay *layering.Result) ([]Edge, error) {
	edges := make([]Edge, 0, len(lay.Order))

	for pos := len(lay.Order) - 1; pos >= 0; pos-- {
		layer := lay.LayerOf(pos)
		child := NodeNumber(pos)
		if layer == 0 {
			edges = append(edges, Edge{Parent: RootNode, Child: child})
			continue
		}

		asn := lay.Order[pos]
		rec, ok := g.Record(asn)
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal, "AS%d placed but has no record", asn)
		}

		parent := selectParent(g, cones, lay, layer-1, rec)
		if parent < 0 {
			return nil, &errors.MissingProviderError{ASN: uint32(asn), Layer: layer}
		}
		edges = append(edges, Edge{Parent: NodeNumber(parent), Child: child})
	}
	return edges, nil
}

// selectParent scans layer and returns the order position of the provider
// of rec with the largest cone, or -1 if none of rec's providers is there.
func selectParent(g *asrel.Graph, cones asrel.Cones, lay *layering.Result, layer int, rec *asrel.Record) int {
	best, bestKey := -1, -1
	for pos := lay.Bounds[layer]; pos < lay.End(layer); pos++ {
		candidate := lay.Order[pos]
		if !rec.HasProvider(candidate) {
			continue
		}
		if key := coneSize(g, cones, candidate); key > bestKey {
			best, bestKey = pos, key
		}
	}
	return best
}

func coneSize(g *asrel.Graph, cones asrel.Cones, asn asrel.ASN) int {
	i := g.Index(asn)
	if i < 0 {
		return 0
	}
	return cones[i].Size()
}
