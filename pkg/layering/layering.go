// Package layering orders ASes so that every provider precedes its
// customers and groups the order into depth layers rooted at the clique.
//
// The algorithm is a breadth-first peeling (Kahn's algorithm) accelerated
// by customer cones. Layer 0 is the clique, in clique order. Placing an AS
// removes it from the pending provider set of every AS in its customer
// cone; an AS whose pending set becomes empty joins the next layer. Using
// the precomputed cone avoids walking the provider graph: the cone already
// contains every direct customer.
//
// ASes that never become free (a provider cycle, or providers that are not
// reachable from the clique) are not placed. They are returned in
// [Result.Dropped] so callers can report them.
package layering

import (
	"slices"

	"github.com/matzehuels/asgraph/pkg/asrel"
)

// Result is the outcome of [Layer].
type Result struct {
	// Order lists placed ASes, providers before customers.
	Order []asrel.ASN
	// Bounds holds the index in Order at which each layer starts,
	// ascending. Layer i spans Order[Bounds[i]:Bounds[i+1]] (the last
	// layer runs to the end of Order).
	Bounds []int
	// Dropped lists ASes that could not be placed, ascending.
	Dropped []asrel.ASN
}

// Layers returns the number of layers.
func (r *Result) Layers() int { return len(r.Bounds) }

// Layer returns the ASes of layer i.
func (r *Result) Layer(i int) []asrel.ASN {
	return r.Order[r.Bounds[i]:r.End(i)]
}

// End returns the index in Order one past the last AS of layer i.
func (r *Result) End(i int) int {
	if i+1 < len(r.Bounds) {
		return r.Bounds[i+1]
	}
	return len(r.Order)
}

// LayerOf returns the layer containing Order[pos].
func (r *Result) LayerOf(pos int) int {
	i, found := slices.BinarySearch(r.Bounds, pos)
	if found {
		return i
	}
	return i - 1
}

// Layer computes the topological order and layer bounds of g.
//
// cones must be aligned with g.Records (see [asrel.ParseCones]). The
// records of g are not modified: the pending provider sets are a private
// copy, so later stages still see every registered provider.
//
// An empty clique produces an empty order with zero layers; every AS is
// then reported as dropped.
func Layer(g *asrel.Graph, cones asrel.Cones) *Result {
	n := g.Len()
	pending := make([]int, n) // remaining unplaced providers per record
	for i := range g.Records {
		pending[i] = len(g.Records[i].Providers)
	}
	placed := make([]bool, n)

	res := &Result{Order: make([]asrel.ASN, 0, n)}

	var current []int
	for _, asn := range g.Clique {
		i := g.Index(asn)
		if i < 0 || placed[i] {
			continue
		}
		placed[i] = true
		current = append(current, i)
	}

	for len(current) > 0 {
		res.Bounds = append(res.Bounds, len(res.Order))
		var next []int
		for _, i := range current {
			asn := g.Records[i].ASN
			res.Order = append(res.Order, asn)

			for _, m := range cones[i].Members {
				j := g.Index(m)
				if j < 0 || placed[j] || !g.Records[j].HasProvider(asn) {
					continue
				}
				pending[j]--
				if pending[j] == 0 {
					placed[j] = true
					next = append(next, j)
				}
			}
		}
		current = next
	}

	for i := range g.Records {
		if !placed[i] {
			res.Dropped = append(res.Dropped, g.Records[i].ASN)
		}
	}
	return res
}
