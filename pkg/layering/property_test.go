package layering

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/asgraph/pkg/asrel"
)

// randomHierarchy builds an acyclic provider hierarchy of n ASes where the
// first k form the clique and every other AS buys transit from at least one
// lower-numbered AS. Cones are the exact downstream closures.
func randomHierarchy(seed int64, n, k int) (*asrel.Graph, asrel.Cones) {
	rng := rand.New(rand.NewSource(seed))
	b := asrel.NewBuilder()
	customers := make(map[asrel.ASN][]asrel.ASN)

	clique := make([]asrel.ASN, 0, k)
	for i := 0; i < k; i++ {
		clique = append(clique, asrel.ASN(i+1))
	}
	// shuffle so clique order differs from ASN order
	rng.Shuffle(len(clique), func(i, j int) { clique[i], clique[j] = clique[j], clique[i] })

	for i := k; i < n; i++ {
		child := asrel.ASN(i + 1)
		links := 1 + rng.Intn(3)
		for l := 0; l < links; l++ {
			parent := asrel.ASN(rng.Intn(i) + 1)
			b.Add(parent, child, asrel.ProviderToCustomer)
			customers[parent] = append(customers[parent], child)
		}
	}
	b.SetClique(clique)
	g := b.Graph()

	cones := make(map[asrel.ASN][]asrel.ASN)
	for i := 0; i < n; i++ {
		owner := asrel.ASN(i + 1)
		seen := map[asrel.ASN]bool{owner: true}
		stack := []asrel.ASN{owner}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, c := range customers[top] {
				if !seen[c] {
					seen[c] = true
					stack = append(stack, c)
				}
			}
		}
		for asn := range seen {
			cones[owner] = append(cones[owner], asn)
		}
	}
	c, err := asrel.NewCones(g, cones)
	if err != nil {
		panic(err)
	}
	return g, c
}

func TestLayerInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("every AS placed once, providers first", prop.ForAll(
		func(seed int64, n int) bool {
			g, c := randomHierarchy(seed, n, 1+int(seed%3))
			res := Layer(g, c)

			if len(res.Order) != g.Len() || len(res.Dropped) != 0 {
				return false
			}
			pos := make(map[asrel.ASN]int, len(res.Order))
			for i, asn := range res.Order {
				if _, dup := pos[asn]; dup {
					return false
				}
				pos[asn] = i
			}
			for _, r := range g.Records {
				for _, p := range r.Providers {
					if pos[p] >= pos[r.ASN] {
						return false
					}
				}
			}
			return true
		},
		gen.Int64Range(0, 1<<40),
		gen.IntRange(4, 60),
	))

	properties.Property("clique occupies layer 0 in input order", prop.ForAll(
		func(seed int64) bool {
			g, c := randomHierarchy(seed, 30, 3)
			res := Layer(g, c)
			layer0 := res.Layer(0)
			if len(layer0) != len(g.Clique) {
				return false
			}
			for i := range layer0 {
				if layer0[i] != g.Clique[i] {
					return false
				}
			}
			return true
		},
		gen.Int64Range(0, 1<<40),
	))

	properties.TestingRun(t)
}
