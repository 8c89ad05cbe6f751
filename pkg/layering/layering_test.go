package layering

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/asgraph/pkg/asrel"
)

func build(t *testing.T, rels, cones string) (*asrel.Graph, asrel.Cones) {
	t.Helper()
	g, err := asrel.ParseRelationships(strings.NewReader(rels))
	if err != nil {
		t.Fatalf("ParseRelationships() error = %v", err)
	}
	c, err := asrel.ParseCones(strings.NewReader(cones), g)
	if err != nil {
		t.Fatalf("ParseCones() error = %v", err)
	}
	return g, c
}

func TestLayer_SingleLink(t *testing.T) {
	g, c := build(t, "# input clique: 100\n100|200|-1\n", "100 200\n")

	res := Layer(g, c)

	if want := []asrel.ASN{100, 200}; !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
	if want := []int{0, 1}; !slices.Equal(res.Bounds, want) {
		t.Errorf("Bounds = %v, want %v", res.Bounds, want)
	}
	if len(res.Dropped) != 0 {
		t.Errorf("Dropped = %v, want none", res.Dropped)
	}
}

func TestLayer_CliqueOrderPreserved(t *testing.T) {
	g, c := build(t, "# input clique: 30 10 20\n10|40|-1\n30|40|-1\n",
		"10 40\n30 40\n")

	res := Layer(g, c)

	if want := []asrel.ASN{30, 10, 20}; !slices.Equal(res.Layer(0), want) {
		t.Errorf("Layer(0) = %v, want %v", res.Layer(0), want)
	}
	if want := []asrel.ASN{40}; !slices.Equal(res.Layer(1), want) {
		t.Errorf("Layer(1) = %v, want %v", res.Layer(1), want)
	}
}

func TestLayer_WaitsForAllProviders(t *testing.T) {
	// 3 has providers 1 (layer 0) and 2 (layer 1), so it lands in layer 2.
	g, c := build(t, "# input clique: 1\n1|2|-1\n1|3|-1\n2|3|-1\n",
		"1 1 2 3\n2 2 3\n")

	res := Layer(g, c)

	if want := []asrel.ASN{1, 2, 3}; !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
	if want := []int{0, 1, 2}; !slices.Equal(res.Bounds, want) {
		t.Errorf("Bounds = %v, want %v", res.Bounds, want)
	}
	if got := res.LayerOf(2); got != 2 {
		t.Errorf("LayerOf(2) = %d, want 2", got)
	}
}

func TestLayer_RecordsUntouched(t *testing.T) {
	g, c := build(t, "# input clique: 1\n1|2|-1\n", "1 2\n")

	Layer(g, c)

	r, _ := g.Record(2)
	if !slices.Equal(r.Providers, []asrel.ASN{1}) {
		t.Errorf("Providers after Layer = %v, want [1]", r.Providers)
	}
}

func TestLayer_DropsCyclesAndUnreachable(t *testing.T) {
	rels := `# input clique: 1
1|2|-1
3|4|-1
4|3|-1
9|5|0
`
	g, c := build(t, rels, "1 2\n3 3 4\n4 4 3\n")

	res := Layer(g, c)

	if want := []asrel.ASN{1, 2}; !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
	if want := []asrel.ASN{3, 4, 5, 9}; !slices.Equal(res.Dropped, want) {
		t.Errorf("Dropped = %v, want %v", res.Dropped, want)
	}
}

func TestLayer_EmptyClique(t *testing.T) {
	g, c := build(t, "1|2|-1\n", "1 2\n")

	res := Layer(g, c)

	if res.Layers() != 0 || len(res.Order) != 0 {
		t.Errorf("Layers() = %d, Order = %v; want zero layers", res.Layers(), res.Order)
	}
	if len(res.Dropped) != 2 {
		t.Errorf("Dropped = %v, want 2 ASes", res.Dropped)
	}
}

func TestLayer_ConeWithoutDirectCustomer(t *testing.T) {
	// The cone of 1 omits its customer 2, so 2 never becomes free.
	g, c := build(t, "# input clique: 1\n1|2|-1\n", "1 1\n")

	res := Layer(g, c)

	if want := []asrel.ASN{2}; !slices.Equal(res.Dropped, want) {
		t.Errorf("Dropped = %v, want %v", res.Dropped, want)
	}
}
