package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/asgraph/pkg/libsea"
)

func testDoc() *libsea.Document {
	return &libsea.Document{
		ASNs:  []uint32{100, 200, 300},
		Links: []libsea.Link{{Source: 2, Destination: 3}, {Source: 1, Destination: 2}, {Source: 0, Destination: 1}},
		Labels: &libsea.LabelAttributes{
			TextAttr:     "region",
			SelectorAttr: "tagged",
			Values:       []libsea.NodeString{{Node: 3, Value: "Asia"}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testDoc(), Options{})

	for _, want := range []string{
		"digraph G {",
		`n0 [label="root"`,
		`n1 [label="AS100"];`,
		`n3 [label="AS300", fillcolor=lightblue];`,
		"n0 -> n1;",
		"n1 -> n2;",
		"n2 -> n3;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(testDoc(), Options{Detailed: true})
	if !strings.Contains(dot, `label="AS300\nnode: 3\nAsia"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `label="AS100\nnode: 1"`) {
		t.Errorf("unlabeled detailed node missing:\n%s", dot)
	}
}

func TestToDOT_Limit(t *testing.T) {
	dot := ToDOT(testDoc(), Options{Limit: 2})

	if strings.Contains(dot, "n3") {
		t.Errorf("node 3 should be cut by Limit:\n%s", dot)
	}
	if !strings.Contains(dot, "n1 -> n2;") || !strings.Contains(dot, "n0 -> n1;") {
		t.Errorf("edges inside the limit should be kept:\n%s", dot)
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(&libsea.Document{}, Options{})
	if !strings.Contains(dot, `n0 [label="root"`) || strings.Contains(dot, "->") {
		t.Errorf("empty document should render only the root:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s, want %s", out, want)
	}
}
