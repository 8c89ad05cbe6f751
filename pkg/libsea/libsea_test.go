package libsea

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/asgraph/pkg/errors"
)

const singleLinkGolden = `Graph
{
  ### metadata ###
  "AS";
  ;
  3;
  2;
  0;
  0;

  ### structural data ###
  [
    { 1; 2; },
    { 0; 1; }
  ];
  ;

  ### attribute data ###
  ;
  [
    {
      $root;
      bool;
      || false ||;
      [
        { 0; T; }
      ];
      ;
      ;
    },
    {
      $tree_link;
      bool;
      || false ||;
      ;
      [
        { 0; T; },
        { 1; T; }
      ];
      ;
    },
    {
      $asn;
      int;
      || 0 ||;
      [
        { 1; 100; },
        { 2; 200; }
      ];
      ;
      ;
    }
  ];
  [
    {
      $spanning_tree;
      $as_spanning_tree;
      ;
      [
        { 0; $root; },
        { 1; $tree_link; }
      ];
    }
  ];

  ### visualization hints ###
  ;
  ;
  ;
  ;

  ### interface hints ###
  ;
  ;
  ;
  ;
  ;
}
`

func TestEncode_Golden(t *testing.T) {
	doc := &Document{
		Title: "AS",
		ASNs:  []uint32{100, 200},
		Links: []Link{{Source: 1, Destination: 2}, {Source: 0, Destination: 1}},
	}

	got, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != singleLinkGolden {
		t.Errorf("Encode() mismatch\n--- got ---\n%s\n--- want ---\n%s", got, singleLinkGolden)
	}
}

func TestEncode_SingleNode(t *testing.T) {
	doc := &Document{ASNs: []uint32{42}, Links: []Link{{0, 1}}}

	got, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := string(got)

	if !strings.Contains(out, "### structural data ###\n  [\n    { 0; 1; }\n  ];\n  ;\n") {
		t.Errorf("structural data should hold exactly link (0,1):\n%s", out)
	}
	if !strings.Contains(out, "### metadata ###\n  ;\n  ;\n  2;\n  1;\n") {
		t.Errorf("metadata should list 2 nodes and 1 link:\n%s", out)
	}
}

func TestEncode_Empty(t *testing.T) {
	got, err := Encode(&Document{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := string(got)
	if !strings.Contains(out, "### structural data ###\n  ;\n  ;\n") {
		t.Errorf("empty graph should have empty link list:\n%s", out)
	}
	if !strings.Contains(out, "  1;\n  0;\n  0;\n  0;\n") {
		t.Errorf("empty graph should have one node and no links:\n%s", out)
	}
}

func TestEncode_Labels(t *testing.T) {
	doc := &Document{
		ASNs:  []uint32{100, 200, 300},
		Links: []Link{{2, 3}, {1, 2}, {0, 1}},
		Labels: &LabelAttributes{
			TextAttr:     "region",
			SelectorAttr: "isRegionTagged",
			Values:       []NodeString{{Node: 3, Value: `Asia "East"`}},
		},
	}

	got, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := string(got)

	wantText := `      $region;
      string;
      || "" ||;
      [
        { 3; "Asia \"East\""; }
      ];
      ;
      ;
`
	if !strings.Contains(out, wantText) {
		t.Errorf("missing label attribute:\n%s", out)
	}
	wantSel := `      $isRegionTagged;
      bool;
      || false ||;
      [
        { 3; T; }
      ];
`
	if !strings.Contains(out, wantSel) {
		t.Errorf("missing selector attribute:\n%s", out)
	}
	if n := strings.Count(out, `{ 3; "Asia \"East\""; }`); n != 1 {
		t.Errorf("label entries = %d, want 1", n)
	}
}

func TestEncode_OmitsEmptyLabels(t *testing.T) {
	doc := &Document{
		ASNs:   []uint32{1},
		Links:  []Link{{0, 1}},
		Labels: &LabelAttributes{TextAttr: "region", SelectorAttr: "tagged"},
	}
	got, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if bytes.Contains(got, []byte("$region")) || bytes.Contains(got, []byte("$tagged")) {
		t.Errorf("empty label attributes should be omitted:\n%s", got)
	}
}

func TestEncode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
	}{
		{"link out of range", &Document{ASNs: []uint32{1}, Links: []Link{{0, 5}}}},
		{"bad tree name", &Document{TreeName: "my tree"}},
		{"reserved label name", &Document{ASNs: []uint32{1}, Labels: &LabelAttributes{
			TextAttr: "asn", SelectorAttr: "sel", Values: []NodeString{{1, "x"}},
		}}},
		{"label on root", &Document{ASNs: []uint32{1}, Labels: &LabelAttributes{
			TextAttr: "txt", SelectorAttr: "sel", Values: []NodeString{{0, "x"}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.doc)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Encode() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestEncode_CustomTreeName(t *testing.T) {
	got, err := Encode(&Document{TreeName: "customer_tree"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Contains(got, []byte("$spanning_tree;\n      $customer_tree;\n")) {
		t.Errorf("qualifier name not applied:\n%s", got)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, &Document{ASNs: []uint32{7}, Links: []Link{{0, 1}}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Graph\n{\n") || !strings.HasSuffix(buf.String(), "}\n") {
		t.Errorf("Write() output not a Graph block:\n%s", buf.String())
	}
}
