// Package libsea writes graphs in the LibSea text format read by the
// Walrus hyperbolic graph viewer.
//
// # Document layout
//
// A LibSea file is a single `Graph { ... }` block with sections in a fixed
// order. This package emits the positional form, where every field is
// identified by its position and terminated by a semicolon, and an absent
// field is written as a bare `;`:
//
//	Graph
//	{
//	  ### metadata ###
//	  "AS graph";       title
//	  ;                 description (absent)
//	  3;                node count
//	  2;                link count
//	  0;                path count
//	  0;                path link count
//
//	  ### structural data ###
//	  [
//	    { 1; 2; },      link 0: source; destination;
//	    { 0; 1; }       link 1
//	  ];
//	  ;                 paths
//
//	  ### attribute data ###
//	  ...
//	}
//
// Lists are comma separated with no comma after the final element.
//
// # Spanning tree
//
// Walrus lays out a graph along a spanning tree identified by a qualifier
// of type `spanning_tree` that aliases two boolean attributes: `root`,
// true on exactly one node, and `tree_link`, true on every link that
// belongs to the tree. [Encode] always emits both, with node 0 as the
// root and every link marked as a tree link.
package libsea

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/asgraph/pkg/errors"
)

// Attribute names always present in a document.
const (
	AttrRoot     = "root"
	AttrTreeLink = "tree_link"
	AttrASN      = "asn"
)

// DefaultTreeName names the spanning tree qualifier when Document.TreeName
// is empty.
const DefaultTreeName = "as_spanning_tree"

// RootNode is the node that carries root=T.
const RootNode = 0

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Link is a directed link between two node numbers.
type Link struct {
	Source      int
	Destination int
}

// NodeString is a string value attached to a node.
type NodeString struct {
	Node  int
	Value string
}

// LabelAttributes describe an optional pair of node attributes: a string
// attribute carrying the label text and a boolean selector that is true on
// every labeled node.
type LabelAttributes struct {
	TextAttr     string
	SelectorAttr string
	Values       []NodeString
}

// Document is everything needed to write one graph file.
type Document struct {
	Title       string // optional
	Description string // optional
	// ASNs[i] is the AS number of node i+1. Node 0 is the synthetic root.
	ASNs []uint32
	// Links in output order. Link ids are their index in this slice.
	Links []Link
	// Labels is omitted from the output when nil or without values.
	Labels *LabelAttributes
	// TreeName names the spanning tree qualifier (DefaultTreeName if empty).
	TreeName string
}

// NodeCount returns the number of nodes including the synthetic root.
func (d *Document) NodeCount() int { return len(d.ASNs) + 1 }

// Write encodes d and writes it to w.
func Write(w io.Writer, d *Document) error {
	data, err := Encode(d)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Encode renders d as a LibSea document. The whole document is built in
// memory, so a failure never leaves partial output behind.
func Encode(d *Document) ([]byte, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	e := &encoder{}
	e.line("Graph")
	e.line("{")
	e.depth++

	e.metadata(d)
	e.blank()
	e.structure(d)
	e.blank()
	e.attributes(d)
	e.blank()
	e.hints()

	e.depth--
	e.line("}")
	return e.buf.Bytes(), nil
}

func (d *Document) validate() error {
	nodes := d.NodeCount()
	for i, l := range d.Links {
		if l.Source < 0 || l.Source >= nodes || l.Destination < 0 || l.Destination >= nodes {
			return errors.New(errors.ErrCodeInvalidInput, "link %d (%d -> %d) outside node range [0,%d)", i, l.Source, l.Destination, nodes)
		}
	}
	if d.TreeName != "" && !identRe.MatchString(d.TreeName) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid spanning tree name %q", d.TreeName)
	}
	if d.hasLabels() {
		for _, name := range []string{d.Labels.TextAttr, d.Labels.SelectorAttr} {
			if !identRe.MatchString(name) {
				return errors.New(errors.ErrCodeInvalidInput, "invalid attribute name %q", name)
			}
			switch name {
			case AttrRoot, AttrTreeLink, AttrASN:
				return errors.New(errors.ErrCodeInvalidInput, "attribute name %q is reserved", name)
			}
		}
		for _, v := range d.Labels.Values {
			if v.Node <= RootNode || v.Node >= nodes {
				return errors.New(errors.ErrCodeInvalidInput, "label for node %d outside node range", v.Node)
			}
		}
	}
	return nil
}

func (d *Document) hasLabels() bool {
	return d.Labels != nil && len(d.Labels.Values) > 0
}

func (d *Document) treeName() string {
	if d.TreeName == "" {
		return DefaultTreeName
	}
	return d.TreeName
}

// =============================================================================
// Sections
// =============================================================================

func (e *encoder) metadata(d *Document) {
	e.comment("metadata")
	e.optionalString(d.Title)
	e.optionalString(d.Description)
	e.linef("%d;", d.NodeCount())
	e.linef("%d;", len(d.Links))
	e.line("0;")
	e.line("0;")
}

func (e *encoder) structure(d *Document) {
	e.comment("structural data")
	e.list(len(d.Links), func(i int) string {
		return fmt.Sprintf("{ %d; %d; }", d.Links[i].Source, d.Links[i].Destination)
	})
	e.line(";")
}

// attribute is one attribute definition with its node and link values.
type attribute struct {
	name  string
	typ   string
	def   string
	nodes []value
	links []value
}

type value struct {
	id  int
	lit string
}

func (e *encoder) attributes(d *Document) {
	attrs := []attribute{
		{name: AttrRoot, typ: "bool", def: "false", nodes: []value{{RootNode, "T"}}},
		{name: AttrTreeLink, typ: "bool", def: "false", links: make([]value, len(d.Links))},
		{name: AttrASN, typ: "int", def: "0", nodes: make([]value, len(d.ASNs))},
	}
	for i := range d.Links {
		attrs[1].links[i] = value{i, "T"}
	}
	for i, asn := range d.ASNs {
		attrs[2].nodes[i] = value{i + 1, strconv.FormatUint(uint64(asn), 10)}
	}

	if d.hasLabels() {
		text := attribute{name: d.Labels.TextAttr, typ: "string", def: `""`}
		sel := attribute{name: d.Labels.SelectorAttr, typ: "bool", def: "false"}
		for _, v := range d.Labels.Values {
			text.nodes = append(text.nodes, value{v.Node, quote(v.Value)})
			sel.nodes = append(sel.nodes, value{v.Node, "T"})
		}
		attrs = append(attrs, text, sel)
	}

	e.comment("attribute data")
	e.line(";") // enumerations
	e.blocks(len(attrs), func(i int) {
		a := attrs[i]
		e.linef("$%s;", a.name)
		e.linef("%s;", a.typ)
		e.linef("|| %s ||;", a.def)
		e.values(a.nodes)
		e.values(a.links)
		e.line(";") // path values
	})

	e.blocks(1, func(int) {
		e.line("$spanning_tree;")
		e.linef("$%s;", d.treeName())
		e.line(";") // description
		e.list(2, func(i int) string {
			return fmt.Sprintf("{ %d; $%s; }", i, []string{AttrRoot, AttrTreeLink}[i])
		})
	})
}

func (e *encoder) hints() {
	e.comment("visualization hints")
	for range 4 { // filters, selectors, displays, presentations
		e.line(";")
	}
	e.blank()
	e.comment("interface hints")
	for range 5 { // presentation, display, selector, filter, attribute menus
		e.line(";")
	}
}

// =============================================================================
// Encoder
// =============================================================================

type encoder struct {
	buf   bytes.Buffer
	depth int
}

func (e *encoder) line(s string) {
	for range e.depth {
		e.buf.WriteString("  ")
	}
	e.buf.WriteString(s)
	e.buf.WriteByte('\n')
}

func (e *encoder) linef(format string, args ...any) {
	e.line(fmt.Sprintf(format, args...))
}

func (e *encoder) blank() { e.buf.WriteByte('\n') }

func (e *encoder) comment(s string) { e.linef("### %s ###", s) }

func (e *encoder) optionalString(s string) {
	if s == "" {
		e.line(";")
		return
	}
	e.line(quote(s) + ";")
}

// list writes n single-line entries as a bracketed list, or a bare ';'
// when n is zero.
func (e *encoder) list(n int, entry func(i int) string) {
	if n == 0 {
		e.line(";")
		return
	}
	e.line("[")
	e.depth++
	for i := range n {
		if i == n-1 {
			e.line(entry(i))
		} else {
			e.line(entry(i) + ",")
		}
	}
	e.depth--
	e.line("];")
}

// blocks is like list for entries spanning several lines.
func (e *encoder) blocks(n int, block func(i int)) {
	if n == 0 {
		e.line(";")
		return
	}
	e.line("[")
	e.depth++
	for i := range n {
		e.line("{")
		e.depth++
		block(i)
		e.depth--
		if i == n-1 {
			e.line("}")
		} else {
			e.line("},")
		}
	}
	e.depth--
	e.line("];")
}

func (e *encoder) values(vs []value) {
	e.list(len(vs), func(i int) string {
		return fmt.Sprintf("{ %d; %s; }", vs[i].id, vs[i].lit)
	})
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}
