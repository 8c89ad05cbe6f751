package pipeline

import (
	"bytes"

	"github.com/matzehuels/asgraph/pkg/asrel"
	"github.com/matzehuels/asgraph/pkg/layering"
	"github.com/matzehuels/asgraph/pkg/libsea"
	"github.com/matzehuels/asgraph/pkg/spantree"
)

// =============================================================================
// Parse
// =============================================================================

// Parsed holds the decoded inputs.
type Parsed struct {
	Graph  *asrel.Graph
	Cones  asrel.Cones
	Labels *asrel.Labels // nil without a labels input
}

// Parse decodes the relationship, cone and label inputs. The cone file is
// checked against the relationship set, so it is parsed second.
func Parse(in Inputs) (*Parsed, error) {
	g, err := asrel.ParseRelationships(bytes.NewReader(in.Relationships))
	if err != nil {
		return nil, err
	}
	cones, err := asrel.ParseCones(bytes.NewReader(in.Cones), g)
	if err != nil {
		return nil, err
	}

	p := &Parsed{Graph: g, Cones: cones}
	if in.Labels != nil {
		if p.Labels, err = asrel.ParseLabels(bytes.NewReader(in.Labels)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// =============================================================================
// Assemble
// =============================================================================

// Assemble combines the stage outputs into a document.
func Assemble(lay *layering.Result, edges []spantree.Edge, attrs spantree.Attributes, opts Options) *libsea.Document {
	doc := &libsea.Document{
		Title:       opts.Title,
		Description: opts.Description,
		TreeName:    opts.TreeName,
		ASNs:        make([]uint32, len(lay.Order)),
		Links:       make([]libsea.Link, len(edges)),
	}
	for i, asn := range lay.Order {
		doc.ASNs[i] = uint32(asn)
	}
	for i, e := range edges {
		doc.Links[i] = libsea.Link{Source: e.Parent, Destination: e.Child}
	}

	if !attrs.Empty() {
		doc.Labels = &libsea.LabelAttributes{
			TextAttr:     attrs.TextAttr,
			SelectorAttr: attrs.SelectorAttr,
			Values:       make([]libsea.NodeString, len(attrs.Values)),
		}
		for i, v := range attrs.Values {
			doc.Labels.Values[i] = libsea.NodeString{Node: v.Node, Value: v.Text}
		}
	}
	return doc
}
