package spantree

import (
	"cmp"
	"slices"

	"github.com/matzehuels/asgraph/pkg/asrel"
)

// NodeText is a text value attached to one node.
type NodeText struct {
	Node int
	Text string
}

// Attributes are the node-scoped label and selector values derived from a
// labels file. Every node listed in Values carries its text under TextAttr
// and true under SelectorAttr; nodes not listed keep the defaults.
type Attributes struct {
	TextAttr     string
	SelectorAttr string
	Values       []NodeText  // ascending by node
	Unmatched    []asrel.ASN // labeled ASes absent from the tree
}

// Empty reports whether there are no values to emit.
func (a Attributes) Empty() bool { return len(a.Values) == 0 }

// AttachLabels maps labels onto node numbers of order. A nil or empty
// labels value yields empty Attributes.
func AttachLabels(labels *asrel.Labels, order []asrel.ASN) Attributes {
	if labels.Empty() {
		return Attributes{}
	}

	nodes := make(map[asrel.ASN]int, len(order))
	for pos, asn := range order {
		nodes[asn] = NodeNumber(pos)
	}

	attrs := Attributes{
		TextAttr:     labels.TextAttr,
		SelectorAttr: labels.SelectorAttr,
	}
	for _, l := range labels.Entries {
		node, ok := nodes[l.ASN]
		if !ok {
			attrs.Unmatched = append(attrs.Unmatched, l.ASN)
			continue
		}
		attrs.Values = append(attrs.Values, NodeText{Node: node, Text: l.Text})
	}
	slices.SortFunc(attrs.Values, func(a, b NodeText) int { return cmp.Compare(a.Node, b.Node) })
	return attrs
}
