package asrel

import (
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
)

// AttributesMarker introduces the comment line that names the label and
// selector attributes:
//
//	# attributes: region isRegionTagged
const AttributesMarker = "attributes"

// SourceLabels names the labels input in parse errors.
const SourceLabels = "labels"

// reservedAttributes are always emitted by the graph document and cannot
// be redeclared by a labels file.
var reservedAttributes = []string{"root", "tree_link", "asn"}

var attrNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Label is one display label.
type Label struct {
	ASN  ASN
	Text string
}

// Labels is a parsed labels file.
type Labels struct {
	TextAttr     string  // name of the string attribute carrying the text
	SelectorAttr string  // name of the boolean attribute marking labeled nodes
	Entries      []Label // in first-seen order; a repeated ASN keeps its last text
}

// Empty reports whether there is nothing to attach.
func (l *Labels) Empty() bool { return l == nil || len(l.Entries) == 0 }

// ParseLabels reads a labels file. The attribute declaration line must
// precede the first data line; data lines have the form ASN|text.
func ParseLabels(r io.Reader) (*Labels, error) {
	out := &Labels{}
	pos := make(map[ASN]int)
	declared := false

	err := scanLines(r, SourceLabels, func(l line) error {
		if l.comment {
			body := l.body()
			rest, ok := strings.CutPrefix(body, AttributesMarker)
			if !ok {
				return nil
			}
			rest, ok = strings.CutPrefix(strings.TrimSpace(rest), ":")
			if !ok {
				return nil
			}
			if declared {
				return parseErr(SourceLabels, l, "duplicate attribute declaration")
			}
			text, sel, err := parseAttributeNames(rest)
			if err != nil {
				return parseErr(SourceLabels, l, err.Error())
			}
			out.TextAttr, out.SelectorAttr = text, sel
			declared = true
			return nil
		}

		if !declared {
			return parseErr(SourceLabels, l, "label before attribute declaration")
		}
		field, text, ok := strings.Cut(l.text, "|")
		if !ok {
			return parseErr(SourceLabels, l, "expected ASN|text")
		}
		asn, err := ParseASN(strings.TrimSpace(field))
		if err != nil {
			return parseErr(SourceLabels, l, err.Error())
		}
		text = strings.TrimSpace(text)
		if i, dup := pos[asn]; dup {
			out.Entries[i].Text = text
			return nil
		}
		pos[asn] = len(out.Entries)
		out.Entries = append(out.Entries, Label{ASN: asn, Text: text})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parseAttributeNames(s string) (string, string, error) {
	names := strings.Fields(s)
	if len(names) != 2 {
		return "", "", fmt.Errorf("expected 2 attribute names, got %d", len(names))
	}
	for _, n := range names {
		if !attrNameRe.MatchString(n) {
			return "", "", fmt.Errorf("invalid attribute name %q", n)
		}
		if slices.Contains(reservedAttributes, n) {
			return "", "", fmt.Errorf("attribute name %q is reserved", n)
		}
	}
	if names[0] == names[1] {
		return "", "", fmt.Errorf("attribute names must differ")
	}
	return names[0], names[1], nil
}
