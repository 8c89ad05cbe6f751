package asrel

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/matzehuels/asgraph/pkg/errors"
)

// SourceCones names the customer-cone input in parse errors.
const SourceCones = "cones"

// Cone is the customer cone of one AS: every AS reachable downstream of
// Owner through provider links, as listed in the cone file. Members are
// deduplicated and ascending.
type Cone struct {
	Owner   ASN
	Members []ASN
}

// Size returns the cone cardinality.
func (c Cone) Size() int { return len(c.Members) }

// Cones is indexed like [Graph.Records]: Cones[i] is the cone of
// Records[i]. ASes without a line in the cone file have an empty cone.
type Cones []Cone

// ParseCones reads a customer-cone file and aligns it with g.
//
// Each data line lists space-separated ASNs, the owner first. Blank lines
// and '#' comments are skipped. A repeated owner or a non-integer token is
// an [errors.ParseError]; an owner or member that g does not know is an
// [errors.InconsistentConeError].
//
// [errors.ParseError]: github.com/matzehuels/asgraph/pkg/errors.ParseError
// [errors.InconsistentConeError]: github.com/matzehuels/asgraph/pkg/errors.InconsistentConeError
func ParseCones(r io.Reader, g *Graph) (Cones, error) {
	var entries []Cone
	owners := make(map[ASN]int)

	err := scanLines(r, SourceCones, func(l line) error {
		if l.comment {
			return nil
		}
		tokens := strings.Fields(l.text)
		asns := make([]ASN, len(tokens))
		for i, tok := range tokens {
			asn, err := ParseASN(tok)
			if err != nil {
				return parseErr(SourceCones, l, err.Error())
			}
			asns[i] = asn
		}

		owner := asns[0]
		if prev, dup := owners[owner]; dup {
			return parseErr(SourceCones, l, fmt.Sprintf("duplicate cone for AS%d (first on line %d)", owner, prev))
		}
		owners[owner] = l.num

		members := asns[1:]
		slices.Sort(members)
		entries = append(entries, Cone{Owner: owner, Members: slices.Compact(members)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return alignCones(g, entries)
}

// alignCones sorts entries by owner and places each at its owner's record
// index. Records without an entry get an empty cone.
func alignCones(g *Graph, entries []Cone) (Cones, error) {
	slices.SortFunc(entries, func(a, b Cone) int { return cmp.Compare(a.Owner, b.Owner) })

	cones := make(Cones, g.Len())
	for i := range g.Records {
		cones[i].Owner = g.Records[i].ASN
	}

	for _, e := range entries {
		i := g.Index(e.Owner)
		if i < 0 {
			return nil, &errors.InconsistentConeError{Owner: uint32(e.Owner), Member: uint32(e.Owner)}
		}
		for _, m := range e.Members {
			if g.Index(m) < 0 {
				return nil, &errors.InconsistentConeError{Owner: uint32(e.Owner), Member: uint32(m)}
			}
		}
		cones[i].Members = e.Members
	}
	return cones, nil
}

// NewCones aligns already-parsed cones with g. It applies the same checks
// as [ParseCones] except for line-level syntax.
func NewCones(g *Graph, entries map[ASN][]ASN) (Cones, error) {
	list := make([]Cone, 0, len(entries))
	for owner, members := range entries {
		m := slices.Clone(members)
		slices.Sort(m)
		list = append(list, Cone{Owner: owner, Members: slices.Compact(m)})
	}
	return alignCones(g, list)
}
