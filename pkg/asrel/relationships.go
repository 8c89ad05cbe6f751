package asrel

import (
	"fmt"
	"io"
	"strings"
)

// CliqueMarker introduces the comment line that lists the clique:
//
//	# input clique: 174 209 286
const CliqueMarker = "input clique"

// SourceRelationships names the relationship input in parse errors.
const SourceRelationships = "relationships"

// ParseRelationships reads a relationship dataset and returns the sorted
// AS records together with the clique.
//
// Data lines have the form ASN1|ASN2|KIND. A trailing fourth field (the
// inference source in serial-2 files) is accepted and ignored. Blank lines
// and lines starting with '#' are skipped, except for the clique line. A
// dataset without a clique line yields an empty clique.
//
// The first malformed line aborts parsing with an [errors.ParseError];
// no graph is returned in that case.
//
// [errors.ParseError]: github.com/matzehuels/asgraph/pkg/errors.ParseError
func ParseRelationships(r io.Reader) (*Graph, error) {
	b := NewBuilder()
	var clique []ASN
	cliqueSeen := false

	err := scanLines(r, SourceRelationships, func(l line) error {
		if l.comment {
			members, ok, err := parseCliqueLine(l)
			if err != nil || !ok {
				return err
			}
			if cliqueSeen {
				return parseErr(SourceRelationships, l, "duplicate clique line")
			}
			cliqueSeen = true
			clique = members
			return nil
		}

		asn1, asn2, kind, err := parseRelationshipLine(l)
		if err != nil {
			return err
		}
		b.Add(asn1, asn2, kind)
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.SetClique(clique)
	return b.Graph(), nil
}

func parseRelationshipLine(l line) (ASN, ASN, Kind, error) {
	fields := strings.Split(l.text, "|")
	if len(fields) != 3 && len(fields) != 4 {
		return 0, 0, 0, parseErr(SourceRelationships, l,
			fmt.Sprintf("expected 3 fields, got %d", len(fields)))
	}

	asn1, err := ParseASN(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, 0, 0, parseErr(SourceRelationships, l, err.Error())
	}
	asn2, err := ParseASN(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, 0, 0, parseErr(SourceRelationships, l, err.Error())
	}
	kind, err := ParseKind(strings.TrimSpace(fields[2]))
	if err != nil {
		return 0, 0, 0, parseErr(SourceRelationships, l, err.Error())
	}
	if asn1 == asn2 {
		return 0, 0, 0, parseErr(SourceRelationships, l, "AS related to itself")
	}
	return asn1, asn2, kind, nil
}

// parseCliqueLine reports whether the comment line is the clique line and,
// if so, returns its members in order.
func parseCliqueLine(l line) ([]ASN, bool, error) {
	body := l.body()
	if !strings.HasPrefix(body, CliqueMarker) {
		return nil, false, nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(body, CliqueMarker))
	if !strings.HasPrefix(rest, ":") {
		return nil, false, nil
	}

	tokens := strings.Fields(strings.TrimPrefix(rest, ":"))
	members := make([]ASN, 0, len(tokens))
	for _, tok := range tokens {
		asn, err := ParseASN(tok)
		if err != nil {
			return nil, true, parseErr(SourceRelationships, l, "clique: "+err.Error())
		}
		members = append(members, asn)
	}
	return members, true, nil
}
