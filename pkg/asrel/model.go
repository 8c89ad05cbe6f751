package asrel

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
)

// ASN is an Autonomous System Number. 32-bit ASNs (RFC 6793) are supported.
type ASN uint32

// ParseASN parses a decimal ASN. Surrounding whitespace is not accepted.
func ParseASN(s string) (ASN, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid ASN %q", s)
	}
	return ASN(v), nil
}

// String returns the ASN in decimal.
func (a ASN) String() string { return strconv.FormatUint(uint64(a), 10) }

// Kind is the business relationship encoded in the third field of a
// relationship line.
type Kind int

const (
	// ProviderToCustomer (-1): the first AS provides transit to the second.
	ProviderToCustomer Kind = -1
	// Sibling (0): the first AS is recorded as a sibling of the second.
	Sibling Kind = 0
	// CustomerToProvider (1): the first AS buys transit from the second.
	CustomerToProvider Kind = 1
)

// String returns a human-readable relationship name.
func (k Kind) String() string {
	switch k {
	case ProviderToCustomer:
		return "provider-to-customer"
	case Sibling:
		return "sibling"
	case CustomerToProvider:
		return "customer-to-provider"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts the textual relationship field into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "-1":
		return ProviderToCustomer, nil
	case "0":
		return Sibling, nil
	case "1":
		return CustomerToProvider, nil
	default:
		return 0, fmt.Errorf("invalid relationship kind %q (must be -1, 0 or 1)", s)
	}
}

// Record holds everything known about one AS. Providers and Siblings are
// always deduplicated and sorted ascending.
type Record struct {
	ASN       ASN
	Providers []ASN
	Siblings  []ASN
}

// HasProvider reports whether p is a registered provider of the record.
func (r *Record) HasProvider(p ASN) bool {
	_, ok := slices.BinarySearch(r.Providers, p)
	return ok
}

// Graph is the parsed relationship dataset: every AS record sorted by ASN,
// plus the ordered clique of top-level ASes.
type Graph struct {
	Records []Record
	Clique  []ASN
}

// Len returns the number of distinct ASes.
func (g *Graph) Len() int { return len(g.Records) }

// Index returns the position of asn in Records, or -1 if the AS is unknown.
func (g *Graph) Index(asn ASN) int {
	i, ok := slices.BinarySearchFunc(g.Records, asn, func(r Record, t ASN) int {
		return cmp.Compare(r.ASN, t)
	})
	if !ok {
		return -1
	}
	return i
}

// Record returns the record for asn, if present.
func (g *Graph) Record(asn ASN) (*Record, bool) {
	i := g.Index(asn)
	if i < 0 {
		return nil, false
	}
	return &g.Records[i], true
}

// Builder accumulates relationships and produces a sorted [Graph].
// Records are indexed by ASN in a map while building and sorted once by
// [Builder.Graph], so large datasets avoid repeated mid-slice inserts.
//
// The zero value is not usable; create builders with [NewBuilder].
type Builder struct {
	index   map[ASN]int
	records []Record
	clique  []ASN
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[ASN]int)}
}

// Touch ensures a record exists for asn and returns its builder slot.
func (b *Builder) Touch(asn ASN) int {
	if i, ok := b.index[asn]; ok {
		return i
	}
	b.records = append(b.records, Record{ASN: asn})
	i := len(b.records) - 1
	b.index[asn] = i
	return i
}

// Add records one relationship fact. Both ASes get a record. Siblings are
// stored one-directionally: asn1 is added to asn2's sibling set only.
func (b *Builder) Add(asn1, asn2 ASN, kind Kind) {
	i1 := b.Touch(asn1)
	i2 := b.Touch(asn2)

	switch kind {
	case ProviderToCustomer:
		b.records[i2].Providers = insertSorted(b.records[i2].Providers, asn1)
	case CustomerToProvider:
		b.records[i1].Providers = insertSorted(b.records[i1].Providers, asn2)
	case Sibling:
		b.records[i2].Siblings = insertSorted(b.records[i2].Siblings, asn1)
	}
}

// SetClique sets the ordered clique. Duplicates after the first occurrence
// are dropped and every member gets a record.
func (b *Builder) SetClique(clique []ASN) {
	seen := make(map[ASN]bool, len(clique))
	b.clique = b.clique[:0]
	for _, asn := range clique {
		if seen[asn] {
			continue
		}
		seen[asn] = true
		b.Touch(asn)
		b.clique = append(b.clique, asn)
	}
}

// Graph returns the accumulated records sorted ascending by ASN.
// The builder should not be used afterwards.
func (b *Builder) Graph() *Graph {
	records := b.records
	slices.SortFunc(records, func(x, y Record) int { return cmp.Compare(x.ASN, y.ASN) })
	return &Graph{
		Records: records,
		Clique:  slices.Clone(b.clique),
	}
}

// insertSorted inserts v into the ascending slice s unless already present.
func insertSorted(s []ASN, v ASN) []ASN {
	i, found := slices.BinarySearch(s, v)
	if found {
		return s
	}
	return slices.Insert(s, i, v)
}
