// Package asrel models Internet AS business relationships and parses the
// three text inputs the graph generator consumes.
//
// # Overview
//
// An AS relationship dataset (CAIDA serial-1 style) lists one relationship
// per line:
//
//	# input clique: 174 209 286 701
//	174|6939|-1
//	6939|7018|0
//	64512|3356|1
//
// KIND -1 means the first AS provides transit to the second, 1 means the
// first AS is a customer of the second, and 0 records a sibling (peer)
// link. [ParseRelationships] turns such a file into a [Graph]: one [Record]
// per distinct ASN, ascending, each with deduplicated and sorted provider
// and sibling sets. The comment line carrying the [CliqueMarker] lists the
// top-level ASes in the order they must appear in the first layer.
//
// # Customer Cones
//
// [ParseCones] reads the companion cone file (one line per AS, owner first,
// then every AS downstream of it) and returns [Cones] aligned position by
// position with [Graph.Records]. The layering stage relies on that
// alignment to look up a cone by record index.
//
// # Labels
//
// [ParseLabels] reads the optional labels file. Its comment line
//
//	# attributes: region isRegionTagged
//
// names the two node attributes the graph document will carry, and each
// data line `ASN|text` assigns one label.
//
// # Errors
//
// Every parser fails on the first malformed line with a
// [errors.ParseError] and returns no partial result. [ParseCones] also
// fails with an [errors.InconsistentConeError] when a cone references an
// ASN the relationship data never mentioned.
//
// # Concurrency
//
// A [Graph] is immutable once returned by a parser and may be shared freely.
// The [Builder] used to assemble one is not safe for concurrent use.
//
// [errors.ParseError]: github.com/matzehuels/asgraph/pkg/errors.ParseError
// [errors.InconsistentConeError]: github.com/matzehuels/asgraph/pkg/errors.InconsistentConeError
package asrel
