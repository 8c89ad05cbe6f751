// Package io opens topology input files and writes graph documents safely.
//
// # Inputs
//
// [OpenInput] opens a relationship, cone or labels file. Files ending in
// ".gz" or ".bz2" are decompressed transparently, so archived datasets can
// be used as downloaded:
//
//	r, err := io.OpenInput("20240101.as-rel.txt.bz2")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	g, err := asrel.ParseRelationships(r)
//
// [ReadSource] also accepts http and https URLs, so a dataset can be read
// straight from its publisher. Downloads are decompressed by the suffix of
// the URL path.
//
// # Outputs
//
// [WriteFileAtomic] writes a file by creating a temporary sibling, syncing
// it, and renaming it over the target. Readers of the target path see
// either the previous content or the complete new content; a failed run
// never leaves a truncated document behind.
package io
