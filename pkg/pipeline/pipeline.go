// Package pipeline provides the graph generation pipeline for asgraph.
//
// This package wires the stages that turn AS relationship data into a
// LibSea document. By centralizing this logic the CLI and tests drive
// exactly the same code path.
//
// # Architecture
//
// The pipeline consists of five stages, run strictly in order:
//
//  1. Parse: relationships (with the clique line), customer cones, labels
//  2. Layer: cone-accelerated topological layering rooted at the clique
//  3. Tree: one parent per placed AS, chosen from the preceding layer
//  4. Labels: label text and selector values keyed to node numbers
//  5. Serialize: the LibSea document text
//
// Stages 1 to 4 are skipped when the [Runner]'s cache already holds the
// document built from identical inputs and options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Inputs{
//	    Relationships: rels,
//	    Cones:         cones,
//	}, pipeline.Options{Title: "AS graph"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("autonomousSystems.graph", result.Encoded, 0644)
package pipeline

import (
	"time"

	"github.com/matzehuels/asgraph/pkg/asrel"
	"github.com/matzehuels/asgraph/pkg/cache"
	"github.com/matzehuels/asgraph/pkg/libsea"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultTreeName is the spanning tree qualifier name.
const DefaultTreeName = libsea.DefaultTreeName

// DefaultOutput is the output file name when none is given.
const DefaultOutput = "autonomousSystems.graph"

// GraphExt is appended to a bare graph name.
const GraphExt = ".graph"

// OutputName returns the output path for a graph name: name + ".graph", or
// DefaultOutput when name is empty.
func OutputName(name string) string {
	if name == "" {
		return DefaultOutput
	}
	return name + GraphExt
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the settings that shape the output document.
type Options struct {
	Title       string `json:"title,omitempty" validate:"max=1024"`
	Description string `json:"description,omitempty" validate:"max=8192"`
	TreeName    string `json:"tree_name,omitempty" validate:"omitempty,libsea_ident"`

	// Refresh ignores cached documents (a fresh result is still stored).
	Refresh bool `json:"refresh,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks field values and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateStruct(o); err != nil {
		return err
	}
	if o.TreeName == "" {
		o.TreeName = DefaultTreeName
	}
	o.validated = true
	return nil
}

// KeyOpts returns the cache key options for these settings.
func (o *Options) KeyOpts() cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Title:       o.Title,
		Description: o.Description,
		TreeName:    o.TreeName,
	}
}

// =============================================================================
// Inputs and Results
// =============================================================================

// Inputs holds the raw contents of the input files.
type Inputs struct {
	Relationships []byte
	Cones         []byte
	// Labels is optional; nil means no label attributes.
	Labels []byte
}

// Hash identifies the inputs for caching.
func (in Inputs) Hash() string {
	return cache.HashAll(in.Relationships, in.Cones, in.Labels)
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	// Document is the graph before encoding.
	Document *libsea.Document

	// Encoded is the LibSea document text.
	Encoded []byte

	// Dropped lists ASes that could not be layered (ascending).
	Dropped []asrel.ASN

	// UnmatchedLabels lists labeled ASes that are not in the graph.
	UnmatchedLabels []asrel.ASN

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when stages 1 to 4 were served from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int
	CliqueSize int
	Layers     int
	Placed     int
	Links      int
	Labels     int
	Bytes      int

	ParseTime     time.Duration
	LayerTime     time.Duration
	TreeTime      time.Duration
	LabelTime     time.Duration
	SerializeTime time.Duration
}

// Total returns the summed duration of all stages.
func (s Stats) Total() time.Duration {
	return s.ParseTime + s.LayerTime + s.TreeTime + s.LabelTime + s.SerializeTime
}
