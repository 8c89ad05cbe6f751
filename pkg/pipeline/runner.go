package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/asgraph/pkg/asrel"
	"github.com/matzehuels/asgraph/pkg/cache"
	"github.com/matzehuels/asgraph/pkg/layering"
	"github.com/matzehuels/asgraph/pkg/libsea"
	"github.com/matzehuels/asgraph/pkg/observability"
	"github.com/matzehuels/asgraph/pkg/spantree"
)

// cacheKeyType labels cache events for observability hooks.
const cacheKeyType = "graph"

// maxLoggedASNs caps the ASNs listed in a single warning line.
const maxLoggedASNs = 10

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL of cached documents (cache.TTLDocument when zero).
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedBuild is the cache payload: the document plus what the summary
// needs, so a hit reports the same numbers as a fresh run.
type cachedBuild struct {
	Document   *libsea.Document `json:"document"`
	Records    int              `json:"records"`
	CliqueSize int              `json:"clique_size"`
	Layers     int              `json:"layers"`
	Dropped    []asrel.ASN      `json:"dropped,omitempty"`
	Unmatched  []asrel.ASN      `json:"unmatched,omitempty"`
}

// Execute runs the complete parse → layer → tree → labels → serialize
// pipeline with caching. Nothing is written to disk; the caller decides
// where Result.Encoded goes.
func (r *Runner) Execute(ctx context.Context, in Inputs, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", result.RunID[:8])
	key := r.Keyer.DocumentKey(in.Hash(), opts.KeyOpts())

	var b *cachedBuild
	if !opts.Refresh {
		b = r.lookup(ctx, logger, key)
	}
	if b != nil {
		result.CacheHit = true
	} else {
		var err error
		if b, err = r.build(ctx, logger, in, opts, &result.Stats); err != nil {
			return nil, err
		}
		r.store(ctx, logger, key, b)
	}

	result.Document = b.Document
	result.Dropped = b.Dropped
	result.UnmatchedLabels = b.Unmatched
	result.Stats.Records = b.Records
	result.Stats.CliqueSize = b.CliqueSize
	result.Stats.Layers = b.Layers
	result.Stats.Placed = len(b.Document.ASNs)
	result.Stats.Links = len(b.Document.Links)
	if b.Document.Labels != nil {
		result.Stats.Labels = len(b.Document.Labels.Values)
	}

	// Stage 5: Serialize
	var encoded []byte
	d, err := runStage(ctx, observability.StageSerialize, func() (int, error) {
		var err error
		encoded, err = libsea.Encode(b.Document)
		return len(encoded), err
	})
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	result.Encoded = encoded
	result.Stats.Bytes = len(encoded)
	result.Stats.SerializeTime = d

	logger.Info("serialized document",
		"nodes", b.Document.NodeCount(),
		"links", len(b.Document.Links),
		"bytes", len(encoded),
		"duration", d)

	return result, nil
}

// build runs stages 1 to 4.
func (r *Runner) build(ctx context.Context, logger *log.Logger, in Inputs, opts Options, stats *Stats) (*cachedBuild, error) {
	// Stage 1: Parse
	var p *Parsed
	d, err := runStage(ctx, observability.StageParse, func() (int, error) {
		var err error
		p, err = Parse(in)
		if err != nil {
			return 0, err
		}
		return p.Graph.Len(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	stats.ParseTime = d

	logger.Info("parsed inputs",
		"records", p.Graph.Len(),
		"clique", len(p.Graph.Clique),
		"labels", labelCount(p.Labels),
		"duration", d)
	if len(p.Graph.Clique) == 0 {
		logger.Warn("no input clique found; the graph will only contain the root")
	}

	// Stage 2: Layer
	var lay *layering.Result
	d, _ = runStage(ctx, observability.StageLayer, func() (int, error) {
		lay = layering.Layer(p.Graph, p.Cones)
		return len(lay.Order), nil
	})
	stats.LayerTime = d

	logger.Info("layered graph",
		"layers", lay.Layers(),
		"placed", len(lay.Order),
		"dropped", len(lay.Dropped),
		"duration", d)
	if len(lay.Dropped) > 0 {
		observability.Pipeline().OnDropped(ctx, len(lay.Dropped))
		logger.Warn("ASes could not be layered (provider cycle or provider unreachable from the clique)",
			"count", len(lay.Dropped),
			"asns", sample(lay.Dropped))
	}

	// Stage 3: Tree
	var edges []spantree.Edge
	d, err = runStage(ctx, observability.StageTree, func() (int, error) {
		var err error
		edges, err = spantree.Build(p.Graph, p.Cones, lay)
		return len(edges), err
	})
	if err != nil {
		return nil, fmt.Errorf("tree: %w", err)
	}
	stats.TreeTime = d

	logger.Info("built spanning tree",
		"links", len(edges),
		"duration", d)

	// Stage 4: Labels
	var attrs spantree.Attributes
	d, _ = runStage(ctx, observability.StageLabels, func() (int, error) {
		attrs = spantree.AttachLabels(p.Labels, lay.Order)
		return len(attrs.Values), nil
	})
	stats.LabelTime = d

	if p.Labels != nil {
		logger.Info("attached labels",
			"attribute", attrs.TextAttr,
			"labeled", len(attrs.Values),
			"unmatched", len(attrs.Unmatched),
			"duration", d)
	}
	if len(attrs.Unmatched) > 0 {
		logger.Warn("labels for ASes not in the graph were ignored",
			"count", len(attrs.Unmatched),
			"asns", sample(attrs.Unmatched))
	}

	return &cachedBuild{
		Document:   Assemble(lay, edges, attrs, opts),
		Records:    p.Graph.Len(),
		CliqueSize: len(p.Graph.Clique),
		Layers:     lay.Layers(),
		Dropped:    lay.Dropped,
		Unmatched:  attrs.Unmatched,
	}, nil
}

// lookup returns the cached build for key, or nil on a miss. Cache errors
// and undecodable entries count as misses.
func (r *Runner) lookup(ctx context.Context, logger *log.Logger, key string) *cachedBuild {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil
	}

	var b cachedBuild
	if err := json.Unmarshal(data, &b); err != nil || b.Document == nil {
		logger.Debug("discarding undecodable cache entry", "key", key)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	logger.Debug("cache hit", "key", key)
	return &b
}

func (r *Runner) store(ctx context.Context, logger *log.Logger, key string, b *cachedBuild) {
	data, err := json.Marshal(b)
	if err != nil {
		logger.Warn("cache encode failed", "err", err)
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLDocument
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// runStage times fn and reports it to the pipeline hooks.
func runStage(ctx context.Context, stage string, fn func() (int, error)) (time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, stage)
	start := time.Now()
	n, err := fn()
	d := time.Since(start)
	hooks.OnStageComplete(ctx, stage, n, d, err)
	return d, err
}

func labelCount(l *asrel.Labels) int {
	if l == nil {
		return 0
	}
	return len(l.Entries)
}

func sample(asns []asrel.ASN) []asrel.ASN {
	if len(asns) > maxLoggedASNs {
		return asns[:maxLoggedASNs]
	}
	return asns
}
