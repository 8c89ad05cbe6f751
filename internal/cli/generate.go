package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/asgraph/pkg/io"
	"github.com/matzehuels/asgraph/pkg/observability"
	"github.com/matzehuels/asgraph/pkg/pipeline"
	"github.com/matzehuels/asgraph/pkg/render/nodelink"
)

// defaultDiagramLimit caps the nodes drawn in --dot/--svg output. Graphviz
// cannot lay out the full AS tree in reasonable time.
const defaultDiagramLimit = 500

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	relationships string // relationship file (A|B|KIND lines, clique comment)
	cones         string // customer cone file
	labels        string // optional labels file
	output        string // output path
	graphName     string // output name without extension
	title         string
	description   string
	treeName      string
	dot           string // optional DOT output of the spanning tree
	svg           string // optional SVG output of the spanning tree
	diagramLimit  int    // nodes kept in DOT/SVG output
	detailed      bool   // node numbers and label text in DOT/SVG
	metricsFile   string // Prometheus textfile output
	configPath    string
	noCache       bool
	refresh       bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{diagramLimit: defaultDiagramLimit}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a LibSea graph from AS relationship data",
		Long: `Generate a LibSea graph from AS relationship data.

The relationship file holds one "A|B|KIND" line per AS pair (KIND -1: A is a
provider of B, 1: A is a customer of B, 0: siblings) and names the top-level
clique in a "# input clique: A B C" comment. The cone file lists each AS
followed by the members of its customer cone. Inputs ending in .gz or .bz2
are decompressed on the fly. Inputs may also be http or https URLs.`,
		Example: `  asgraph generate -r 20240101.as-rel.txt.bz2 -c 20240101.ppdc-ases.txt.bz2
  asgraph generate -r rels.txt -c cones.txt -l regions.txt -g caida -n "AS graph"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.relationships, "relationships", "r", "", "AS relationship file or URL (required)")
	f.StringVarP(&opts.cones, "cones", "c", "", "customer cone file or URL (required)")
	f.StringVarP(&opts.labels, "labels", "l", "", "labels file")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default "+pipeline.DefaultOutput+")")
	f.StringVarP(&opts.graphName, "graph-name", "g", "", "write NAME"+pipeline.GraphExt)
	f.StringVarP(&opts.title, "title", "n", "", "graph title")
	f.StringVarP(&opts.description, "description", "d", "", "graph description")
	f.StringVar(&opts.treeName, "tree-name", "", "spanning tree qualifier name (default "+pipeline.DefaultTreeName+")")
	f.StringVar(&opts.dot, "dot", "", "also write the spanning tree as Graphviz DOT")
	f.StringVar(&opts.svg, "svg", "", "also render the spanning tree as SVG")
	f.IntVar(&opts.diagramLimit, "diagram-limit", defaultDiagramLimit, "nodes kept in DOT/SVG output (0 = all)")
	f.BoolVar(&opts.detailed, "detailed", false, "show node numbers and labels in DOT/SVG output")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	f.StringVar(&opts.configPath, "config", "", "config file (.toml or .yaml)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached documents")

	_ = cmd.MarkFlagRequired("relationships")
	_ = cmd.MarkFlagRequired("cones")
	cmd.MarkFlagsMutuallyExclusive("output", "graph-name")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyConfig(cmd, &opts, cfg)

	if opts.metricsFile != "" {
		prom := observability.NewPrometheusHooks()
		observability.SetPipelineHooks(prom)
		observability.SetCacheHooks(prom)
		defer func() {
			observability.Reset()
			if err := prom.WriteTextfile(opts.metricsFile); err != nil {
				logger.Warn("could not write metrics", "file", opts.metricsFile, "err", err)
			}
		}()
	}

	in, err := readInputs(ctx, c, opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, in, pipeline.Options{
		Title:       opts.title,
		Description: opts.description,
		TreeName:    opts.treeName,
		Refresh:     opts.refresh,
	})
	if err != nil {
		return err
	}

	output := outputPath(opts)
	if err := io.WriteFileAtomic(output, res.Encoded, 0o644); err != nil {
		return err
	}

	written := []string{output}
	if opts.dot != "" || opts.svg != "" {
		files, err := writeDiagrams(res, opts)
		if err != nil {
			return err
		}
		written = append(written, files...)
	}

	printSummary(res, written)
	return nil
}

// applyConfig fills options the user did not set on the command line.
func applyConfig(cmd *cobra.Command, opts *generateOpts, cfg *Config) {
	f := cmd.Flags()
	if !f.Changed("title") {
		opts.title = cfg.Title
	}
	if !f.Changed("description") {
		opts.description = cfg.Description
	}
	if !f.Changed("tree-name") {
		opts.treeName = cfg.TreeName
	}
	if !f.Changed("output") && !f.Changed("graph-name") {
		opts.output = cfg.Output
	}
	if !f.Changed("metrics-file") {
		opts.metricsFile = cfg.MetricsFile
	}
}

// outputPath resolves -o and -g to the document path.
func outputPath(opts generateOpts) string {
	if opts.output != "" {
		return opts.output
	}
	return pipeline.OutputName(opts.graphName)
}

func readInputs(ctx context.Context, c *CLI, opts generateOpts) (pipeline.Inputs, error) {
	prog := newProgress(c.Logger)
	var in pipeline.Inputs
	var err error

	if in.Relationships, err = io.ReadSource(ctx, opts.relationships); err != nil {
		return in, err
	}
	if in.Cones, err = io.ReadSource(ctx, opts.cones); err != nil {
		return in, err
	}
	files := 2
	if opts.labels != "" {
		if in.Labels, err = io.ReadSource(ctx, opts.labels); err != nil {
			return in, err
		}
		files++
	}

	prog.done(fmt.Sprintf("Read %d input files", files))
	return in, nil
}

func writeDiagrams(res *pipeline.Result, opts generateOpts) ([]string, error) {
	dot := nodelink.ToDOT(res.Document, nodelink.Options{
		Detailed: opts.detailed,
		Limit:    opts.diagramLimit,
	})

	var written []string
	if opts.dot != "" {
		if err := io.WriteFileAtomic(opts.dot, []byte(dot), 0o644); err != nil {
			return written, err
		}
		written = append(written, opts.dot)
	}
	if opts.svg != "" {
		svg, err := nodelink.RenderSVG(dot)
		if err != nil {
			return written, fmt.Errorf("render svg: %w", err)
		}
		if err := io.WriteFileAtomic(opts.svg, svg, 0o644); err != nil {
			return written, err
		}
		written = append(written, opts.svg)
	}
	return written, nil
}
