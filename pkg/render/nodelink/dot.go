package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/asgraph/pkg/libsea"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the node number and label text in node labels.
	// When false, only the AS number is shown.
	Detailed bool
	// Limit keeps nodes 1..Limit. Zero keeps every node.
	Limit int
}

// ToDOT converts the spanning tree of doc to Graphviz DOT format.
// The synthetic root is drawn as a filled ellipse; labeled ASes are shaded.
func ToDOT(doc *libsea.Document, opts Options) string {
	last := len(doc.ASNs)
	if opts.Limit > 0 && opts.Limit < last {
		last = opts.Limit
	}

	labels := make(map[int]string)
	if doc.Labels != nil {
		for _, v := range doc.Labels.Values {
			labels[v.Node] = v.Value
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.1,0.05\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  n%d [label=\"root\", shape=ellipse, fillcolor=black, fontcolor=white];\n", libsea.RootNode)
	for i := range last {
		node := i + 1
		text, labeled := labels[node]
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(node, doc.ASNs[i], text, opts.Detailed))}
		if labeled {
			attrs = append(attrs, "fillcolor=lightblue")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", node, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range doc.Links {
		if l.Source > last || l.Destination > last {
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", l.Source, l.Destination)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(node int, asn uint32, text string, detailed bool) string {
	label := "AS" + strconv.FormatUint(uint64(asn), 10)
	if !detailed {
		return label
	}
	label += fmt.Sprintf("\nnode: %d", node)
	if text != "" {
		label += "\n" + text
	}
	return label
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the diagram scales with its
// container instead of using Graphviz's point-based width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
