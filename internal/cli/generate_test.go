package cli

import (
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/asgraph/pkg/errors"
)

const (
	testRelationships = "# input clique: 100\n100|200|-1\n200|300|-1\n"
	testCones         = "100 200 300\n200 300\n"
	testLabels        = "# attributes: region isRegionTagged\n300|Asia\n"
)

// execute runs the root command with args and an isolated cache directory.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	if os.Getenv("XDG_CACHE_HOME") == "" {
		t.Setenv("XDG_CACHE_HOME", t.TempDir())
	}
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

// workdir changes into a fresh directory holding the test inputs.
func workdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "rels.txt", testRelationships)
	writeFile(t, dir, "cones.txt", testCones)
	writeFile(t, dir, "labels.txt", testLabels)
	return dir
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestGenerate_DefaultOutput(t *testing.T) {
	workdir(t)

	if err := execute(t, "generate", "-r", "rels.txt", "-c", "cones.txt"); err != nil {
		t.Fatalf("generate error = %v", err)
	}
	out := readOutput(t, "autonomousSystems.graph")
	if !strings.Contains(out, "{ 0; 1; }") || !strings.Contains(out, "$as_spanning_tree;") {
		t.Errorf("unexpected document:\n%s", out)
	}
}

func TestGenerate_GraphNameAndLabels(t *testing.T) {
	workdir(t)

	err := execute(t, "generate", "-r", "rels.txt", "-c", "cones.txt", "-l", "labels.txt",
		"-g", "caida", "-n", "AS graph", "-d", "test run", "--no-cache")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	out := readOutput(t, "caida.graph")
	for _, want := range []string{`"AS graph";`, `"test run";`, `{ 3; "Asia"; }`, "$isRegionTagged;"} {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q:\n%s", want, out)
		}
	}
}

func TestGenerate_ParseErrorWritesNothing(t *testing.T) {
	dir := workdir(t)
	writeFile(t, dir, "bad.txt", "# input clique: 1\n1|2\n")

	err := execute(t, "generate", "-r", "bad.txt", "-c", "cones.txt", "-o", "out.graph")

	var pe *errors.ParseError
	if !stderrors.As(err, &pe) {
		t.Fatalf("generate error = %v, want *ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("ParseError line = %d, want 2", pe.Line)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.graph")); !os.IsNotExist(err) {
		t.Error("no output file should be written on a parse error")
	}
}

func TestGenerate_MissingInput(t *testing.T) {
	workdir(t)
	err := execute(t, "generate", "-r", "nope.txt", "-c", "cones.txt")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("generate error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestGenerate_RequiredFlags(t *testing.T) {
	workdir(t)
	if err := execute(t, "generate", "-r", "rels.txt"); err == nil {
		t.Error("generate without --cones should fail")
	}
}

func TestGenerate_OutputAndGraphNameExclusive(t *testing.T) {
	workdir(t)
	if err := execute(t, "generate", "-r", "rels.txt", "-c", "cones.txt", "-o", "a.graph", "-g", "b"); err == nil {
		t.Error("-o and -g together should fail")
	}
}

func TestGenerate_ConfigFile(t *testing.T) {
	dir := workdir(t)
	writeFile(t, dir, "asgraph.toml", `
title = "From config"
output = "configured.graph"
tree_name = "cfg_tree"

[cache]
backend = "none"
`)

	if err := execute(t, "generate", "-r", "rels.txt", "-c", "cones.txt"); err != nil {
		t.Fatalf("generate error = %v", err)
	}
	out := readOutput(t, "configured.graph")
	if !strings.Contains(out, `"From config";`) || !strings.Contains(out, "$cfg_tree;") {
		t.Errorf("config values not applied:\n%s", out)
	}

	if err := execute(t, "generate", "-r", "rels.txt", "-c", "cones.txt", "-n", "From flag"); err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if out := readOutput(t, "configured.graph"); !strings.Contains(out, `"From flag";`) {
		t.Errorf("flag should override config title:\n%s", out)
	}
}

func TestGenerate_DotAndMetrics(t *testing.T) {
	workdir(t)

	err := execute(t, "generate", "-r", "rels.txt", "-c", "cones.txt",
		"--dot", "tree.dot", "--metrics-file", "asgraph.prom", "--no-cache")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if dot := readOutput(t, "tree.dot"); !strings.Contains(dot, "n1 -> n2;") {
		t.Errorf("DOT output missing tree edge:\n%s", dot)
	}
	if prom := readOutput(t, "asgraph.prom"); !strings.Contains(prom, `asgraph_stage_items{stage="layer"} 3`) {
		t.Errorf("metrics missing layer gauge:\n%s", prom)
	}
}

func TestGenerate_Cached(t *testing.T) {
	workdir(t)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	for i := 0; i < 2; i++ {
		if err := execute(t, "generate", "-r", "rels.txt", "-c", "cones.txt"); err != nil {
			t.Fatalf("run %d: generate error = %v", i, err)
		}
	}
	entries, err := os.ReadDir(filepath.Join(os.Getenv("XDG_CACHE_HOME"), "asgraph"))
	if err != nil || len(entries) == 0 {
		t.Errorf("cache directory should hold an entry (err %v)", err)
	}
}
