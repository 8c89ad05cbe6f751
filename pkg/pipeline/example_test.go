package pipeline_test

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asgraph/pkg/pipeline"
)

func ExampleRunner_Execute() {
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	res, err := runner.Execute(context.Background(), pipeline.Inputs{
		Relationships: []byte("# input clique: 100\n100|200|-1\n"),
		Cones:         []byte("100 200\n"),
	}, pipeline.Options{Title: "AS"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Document.NodeCount(), "nodes")
	for _, l := range res.Document.Links {
		fmt.Printf("%d -> %d\n", l.Source, l.Destination)
	}
	// Output:
	// 3 nodes
	// 1 -> 2
	// 0 -> 1
}
