package engine

import (
	"fmt"

	"github.com/DrSkyle/dtigraph/pkg/engine/loader"
	"github.com/DrSkyle/dtigraph/pkg/graph"
)

// Assembly is everything the graph is built from.
type Assembly struct {
	Targets           []string
	Drug              string
	SimilarDrugs      []string
	HistoricalTargets []string

	Interactions []loader.TargetScore // of Drug only
	Similarities []loader.Similarity
	Historical   []loader.HistoricalEdge
}

// Assembled is the graph plus what assembly had to overwrite or skip.
type Assembled struct {
	Graph *graph.Graph
	// Retagged names appeared in more than one node set; they carry the
	// layer of the last set that named them.
	Retagged []string
}

// Assemble adds targets, the focal drug, similar drugs and historical targets
// as layers 0 to 3, then the interaction and similarity edges with their
// weights and the historical edges without one. Every edge records its kind.
// A drug listed as similar to itself gets a self loop.
func Assemble(in Assembly) (*Assembled, error) {
	g := graph.New()
	out := &Assembled{Graph: g}

	out.Retagged = append(out.Retagged, g.AddNodes(in.Targets, graph.LayerTarget)...)
	out.Retagged = append(out.Retagged, g.AddNodes([]string{in.Drug}, graph.LayerDrug)...)
	out.Retagged = append(out.Retagged, g.AddNodes(in.SimilarDrugs, graph.LayerSimilarDrug)...)
	out.Retagged = append(out.Retagged, g.AddNodes(in.HistoricalTargets, graph.LayerHistoricalTarget)...)

	for _, ts := range in.Interactions {
		if err := g.AddEdge(ts.Target, in.Drug, ts.Affinity, graph.KindDTI); err != nil {
			return nil, fmt.Errorf("interaction edge: %w", err)
		}
	}
	for _, s := range in.Similarities {
		if err := g.AddEdge(s.Drug, s.Similar, s.Score, graph.KindDDI); err != nil {
			return nil, fmt.Errorf("similarity edge: %w", err)
		}
	}
	for _, h := range in.Historical {
		if err := g.AddUnweightedEdge(h.Target, h.Drug, graph.KindHistorical); err != nil {
			return nil, fmt.Errorf("historical edge: %w", err)
		}
	}

	return out, nil
}
