package graph

// Stats summarizes an assembled graph.
type Stats struct {
	Nodes         int           `json:"nodes"`
	Edges         int           `json:"edges"`
	WeightedEdges int           `json:"weighted_edges"`
	PerLayer      map[Layer]int `json:"per_layer"`
	// Isolated counts nodes without any edge, e.g. targets of other drugs.
	// A node whose only edge is a self loop is not isolated.
	Isolated   int `json:"isolated"`
	Components int `json:"components"`
}

// Stats counts nodes per layer, edges, isolated nodes and connected components.
func (g *Graph) Stats() Stats {
	s := Stats{
		Nodes:    len(g.nodes),
		Edges:    len(g.order),
		PerLayer: make(map[Layer]int),
	}

	uf := NewUnionFind(len(g.nodes))
	for _, e := range g.Edges() {
		if e.Weighted {
			s.WeightedEdges++
		}
		uf.Union(int(e.F.id), int(e.T.id))
	}

	roots := make(map[int]bool)
	for _, n := range g.nodes {
		s.PerLayer[n.Layer]++
		if _, loop := g.loops[n.id]; !loop && g.g.From(n.id).Len() == 0 {
			s.Isolated++
		}
		roots[uf.Find(int(n.id))] = true
	}
	s.Components = len(roots)
	return s
}
