package graph

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/iterator"
)

// MarshalDOT encodes g in Graphviz DOT. Nodes carry their layer, weighted
// edges carry weight and label attributes. Self loops are included.
func MarshalDOT(g *Graph, name string) ([]byte, error) {
	return dot.Marshal(dotView{g}, name, "", "\t")
}

// dotView exposes the simple graph plus the self loops kept beside it.
type dotView struct{ g *Graph }

func (v dotView) Node(id int64) graph.Node { return v.g.g.Node(id) }

func (v dotView) Nodes() graph.Nodes { return v.g.g.Nodes() }

func (v dotView) From(id int64) graph.Nodes {
	if _, ok := v.g.loops[id]; !ok {
		return v.g.g.From(id)
	}
	nodes := append(graph.NodesOf(v.g.g.From(id)), v.g.g.Node(id))
	return iterator.NewOrderedNodes(nodes)
}

func (v dotView) HasEdgeBetween(xid, yid int64) bool {
	return v.Edge(xid, yid) != nil
}

func (v dotView) Edge(uid, vid int64) graph.Edge {
	if uid == vid {
		if e, ok := v.g.loops[uid]; ok {
			return e
		}
		return nil
	}
	return v.g.g.Edge(uid, vid)
}
