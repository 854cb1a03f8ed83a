package graph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/DrSkyle/dtigraph/pkg/sys/intern"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/simple"
)

// ErrUnknownNode is returned when an edge names a node that was never added.
var ErrUnknownNode = errors.New("unknown node")

// Layer places a node in one band of the multipartite drawing.
type Layer int

const (
	LayerTarget Layer = iota
	LayerDrug
	LayerSimilarDrug
	LayerHistoricalTarget
)

func (l Layer) String() string {
	switch l {
	case LayerTarget:
		return "target"
	case LayerDrug:
		return "drug"
	case LayerSimilarDrug:
		return "similar_drug"
	case LayerHistoricalTarget:
		return "historical_target"
	}
	return "layer" + strconv.Itoa(int(l))
}

// Node is a named vertex tagged with its layer.
type Node struct {
	id    int64
	Name  string
	Layer Layer
}

func (n *Node) ID() int64 { return n.id }

// DOTID implements dot.Node.
func (n *Node) DOTID() string { return n.Name }

// Attributes implements encoding.Attributer.
func (n *Node) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "layer", Value: strconv.Itoa(int(n.Layer))}}
}

// Kind says which relation an edge was added for.
type Kind string

const (
	KindDTI        Kind = "dti"
	KindDDI        Kind = "ddi"
	KindHistorical Kind = "historical"
)

// Edge is an undirected edge. Weighted is false for edges drawn without a weight.
type Edge struct {
	F, T     *Node
	W        float64
	Weighted bool
	Kind     Kind
}

// SelfLoop reports whether both ends are the same node.
func (e *Edge) SelfLoop() bool { return e.F == e.T }

func (e *Edge) From() graph.Node { return e.F }

func (e *Edge) To() graph.Node { return e.T }

func (e *Edge) ReversedEdge() graph.Edge {
	return &Edge{F: e.T, T: e.F, W: e.W, Weighted: e.Weighted, Kind: e.Kind}
}

// Attributes implements encoding.Attributer.
func (e *Edge) Attributes() []encoding.Attribute {
	if !e.Weighted {
		return nil
	}
	w := FormatWeight(e.W)
	return []encoding.Attribute{{Key: "weight", Value: w}, {Key: "label", Value: w}}
}

type edgeKey struct{ a, b int64 }

func keyOf(a, b int64) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Graph is an undirected graph whose nodes carry a layer tag.
// Node and edge listings follow first insertion order. Self loops live
// beside the simple graph, which cannot hold them.
type Graph struct {
	g     *simple.UndirectedGraph
	ids   *intern.Pool
	nodes []*Node
	loops map[int64]*Edge
	order []edgeKey
	seen  map[edgeKey]bool // keyed by keyOf
}

func New() *Graph {
	return &Graph{
		g:     simple.NewUndirectedGraph(),
		ids:   intern.New(),
		loops: make(map[int64]*Edge),
		seen:  make(map[edgeKey]bool),
	}
}

// AddNode adds name with the given layer. A node that already exists keeps
// its identity but takes the new layer; the previous layer is returned with
// retagged set when it differed.
func (g *Graph) AddNode(name string, layer Layer) (previous Layer, retagged bool) {
	if id, ok := g.ids.Lookup(name); ok {
		n := g.g.Node(id).(*Node)
		previous, retagged = n.Layer, n.Layer != layer
		n.Layer = layer
		return previous, retagged
	}
	n := &Node{id: g.ids.Get(name), Name: name, Layer: layer}
	g.g.AddNode(n)
	g.nodes = append(g.nodes, n)
	return layer, false
}

// AddNodes adds every name with the given layer and returns the names whose
// earlier layer was overwritten.
func (g *Graph) AddNodes(names []string, layer Layer) []string {
	var retagged []string
	for _, name := range names {
		if _, changed := g.AddNode(name, layer); changed {
			retagged = append(retagged, name)
		}
	}
	return retagged
}

// Node returns the node called name.
func (g *Graph) Node(name string) (*Node, bool) {
	id, ok := g.ids.Lookup(name)
	if !ok {
		return nil, false
	}
	return g.g.Node(id).(*Node), true
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// NodesIn returns the nodes currently tagged with layer, in insertion order.
func (g *Graph) NodesIn(layer Layer) []*Node {
	var nodes []*Node
	for _, n := range g.nodes {
		if n.Layer == layer {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// AddEdge connects a and b with weight w. Both nodes must already exist; a
// and b may be the same node. Re-adding a pair replaces its weight and kind.
func (g *Graph) AddEdge(a, b string, w float64, kind Kind) error {
	return g.addEdge(a, b, w, true, kind)
}

// AddUnweightedEdge connects a and b without attaching a weight. A pair that
// is already connected with a weight is left as it is.
func (g *Graph) AddUnweightedEdge(a, b string, kind Kind) error {
	return g.addEdge(a, b, 0, false, kind)
}

func (g *Graph) addEdge(a, b string, w float64, weighted bool, kind Kind) error {
	na, ok := g.Node(a)
	if !ok {
		return fmt.Errorf("edge %s-%s: %w: %s", a, b, ErrUnknownNode, a)
	}
	nb, ok := g.Node(b)
	if !ok {
		return fmt.Errorf("edge %s-%s: %w: %s", a, b, ErrUnknownNode, b)
	}
	if !weighted {
		if prev, ok := g.Edge(a, b); ok && prev.Weighted {
			return nil
		}
	}
	e := &Edge{F: na, T: nb, W: w, Weighted: weighted, Kind: kind}
	if na.id == nb.id {
		g.loops[na.id] = e
	} else {
		g.g.SetEdge(e)
	}

	k := keyOf(na.id, nb.id)
	if !g.seen[k] {
		g.seen[k] = true
		g.order = append(g.order, edgeKey{na.id, nb.id})
	}
	return nil
}

// Edge returns the edge between a and b, oriented from a.
func (g *Graph) Edge(a, b string) (*Edge, bool) {
	ia, ok := g.ids.Lookup(a)
	if !ok {
		return nil, false
	}
	ib, ok := g.ids.Lookup(b)
	if !ok {
		return nil, false
	}
	if ia == ib {
		e, ok := g.loops[ia]
		return e, ok
	}
	e, ok := g.g.EdgeBetween(ia, ib).(*Edge)
	return e, ok
}

// Edges returns every edge in first insertion order, oriented as first added.
func (g *Graph) Edges() []*Edge {
	edges := make([]*Edge, 0, len(g.order))
	for _, k := range g.order {
		if k.a == k.b {
			edges = append(edges, g.loops[k.a])
			continue
		}
		if e, ok := g.g.EdgeBetween(k.a, k.b).(*Edge); ok {
			edges = append(edges, e)
		}
	}
	return edges
}

func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount includes self loops.
func (g *Graph) EdgeCount() int { return len(g.order) }

// FormatWeight renders a weight the way edge labels show it: the shortest
// decimal that round-trips, always with a fractional part.
func FormatWeight(w float64) string {
	s := strconv.FormatFloat(w, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
