package graph

import (
	"math"
	"sort"
)

// Position is a 2D coordinate in layout units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MultipartiteLayout places each layer on its own vertical line, layers
// ordered left to right by tag, nodes of a layer stacked in insertion order.
// The result is centered on the origin and scaled so the largest absolute
// coordinate is 1.
func MultipartiteLayout(g *Graph) map[string]Position {
	pos := make(map[string]Position, len(g.nodes))
	if len(g.nodes) == 0 {
		return pos
	}

	byLayer := make(map[Layer][]*Node)
	for _, n := range g.nodes {
		byLayer[n.Layer] = append(byLayer[n.Layer], n)
	}
	layers := make([]Layer, 0, len(byLayer))
	for l := range byLayer {
		layers = append(layers, l)
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i] < layers[j] })

	width := float64(len(layers))
	for i, l := range layers {
		nodes := byLayer[l]
		height := float64(len(nodes))
		for j, n := range nodes {
			pos[n.Name] = Position{
				X: float64(i) - (width-1)/2,
				Y: float64(j) - (height-1)/2,
			}
		}
	}

	rescale(pos, g.nodes)
	return pos
}

// rescale centers pos on its mean and scales it into [-1, 1]. Sums run in
// node order so the result does not depend on map iteration.
func rescale(pos map[string]Position, nodes []*Node) {
	var mx, my float64
	for _, n := range nodes {
		mx += pos[n.Name].X
		my += pos[n.Name].Y
	}
	mx /= float64(len(nodes))
	my /= float64(len(nodes))

	var lim float64
	for _, n := range nodes {
		p := pos[n.Name]
		p.X -= mx
		p.Y -= my
		pos[n.Name] = p
		lim = math.Max(lim, math.Max(math.Abs(p.X), math.Abs(p.Y)))
	}
	if lim == 0 {
		return
	}
	for _, n := range nodes {
		p := pos[n.Name]
		pos[n.Name] = Position{X: p.X / lim, Y: p.Y / lim}
	}
}
