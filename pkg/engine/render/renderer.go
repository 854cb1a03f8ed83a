// Package render draws an assembled graph as a layered PNG.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/DrSkyle/dtigraph/pkg/config"
	"github.com/DrSkyle/dtigraph/pkg/graph"
	"github.com/DrSkyle/dtigraph/pkg/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	targetColor     = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	drugColor       = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	similarColor    = color.RGBA{R: 0x1f, G: 0x78, B: 0xb4, A: 255}
	historicalColor = color.RGBA{R: 255, G: 215, B: 0, A: 255}
	edgeColor       = color.Gray{Y: 0}
)

// loopRadius is the radius of a self loop in layout units. The loop sits to
// the right of its node.
const loopRadius = 0.06

// Categories selects the node styling. Names missing from the graph are
// ignored.
type Categories struct {
	Targets           []string
	Drug              string
	SimilarDrugs      []string
	HistoricalTargets []string
}

type category struct {
	names []string
	style draw.GlyphStyle
}

// Renderer writes graph images to a store.
type Renderer struct {
	Store  storage.BlobStore
	Config config.RenderConfig
}

func New(store storage.BlobStore, cfg config.RenderConfig) *Renderer {
	return &Renderer{Store: store, Config: cfg.WithDefaults()}
}

// FileName is the artifact name for drug with the given extension.
func FileName(drug, ext string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', '\n', '\t', ':':
			return '_'
		}
		return r
	}, drug)
	return fmt.Sprintf("dti_graph_%s.%s", safe, ext)
}

// Render draws g and stores it as dti_graph_<drug>.png. It returns the
// location of the written image.
func (r *Renderer) Render(ctx context.Context, g *graph.Graph, cats Categories) (string, error) {
	_, span := otel.Tracer("dtigraph/render").Start(ctx, "Renderer.Render")
	defer span.End()

	p, err := r.Plot(g, cats)
	if err != nil {
		return "", err
	}

	size := vg.Length(r.Config.SizeInches) * vg.Inch
	wt, err := p.WriterTo(size, size, "png")
	if err != nil {
		return "", fmt.Errorf("failed to create png canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}

	key := FileName(cats.Drug, "png")
	if err := r.Store.Put(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", key, err)
	}

	span.SetAttributes(
		attribute.String("render.file", key),
		attribute.Int("render.bytes", buf.Len()),
	)
	return r.Store.Location(key), nil
}

// Plot lays g out by layer and builds the figure without encoding it.
func (r *Renderer) Plot(g *graph.Graph, cats Categories) (*plot.Plot, error) {
	cfg := r.Config
	pos := graph.MultipartiteLayout(g)

	p := plot.New()
	p.Title.Text = "DTI graph: " + cats.Drug
	p.HideAxes()

	// Edges go under the markers.
	lines, edgeLabels, err := edgePlotters(g, pos)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		p.Add(l)
	}

	radius := vg.Points(cfg.NodeRadius)
	cats4 := []category{
		{cats.Targets, draw.GlyphStyle{Color: targetColor, Radius: radius, Shape: draw.BoxGlyph{}}},
		{[]string{cats.Drug}, draw.GlyphStyle{Color: drugColor, Radius: radius * 1.2, Shape: HexagonGlyph{}}},
		{cats.SimilarDrugs, draw.GlyphStyle{Color: similarColor, Radius: radius, Shape: draw.CircleGlyph{}}},
		{cats.HistoricalTargets, draw.GlyphStyle{Color: historicalColor, Radius: radius, Shape: draw.BoxGlyph{}}},
	}
	for _, c := range cats4 {
		var xys plotter.XYs
		for _, name := range c.names {
			if pt, ok := pos[name]; ok {
				xys = append(xys, plotter.XY{X: pt.X, Y: pt.Y})
			}
		}
		if len(xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle = c.style
		p.Add(sc)
	}

	if len(edgeLabels.XYs) > 0 {
		labels, err := plotter.NewLabels(edgeLabels)
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}

	var nodeLabels plotter.XYLabels
	for _, n := range g.Nodes() {
		pt := pos[n.Name]
		nodeLabels.XYs = append(nodeLabels.XYs, plotter.XY{X: pt.X, Y: pt.Y + cfg.LabelOffset})
		nodeLabels.Labels = append(nodeLabels.Labels, n.Name)
	}
	if len(nodeLabels.XYs) > 0 {
		labels, err := plotter.NewLabels(nodeLabels)
		if err != nil {
			return nil, err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].XAlign = text.XCenter
		}
		p.Add(labels)
	}

	setBounds(p, pos, cfg)
	return p, nil
}

// edgePlotters draws one line per edge, a small circle for a self loop, and
// collects the weight labels of weighted edges.
func edgePlotters(g *graph.Graph, pos map[string]graph.Position) ([]*plotter.Line, plotter.XYLabels, error) {
	var (
		lines  []*plotter.Line
		labels plotter.XYLabels
	)
	for _, e := range g.Edges() {
		a, b := pos[e.F.Name], pos[e.T.Name]
		xys := plotter.XYs{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}}
		mid := plotter.XY{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
		if e.SelfLoop() {
			xys = loopXYs(a)
			mid = plotter.XY{X: a.X + 2*loopRadius, Y: a.Y}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, labels, err
		}
		line.LineStyle.Color = edgeColor
		line.LineStyle.Width = vg.Points(1)
		lines = append(lines, line)

		if e.Weighted {
			labels.XYs = append(labels.XYs, mid)
			labels.Labels = append(labels.Labels, graph.FormatWeight(e.W))
		}
	}
	return lines, labels, nil
}

// loopXYs traces a closed circle through p, centered loopRadius to its right.
func loopXYs(p graph.Position) plotter.XYs {
	const steps = 24
	cx := p.X + loopRadius
	xys := make(plotter.XYs, steps+1)
	for i := range xys {
		a := math.Pi + 2*math.Pi*float64(i)/steps
		xys[i] = plotter.XY{X: cx + loopRadius*math.Cos(a), Y: p.Y + loopRadius*math.Sin(a)}
	}
	return xys
}

// setBounds widens the data range of both axes by cfg.BoundsPad, split
// evenly between the two sides.
func setBounds(p *plot.Plot, pos map[string]graph.Position, cfg config.RenderConfig) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, pt := range pos {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y+cfg.LabelOffset)
	}
	if len(pos) == 0 {
		minX, maxX, minY, maxY = -1, 1, -1, 1
	}

	pad := func(lo, hi float64) (float64, float64) {
		span := hi - lo
		if span == 0 {
			span = 1
		}
		d := span * cfg.BoundsPad / 2
		return lo - d, hi + d
	}
	p.X.Min, p.X.Max = pad(minX, maxX)
	p.Y.Min, p.Y.Max = pad(minY, maxY)
}
