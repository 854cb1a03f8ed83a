package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DrSkyle/dtigraph/pkg/config"
	"github.com/DrSkyle/dtigraph/pkg/graph"
	"github.com/DrSkyle/dtigraph/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph(t *testing.T) (*graph.Graph, Categories) {
	t.Helper()
	g := graph.New()
	g.AddNodes([]string{"T1", "T2"}, graph.LayerTarget)
	g.AddNode("D1", graph.LayerDrug)
	g.AddNode("D2", graph.LayerSimilarDrug)
	g.AddNode("T3", graph.LayerHistoricalTarget)
	require.NoError(t, g.AddEdge("T1", "D1", 5.1235, graph.KindDTI))
	require.NoError(t, g.AddEdge("T2", "D1", 3.0, graph.KindDTI))
	require.NoError(t, g.AddEdge("D1", "D2", 0.9123, graph.KindDDI))
	require.NoError(t, g.AddUnweightedEdge("T3", "D2", graph.KindHistorical))

	return g, Categories{
		Targets:           []string{"T1", "T2"},
		Drug:              "D1",
		SimilarDrugs:      []string{"D2"},
		HistoricalTargets: []string{"T3"},
	}
}

func TestRender_WritesPNG(t *testing.T) {
	g, cats := sampleGraph(t)
	root := filepath.Join(t.TempDir(), "out")
	r := New(storage.NewLocalStore(root), config.DefaultRenderConfig())

	loc, err := r.Render(context.Background(), g, cats)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "dti_graph_D1.png"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")), "expected a PNG header")
}

func TestPlot_BoundsWidened(t *testing.T) {
	g, cats := sampleGraph(t)
	r := New(storage.NewLocalStore(t.TempDir()), config.DefaultRenderConfig())

	p, err := r.Plot(g, cats)
	require.NoError(t, err)

	pos := graph.MultipartiteLayout(g)
	minX, maxX := pos["T1"].X, pos["T3"].X
	pad := (maxX - minX) * 0.25
	assert.InDelta(t, minX-pad, p.X.Min, 1e-9)
	assert.InDelta(t, maxX+pad, p.X.Max, 1e-9)
	assert.Less(t, p.Y.Min, -0.3)
	assert.Greater(t, p.Y.Max, 0.3)
}

func TestPlot_ZeroPadding(t *testing.T) {
	g, cats := sampleGraph(t)
	cfg := config.DefaultRenderConfig()
	cfg.BoundsPad = 0
	r := New(storage.NewLocalStore(t.TempDir()), cfg)

	p, err := r.Plot(g, cats)
	require.NoError(t, err)

	pos := graph.MultipartiteLayout(g)
	assert.InDelta(t, pos["T1"].X, p.X.Min, 1e-9)
	assert.InDelta(t, pos["T3"].X, p.X.Max, 1e-9)
}

func TestPlot_SelfLoopDrawnWithLabel(t *testing.T) {
	g, cats := sampleGraph(t)
	require.NoError(t, g.AddEdge("D1", "D1", 1, graph.KindDDI))

	lines, labels, err := edgePlotters(g, graph.MultipartiteLayout(g))
	require.NoError(t, err)
	require.Len(t, lines, 5)

	loop := lines[len(lines)-1]
	assert.Greater(t, len(loop.XYs), 2, "a self loop is drawn as a circle")
	assert.Equal(t, []string{"5.1235", "3.0", "0.9123", "1.0"}, labels.Labels)

	r := New(storage.NewLocalStore(t.TempDir()), config.DefaultRenderConfig())
	_, err = r.Render(context.Background(), g, cats)
	assert.NoError(t, err)
}

func TestLoopXYs(t *testing.T) {
	xys := loopXYs(graph.Position{X: 0.5, Y: -0.2})
	require.NotEmpty(t, xys)
	assert.InDelta(t, 0.5, xys[0].X, 1e-9)
	assert.InDelta(t, -0.2, xys[0].Y, 1e-9)
	assert.InDelta(t, xys[0].X, xys[len(xys)-1].X, 1e-9)
	for _, pt := range xys {
		assert.GreaterOrEqual(t, pt.X, 0.5-1e-9)
		assert.LessOrEqual(t, pt.X, 0.5+2*loopRadius+1e-9)
	}
}

func TestRender_EmptyGraph(t *testing.T) {
	r := New(storage.NewLocalStore(t.TempDir()), config.DefaultRenderConfig())
	_, err := r.Render(context.Background(), graph.New(), Categories{Drug: "D9"})
	assert.NoError(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "dti_graph_DB00811.png", FileName("DB00811", "png"))
	assert.Equal(t, "dti_graph_folic_acid.dot", FileName("folic acid", "dot"))
	assert.Equal(t, "dti_graph_a_b.csv", FileName("a/b", "csv"))
}
