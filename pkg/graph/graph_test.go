package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNodes(t *testing.T) {
	t.Run("nodes keep insertion order and layer", func(t *testing.T) {
		g := New()
		g.AddNodes([]string{"T1", "T2"}, LayerTarget)
		g.AddNode("D1", LayerDrug)

		nodes := g.Nodes()
		require.Len(t, nodes, 3)
		assert.Equal(t, "T1", nodes[0].Name)
		assert.Equal(t, "D1", nodes[2].Name)
		assert.Equal(t, LayerDrug, nodes[2].Layer)
		assert.Len(t, g.NodesIn(LayerTarget), 2)
	})

	t.Run("re-added node takes the last layer", func(t *testing.T) {
		g := New()
		g.AddNodes([]string{"T1", "T3"}, LayerTarget)
		retagged := g.AddNodes([]string{"T3"}, LayerHistoricalTarget)

		assert.Equal(t, []string{"T3"}, retagged)
		assert.Equal(t, 2, g.NodeCount())
		n, ok := g.Node("T3")
		require.True(t, ok)
		assert.Equal(t, LayerHistoricalTarget, n.Layer)
	})

	t.Run("re-adding with the same layer is not a retag", func(t *testing.T) {
		g := New()
		g.AddNode("T1", LayerTarget)
		_, retagged := g.AddNode("T1", LayerTarget)
		assert.False(t, retagged)
	})
}

func TestAddEdge(t *testing.T) {
	t.Run("edge endpoints must exist", func(t *testing.T) {
		g := New()
		g.AddNode("T1", LayerTarget)

		err := g.AddEdge("T1", "D1", 5.0, KindDTI)
		assert.ErrorIs(t, err, ErrUnknownNode)
		assert.Equal(t, 0, g.EdgeCount())
	})

	t.Run("self loops are kept", func(t *testing.T) {
		g := New()
		g.AddNode("D1", LayerDrug)
		g.AddNode("D2", LayerSimilarDrug)
		require.NoError(t, g.AddEdge("D1", "D1", 1, KindDDI))
		require.NoError(t, g.AddEdge("D1", "D2", 0.9, KindDDI))

		assert.Equal(t, 2, g.EdgeCount())
		edges := g.Edges()
		require.Len(t, edges, 2)
		assert.True(t, edges[0].SelfLoop())
		assert.Equal(t, 1.0, edges[0].W)
		assert.False(t, edges[1].SelfLoop())

		e, ok := g.Edge("D1", "D1")
		require.True(t, ok)
		assert.Equal(t, KindDDI, e.Kind)
	})

	t.Run("weighted and unweighted edges", func(t *testing.T) {
		g := New()
		g.AddNode("T1", LayerTarget)
		g.AddNode("D1", LayerDrug)
		g.AddNode("T3", LayerHistoricalTarget)

		require.NoError(t, g.AddEdge("T1", "D1", 5.1235, KindDTI))
		require.NoError(t, g.AddUnweightedEdge("T3", "D1", KindHistorical))

		e, ok := g.Edge("D1", "T1")
		require.True(t, ok)
		assert.True(t, e.Weighted)
		assert.Equal(t, 5.1235, e.W)
		assert.Equal(t, "D1", e.F.Name)

		h, ok := g.Edge("T3", "D1")
		require.True(t, ok)
		assert.False(t, h.Weighted)
		assert.Nil(t, h.Attributes())
	})

	t.Run("unweighted re-add keeps the weight", func(t *testing.T) {
		g := New()
		g.AddNode("A", LayerDrug)
		g.AddNode("B", LayerSimilarDrug)

		require.NoError(t, g.AddEdge("A", "B", 0.9, KindDDI))
		require.NoError(t, g.AddUnweightedEdge("B", "A", KindHistorical))

		e, ok := g.Edge("A", "B")
		require.True(t, ok)
		assert.True(t, e.Weighted)
		assert.Equal(t, 0.9, e.W)
		assert.Equal(t, KindDDI, e.Kind)
		assert.Equal(t, 1, g.EdgeCount())
	})

	t.Run("weighted re-add overwrites the weight", func(t *testing.T) {
		g := New()
		g.AddNode("A", LayerDrug)
		g.AddNode("B", LayerSimilarDrug)

		require.NoError(t, g.AddEdge("A", "B", 0.9, KindDDI))
		require.NoError(t, g.AddEdge("A", "B", 0.7, KindDDI))

		e, _ := g.Edge("A", "B")
		assert.Equal(t, 0.7, e.W)
	})

	t.Run("edges carry the kind they were added with", func(t *testing.T) {
		g := New()
		g.AddNode("T1", LayerTarget)
		g.AddNode("D1", LayerDrug)
		require.NoError(t, g.AddEdge("T1", "D1", 5, KindDTI))
		// T1 moving to the historical layer does not change the edge.
		g.AddNode("T1", LayerHistoricalTarget)

		e, ok := g.Edge("T1", "D1")
		require.True(t, ok)
		assert.Equal(t, KindDTI, e.Kind)
		assert.Equal(t, KindDTI, e.ReversedEdge().(*Edge).Kind)
	})
}

func TestEdgeEndpointsAlwaysTagged(t *testing.T) {
	g := New()
	g.AddNodes([]string{"T1", "T2"}, LayerTarget)
	g.AddNode("D1", LayerDrug)
	g.AddNode("D2", LayerSimilarDrug)
	require.NoError(t, g.AddEdge("T1", "D1", 5, KindDTI))
	require.NoError(t, g.AddEdge("D1", "D2", 0.9, KindDDI))

	for _, e := range g.Edges() {
		for _, end := range []string{e.F.Name, e.T.Name} {
			n, ok := g.Node(end)
			require.True(t, ok, "endpoint %s missing", end)
			assert.GreaterOrEqual(t, int(n.Layer), int(LayerTarget))
			assert.LessOrEqual(t, int(n.Layer), int(LayerHistoricalTarget))
		}
	}
}

func TestStats(t *testing.T) {
	g := New()
	g.AddNodes([]string{"T1", "T2"}, LayerTarget)
	g.AddNode("D1", LayerDrug)
	g.AddNode("D2", LayerSimilarDrug)
	g.AddNode("T3", LayerHistoricalTarget)
	require.NoError(t, g.AddEdge("T1", "D1", 5, KindDTI))
	require.NoError(t, g.AddEdge("D1", "D2", 0.9, KindDDI))
	require.NoError(t, g.AddUnweightedEdge("T3", "D2", KindHistorical))

	s := g.Stats()
	assert.Equal(t, 5, s.Nodes)
	assert.Equal(t, 3, s.Edges)
	assert.Equal(t, 2, s.WeightedEdges)
	assert.Equal(t, 1, s.Isolated)
	assert.Equal(t, 2, s.Components)
	assert.Equal(t, 2, s.PerLayer[LayerTarget])
}

func TestStats_SelfLoop(t *testing.T) {
	g := New()
	g.AddNode("D1", LayerDrug)
	g.AddNode("D9", LayerSimilarDrug)
	require.NoError(t, g.AddEdge("D1", "D1", 1, KindDDI))

	s := g.Stats()
	assert.Equal(t, 1, s.Edges)
	assert.Equal(t, 1, s.WeightedEdges)
	assert.Equal(t, 1, s.Isolated)
	assert.Equal(t, 2, s.Components)
}

func TestFormatWeight(t *testing.T) {
	assert.Equal(t, "3.0", FormatWeight(3))
	assert.Equal(t, "5.1235", FormatWeight(5.1235))
	assert.Equal(t, "0.9123", FormatWeight(0.9123))
	assert.Equal(t, "-1.0", FormatWeight(-1))
}

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(4)
	uf.Union(0, 1)
	uf.Union(2, 3)

	assert.Equal(t, uf.Find(0), uf.Find(1))
	assert.NotEqual(t, uf.Find(1), uf.Find(2))
	assert.Equal(t, -1, uf.Find(9))
}
