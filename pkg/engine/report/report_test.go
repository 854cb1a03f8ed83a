package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DrSkyle/dtigraph/pkg/engine/loader"
	"github.com/DrSkyle/dtigraph/pkg/graph"
	"github.com/DrSkyle/dtigraph/pkg/storage"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioGraph(t *testing.T) *graph.Graph {
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
	return g
}

func TestWriteJSON_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Build(scenarioGraph(t), "D1")))

	gold := goldie.New(t)
	gold.Assert(t, "scenario_json", buf.Bytes())
}

func TestWriteCSV_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Build(scenarioGraph(t), "D1")))

	gold := goldie.New(t)
	gold.Assert(t, "scenario_csv", buf.Bytes())
}

func TestEncode_DOT(t *testing.T) {
	data, err := Encode(scenarioGraph(t), "D1", FormatDOT)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "strict graph dti_D1 {"))
	assert.Contains(t, out, "D2 -- T3;")
	assert.Contains(t, out, "weight=0.9123")
}

func TestBuild_KindSurvivesRetag(t *testing.T) {
	g := scenarioGraph(t)
	// T1 is also a historical target of D2; the later tag wins.
	g.AddNode("T1", graph.LayerHistoricalTarget)
	require.NoError(t, g.AddUnweightedEdge("T1", "D2", graph.KindHistorical))

	doc := Build(g, "D1")
	edges := map[string]EdgeItem{}
	for _, e := range doc.Edges {
		edges[e.Source+"-"+e.Target] = e
	}

	dti := edges["T1-D1"]
	assert.Equal(t, graph.KindDTI, dti.Kind)
	require.NotNil(t, dti.Weight)
	assert.Equal(t, 5.1235, *dti.Weight)

	hist := edges["T1-D2"]
	assert.Equal(t, graph.KindHistorical, hist.Kind)
	assert.Nil(t, hist.Weight)
}

func TestWriteCSV_SelfLoop(t *testing.T) {
	g := graph.New()
	g.AddNode("D1", graph.LayerDrug)
	require.NoError(t, g.AddEdge("D1", "D1", 1, graph.KindDDI))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Build(g, "D1")))
	assert.Equal(t, "source,target,kind,weight\nD1,D1,ddi,1.0\n", buf.String())
}

func TestExport_WritesToStore(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	store := storage.NewLocalStore(root)

	loc, err := Export(context.Background(), store, scenarioGraph(t), "D1", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "dti_graph_D1.csv"), loc)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "source,target,kind,weight\n"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("graphml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, Summary{
		Drug:      "D1",
		Targets:   2,
		Drugs:     1,
		DTISample: []loader.TargetScore{{Target: "T1", Affinity: 5.1235}, {Target: "T2", Affinity: 3}},
		DDISample: &loader.Similarity{Drug: "D1", Similar: "D2", Score: 0.9123},
		Retagged:  []string{"T1"},
		Location:  "dtigraph-out/dti_graph_D1.png",
	})

	out := buf.String()
	assert.Contains(t, out, "2, # of drugs: 1")
	assert.Contains(t, out, "[(T1, 5.1235), (T2, 3.0)]")
	assert.Contains(t, out, "(D1, D2, 0.9123)")
	assert.Contains(t, out, "none")
	assert.Contains(t, out, "T1")
	assert.Contains(t, out, "dtigraph-out/dti_graph_D1.png")
}
