// Package report exports an assembled graph and prints run summaries.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/DrSkyle/dtigraph/pkg/engine/render"
	"github.com/DrSkyle/dtigraph/pkg/graph"
	"github.com/DrSkyle/dtigraph/pkg/storage"
)

// ErrUnknownFormat is returned for an export format other than dot, json or csv.
var ErrUnknownFormat = errors.New("unknown export format")

// Format is an export encoding. Its value doubles as the file extension.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatDOT, FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// NodeItem matches the JSON node structure.
type NodeItem struct {
	Name  string  `json:"name"`
	Layer int     `json:"layer"`
	Role  string  `json:"role"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// EdgeItem matches the JSON/CSV edge structure.
type EdgeItem struct {
	Source string     `json:"source"`
	Target string     `json:"target"`
	Kind   graph.Kind `json:"kind"`
	Weight *float64   `json:"weight,omitempty"`
}

// Document is the full export of one graph.
type Document struct {
	Drug  string      `json:"drug"`
	Nodes []NodeItem  `json:"nodes"`
	Edges []EdgeItem  `json:"edges"`
	Stats graph.Stats `json:"stats"`
}

// Build collects nodes with their layout positions, edges and stats.
func Build(g *graph.Graph, drug string) Document {
	pos := graph.MultipartiteLayout(g)
	doc := Document{
		Drug:  drug,
		Nodes: []NodeItem{},
		Edges: []EdgeItem{},
		Stats: g.Stats(),
	}
	for _, n := range g.Nodes() {
		p := pos[n.Name]
		doc.Nodes = append(doc.Nodes, NodeItem{
			Name:  n.Name,
			Layer: int(n.Layer),
			Role:  n.Layer.String(),
			X:     round6(p.X),
			Y:     round6(p.Y),
		})
	}
	for _, e := range g.Edges() {
		item := EdgeItem{Source: e.F.Name, Target: e.T.Name, Kind: e.Kind}
		if e.Weighted {
			w := e.W
			item.Weight = &w
		}
		doc.Edges = append(doc.Edges, item)
	}
	return doc
}

func round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteCSV writes one row per edge. Unweighted edges leave weight empty.
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)

	header := []string{"source", "target", "kind", "weight"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, e := range doc.Edges {
		weight := ""
		if e.Weight != nil {
			weight = graph.FormatWeight(*e.Weight)
		}
		if err := cw.Write([]string{e.Source, e.Target, string(e.Kind), weight}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Encode renders g for drug in format f.
func Encode(g *graph.Graph, drug string, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatDOT:
		data, err := graph.MarshalDOT(g, "dti_"+drug)
		if err != nil {
			return nil, fmt.Errorf("failed to encode dot: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case FormatJSON:
		if err := WriteJSON(&buf, Build(g, drug)); err != nil {
			return nil, err
		}
	case FormatCSV:
		if err := WriteCSV(&buf, Build(g, drug)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return buf.Bytes(), nil
}

// Export writes dti_graph_<drug>.<format> to store and returns its location.
func Export(ctx context.Context, store storage.BlobStore, g *graph.Graph, drug string, f Format) (string, error) {
	data, err := Encode(g, drug, f)
	if err != nil {
		return "", err
	}
	key := render.FileName(drug, string(f))
	if err := store.Put(ctx, key, data); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", key, err)
	}
	return store.Location(key), nil
}
