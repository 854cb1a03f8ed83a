package engine

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/DrSkyle/dtigraph/pkg/engine/loader"
	"github.com/DrSkyle/dtigraph/pkg/engine/render"
	"github.com/DrSkyle/dtigraph/pkg/engine/report"
	"github.com/DrSkyle/dtigraph/pkg/graph"
	"go.opentelemetry.io/otel/attribute"
)

// Result is everything one run produced.
type Result struct {
	// Drug is the focal drug as shown in the graph; DrugID is its canonical id.
	Drug   string
	DrugID string

	Targets     []string
	Drugs       []string
	DTIs        []loader.TargetScore
	DDIs        []loader.Similarity
	SimilarDrug []string
	PrevDTIs    []loader.HistoricalEdge
	PrevTargets []string

	Graph    *graph.Graph
	Stats    graph.Stats
	Retagged []string
	Dropped  int

	// Location is where the image or export was written.
	Location string
}

// Summary converts r into the printable run summary.
func (r *Result) Summary() report.Summary {
	s := report.Summary{
		Drug:          r.Drug,
		Targets:       len(r.Targets),
		Drugs:         len(r.Drugs),
		DTISample:     r.DTIs,
		Stats:         r.Stats,
		Location:      r.Location,
		Retagged:      r.Retagged,
		DroppedByRule: r.Dropped,
	}
	if len(r.DDIs) > 0 {
		s.DDISample = &r.DDIs[0]
	}
	if len(r.PrevDTIs) > 0 {
		s.PrevSample = &r.PrevDTIs[0]
	}
	return s
}

func (e *Engine) run(ctx context.Context, requested string) (*Result, error) {
	in, err := e.Interactions(ctx)
	if err != nil {
		return nil, err
	}
	tr := e.translation

	drug, drugID, err := resolveDrug(in, requested, tr)
	if err != nil {
		return nil, err
	}
	e.Logger.Info("Building graph", "drug", drug, "drug_id", drugID)

	rules, err := e.ruleFilter(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Drug:    drug,
		DrugID:  drugID,
		Targets: in.Targets,
		Drugs:   in.Drugs,
	}

	res.DTIs = e.filterDTIs(ctx, rules, drug, in.For(drug), &res.Dropped)

	sims, err := e.similarities(ctx, drugID, tr)
	if err != nil {
		return nil, err
	}
	res.DDIs = e.filterDDIs(ctx, rules, drug, sims, &res.Dropped)
	res.SimilarDrug = make([]string, 0, len(res.DDIs))
	for _, s := range res.DDIs {
		res.SimilarDrug = append(res.SimilarDrug, s.Similar)
	}

	prev, err := e.historical(ctx, res.DDIs, tr)
	if err != nil {
		return nil, err
	}
	res.PrevDTIs = e.filterHistorical(ctx, rules, drug, prev, &res.Dropped)
	res.PrevTargets = make([]string, 0, len(res.PrevDTIs))
	for _, h := range res.PrevDTIs {
		res.PrevTargets = append(res.PrevTargets, h.Target)
	}

	if err := e.assemble(ctx, res); err != nil {
		return nil, err
	}

	if err := e.write(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// resolveDrug returns the focal drug in display form and canonical form.
func resolveDrug(in *loader.Interactions, requested string, tr *loader.Translation) (string, string, error) {
	if requested == "" {
		if len(in.Drugs) == 0 {
			return "", "", ErrNoDrugs
		}
		requested = in.Drugs[0]
	}

	name := tr.DrugName(requested)
	if !in.HasDrug(name) {
		return "", "", fmt.Errorf("%w: %s", ErrDrugNotFound, requested)
	}
	id := requested
	if tr.TranslatesDrugs() {
		id = tr.DrugID(name)
	}
	return name, id, nil
}

func (e *Engine) readInteractions(ctx context.Context, tr *loader.Translation) (*loader.Interactions, error) {
	data, err := e.resolver.ReadFile(ctx, e.config.Paths.DTI)
	if err != nil {
		return nil, fmt.Errorf("failed to read interactions: %w", err)
	}
	in, err := loader.LoadInteractions(bytes.NewReader(data), e.config.Columns, tr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.config.Paths.DTI, err)
	}
	return in, nil
}

// loadTranslation reads the optional alias tables. When only one direction
// is given the other is its inverse.
func (e *Engine) loadTranslation(ctx context.Context) (*loader.Translation, error) {
	if e.translation != nil {
		return e.translation, nil
	}

	tr := &loader.Translation{TargetLabels: e.config.TargetLabels}
	var err error
	if tr.IDToName, err = e.readAliases(ctx, e.config.Paths.IDToName); err != nil {
		return nil, err
	}
	if tr.NameToID, err = e.readAliases(ctx, e.config.Paths.NameToID); err != nil {
		return nil, err
	}
	switch {
	case tr.IDToName != nil && tr.NameToID == nil:
		tr.NameToID = invert(tr.IDToName)
	case tr.NameToID != nil && tr.IDToName == nil:
		tr.IDToName = invert(tr.NameToID)
	}

	e.translation = tr
	return tr, nil
}

func (e *Engine) readAliases(ctx context.Context, path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	format, err := loader.FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := e.resolver.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read aliases: %w", err)
	}
	table, err := loader.ParseAliasTable(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	e.Logger.Debug("Loaded alias table", "path", path, "entries", len(table))
	return table, nil
}

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func (e *Engine) similarities(ctx context.Context, drugID string, tr *loader.Translation) ([]loader.Similarity, error) {
	ctx, span := e.Tracer.Start(ctx, "load.similarities")
	defer span.End()

	path := e.config.Paths.DDI
	format, err := loader.FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := e.resolver.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read similarities: %w", err)
	}
	table, err := loader.ParseSimilarityTable(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	sims, _ := loader.Similarities(table, drugID, tr)
	if len(sims) == 0 {
		e.Logger.Info("No similar drugs", "drug_id", drugID)
	}
	span.SetAttributes(attribute.Int("ddi.edges", len(sims)))
	return sims, nil
}

func (e *Engine) historical(ctx context.Context, sims []loader.Similarity, tr *loader.Translation) ([]loader.HistoricalEdge, error) {
	ctx, span := e.Tracer.Start(ctx, "resolve.historical")
	defer span.End()

	path := e.config.Paths.PrevDTI
	format, err := loader.FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := e.resolver.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read historical interactions: %w", err)
	}
	table, err := loader.ParseTargetTable(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var reference []string
	if !e.config.NoFilter {
		data, err := e.resolver.ReadFile(ctx, e.config.Paths.PrevCov)
		if err != nil {
			return nil, fmt.Errorf("failed to read reference targets: %w", err)
		}
		reference, err = loader.LoadReferenceTargets(bytes.NewReader(data), e.config.Columns.PrevCov)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.config.Paths.PrevCov, err)
		}
	}

	edges, _ := loader.ResolveHistorical(sims, table, reference, loader.HistoricalOptions{Unfiltered: e.config.NoFilter}, tr)
	span.SetAttributes(
		attribute.Int("historical.edges", len(edges)),
		attribute.Bool("historical.filtered", !e.config.NoFilter),
	)
	return edges, nil
}

func (e *Engine) assemble(ctx context.Context, res *Result) error {
	ctx, span := e.Tracer.Start(ctx, "assemble")
	defer span.End()

	out, err := Assemble(Assembly{
		Targets:           res.Targets,
		Drug:              res.Drug,
		SimilarDrugs:      res.SimilarDrug,
		HistoricalTargets: res.PrevTargets,
		Interactions:      res.DTIs,
		Similarities:      res.DDIs,
		Historical:        res.PrevDTIs,
	})
	if err != nil {
		return err
	}

	res.Graph = out.Graph
	res.Stats = out.Graph.Stats()
	res.Retagged = out.Retagged

	if len(out.Retagged) > 0 {
		e.Logger.Warn("Nodes appear in more than one layer; last layer wins", "nodes", strings.Join(out.Retagged, ","))
	}

	for layer, n := range res.Stats.PerLayer {
		e.counters.Graph(ctx, layer.String(), n)
	}
	e.counters.Edges(ctx, string(graph.KindDTI), len(res.DTIs))
	e.counters.Edges(ctx, string(graph.KindDDI), len(res.DDIs))
	e.counters.Edges(ctx, string(graph.KindHistorical), len(res.PrevDTIs))

	span.SetAttributes(
		attribute.Int("graph.nodes", res.Stats.Nodes),
		attribute.Int("graph.edges", res.Stats.Edges),
		attribute.Int("graph.retagged", len(out.Retagged)),
	)
	return nil
}

func (e *Engine) write(ctx context.Context, res *Result) error {
	store, err := e.resolver.Dir(ctx, e.config.Paths.Output)
	if err != nil {
		return err
	}

	format := strings.ToLower(e.config.Format)
	if format == "" || format == "png" {
		cats := render.Categories{
			Targets:           res.Targets,
			Drug:              res.Drug,
			SimilarDrugs:      res.SimilarDrug,
			HistoricalTargets: res.PrevTargets,
		}
		res.Location, err = render.New(store, e.config.Render).Render(ctx, res.Graph, cats)
		if err != nil {
			return err
		}
		e.counters.Artifact(ctx, "png")
		e.Logger.Info("Saved graph image", "location", res.Location)
		return nil
	}

	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	ctx, span := e.Tracer.Start(ctx, "export")
	defer span.End()
	span.SetAttributes(attribute.String("export.format", string(f)))

	res.Location, err = report.Export(ctx, store, res.Graph, res.Drug, f)
	if err != nil {
		return err
	}
	e.counters.Artifact(ctx, string(f))
	e.Logger.Info("Exported graph", "location", res.Location, "format", f)
	return nil
}
