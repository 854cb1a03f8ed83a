package engine

import (
	"context"

	"github.com/DrSkyle/dtigraph/pkg/engine/loader"
	"github.com/DrSkyle/dtigraph/pkg/engine/policy"
	"github.com/DrSkyle/dtigraph/pkg/graph"
)

// The filters below drop edges matched by a drop rule and count them in
// dropped. A nil filter keeps everything.

func (e *Engine) filterDTIs(ctx context.Context, f *policy.Filter, focal string, in []loader.TargetScore, dropped *int) []loader.TargetScore {
	if f == nil {
		return in
	}
	out := make([]loader.TargetScore, 0, len(in))
	for _, ts := range in {
		facts := policy.EdgeFacts{Kind: graph.KindDTI, Source: ts.Target, Target: focal, Weight: ts.Affinity, Focal: focal}
		if e.keep(ctx, f, facts, dropped) {
			out = append(out, ts)
		}
	}
	return out
}

func (e *Engine) filterDDIs(ctx context.Context, f *policy.Filter, focal string, in []loader.Similarity, dropped *int) []loader.Similarity {
	if f == nil {
		return in
	}
	out := make([]loader.Similarity, 0, len(in))
	for _, s := range in {
		facts := policy.EdgeFacts{Kind: graph.KindDDI, Source: s.Drug, Target: s.Similar, Weight: s.Score, Focal: focal}
		if e.keep(ctx, f, facts, dropped) {
			out = append(out, s)
		}
	}
	return out
}

func (e *Engine) filterHistorical(ctx context.Context, f *policy.Filter, focal string, in []loader.HistoricalEdge, dropped *int) []loader.HistoricalEdge {
	if f == nil {
		return in
	}
	out := make([]loader.HistoricalEdge, 0, len(in))
	for _, h := range in {
		facts := policy.EdgeFacts{Kind: graph.KindHistorical, Source: h.Target, Target: h.Drug, Weight: h.Weight, Focal: focal}
		if e.keep(ctx, f, facts, dropped) {
			out = append(out, h)
		}
	}
	return out
}

func (e *Engine) keep(ctx context.Context, f *policy.Filter, facts policy.EdgeFacts, dropped *int) bool {
	keep, rule := f.Keep(facts)
	if !keep {
		*dropped++
		e.counters.Dropped(ctx, rule)
		e.Logger.Debug("Edge dropped by rule", "rule", rule, "kind", facts.Kind, "source", facts.Source, "target", facts.Target)
	}
	return keep
}
