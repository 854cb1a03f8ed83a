package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Counters records what each run produced.
type Counters struct {
	nodes   metric.Int64Counter
	edges   metric.Int64Counter
	dropped metric.Int64Counter
	renders metric.Int64Counter
}

func NewCounters(m metric.Meter) (*Counters, error) {
	nodes, err := m.Int64Counter("dtigraph.nodes", metric.WithDescription("Nodes added to assembled graphs"))
	if err != nil {
		return nil, fmt.Errorf("nodes counter: %w", err)
	}
	edges, err := m.Int64Counter("dtigraph.edges", metric.WithDescription("Edges added to assembled graphs"))
	if err != nil {
		return nil, fmt.Errorf("edges counter: %w", err)
	}
	dropped, err := m.Int64Counter("dtigraph.edges.dropped", metric.WithDescription("Edges removed by rules"))
	if err != nil {
		return nil, fmt.Errorf("dropped counter: %w", err)
	}
	renders, err := m.Int64Counter("dtigraph.artifacts", metric.WithDescription("Images and exports written"))
	if err != nil {
		return nil, fmt.Errorf("artifacts counter: %w", err)
	}
	return &Counters{nodes: nodes, edges: edges, dropped: dropped, renders: renders}, nil
}

// Graph records nodes added for one layer.
func (c *Counters) Graph(ctx context.Context, layer string, nodes int) {
	c.nodes.Add(ctx, int64(nodes), metric.WithAttributes(attribute.String("layer", layer)))
}

func (c *Counters) Edges(ctx context.Context, kind string, n int) {
	c.edges.Add(ctx, int64(n), metric.WithAttributes(attribute.String("kind", kind)))
}

func (c *Counters) Dropped(ctx context.Context, rule string) {
	c.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", rule)))
}

func (c *Counters) Artifact(ctx context.Context, format string) {
	c.renders.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}
