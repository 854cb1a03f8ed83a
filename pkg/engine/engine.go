package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/DrSkyle/dtigraph/pkg/config"
	"github.com/DrSkyle/dtigraph/pkg/engine/loader"
	"github.com/DrSkyle/dtigraph/pkg/engine/policy"
	"github.com/DrSkyle/dtigraph/pkg/storage"
	"github.com/DrSkyle/dtigraph/pkg/telemetry"
	"github.com/DrSkyle/dtigraph/pkg/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrDrugNotFound indicates the requested drug is not in the interaction table.
	ErrDrugNotFound = errors.New("drug not found in interaction table")
	// ErrNoDrugs indicates the interaction table has no rows to pick a default drug from.
	ErrNoDrugs = errors.New("interaction table has no drugs")
)

// Config holds engine settings.
type Config struct {
	Paths   config.Paths        `mapstructure:",squash"`
	Columns config.Columns      `mapstructure:"columns"`
	Render  config.RenderConfig `mapstructure:"render"`
	S3      storage.S3Options   `mapstructure:"s3"`

	// Drug is the focal drug; empty picks the first drug of the table.
	Drug string `mapstructure:"drug"`
	// NoFilter keeps historical targets outside the reference list.
	NoFilter bool `mapstructure:"no_filter"`
	// TargetLabels breaks target labels on whitespace.
	TargetLabels bool `mapstructure:"target_labels"`
	// RulesFile is a YAML document of CEL edge rules.
	RulesFile string `mapstructure:"rules"`
	// Format is png (render) or one of dot, json, csv (export).
	Format string `mapstructure:"format"`

	Verbose  bool `mapstructure:"verbose"`
	JsonLogs bool `mapstructure:"json_logs"`

	// Telemetry config.
	OtelEndpoint  string `mapstructure:"otel_endpoint"` // "http://localhost:4318" or via env
	SkipTelemetry bool   `mapstructure:"-"`             // Set true if embedding in an app that already has OTEL

	// Dependencies.
	Logger *slog.Logger `mapstructure:"-"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Paths:   config.DefaultPaths(),
		Columns: config.DefaultColumns(),
		Render:  config.DefaultRenderConfig(),
		Format:  "png",
	}
}

// Engine is the runtime core.
type Engine struct {
	Logger *slog.Logger
	Tracer trace.Tracer

	// Immutable config.
	config Config

	resolver *storage.Resolver
	counters *telemetry.Counters
	shutdown func(context.Context) error

	// Loaded once per engine.
	interactions *loader.Interactions
	translation  *loader.Translation
}

// Option defines a functional configuration override.
type Option func(*Engine)

// New initializes the Engine.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	// Safe defaults.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		ReplaceAttr: RedactSensitiveData,
	})
	e := &Engine{
		Logger: slog.New(handler),
		Tracer: otel.Tracer("dtigraph/engine"),
		config: DefaultConfig(),
	}

	// Apply options.
	for _, opt := range opts {
		opt(e)
	}

	e.config.Columns = e.config.Columns.WithDefaults()
	e.config.Render = e.config.Render.WithDefaults()
	if e.config.Paths.Output == "" {
		e.config.Paths.Output = config.DefaultOutputDir
	}
	if e.resolver == nil {
		e.resolver = storage.NewResolver(e.config.S3)
	}

	// Initialize telemetry.
	if !e.config.SkipTelemetry {
		shutdown, err := telemetry.Init(ctx, version.AppName, version.Current, e.config.OtelEndpoint)
		if err != nil {
			e.Logger.Warn("Telemetry failed", "error", err)
		} else {
			e.shutdown = shutdown
		}
	}

	counters, err := telemetry.NewCounters(telemetry.Meter("dtigraph/engine"))
	if err != nil {
		return nil, err
	}
	e.counters = counters

	return e, nil
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.Logger = l
	}
}

// WithConfig sets raw config.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.config = cfg
		if cfg.Logger != nil {
			e.Logger = cfg.Logger
		}
	}
}

// WithResolver overrides how paths and s3:// URIs are opened.
func WithResolver(r *storage.Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Close flushes telemetry.
func (e *Engine) Close(ctx context.Context) error {
	if e.shutdown == nil {
		return nil
	}
	return e.shutdown(ctx)
}

// Interactions loads the DTI table once and returns it.
func (e *Engine) Interactions(ctx context.Context) (*loader.Interactions, error) {
	if e.interactions != nil {
		return e.interactions, nil
	}

	ctx, span := e.Tracer.Start(ctx, "load.interactions")
	defer span.End()

	tr, err := e.loadTranslation(ctx)
	if err != nil {
		return nil, err
	}

	in, err := e.readInteractions(ctx, tr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("dti.targets", len(in.Targets)),
		attribute.Int("dti.drugs", len(in.Drugs)),
	)
	e.Logger.Debug("Loaded interactions", "path", e.config.Paths.DTI, "targets", len(in.Targets), "drugs", len(in.Drugs))

	e.interactions = in
	return in, nil
}

// Run builds the graph for drug and writes the image or export. An empty drug
// selects the first drug of the interaction table.
func (e *Engine) Run(ctx context.Context, drug string) (res *Result, err error) {
	ctx, span := e.Tracer.Start(ctx, "Engine.Run")
	defer span.End()

	// Crash safety.
	defer e.recoverPanic(ctx, &err)

	res, err = e.run(ctx, drug)
	if err != nil {
		if !errors.Is(err, ErrDrugNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.String("drug", res.Drug),
		attribute.Int("graph.nodes", res.Stats.Nodes),
		attribute.Int("graph.edges", res.Stats.Edges),
	)
	return res, nil
}

// recoverPanic handles failures.
func (e *Engine) recoverPanic(ctx context.Context, err *error) {
	if r := recover(); r != nil {
		tr := otel.Tracer("dtigraph/engine")
		_, span := tr.Start(ctx, "CriticalPanic")

		stack := debug.Stack()

		span.RecordError(fmt.Errorf("%v", r), trace.WithStackTrace(true))
		span.SetStatus(codes.Error, "CRITICAL FAILURE")
		span.SetAttributes(
			attribute.String("crash.stack", string(stack)),
			attribute.String("crash.reason", fmt.Sprintf("%v", r)),
		)
		span.End()

		e.Logger.Error("CRITICAL FAILURE", "error", r, "stack", string(stack))

		*err = fmt.Errorf("engine panic: %v", r)
	}
}

// RedactSensitiveData scrubs sensitive keys from logs.
func RedactSensitiveData(groups []string, a slog.Attr) slog.Attr {
	sensitiveKeys := map[string]bool{
		"password": true, "access_key": true, "token": true,
		"secret": true, "api_key": true, "session_token": true,
		"secret_access_key": true, "credential": true, "authorization": true,
	}

	if sensitiveKeys[a.Key] {
		return slog.Attr{
			Key:   a.Key,
			Value: slog.StringValue("[REDACTED]"),
		}
	}
	return a
}

// ruleFilter loads the CEL rules, if any.
func (e *Engine) ruleFilter(ctx context.Context) (*policy.Filter, error) {
	if e.config.RulesFile == "" {
		return nil, nil
	}
	data, err := e.resolver.ReadFile(ctx, e.config.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	rules, err := policy.ParseRules(data)
	if err != nil {
		return nil, err
	}
	e.Logger.Debug("Loaded edge rules", "path", e.config.RulesFile, "rules", len(rules))
	return policy.NewFilter(rules)
}
