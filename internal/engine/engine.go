// Package engine is the request-facing façade: it runs
// classify → select → compose as one deterministic operation over the
// current catalog snapshot.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/copyforge/copyforge/internal/assets"
	"github.com/copyforge/copyforge/internal/avatar"
	"github.com/copyforge/copyforge/internal/catalog"
	"github.com/copyforge/copyforge/internal/compose"
	"github.com/copyforge/copyforge/internal/selection"
)

// Request is one composition request.
type Request struct {
	Signals   avatar.Signals    `json:"signals" yaml:"signals"`
	AssetType string            `json:"asset_type" yaml:"asset_type"`
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Result is a successful composition.
type Result struct {
	RenderedText string            `json:"rendered_text" yaml:"rendered_text"`
	Document     *compose.Document `json:"document" yaml:"document"`
}

// Engine composes assets against an atomically-swappable catalog
// snapshot and an immutable template registry. Safe for concurrent use;
// the request path takes no locks and does no I/O.
type Engine struct {
	snapshot  *catalog.Snapshot
	templates *assets.Registry
	defaults  map[string]string
	logger    *slog.Logger
}

// Config holds engine dependencies.
type Config struct {
	Snapshot  *catalog.Snapshot
	Templates *assets.Registry
	// DefaultVariables are merged under request variables, so a request
	// can override a configured default like price or product name.
	DefaultVariables map[string]string
	Logger           *slog.Logger
}

// New creates an Engine.
func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{
		snapshot:  cfg.Snapshot,
		templates: cfg.Templates,
		defaults:  cfg.DefaultVariables,
		logger:    cfg.Logger,
	}
}

// Snapshot returns the engine's catalog snapshot.
func (e *Engine) Snapshot() *catalog.Snapshot {
	return e.snapshot
}

// Templates returns the engine's template registry.
func (e *Engine) Templates() *assets.Registry {
	return e.templates
}

// Classify resolves request signals to a profile without composing.
func (e *Engine) Classify(signals avatar.Signals) (avatar.Profile, error) {
	return avatar.Classify(signals)
}

// Compose runs the full pipeline for one request. The ctx is accepted
// for interface symmetry with transport callers; composition itself
// never blocks.
func (e *Engine) Compose(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	profile, err := avatar.Classify(req.Signals)
	if err != nil {
		return nil, err
	}

	tmpl, err := e.templates.Get(req.AssetType)
	if err != nil {
		return nil, err
	}

	store := e.snapshot.Store()
	blocks, err := selection.Select(store, profile, tmpl)
	if err != nil {
		return nil, err
	}

	doc, err := compose.Compose(profile, tmpl, blocks, e.mergeVariables(req.Variables))
	if err != nil {
		return nil, err
	}

	e.logger.Info("composed asset",
		"asset_type", req.AssetType,
		"stage", profile.Stage,
		"tags", profile.Tags,
		"fragments", len(doc.FragmentIDs),
		"duration", time.Since(start),
	)

	return &Result{RenderedText: doc.RenderedText, Document: doc}, nil
}

// mergeVariables overlays request variables on configured defaults.
func (e *Engine) mergeVariables(vars map[string]string) map[string]string {
	if len(e.defaults) == 0 {
		return vars
	}
	merged := make(map[string]string, len(e.defaults)+len(vars))
	for k, v := range e.defaults {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}
	return merged
}
