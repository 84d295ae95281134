package main

import (
	"log/slog"
	"os"

	"github.com/copyforge/copyforge/internal/assets"
	"github.com/copyforge/copyforge/internal/catalog"
	"github.com/copyforge/copyforge/internal/config"
	"github.com/copyforge/copyforge/internal/engine"
	"github.com/copyforge/copyforge/internal/home"
)

// resolveCatalogPath picks the catalog source: explicit flag, then
// config, then the home directory. Empty means the embedded seed.
func resolveCatalogPath(flagPath string, cfg *config.Config, h *home.Dir) string {
	if flagPath != "" {
		return flagPath
	}
	if cfg.CatalogPath != "" {
		return cfg.CatalogPath
	}
	if h.CatalogExists() {
		return h.CatalogPath()
	}
	return ""
}

// buildLocalEngine loads config, catalog and templates and builds an
// in-process engine for one-shot CLI commands.
func buildLocalEngine(catalogFlag string) (*engine.Engine, error) {
	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg := cm.Get()

	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}

	var store *catalog.Store
	if path := resolveCatalogPath(catalogFlag, cfg, h); path != "" {
		store, err = catalog.Load(path)
	} else {
		store, err = catalog.Seed()
	}
	if err != nil {
		return nil, err
	}

	templatesDir := cfg.TemplatesDir
	if templatesDir == "" {
		templatesDir = h.TemplatesPath()
	}
	templates, err := assets.LoadDir(templatesDir)
	if err != nil {
		return nil, err
	}

	// One-shot commands log warnings only; the composed text goes to
	// stdout.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	return engine.New(engine.Config{
		Snapshot:         catalog.NewSnapshot(store),
		Templates:        templates,
		DefaultVariables: cfg.ResolvedVariables(),
		Logger:           logger,
	}), nil
}
