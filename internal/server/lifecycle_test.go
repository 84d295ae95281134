package server

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/copyforge/copyforge/internal/testutil"
)

func TestServerLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping lifecycle test in short mode")
	}

	cfg := testutil.NewServerConfig(t)
	if err := os.WriteFile(cfg.CatalogPath, []byte(serverCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	srv, err := New(Config{
		Host:        cfg.Host,
		Port:        cfg.Port,
		CatalogPath: cfg.CatalogPath,
		Logger:      cfg.Logger,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	starter := testutil.StartServer{Cancel: cancel, Done: done}

	if err := testutil.WaitForServer(cfg.URL(), 5*time.Second); err != nil {
		starter.Stop()
		t.Fatalf("server never became ready: %v", err)
	}
	if !srv.Running() {
		t.Error("Running() = false while serving")
	}

	starter.Stop()
	if srv.Running() {
		t.Error("Running() = true after shutdown")
	}
}
