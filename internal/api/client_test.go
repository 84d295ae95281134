package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_WaitReady(t *testing.T) {
	t.Run("returns once healthy", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		}))
		defer ts.Close()

		client := NewClient(ts.URL)
		if err := client.WaitReady(context.Background(), 5*time.Second); err != nil {
			t.Fatalf("WaitReady() error = %v", err)
		}
	})

	t.Run("sub-second timeout still terminates", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		ts.Close()

		client := NewClient(ts.URL)
		start := time.Now()
		err := client.WaitReady(context.Background(), 500*time.Millisecond)
		if err == nil {
			t.Fatal("expected error against closed server")
		}
		if elapsed := time.Since(start); elapsed > 3*time.Second {
			t.Errorf("WaitReady() took %v, want bounded by the timeout", elapsed)
		}
	})
}
