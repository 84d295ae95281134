package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/copyforge/copyforge/internal/api"
	"github.com/copyforge/copyforge/internal/catalog"
	"github.com/copyforge/copyforge/internal/svcctx"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if wait > 0 {
				if err := client.WaitReady(cmd.Context(), wait); err != nil {
					return err
				}
			}
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "poll until the server is ready, up to this long")

	return cmd
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server       string         `json:"server"`
	Fragments    int            `json:"fragments"`
	ByType       map[string]int `json:"fragments_by_type"`
	AssetTypes   []string       `json:"asset_types"`
	WatchCatalog bool           `json:"watch_catalog,omitempty"`
	LogLevel     string         `json:"log_level,omitempty"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	eng := svcctx.EngineFrom(r.Context())
	if eng == nil {
		writeError(w, http.StatusServiceUnavailable, "engine not initialized")
		return
	}

	store := eng.Snapshot().Store()
	byType := make(map[string]int)
	for ftype, n := range store.TypeCounts() {
		byType[string(ftype)] = n
	}

	resp := StatusResponse{
		Server:     "running",
		Fragments:  store.Len(),
		ByType:     byType,
		AssetTypes: eng.Templates().AssetTypes(),
	}
	if cm := svcctx.ConfigManagerFrom(r.Context()); cm != nil {
		cfg := cm.Get()
		resp.WatchCatalog = cfg.WatchCatalog
		resp.LogLevel = cfg.LogLevel
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show catalog and template status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			fmt.Printf("Server:    %s\n", resp.Server)
			fmt.Printf("Fragments: %d\n", resp.Fragments)
			for _, ftype := range catalog.FragmentTypes() {
				fmt.Printf("  %-12s %d\n", ftype, resp.ByType[string(ftype)])
			}
			fmt.Printf("Assets:    %v\n", resp.AssetTypes)
			return nil
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
