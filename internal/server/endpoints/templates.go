package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/copyforge/copyforge/internal/api"
	"github.com/copyforge/copyforge/internal/assets"
	"github.com/copyforge/copyforge/internal/catalog"
	"github.com/copyforge/copyforge/internal/svcctx"
)

// TemplatesResponse is the response for template listing.
type TemplatesResponse struct {
	Templates []assets.Template `json:"templates"`
}

// ListTemplatesEndpoint handles GET /templates.
type ListTemplatesEndpoint struct{}

func (e *ListTemplatesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/templates", e.handler
}

func (e *ListTemplatesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	eng := svcctx.EngineFrom(r.Context())
	if eng == nil {
		writeError(w, http.StatusServiceUnavailable, "engine not initialized")
		return
	}
	writeJSON(w, http.StatusOK, TemplatesResponse{Templates: eng.Templates().All()})
}

func (e *ListTemplatesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List asset templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp TemplatesResponse
			if err := client.Get(cmd.Context(), "/templates", &resp); err != nil {
				return err
			}

			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			for _, tmpl := range resp.Templates {
				fmt.Printf("%-20s %v\n", tmpl.AssetType, tmpl.RequiredTypes())
			}
			return nil
		},
	}
}

// StagesResponse lists the canonical awareness stages.
type StagesResponse struct {
	Stages []catalog.Stage `json:"stages"`
}

// ListStagesEndpoint handles GET /stages.
type ListStagesEndpoint struct{}

func (e *ListStagesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/stages", e.handler
}

func (e *ListStagesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StagesResponse{Stages: catalog.Stages()})
}

func (e *ListStagesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List canonical awareness stages",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StagesResponse
			if err := client.Get(cmd.Context(), "/stages", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
