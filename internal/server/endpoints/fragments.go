package endpoints

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/copyforge/copyforge/internal/api"
	"github.com/copyforge/copyforge/internal/avatar"
	"github.com/copyforge/copyforge/internal/catalog"
	"github.com/copyforge/copyforge/internal/svcctx"
)

// FragmentsResponse is the response for fragment listing.
type FragmentsResponse struct {
	Fragments []catalog.Fragment `json:"fragments"`
	Total     int                `json:"total"`
}

// ListFragmentsEndpoint handles GET /fragments.
// Optional query params: type, stage, tag (repeatable).
type ListFragmentsEndpoint struct{}

func (e *ListFragmentsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/fragments", e.handler
}

func (e *ListFragmentsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	eng := svcctx.EngineFrom(r.Context())
	if eng == nil {
		writeError(w, http.StatusServiceUnavailable, "engine not initialized")
		return
	}
	store := eng.Snapshot().Store()

	q := r.URL.Query()
	typeParam := q.Get("type")
	stageParam := q.Get("stage")

	// Unfiltered listing.
	if typeParam == "" && stageParam == "" {
		all := store.All()
		writeJSON(w, http.StatusOK, FragmentsResponse{Fragments: all, Total: len(all)})
		return
	}

	// Filtered listing runs a real catalog query, so it needs both
	// dimensions.
	if typeParam == "" || stageParam == "" {
		writeError(w, http.StatusBadRequest, "filtered listing requires both type and stage")
		return
	}

	ftype, err := catalog.ParseFragmentType(typeParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	stage, err := catalog.ParseStage(stageParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	matches := store.Query(ftype, stage, avatar.NormalizeTags(q["tag"]))
	writeJSON(w, http.StatusOK, FragmentsResponse{Fragments: matches, Total: len(matches)})
}

func (e *ListFragmentsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		ftype string
		stage string
		tags  []string
	)

	cmd := &cobra.Command{
		Use:   "fragments",
		Short: "List catalog fragments",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if ftype != "" {
				params.Set("type", ftype)
			}
			if stage != "" {
				params.Set("stage", stage)
			}
			for _, tag := range tags {
				params.Add("tag", tag)
			}

			path := "/fragments"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			client := api.NewClient(getServerURL())
			var resp FragmentsResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}

			if api.IsStructuredOutput() {
				return api.Output(resp)
			}
			for _, f := range resp.Fragments {
				fmt.Printf("%-28s %-12s p%-3d %v\n", f.ID, f.Type, f.Priority, f.Tags)
			}
			fmt.Printf("total: %d\n", resp.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&ftype, "type", "", "filter by fragment type")
	cmd.Flags().StringVar(&stage, "stage", "", "filter by awareness stage")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "filter by tag (repeatable)")

	return cmd
}

// GetFragmentEndpoint handles GET /fragments/{id}.
type GetFragmentEndpoint struct{}

func (e *GetFragmentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/fragments/{id}", e.handler
}

func (e *GetFragmentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	eng := svcctx.EngineFrom(r.Context())
	if eng == nil {
		writeError(w, http.StatusServiceUnavailable, "engine not initialized")
		return
	}

	id := r.PathValue("id")
	frag := eng.Snapshot().Store().Get(id)
	if frag == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("fragment not found: %s", id))
		return
	}
	writeJSON(w, http.StatusOK, frag)
}

func (e *GetFragmentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "fragment <id>",
		Short: "Show one catalog fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var frag catalog.Fragment
			if err := client.Get(cmd.Context(), "/fragments/"+url.PathEscape(args[0]), &frag); err != nil {
				return err
			}
			return api.Output(frag)
		},
	}
}

// ReloadEndpoint handles POST /reload: re-reads the catalog file and
// swaps the snapshot if it validates.
type ReloadEndpoint struct {
	CatalogPath string
}

func (e *ReloadEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/reload", e.handler
}

func (e *ReloadEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	eng := svcctx.EngineFrom(r.Context())
	if eng == nil {
		writeError(w, http.StatusServiceUnavailable, "engine not initialized")
		return
	}
	if e.CatalogPath == "" {
		writeError(w, http.StatusConflict, "serving the embedded seed catalog; nothing to reload")
		return
	}

	if err := eng.Snapshot().Reload(e.CatalogPath); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	svcctx.LoggerFrom(r.Context()).Info("catalog reloaded via API", "path", e.CatalogPath)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "reloaded",
		"fragments": eng.Snapshot().Store().Len(),
	})
}

func (e *ReloadEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the content catalog from disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp map[string]any
			if err := client.Post(cmd.Context(), "/reload", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
