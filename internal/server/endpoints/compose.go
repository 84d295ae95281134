package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/copyforge/copyforge/internal/api"
	"github.com/copyforge/copyforge/internal/avatar"
	"github.com/copyforge/copyforge/internal/engine"
	"github.com/copyforge/copyforge/internal/svcctx"
)

// ComposeEndpoint handles POST /compose.
type ComposeEndpoint struct{}

func (e *ComposeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/compose", e.handler
}

func (e *ComposeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	eng := svcctx.EngineFrom(r.Context())
	if eng == nil {
		writeError(w, http.StatusServiceUnavailable, "engine not initialized")
		return
	}

	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	result, err := eng.Compose(r.Context(), req)
	if err != nil {
		writeError(w, engine.HTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (e *ComposeEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		reqFile   string
		stage     string
		assetType string
		tags      []string
		keywords  []string
		vars      []string
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose an asset via the running server",
		Long: `Compose an asset for an avatar via the running server.

The request can come from a YAML file (--file) or from flags.

Examples:
  copyforge api compose --asset ad_script --stage most_aware --var price='$497'
  copyforge api compose --file request.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildComposeRequest(reqFile, stage, assetType, tags, keywords, vars)
			if err != nil {
				return err
			}

			client := api.NewClient(getServerURL())
			var result engine.Result
			if err := client.Post(cmd.Context(), "/compose", req, &result); err != nil {
				return err
			}

			if api.IsStructuredOutput() {
				return api.Output(result)
			}
			fmt.Println(result.RenderedText)
			return nil
		},
	}

	cmd.Flags().StringVarP(&reqFile, "file", "f", "", "YAML file with the full request")
	cmd.Flags().StringVar(&stage, "stage", "", "awareness stage name or synonym")
	cmd.Flags().StringVar(&assetType, "asset", "", "asset type to compose")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "psychographic tag (repeatable)")
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "heuristic keyword phrase (repeatable)")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "variable as key=value (repeatable)")

	return cmd
}

// buildComposeRequest assembles an engine.Request from a file or flags.
// Flags overlay file values.
func buildComposeRequest(reqFile, stage, assetType string, tags, keywords, vars []string) (engine.Request, error) {
	var req engine.Request

	if reqFile != "" {
		data, err := os.ReadFile(reqFile)
		if err != nil {
			return req, fmt.Errorf("failed to read request file: %w", err)
		}
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("failed to parse request file: %w", err)
		}
	}

	if stage != "" {
		req.Signals.Stage = stage
	}
	if assetType != "" {
		req.AssetType = assetType
	}
	if len(tags) > 0 {
		req.Signals.Tags = append(req.Signals.Tags, tags...)
	}
	if len(keywords) > 0 {
		req.Signals.Keywords = append(req.Signals.Keywords, keywords...)
	}

	for _, kv := range vars {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return req, fmt.Errorf("invalid --var %q, want key=value", kv)
		}
		if req.Variables == nil {
			req.Variables = make(map[string]string)
		}
		req.Variables[key] = value
	}

	if req.AssetType == "" {
		return req, fmt.Errorf("asset type is required (--asset or file)")
	}
	return req, nil
}

// ClassifyEndpoint handles POST /classify.
type ClassifyEndpoint struct{}

func (e *ClassifyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/classify", e.handler
}

func (e *ClassifyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	eng := svcctx.EngineFrom(r.Context())
	if eng == nil {
		writeError(w, http.StatusServiceUnavailable, "engine not initialized")
		return
	}

	var signals avatar.Signals
	if err := json.NewDecoder(r.Body).Decode(&signals); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	profile, err := eng.Classify(signals)
	if err != nil {
		writeError(w, engine.HTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (e *ClassifyEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		stage    string
		tags     []string
		keywords []string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Resolve signals to an avatar profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			signals := avatar.Signals{Stage: stage, Tags: tags, Keywords: keywords}

			var profile avatar.Profile
			if err := client.Post(cmd.Context(), "/classify", signals, &profile); err != nil {
				return err
			}
			return api.Output(profile)
		},
	}

	cmd.Flags().StringVar(&stage, "stage", "", "awareness stage name or synonym")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "psychographic tag (repeatable)")
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "heuristic keyword phrase (repeatable)")

	return cmd
}
