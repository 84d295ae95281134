package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/copyforge/copyforge/internal/api"
	"github.com/copyforge/copyforge/internal/engine"
)

var (
	composeFile     string
	composeStage    string
	composeAsset    string
	composeTags     []string
	composeKeywords []string
	composeVars     []string
	composeCatalog  string
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose an asset locally, without a server",
	Long: `Compose an asset directly from the catalog on disk.

This runs the full classify/select/compose pipeline in-process. The
catalog comes from --catalog, the configured catalog_path, the home
directory, or the embedded seed, in that order.

Examples:
  copyforge compose --asset ad_script --stage most_aware
  copyforge compose --asset objection_email --stage problem_aware --tag time_objection
  copyforge compose --file request.yaml -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := composeRequestFromFlags()
		if err != nil {
			return err
		}

		eng, err := buildLocalEngine(composeCatalog)
		if err != nil {
			return err
		}

		result, err := eng.Compose(cmd.Context(), req)
		if err != nil {
			return err
		}

		if api.IsStructuredOutput() {
			return api.Output(result)
		}
		fmt.Println(result.RenderedText)
		return nil
	},
}

// composeRequestFromFlags assembles the request from --file plus flag
// overrides.
func composeRequestFromFlags() (engine.Request, error) {
	var req engine.Request

	if composeFile != "" {
		data, err := os.ReadFile(composeFile)
		if err != nil {
			return req, fmt.Errorf("failed to read request file: %w", err)
		}
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("failed to parse request file: %w", err)
		}
	}

	if composeStage != "" {
		req.Signals.Stage = composeStage
	}
	if composeAsset != "" {
		req.AssetType = composeAsset
	}
	req.Signals.Tags = append(req.Signals.Tags, composeTags...)
	req.Signals.Keywords = append(req.Signals.Keywords, composeKeywords...)

	for _, kv := range composeVars {
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

func init() {
	composeCmd.Flags().StringVarP(&composeFile, "file", "f", "", "YAML file with the full request")
	composeCmd.Flags().StringVar(&composeStage, "stage", "", "awareness stage name or synonym")
	composeCmd.Flags().StringVar(&composeAsset, "asset", "", "asset type to compose")
	composeCmd.Flags().StringSliceVar(&composeTags, "tag", nil, "psychographic tag (repeatable)")
	composeCmd.Flags().StringSliceVar(&composeKeywords, "keyword", nil, "heuristic keyword phrase (repeatable)")
	composeCmd.Flags().StringArrayVar(&composeVars, "var", nil, "variable as key=value (repeatable)")
	composeCmd.Flags().StringVar(&composeCatalog, "catalog", "", "content catalog file (default: config, then home, then embedded seed)")

	rootCmd.AddCommand(composeCmd)
}
