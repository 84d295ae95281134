package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/copyforge/copyforge/internal/api"
	"github.com/copyforge/copyforge/internal/assets"
	"github.com/copyforge/copyforge/internal/avatar"
	"github.com/copyforge/copyforge/internal/catalog"
	"github.com/copyforge/copyforge/internal/selection"
)

var validateCatalog string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the catalog and templates",
	Long: `Load the content catalog and asset templates and report coverage.

For every template and awareness stage, checks whether the catalog can
fill each slot for a tag-less avatar. Gaps are reported per asset type
so content authors know exactly what to write; they do not fail the
command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildLocalEngine(validateCatalog)
		if err != nil {
			return err
		}

		store := eng.Snapshot().Store()
		fmt.Printf("catalog: %d fragments\n", store.Len())
		for _, ftype := range catalog.FragmentTypes() {
			fmt.Printf("  %-12s %d\n", ftype, store.TypeCounts()[ftype])
		}

		fmt.Printf("templates: %d\n", len(eng.Templates().All()))

		gaps := 0
		for _, tmpl := range eng.Templates().All() {
			for _, stage := range catalog.Stages() {
				profile := avatar.Profile{Stage: stage}
				if _, err := selection.Select(store, profile, tmpl); err != nil {
					fmt.Printf("  gap: %v\n", err)
					gaps++
				}
			}
		}
		if gaps == 0 {
			fmt.Println("all templates compose at every stage")
		} else {
			fmt.Printf("%d template/stage gaps\n", gaps)
		}
		return nil
	},
}

var (
	classifyStage    string
	classifyTags     []string
	classifyKeywords []string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Resolve signals to an avatar profile locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		signals := avatar.Signals{
			Stage:    classifyStage,
			Tags:     classifyTags,
			Keywords: classifyKeywords,
		}
		profile, err := avatar.Classify(signals)
		if err != nil {
			return err
		}
		if api.IsStructuredOutput() {
			return api.Output(profile)
		}
		fmt.Printf("stage: %s\n", profile.Stage)
		if len(profile.Tags) > 0 {
			fmt.Printf("tags:  %v\n", profile.Tags)
		}
		return nil
	},
}

var (
	fragmentsCatalog string
	fragmentsType    string
	fragmentsStage   string
	fragmentsTags    []string
)

var fragmentsCmd = &cobra.Command{
	Use:   "fragments",
	Short: "List catalog fragments from disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildLocalEngine(fragmentsCatalog)
		if err != nil {
			return err
		}
		store := eng.Snapshot().Store()

		var fragments []catalog.Fragment
		switch {
		case fragmentsType == "" && fragmentsStage == "":
			fragments = store.All()
		case fragmentsType == "" || fragmentsStage == "":
			return fmt.Errorf("filtered listing requires both --type and --stage")
		default:
			ftype, err := catalog.ParseFragmentType(fragmentsType)
			if err != nil {
				return err
			}
			stage, err := catalog.ParseStage(fragmentsStage)
			if err != nil {
				return err
			}
			fragments = store.Query(ftype, stage, avatar.NormalizeTags(fragmentsTags))
		}

		if api.IsStructuredOutput() {
			return api.Output(fragments)
		}
		for _, f := range fragments {
			fmt.Printf("%-28s %-12s p%-3d %v\n", f.ID, f.Type, f.Priority, f.Tags)
		}
		fmt.Printf("total: %d\n", len(fragments))
		return nil
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List asset templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := assets.Defaults()
		if err != nil {
			return err
		}
		for _, tmpl := range reg.All() {
			fmt.Printf("%-20s %v\n", tmpl.AssetType, tmpl.RequiredTypes())
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateCatalog, "catalog", "", "content catalog file")

	classifyCmd.Flags().StringVar(&classifyStage, "stage", "", "awareness stage name or synonym")
	classifyCmd.Flags().StringSliceVar(&classifyTags, "tag", nil, "psychographic tag (repeatable)")
	classifyCmd.Flags().StringSliceVar(&classifyKeywords, "keyword", nil, "heuristic keyword phrase (repeatable)")

	fragmentsCmd.Flags().StringVar(&fragmentsCatalog, "catalog", "", "content catalog file")
	fragmentsCmd.Flags().StringVar(&fragmentsType, "type", "", "filter by fragment type")
	fragmentsCmd.Flags().StringVar(&fragmentsStage, "stage", "", "filter by awareness stage")
	fragmentsCmd.Flags().StringSliceVar(&fragmentsTags, "tag", nil, "filter by tag (repeatable)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(fragmentsCmd)
	rootCmd.AddCommand(templatesCmd)
}
