// Package avatar resolves raw lead signals into a canonical avatar
// profile: one awareness stage plus a normalized psychographic tag set.
package avatar

import (
	"sort"
	"strings"

	"github.com/copyforge/copyforge/internal/catalog"
)

// Signals is the raw classification input for one lead.
type Signals struct {
	// Stage is an explicit awareness stage name or synonym. When empty,
	// Keywords are consulted instead.
	Stage string `json:"stage,omitempty" yaml:"stage,omitempty"`

	// Keywords are free-form phrases (survey answers, quiz responses)
	// matched against a fixed heuristic table to infer a stage.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Tags are free-form psychographic labels. Normalized to a set.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Profile is a canonical avatar: immutable once produced, scoped to a
// single composition request.
type Profile struct {
	Stage catalog.Stage `json:"stage" yaml:"stage"`
	Tags  []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// stageKeywords maps heuristic phrases to stages. Matching is by
// substring on the normalized keyword, first hit in table order wins;
// the table is ordered most-aware first so stronger buying signals
// outrank vaguer problem language.
var stageKeywords = []struct {
	phrase string
	stage  catalog.Stage
}{
	{"ready to buy", catalog.StageMostAware},
	{"sign me up", catalog.StageMostAware},
	{"waiting for the price", catalog.StageMostAware},
	{"comparing programs", catalog.StageProductAware},
	{"heard about the program", catalog.StageProductAware},
	{"looking for a coach", catalog.StageSolutionAware},
	{"what actually works", catalog.StageSolutionAware},
	{"tried everything", catalog.StageProblemAware},
	{"stuck in the same place", catalog.StageProblemAware},
	{"can't stay consistent", catalog.StageProblemAware},
	{"never heard", catalog.StageUnaware},
	{"doing fine", catalog.StageUnaware},
}

// Classify resolves signals to a Profile.
//
// An explicit stage name takes precedence; otherwise keywords are
// matched against the heuristic table. Input that resolves to no stage
// is an UnknownAwarenessStageError — silently defaulting would misroute
// messaging downstream.
func Classify(signals Signals) (Profile, error) {
	stage, err := resolveStage(signals)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		Stage: stage,
		Tags:  NormalizeTags(signals.Tags),
	}, nil
}

func resolveStage(signals Signals) (catalog.Stage, error) {
	if strings.TrimSpace(signals.Stage) != "" {
		return catalog.ParseStage(signals.Stage)
	}

	for _, entry := range stageKeywords {
		for _, kw := range signals.Keywords {
			if strings.Contains(strings.ToLower(kw), entry.phrase) {
				return entry.stage, nil
			}
		}
	}

	return "", &catalog.UnknownAwarenessStageError{Input: strings.Join(signals.Keywords, "; ")}
}

// NormalizeTags lower-cases and trims tags and collapses duplicates,
// returning a sorted slice for deterministic downstream matching.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, tag := range tags {
		norm := strings.ToLower(strings.TrimSpace(tag))
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	sort.Strings(out)
	return out
}
