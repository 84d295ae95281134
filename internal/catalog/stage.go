// Package catalog provides the immutable content fragment catalog.
//
// Fragments are authored out-of-band in YAML, validated and indexed at
// load time, and never mutated at runtime. Reloads build a fresh Store
// and swap it in atomically via Snapshot.
package catalog

import (
	"fmt"
	"strings"
)

// Stage is a canonical awareness stage in the marketing funnel.
type Stage string

const (
	StageUnaware       Stage = "unaware"
	StageProblemAware  Stage = "problem_aware"
	StageSolutionAware Stage = "solution_aware"
	StageProductAware  Stage = "product_aware"
	StageMostAware     Stage = "most_aware"
)

// Stages lists all canonical stages in funnel order.
func Stages() []Stage {
	return []Stage{
		StageUnaware,
		StageProblemAware,
		StageSolutionAware,
		StageProductAware,
		StageMostAware,
	}
}

// stageSynonyms maps free-text stage names from source material to
// canonical stages. Keys are normalized (lowercase, underscores).
var stageSynonyms = map[string]Stage{
	"unaware":        StageUnaware,
	"cold":           StageUnaware,
	"problem_aware":  StageProblemAware,
	"problem":        StageProblemAware,
	"pain_aware":     StageProblemAware,
	"solution_aware": StageSolutionAware,
	"solution":       StageSolutionAware,
	"product_aware":  StageProductAware,
	"product":        StageProductAware,
	"most_aware":     StageMostAware,
	"hot":            StageMostAware,
	"ready_to_buy":   StageMostAware,
}

// UnknownAwarenessStageError is returned when an input stage name does not
// resolve to a canonical stage. Defaulting would misroute messaging, so
// unrecognized input is always a visible failure.
type UnknownAwarenessStageError struct {
	Input string
}

func (e *UnknownAwarenessStageError) Error() string {
	return fmt.Sprintf("unknown awareness stage: %q", e.Input)
}

// ParseStage resolves a stage name (canonical or synonym) to a canonical
// Stage. Input is normalized: lowercased, trimmed, spaces and hyphens
// collapsed to underscores.
func ParseStage(input string) (Stage, error) {
	norm := strings.ToLower(strings.TrimSpace(input))
	norm = strings.ReplaceAll(norm, " ", "_")
	norm = strings.ReplaceAll(norm, "-", "_")

	if stage, ok := stageSynonyms[norm]; ok {
		return stage, nil
	}
	return "", &UnknownAwarenessStageError{Input: input}
}

// Valid reports whether s is one of the canonical stages.
func (s Stage) Valid() bool {
	switch s {
	case StageUnaware, StageProblemAware, StageSolutionAware, StageProductAware, StageMostAware:
		return true
	}
	return false
}
