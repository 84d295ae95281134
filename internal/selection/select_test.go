package selection

import (
	"errors"
	"strings"
	"testing"

	"github.com/copyforge/copyforge/internal/assets"
	"github.com/copyforge/copyforge/internal/avatar"
	"github.com/copyforge/copyforge/internal/catalog"
)

const testCatalog = `
fragments:
  - id: hook.generic
    type: hook
    stages: [problem_aware]
    text: "generic hook"
    priority: 10
  - id: hook.tagged
    type: hook
    stages: [problem_aware]
    tags: [analytical]
    text: "tagged hook"
    priority: 5
  - id: pain.a
    type: pain_point
    stages: [problem_aware]
    text: "pain a"
    priority: 10
  - id: pain.b
    type: pain_point
    stages: [problem_aware]
    text: "pain b"
    priority: 10
  - id: objection.time
    type: objection
    stages: [problem_aware]
    tags: [time_objection]
    text: "no time"
    priority: 5
  - id: objection.generic
    type: objection
    stages: [problem_aware]
    text: "generic objection"
    priority: 10
  - id: response.time
    type: response
    stages: [problem_aware]
    tags: [time_objection]
    text: "time response"
`

func loadTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Parse(strings.NewReader(testCatalog))
	if err != nil {
		t.Fatalf("failed to parse test catalog: %v", err)
	}
	return store
}

func selectedIDs(blocks []Block) []string {
	var ids []string
	for _, f := range Fragments(blocks) {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestSelect(t *testing.T) {
	store := loadTestStore(t)
	profile := avatar.Profile{Stage: catalog.StageProblemAware, Tags: []string{"time_objection"}}
	tmpl := assets.Template{
		AssetType: "objection_email",
		Slots: []assets.Slot{
			{Type: catalog.TypePainPoint},
			{Type: catalog.TypeObjection},
			{Type: catalog.TypeResponse},
		},
	}

	blocks, err := Select(store, profile, tmpl)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	t.Run("one block per slot in template order", func(t *testing.T) {
		if len(blocks) != 3 {
			t.Fatalf("blocks = %d, want 3", len(blocks))
		}
		for i, wantType := range tmpl.RequiredTypes() {
			if blocks[i].Slot.Type != wantType {
				t.Errorf("block %d type = %q, want %q", i, blocks[i].Slot.Type, wantType)
			}
		}
	})

	t.Run("tagged fragment preferred via priority", func(t *testing.T) {
		if got := blocks[1].Fragments[0].ID; got != "objection.time" {
			t.Errorf("objection fragment = %q, want objection.time", got)
		}
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		first := selectedIDs(blocks)
		for i := 0; i < 10; i++ {
			again, err := Select(store, profile, tmpl)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			got := selectedIDs(again)
			for j := range first {
				if got[j] != first[j] {
					t.Fatalf("run %d ids = %v, want %v", i, got, first)
				}
			}
		}
	})
}

func TestSelect_SlotLimit(t *testing.T) {
	store := loadTestStore(t)
	profile := avatar.Profile{Stage: catalog.StageProblemAware}
	tmpl := assets.Template{
		AssetType: "digest",
		Slots:     []assets.Slot{{Type: catalog.TypePainPoint, Max: 2}},
	}

	blocks, err := Select(store, profile, tmpl)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(blocks[0].Fragments) != 2 {
		t.Errorf("fragments in slot = %d, want 2", len(blocks[0].Fragments))
	}

	// Equal priority: id order decides.
	if blocks[0].Fragments[0].ID != "pain.a" || blocks[0].Fragments[1].ID != "pain.b" {
		t.Errorf("fragment order = %v", selectedIDs(blocks))
	}
}

func TestSelect_LimitBeyondMatches(t *testing.T) {
	store := loadTestStore(t)
	profile := avatar.Profile{Stage: catalog.StageProblemAware}
	tmpl := assets.Template{
		AssetType: "digest",
		Slots:     []assets.Slot{{Type: catalog.TypeHook, Max: 10}},
	}

	blocks, err := Select(store, profile, tmpl)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	// hook.tagged is excluded (profile has no tags), only hook.generic matches.
	if len(blocks[0].Fragments) != 1 {
		t.Errorf("fragments in slot = %d, want 1", len(blocks[0].Fragments))
	}
}

func TestSelect_InsufficientContent(t *testing.T) {
	store := loadTestStore(t)
	profile := avatar.Profile{Stage: catalog.StageProblemAware}
	tmpl := assets.Template{
		AssetType: "sales_letter",
		Slots: []assets.Slot{
			{Type: catalog.TypeHook},
			{Type: catalog.TypeOfferLine},
		},
	}

	_, err := Select(store, profile, tmpl)
	var insufficient *InsufficientContentError
	if !errors.As(err, &insufficient) {
		t.Fatalf("error = %v, want *InsufficientContentError", err)
	}
	if insufficient.FragmentType != catalog.TypeOfferLine {
		t.Errorf("error type = %q, want offer_line", insufficient.FragmentType)
	}
	if insufficient.AssetType != "sales_letter" {
		t.Errorf("error asset = %q, want sales_letter", insufficient.AssetType)
	}
}

func TestSelect_TagAgnosticFallback(t *testing.T) {
	store := loadTestStore(t)
	// Profile without time_objection: the tagged objection is excluded,
	// the tag-agnostic one still serves.
	profile := avatar.Profile{Stage: catalog.StageProblemAware, Tags: []string{"analytical"}}
	tmpl := assets.Template{
		AssetType: "objection_email",
		Slots:     []assets.Slot{{Type: catalog.TypeObjection}},
	}

	blocks, err := Select(store, profile, tmpl)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got := blocks[0].Fragments[0].ID; got != "objection.generic" {
		t.Errorf("objection fragment = %q, want objection.generic", got)
	}
}
