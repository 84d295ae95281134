package compose

import (
	"errors"
	"regexp"
	"testing"

	"github.com/copyforge/copyforge/internal/assets"
	"github.com/copyforge/copyforge/internal/avatar"
	"github.com/copyforge/copyforge/internal/catalog"
	"github.com/copyforge/copyforge/internal/selection"
)

func testBlocks() []selection.Block {
	return []selection.Block{
		{
			Slot: assets.Slot{Type: catalog.TypeHook},
			Fragments: []catalog.Fragment{
				{ID: "hook.a", Type: catalog.TypeHook, Text: "Meet {product}."},
			},
		},
		{
			Slot: assets.Slot{Type: catalog.TypeOfferLine},
			Fragments: []catalog.Fragment{
				{ID: "offer.a", Type: catalog.TypeOfferLine, Text: "Only {price}, today."},
			},
		},
	}
}

func TestCompose(t *testing.T) {
	profile := avatar.Profile{Stage: catalog.StageMostAware}
	tmpl := assets.Template{AssetType: "ad_script"}
	vars := map[string]string{"product": "Inner Architect", "price": "$497"}

	doc, err := Compose(profile, tmpl, testBlocks(), vars)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	want := "Meet Inner Architect.\n\nOnly $497, today."
	if doc.RenderedText != want {
		t.Errorf("RenderedText = %q, want %q", doc.RenderedText, want)
	}
	if doc.ID == "" {
		t.Error("document id is empty")
	}
	if doc.AssetType != "ad_script" {
		t.Errorf("AssetType = %q, want ad_script", doc.AssetType)
	}
	if len(doc.FragmentIDs) != 2 || doc.FragmentIDs[0] != "hook.a" {
		t.Errorf("FragmentIDs = %v", doc.FragmentIDs)
	}
}

func TestCompose_NoUnresolvedPlaceholders(t *testing.T) {
	vars := map[string]string{"product": "X", "price": "$1"}
	doc, err := Compose(avatar.Profile{}, assets.Template{}, testBlocks(), vars)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if regexp.MustCompile(`\{[a-z_]+\}`).MatchString(doc.RenderedText) {
		t.Errorf("rendered text contains unresolved placeholder: %q", doc.RenderedText)
	}
}

func TestCompose_MissingVariable(t *testing.T) {
	_, err := Compose(avatar.Profile{}, assets.Template{}, testBlocks(), map[string]string{"product": "X"})

	var unresolved *UnresolvedVariableError
	if !errors.As(err, &unresolved) {
		t.Fatalf("error = %v, want *UnresolvedVariableError", err)
	}
	if unresolved.Name != "price" {
		t.Errorf("error name = %q, want price", unresolved.Name)
	}
	if unresolved.FragmentID != "offer.a" {
		t.Errorf("error fragment = %q, want offer.a", unresolved.FragmentID)
	}
}

func TestCompose_Idempotent(t *testing.T) {
	vars := map[string]string{"product": "X", "price": "$1"}

	first, err := Compose(avatar.Profile{}, assets.Template{}, testBlocks(), vars)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	second, err := Compose(avatar.Profile{}, assets.Template{}, testBlocks(), vars)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if first.RenderedText != second.RenderedText {
		t.Errorf("rendered text differs across identical inputs:\n%q\n%q", first.RenderedText, second.RenderedText)
	}
}

func TestCompose_Heading(t *testing.T) {
	blocks := []selection.Block{
		{
			Slot: assets.Slot{Type: catalog.TypeProofPoint, Heading: "What members report"},
			Fragments: []catalog.Fragment{
				{ID: "proof.a", Text: "It worked."},
			},
		},
	}

	doc, err := Compose(avatar.Profile{}, assets.Template{}, blocks, nil)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	want := "What members report\n\nIt worked."
	if doc.RenderedText != want {
		t.Errorf("RenderedText = %q, want %q", doc.RenderedText, want)
	}
}

func TestSubstitute(t *testing.T) {
	vars := map[string]string{"price": "$497", "name": "Ana"}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain text", "no placeholders here", "no placeholders here"},
		{"single variable", "costs {price}", "costs $497"},
		{"repeated variable", "{name}, {name}!", "Ana, Ana!"},
		{"escaped braces", "literal {{braces}} stay", "literal {braces} stay"},
		{"adjacent variables", "{name}{price}", "Ana$497"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := substitute(tt.text, "frag", vars)
			if err != nil {
				t.Fatalf("substitute() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("substitute(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}

	t.Run("unterminated placeholder", func(t *testing.T) {
		_, err := substitute("broken {price", "frag", vars)
		var unresolved *UnresolvedVariableError
		if !errors.As(err, &unresolved) {
			t.Fatalf("error = %v, want *UnresolvedVariableError", err)
		}
	})
}
