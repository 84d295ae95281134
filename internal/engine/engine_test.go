package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/copyforge/copyforge/internal/assets"
	"github.com/copyforge/copyforge/internal/avatar"
	"github.com/copyforge/copyforge/internal/catalog"
	"github.com/copyforge/copyforge/internal/compose"
	"github.com/copyforge/copyforge/internal/selection"
)

const engineCatalog = `
fragments:
  - id: hook.a
    type: hook
    stages: [problem_aware, most_aware]
    text: "The hook."
  - id: pain.a
    type: pain_point
    stages: [problem_aware, most_aware]
    text: "The pain."
  - id: objection.time
    type: objection
    stages: [problem_aware]
    tags: [time_objection]
    text: "No time."
    priority: 1
  - id: objection.generic
    type: objection
    stages: [problem_aware, most_aware]
    text: "Generic objection."
    priority: 10
  - id: response.time
    type: response
    stages: [problem_aware]
    tags: [time_objection]
    text: "Time response."
  - id: response.generic
    type: response
    stages: [most_aware]
    text: "Generic response."
  - id: proof.a
    type: proof_point
    stages: [most_aware]
    text: "Proof."
`

func testEngine(t *testing.T, vars map[string]string) *Engine {
	t.Helper()

	store, err := catalog.Parse(strings.NewReader(engineCatalog))
	if err != nil {
		t.Fatalf("failed to parse catalog: %v", err)
	}
	templates, err := assets.Defaults()
	if err != nil {
		t.Fatalf("failed to load templates: %v", err)
	}

	return New(Config{
		Snapshot:         catalog.NewSnapshot(store),
		Templates:        templates,
		DefaultVariables: vars,
	})
}

func TestEngine_ComposeObjectionEmail(t *testing.T) {
	// problem_aware lead with a time objection composing an
	// objection_email: exactly one block of each required type, with
	// the objection drawn from time_objection-tagged fragments.
	eng := testEngine(t, nil)

	result, err := eng.Compose(context.Background(), Request{
		Signals:   avatar.Signals{Stage: "problem_aware", Tags: []string{"time_objection"}},
		AssetType: "objection_email",
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	doc := result.Document
	wantIDs := []string{"pain.a", "objection.time", "response.time"}
	if len(doc.FragmentIDs) != len(wantIDs) {
		t.Fatalf("FragmentIDs = %v, want %v", doc.FragmentIDs, wantIDs)
	}
	for i, want := range wantIDs {
		if doc.FragmentIDs[i] != want {
			t.Errorf("FragmentIDs[%d] = %q, want %q", i, doc.FragmentIDs[i], want)
		}
	}

	want := "The pain.\n\nNo time.\n\nTime response."
	if result.RenderedText != want {
		t.Errorf("RenderedText = %q, want %q", result.RenderedText, want)
	}
}

func TestEngine_ComposeIdempotent(t *testing.T) {
	eng := testEngine(t, nil)
	req := Request{
		Signals:   avatar.Signals{Stage: "problem_aware", Tags: []string{"Time_Objection"}},
		AssetType: "objection_email",
	}

	first, err := eng.Compose(context.Background(), req)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	second, err := eng.Compose(context.Background(), req)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if first.RenderedText != second.RenderedText {
		t.Errorf("rendered text differs across identical requests:\n%q\n%q", first.RenderedText, second.RenderedText)
	}
}

func TestEngine_ComposeErrors(t *testing.T) {
	eng := testEngine(t, nil)
	ctx := context.Background()

	t.Run("unknown stage", func(t *testing.T) {
		_, err := eng.Compose(ctx, Request{
			Signals:   avatar.Signals{Stage: "lukewarm"},
			AssetType: "objection_email",
		})
		var stageErr *catalog.UnknownAwarenessStageError
		if !errors.As(err, &stageErr) {
			t.Fatalf("error = %v, want *UnknownAwarenessStageError", err)
		}
	})

	t.Run("unknown asset type", func(t *testing.T) {
		_, err := eng.Compose(ctx, Request{
			Signals:   avatar.Signals{Stage: "problem_aware"},
			AssetType: "skywriting",
		})
		var assetErr *assets.UnknownAssetTypeError
		if !errors.As(err, &assetErr) {
			t.Fatalf("error = %v, want *UnknownAssetTypeError", err)
		}
	})

	t.Run("insufficient content names missing type", func(t *testing.T) {
		// The catalog has no offer_line fragments, so sales_letter
		// cannot compose.
		_, err := eng.Compose(ctx, Request{
			Signals:   avatar.Signals{Stage: "most_aware"},
			AssetType: "sales_letter",
		})
		var insufficient *selection.InsufficientContentError
		if !errors.As(err, &insufficient) {
			t.Fatalf("error = %v, want *InsufficientContentError", err)
		}
		if insufficient.FragmentType != catalog.TypeOfferLine {
			t.Errorf("missing type = %q, want offer_line", insufficient.FragmentType)
		}
	})
}

func TestEngine_DefaultVariables(t *testing.T) {
	store, err := catalog.Parse(strings.NewReader(`
fragments:
  - id: offer.a
    type: offer_line
    stages: [most_aware]
    text: "Get {product} for {price}."
  - id: hook.a
    type: hook
    stages: [most_aware]
    text: "Hook."
  - id: pain.a
    type: pain_point
    stages: [most_aware]
    text: "Pain."
`))
	if err != nil {
		t.Fatal(err)
	}
	templates, err := assets.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	eng := New(Config{
		Snapshot:         catalog.NewSnapshot(store),
		Templates:        templates,
		DefaultVariables: map[string]string{"product": "Inner Architect", "price": "$497"},
	})

	t.Run("defaults fill missing variables", func(t *testing.T) {
		result, err := eng.Compose(context.Background(), Request{
			Signals:   avatar.Signals{Stage: "most_aware"},
			AssetType: "ad_script",
		})
		if err != nil {
			t.Fatalf("Compose() error = %v", err)
		}
		if !strings.Contains(result.RenderedText, "Get Inner Architect for $497.") {
			t.Errorf("RenderedText = %q", result.RenderedText)
		}
	})

	t.Run("request variables override defaults", func(t *testing.T) {
		result, err := eng.Compose(context.Background(), Request{
			Signals:   avatar.Signals{Stage: "most_aware"},
			AssetType: "ad_script",
			Variables: map[string]string{"price": "$297"},
		})
		if err != nil {
			t.Fatalf("Compose() error = %v", err)
		}
		if !strings.Contains(result.RenderedText, "for $297.") {
			t.Errorf("RenderedText = %q", result.RenderedText)
		}
	})

	t.Run("missing variable still fails", func(t *testing.T) {
		bare := New(Config{Snapshot: catalog.NewSnapshot(store), Templates: templates})
		_, err := bare.Compose(context.Background(), Request{
			Signals:   avatar.Signals{Stage: "most_aware"},
			AssetType: "ad_script",
		})
		var unresolved *compose.UnresolvedVariableError
		if !errors.As(err, &unresolved) {
			t.Fatalf("error = %v, want *UnresolvedVariableError", err)
		}
	})
}
