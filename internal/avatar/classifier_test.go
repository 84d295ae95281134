package avatar

import (
	"errors"
	"reflect"
	"testing"

	"github.com/copyforge/copyforge/internal/catalog"
)

func TestClassify_ExplicitStage(t *testing.T) {
	tests := []struct {
		name    string
		signals Signals
		want    Profile
	}{
		{
			name:    "canonical stage",
			signals: Signals{Stage: "problem_aware"},
			want:    Profile{Stage: catalog.StageProblemAware},
		},
		{
			name:    "stage synonym",
			signals: Signals{Stage: "ready to buy"},
			want:    Profile{Stage: catalog.StageMostAware},
		},
		{
			name:    "tags normalized",
			signals: Signals{Stage: "most_aware", Tags: []string{" Analytical", "analytical", "PRICE_SENSITIVE", ""}},
			want:    Profile{Stage: catalog.StageMostAware, Tags: []string{"analytical", "price_sensitive"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.signals)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClassify_Keywords(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		want     catalog.Stage
	}{
		{"problem language", []string{"I've tried everything and nothing sticks"}, catalog.StageProblemAware},
		{"buying signal", []string{"ready to buy, just waiting on payday"}, catalog.StageMostAware},
		{"buying signal outranks problem language", []string{"tried everything", "sign me up"}, catalog.StageMostAware},
		{"unaware", []string{"honestly I'm doing fine"}, catalog.StageUnaware},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(Signals{Keywords: tt.keywords})
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got.Stage != tt.want {
				t.Errorf("Classify() stage = %q, want %q", got.Stage, tt.want)
			}
		})
	}
}

func TestClassify_UnknownStage(t *testing.T) {
	t.Run("bad explicit stage", func(t *testing.T) {
		_, err := Classify(Signals{Stage: "lukewarm"})
		var stageErr *catalog.UnknownAwarenessStageError
		if !errors.As(err, &stageErr) {
			t.Fatalf("error = %v, want *UnknownAwarenessStageError", err)
		}
		if stageErr.Input != "lukewarm" {
			t.Errorf("error input = %q, want %q", stageErr.Input, "lukewarm")
		}
	})

	t.Run("no stage and no keyword hit", func(t *testing.T) {
		_, err := Classify(Signals{Keywords: []string{"hello there"}})
		var stageErr *catalog.UnknownAwarenessStageError
		if !errors.As(err, &stageErr) {
			t.Fatalf("error = %v, want *UnknownAwarenessStageError", err)
		}
	})

	t.Run("empty signals", func(t *testing.T) {
		_, err := Classify(Signals{})
		if err == nil {
			t.Fatal("expected error for empty signals")
		}
	})
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"Zebra", " apple ", "zebra", "", "Apple"})
	want := []string{"apple", "zebra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags() = %v, want %v", got, want)
	}
}
