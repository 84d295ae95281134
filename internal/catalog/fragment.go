package catalog

import "fmt"

// FragmentType classifies a fragment's role in an assembled asset.
type FragmentType string

const (
	TypeHook       FragmentType = "hook"
	TypePainPoint  FragmentType = "pain_point"
	TypeObjection  FragmentType = "objection"
	TypeResponse   FragmentType = "response"
	TypeProofPoint FragmentType = "proof_point"
	TypeOfferLine  FragmentType = "offer_line"
)

// FragmentTypes lists all valid fragment types.
func FragmentTypes() []FragmentType {
	return []FragmentType{
		TypeHook,
		TypePainPoint,
		TypeObjection,
		TypeResponse,
		TypeProofPoint,
		TypeOfferLine,
	}
}

// Valid reports whether t is a known fragment type.
func (t FragmentType) Valid() bool {
	switch t {
	case TypeHook, TypePainPoint, TypeObjection, TypeResponse, TypeProofPoint, TypeOfferLine:
		return true
	}
	return false
}

// ParseFragmentType resolves a type name to a FragmentType.
func ParseFragmentType(input string) (FragmentType, error) {
	t := FragmentType(input)
	if !t.Valid() {
		return "", fmt.Errorf("unknown fragment type: %q", input)
	}
	return t, nil
}

// Fragment is a single reusable block of marketing copy.
//
// Fragments are immutable after load. Stages and Tags have set semantics;
// a fragment with no tags is tag-agnostic and matches any request.
type Fragment struct {
	ID       string       `json:"id" yaml:"id"`
	Type     FragmentType `json:"type" yaml:"type"`
	Stages   []Stage      `json:"stages" yaml:"stages"`
	Tags     []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Text     string       `json:"text" yaml:"text"`
	Priority int          `json:"priority" yaml:"priority"`
}

// HasStage reports whether the fragment applies to the given stage.
func (f *Fragment) HasStage(stage Stage) bool {
	for _, s := range f.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// TagAgnostic reports whether the fragment declares no tags.
// Tag-agnostic fragments match every request tag set.
func (f *Fragment) TagAgnostic() bool {
	return len(f.Tags) == 0
}

// MatchesTags reports whether the fragment matches the given tag set:
// either the fragment is tag-agnostic, or the intersection is non-empty.
func (f *Fragment) MatchesTags(tags []string) bool {
	if f.TagAgnostic() {
		return true
	}
	for _, want := range tags {
		for _, have := range f.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}
