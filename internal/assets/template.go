// Package assets defines asset templates: the structural recipes that
// turn selected fragments into a finished document. Built-in templates
// ship embedded in the binary; content authors can override or extend
// them from a templates directory.
package assets

import (
	"github.com/copyforge/copyforge/internal/catalog"
)

// Slot is one structural position in an asset: which fragment type
// fills it and how many fragments it accepts.
type Slot struct {
	Type catalog.FragmentType `json:"type" yaml:"type"`

	// Max caps fragments taken for this slot. Zero means one.
	Max int `json:"max,omitempty" yaml:"max,omitempty"`

	// Heading, when set, is rendered above the slot's fragments.
	Heading string `json:"heading,omitempty" yaml:"heading,omitempty"`
}

// Limit returns the effective fragment cap for the slot.
func (s Slot) Limit() int {
	if s.Max <= 0 {
		return 1
	}
	return s.Max
}

// Template defines the structure of one output asset type.
type Template struct {
	AssetType   string `json:"asset_type" yaml:"asset_type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Slots are filled in order; every slot is required.
	Slots []Slot `json:"slots" yaml:"slots"`

	// Separator joins rendered blocks. Empty means a blank line.
	Separator string `json:"separator,omitempty" yaml:"separator,omitempty"`
}

// BlockSeparator returns the effective separator between blocks.
func (t *Template) BlockSeparator() string {
	if t.Separator == "" {
		return "\n\n"
	}
	return t.Separator
}

// RequiredTypes returns the fragment types of all slots in order.
func (t *Template) RequiredTypes() []catalog.FragmentType {
	types := make([]catalog.FragmentType, len(t.Slots))
	for i, slot := range t.Slots {
		types[i] = slot.Type
	}
	return types
}
