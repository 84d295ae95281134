// Package selection picks concrete fragments for an avatar profile
// against an asset template's structural requirements.
package selection

import (
	"fmt"

	"github.com/copyforge/copyforge/internal/assets"
	"github.com/copyforge/copyforge/internal/avatar"
	"github.com/copyforge/copyforge/internal/catalog"
)

// InsufficientContentError means a required slot had zero matching
// fragments. It names the gap so content authors know what to write;
// partial documents are never produced.
type InsufficientContentError struct {
	FragmentType catalog.FragmentType
	AssetType    string
	Stage        catalog.Stage
	Tags         []string
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("no %s fragments for asset %q at stage %q (tags %v)",
		e.FragmentType, e.AssetType, e.Stage, e.Tags)
}

// Block is one filled template slot: the slot definition plus the
// fragments selected for it, in final document order.
type Block struct {
	Slot      assets.Slot
	Fragments []catalog.Fragment
}

// Select fills each template slot in order from the store: top-priority
// fragments matching the profile's stage and tags, up to the slot's
// limit. Equal priorities break on id, so identical inputs always
// produce the identical fragment sequence.
func Select(store *catalog.Store, profile avatar.Profile, tmpl assets.Template) ([]Block, error) {
	blocks := make([]Block, 0, len(tmpl.Slots))

	for _, slot := range tmpl.Slots {
		matches := store.Query(slot.Type, profile.Stage, profile.Tags)
		if len(matches) == 0 {
			return nil, &InsufficientContentError{
				FragmentType: slot.Type,
				AssetType:    tmpl.AssetType,
				Stage:        profile.Stage,
				Tags:         profile.Tags,
			}
		}

		limit := slot.Limit()
		if limit > len(matches) {
			limit = len(matches)
		}
		blocks = append(blocks, Block{Slot: slot, Fragments: matches[:limit]})
	}

	return blocks, nil
}

// Fragments flattens blocks into the ordered fragment list.
func Fragments(blocks []Block) []catalog.Fragment {
	var out []catalog.Fragment
	for _, b := range blocks {
		out = append(out, b.Fragments...)
	}
	return out
}
