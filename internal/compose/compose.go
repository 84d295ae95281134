// Package compose renders selected fragments into a final document,
// substituting {variable} placeholders from a caller-supplied mapping.
package compose

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/copyforge/copyforge/internal/assets"
	"github.com/copyforge/copyforge/internal/avatar"
	"github.com/copyforge/copyforge/internal/selection"
)

// UnresolvedVariableError means a fragment references a variable the
// caller did not supply. Shipping a literal {price} into customer-facing
// copy is a hard failure, not a cosmetic one.
type UnresolvedVariableError struct {
	Name       string
	FragmentID string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("unresolved variable {%s} in fragment %q", e.Name, e.FragmentID)
}

// Document is a fully rendered asset. Read-only once created.
type Document struct {
	ID           string            `json:"id" yaml:"id"`
	AssetType    string            `json:"asset_type" yaml:"asset_type"`
	Profile      avatar.Profile    `json:"profile" yaml:"profile"`
	FragmentIDs  []string          `json:"fragment_ids" yaml:"fragment_ids"`
	Fragments    []string          `json:"fragments" yaml:"fragments"`
	RenderedText string            `json:"rendered_text" yaml:"rendered_text"`
	Variables    map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
	ComposedAt   time.Time         `json:"composed_at" yaml:"composed_at"`
}

// Compose renders the selected blocks in template order. Each fragment's
// {variable} placeholders are resolved from vars; missing keys fail with
// UnresolvedVariableError. Escaped braces {{ and }} render literally.
// Pure single-pass function of its inputs apart from the document id
// and timestamp.
func Compose(profile avatar.Profile, tmpl assets.Template, blocks []selection.Block, vars map[string]string) (*Document, error) {
	var (
		parts       []string
		texts       []string
		fragmentIDs []string
	)

	for _, block := range blocks {
		var blockParts []string
		if block.Slot.Heading != "" {
			heading, err := substitute(block.Slot.Heading, "", vars)
			if err != nil {
				return nil, err
			}
			blockParts = append(blockParts, heading)
		}
		for _, frag := range block.Fragments {
			text, err := substitute(frag.Text, frag.ID, vars)
			if err != nil {
				return nil, err
			}
			blockParts = append(blockParts, text)
			texts = append(texts, text)
			fragmentIDs = append(fragmentIDs, frag.ID)
		}
		parts = append(parts, strings.Join(blockParts, "\n\n"))
	}

	return &Document{
		ID:           uuid.NewString(),
		AssetType:    tmpl.AssetType,
		Profile:      profile,
		FragmentIDs:  fragmentIDs,
		Fragments:    texts,
		RenderedText: strings.Join(parts, tmpl.BlockSeparator()),
		Variables:    vars,
		ComposedAt:   time.Now().UTC(),
	}, nil
}

// substitute resolves {name} placeholders in text from vars. {{ and }}
// are escapes for literal braces. An unterminated placeholder or a
// missing key is an error naming the variable and fragment.
func substitute(text, fragmentID string, vars map[string]string) (string, error) {
	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{':
			out.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(text) && text[i+1] == '}':
			out.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				return "", &UnresolvedVariableError{Name: text[i+1:], FragmentID: fragmentID}
			}
			name := text[i+1 : i+end]
			value, ok := vars[name]
			if !ok {
				return "", &UnresolvedVariableError{Name: name, FragmentID: fragmentID}
			}
			out.WriteString(value)
			i += end + 1
		default:
			out.WriteByte(c)
			i++
		}
	}

	return out.String(), nil
}
