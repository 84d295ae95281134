package catalog

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// fragmentSchema validates raw fragment records before decoding.
var fragmentSchema = mustCompileSchema("schemas/fragment.json")

func mustCompileSchema(path string) *jsonschema.Schema {
	data, err := schemaFS.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("embedded schema missing: %s", path))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(path, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("invalid embedded schema %s: %v", path, err))
	}
	schema, err := compiler.Compile(path)
	if err != nil {
		panic(fmt.Sprintf("failed to compile embedded schema %s: %v", path, err))
	}
	return schema
}

// MalformedFragmentError is a load-time data error: a fragment record is
// missing required fields, declares an unknown stage or type, or otherwise
// violates the catalog schema. Load-time errors are fatal at startup.
type MalformedFragmentError struct {
	ID     string // fragment id if known, empty otherwise
	Index  int    // zero-based position in the source file
	Reason string
}

func (e *MalformedFragmentError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("malformed fragment %q (record %d): %s", e.ID, e.Index, e.Reason)
	}
	return fmt.Sprintf("malformed fragment at record %d: %s", e.Index, e.Reason)
}

// catalogFile is the on-disk shape of a catalog YAML file.
type catalogFile struct {
	Fragments []yaml.Node `yaml:"fragments"`
}

// Load reads and validates a catalog YAML file from disk.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	store, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return store, nil
}

// Parse reads catalog YAML from r, validates each fragment record against
// the embedded JSON Schema, and builds an indexed read-only Store.
func Parse(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if len(file.Fragments) == 0 {
		return nil, fmt.Errorf("catalog declares no fragments")
	}

	fragments := make([]Fragment, 0, len(file.Fragments))
	seen := make(map[string]bool, len(file.Fragments))

	for i, node := range file.Fragments {
		frag, err := decodeFragment(i, &node)
		if err != nil {
			return nil, err
		}
		if seen[frag.ID] {
			return nil, &MalformedFragmentError{ID: frag.ID, Index: i, Reason: "duplicate fragment id"}
		}
		seen[frag.ID] = true
		fragments = append(fragments, frag)
	}

	return newStore(fragments), nil
}

// decodeFragment validates and decodes a single raw fragment record.
func decodeFragment(index int, node *yaml.Node) (Fragment, error) {
	// Schema validation runs on a JSON-shaped value: YAML node -> generic
	// value -> JSON round-trip, so jsonschema sees the types it expects.
	var raw any
	if err := node.Decode(&raw); err != nil {
		return Fragment{}, &MalformedFragmentError{Index: index, Reason: err.Error()}
	}
	jsonVal, err := toJSONValue(raw)
	if err != nil {
		return Fragment{}, &MalformedFragmentError{Index: index, Reason: err.Error()}
	}
	if err := fragmentSchema.Validate(jsonVal); err != nil {
		return Fragment{}, &MalformedFragmentError{ID: rawID(raw), Index: index, Reason: schemaReason(err)}
	}

	var rec struct {
		ID       string   `yaml:"id"`
		Type     string   `yaml:"type"`
		Stages   []string `yaml:"stages"`
		Tags     []string `yaml:"tags"`
		Text     string   `yaml:"text"`
		Priority int      `yaml:"priority"`
	}
	if err := node.Decode(&rec); err != nil {
		return Fragment{}, &MalformedFragmentError{Index: index, Reason: err.Error()}
	}

	ftype, err := ParseFragmentType(rec.Type)
	if err != nil {
		return Fragment{}, &MalformedFragmentError{ID: rec.ID, Index: index, Reason: err.Error()}
	}

	// Stages and tags have set semantics; distinct synonyms of the same
	// canonical stage collapse here so a fragment is indexed once per
	// stage.
	stages := make([]Stage, 0, len(rec.Stages))
	seenStages := make(map[Stage]bool, len(rec.Stages))
	for _, s := range rec.Stages {
		stage, err := ParseStage(s)
		if err != nil {
			return Fragment{}, &MalformedFragmentError{ID: rec.ID, Index: index, Reason: err.Error()}
		}
		if seenStages[stage] {
			continue
		}
		seenStages[stage] = true
		stages = append(stages, stage)
	}

	tags := make([]string, 0, len(rec.Tags))
	seenTags := make(map[string]bool, len(rec.Tags))
	for _, tag := range rec.Tags {
		norm := strings.ToLower(strings.TrimSpace(tag))
		if norm == "" || seenTags[norm] {
			continue
		}
		seenTags[norm] = true
		tags = append(tags, norm)
	}
	sort.Strings(tags)

	return Fragment{
		ID:       rec.ID,
		Type:     ftype,
		Stages:   stages,
		Tags:     tags,
		Text:     rec.Text,
		Priority: rec.Priority,
	}, nil
}

// toJSONValue converts a YAML-decoded value into its encoding/json
// representation so jsonschema validation behaves consistently.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("record is not JSON-representable: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// rawID extracts the id field from a raw record for error context.
func rawID(raw any) string {
	m, ok := raw.(map[string]any)
	if !ok {
		return ""
	}
	id, _ := m["id"].(string)
	return id
}

// schemaReason flattens a jsonschema validation error into a single line.
func schemaReason(err error) string {
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		leaf := ve
		for len(leaf.Causes) > 0 {
			leaf = leaf.Causes[0]
		}
		loc := strings.TrimPrefix(leaf.InstanceLocation, "/")
		if loc == "" {
			return leaf.Message
		}
		return fmt.Sprintf("%s: %s", loc, leaf.Message)
	}
	return err.Error()
}
