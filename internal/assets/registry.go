package assets

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml schemas/*.json
var assetFS embed.FS

var templateSchema = mustCompileSchema("schemas/template.json")

func mustCompileSchema(path string) *jsonschema.Schema {
	data, err := assetFS.ReadFile(path)
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

// MalformedTemplateError is a load-time data error in a template
// definition. Like catalog errors, it is fatal at startup.
type MalformedTemplateError struct {
	Source string // file or embedded path
	Reason string
}

func (e *MalformedTemplateError) Error() string {
	return fmt.Sprintf("malformed template %s: %s", e.Source, e.Reason)
}

// Registry holds all known asset templates keyed by asset type.
// Immutable after construction.
type Registry struct {
	templates map[string]Template
}

// Defaults returns a registry of the embedded built-in templates.
func Defaults() (*Registry, error) {
	reg := &Registry{templates: make(map[string]Template)}

	entries, err := fs.Glob(assetFS, "templates/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)

	for _, path := range entries {
		data, err := assetFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded template %s: %w", path, err)
		}
		tmpl, err := parseTemplate(path, data)
		if err != nil {
			return nil, err
		}
		reg.templates[tmpl.AssetType] = tmpl
	}

	return reg, nil
}

// LoadDir returns Defaults overlaid with templates from dir. A user
// template with the same asset_type as a built-in replaces it. A
// missing directory yields just the defaults.
func LoadDir(dir string) (*Registry, error) {
	reg, err := Defaults()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return reg, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return reg, nil
		}
		return nil, fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", path, err)
		}
		tmpl, err := parseTemplate(path, data)
		if err != nil {
			return nil, err
		}
		reg.templates[tmpl.AssetType] = tmpl
	}

	return reg, nil
}

// parseTemplate validates raw template YAML against the embedded JSON
// Schema and decodes it.
func parseTemplate(source string, data []byte) (Template, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Template{}, &MalformedTemplateError{Source: source, Reason: err.Error()}
	}
	jsonVal, err := toJSONValue(raw)
	if err != nil {
		return Template{}, &MalformedTemplateError{Source: source, Reason: err.Error()}
	}
	if err := templateSchema.Validate(jsonVal); err != nil {
		return Template{}, &MalformedTemplateError{Source: source, Reason: schemaReason(err)}
	}

	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return Template{}, &MalformedTemplateError{Source: source, Reason: err.Error()}
	}
	return tmpl, nil
}

func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("template is not JSON-representable: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

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

// UnknownAssetTypeError is returned when no template is registered for
// the requested asset type.
type UnknownAssetTypeError struct {
	AssetType string
	Known     []string
}

func (e *UnknownAssetTypeError) Error() string {
	return fmt.Sprintf("unknown asset type %q (known: %s)", e.AssetType, strings.Join(e.Known, ", "))
}

// Get returns the template for an asset type, or an error naming the
// known types when absent.
func (r *Registry) Get(assetType string) (Template, error) {
	tmpl, ok := r.templates[assetType]
	if !ok {
		return Template{}, &UnknownAssetTypeError{AssetType: assetType, Known: r.AssetTypes()}
	}
	return tmpl, nil
}

// AssetTypes returns all registered asset types, sorted.
func (r *Registry) AssetTypes() []string {
	types := make([]string, 0, len(r.templates))
	for t := range r.templates {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// All returns all templates ordered by asset type.
func (r *Registry) All() []Template {
	out := make([]Template, 0, len(r.templates))
	for _, t := range r.AssetTypes() {
		out = append(out, r.templates[t])
	}
	return out
}
