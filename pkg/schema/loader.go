package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdesk/pkg/model"
)

//go:embed forms/*.yaml
var embeddedForms embed.FS

// DefaultFormsFS exposes the built-in form definitions.
func DefaultFormsFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		return embeddedForms
	}
	return sub
}

// Default returns a registry holding the built-in form types.
func Default() (*Registry, error) {
	return LoadFS(DefaultFormsFS())
}

// MustDefault panics when the embedded forms fail to load.
func MustDefault() *Registry {
	registry, err := Default()
	if err != nil {
		panic(err)
	}
	return registry
}

// LoadDir loads every form file under a directory on disk, or a single file
// when path points at one.
func LoadDir(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("schema: forms path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("schema: stat %s: %w", path, err)
	}
	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("schema: read %s: %w", path, err)
		}
		registry := NewRegistry()
		if err := registerDocument(registry, data, path); err != nil {
			return nil, err
		}
		return registry, nil
	}
	return LoadFS(os.DirFS(path))
}

// LoadFS walks the provided filesystem and parses JSON/YAML form files. Files
// are visited in lexical order, so registration order is stable across runs.
// A form type defined twice, in the same file or across files, is an error.
func LoadFS(fsys fs.FS) (*Registry, error) {
	registry := NewRegistry()
	if fsys == nil {
		return registry, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isFormFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		return registerDocument(registry, data, path)
	})
	if err != nil {
		return nil, err
	}

	return registry, nil
}

type documentFile struct {
	Forms []formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Name        string      `json:"name" yaml:"name"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Fields      []fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Name        string   `json:"name" yaml:"name"`
	Kind        string   `json:"kind" yaml:"kind"`
	Type        string   `json:"type" yaml:"type"`
	Label       string   `json:"label" yaml:"label"`
	Options     []string `json:"options" yaml:"options"`
	Required    bool     `json:"required" yaml:"required"`
	Placeholder string   `json:"placeholder" yaml:"placeholder"`
	Description string   `json:"description" yaml:"description"`
}

func registerDocument(registry *Registry, data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}
	for idx, raw := range doc.Forms {
		form := raw.toSchema()
		if strings.TrimSpace(form.Name) == "" {
			return fmt.Errorf("schema: file %s form %d has an empty name", source, idx)
		}
		if registry.Has(form.Name) {
			return fmt.Errorf("schema: duplicate form type %q (file %s)", form.Name, source)
		}
		if err := registry.Register(form); err != nil {
			return fmt.Errorf("schema: file %s: %w", source, err)
		}
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("schema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML", source)
}

func (f formFile) toSchema() model.FormSchema {
	form := model.FormSchema{
		Name:        sanitizeText(f.Name),
		Title:       sanitizeText(f.Title),
		Description: sanitizeText(f.Description),
		Fields:      make([]model.Field, 0, len(f.Fields)),
	}
	for _, raw := range f.Fields {
		kind := raw.Kind
		if strings.TrimSpace(kind) == "" {
			kind = raw.Type
		}
		field := model.Field{
			Name:        strings.TrimSpace(raw.Name),
			Kind:        model.ParseFieldKind(kind),
			Label:       sanitizeText(raw.Label),
			Required:    raw.Required,
			Placeholder: sanitizeText(raw.Placeholder),
			Description: sanitizeText(raw.Description),
		}
		for _, option := range raw.Options {
			if cleaned := sanitizeText(option); cleaned != "" {
				field.Options = append(field.Options, cleaned)
			}
		}
		form.Fields = append(form.Fields, field)
	}
	return form
}

func isFormFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
