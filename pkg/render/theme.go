package render

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// ErrThemeNotFound is returned when a selector cannot resolve a theme name.
var ErrThemeNotFound = errors.New("render: theme not found")

// ThemeCatalog is an in-memory go-theme selector over registered manifests.
type ThemeCatalog struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ThemeCatalog)(nil)

// NewThemeCatalog returns an empty catalog with the given defaults. An empty
// defaultTheme selects the first registered manifest.
func NewThemeCatalog(defaultTheme, defaultVariant string) *ThemeCatalog {
	return &ThemeCatalog{
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
}

// Register adds a manifest keyed by its Name.
func (c *ThemeCatalog) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return fmt.Errorf("render: theme manifest is nil")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return fmt.Errorf("render: theme manifest name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.manifests[name]; exists {
		return fmt.Errorf("render: theme %q already registered", name)
	}
	c.manifests[name] = manifest
	if c.defaultTheme == "" {
		c.defaultTheme = name
	}
	return nil
}

// Select resolves a theme and variant, applying catalog defaults for empty
// arguments. Unknown variants are rejected.
func (c *ThemeCatalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = c.defaultTheme
	}
	manifest, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = c.defaultVariant
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ThemeConfig flattens a selection into renderer configuration: variant
// tokens, templates, and asset files override the base manifest, tokens are
// mirrored as "--token" CSS variables, and fallbacks fill partials neither
// declares.
func ThemeConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant, hasVariant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, nil)
	partials := mergeStrings(fallbacks, manifest.Templates)
	files := mergeStrings(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix
	if hasVariant {
		tokens = mergeStrings(tokens, variant.Tokens)
		partials = mergeStrings(partials, variant.Templates)
		files = mergeStrings(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			if prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

// CSSVarsStyle renders CSS variables as a deterministic :root block.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

type manifestFile struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Tokens    map[string]string      `yaml:"tokens"`
	Templates map[string]string      `yaml:"templates"`
	Assets    assetsFile             `yaml:"assets"`
	Variants  map[string]variantFile `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type variantFile struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
}

// ParseThemeManifest decodes a YAML (or JSON) go-theme manifest.
func ParseThemeManifest(data []byte) (*theme.Manifest, error) {
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("render: parse theme manifest: %w", err)
	}
	if strings.TrimSpace(file.Name) == "" {
		return nil, fmt.Errorf("render: theme manifest name is required")
	}

	manifest := &theme.Manifest{
		Name:      strings.TrimSpace(file.Name),
		Version:   file.Version,
		Tokens:    file.Tokens,
		Templates: file.Templates,
		Assets:    theme.Assets{Prefix: file.Assets.Prefix, Files: file.Assets.Files},
	}
	if len(file.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(file.Variants))
		for name, variant := range file.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    variant.Tokens,
				Templates: variant.Templates,
				Assets:    theme.Assets{Prefix: variant.Assets.Prefix, Files: variant.Assets.Files},
			}
		}
	}
	return manifest, nil
}

// LoadThemeFile reads a manifest from disk, registers it in a new catalog,
// and resolves it into renderer configuration for variant.
func LoadThemeFile(filename, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("render: read theme %s: %w", filename, err)
	}
	manifest, err := ParseThemeManifest(data)
	if err != nil {
		return nil, err
	}
	catalog := NewThemeCatalog(manifest.Name, variant)
	if err := catalog.Register(manifest); err != nil {
		return nil, err
	}
	selection, err := catalog.Select("", "")
	if err != nil {
		return nil, err
	}
	return ThemeConfig(selection, fallbacks), nil
}

func mergeStrings(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}
