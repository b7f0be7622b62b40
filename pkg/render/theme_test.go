package render_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdesk/pkg/render"
)

func acmeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":   "#123456",
			"surface": "#ffffff",
		},
		Templates: map[string]string{
			"page": "themes/acme/page.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				"stylesheet": "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{"brand": "#654321"},
				Assets: theme.Assets{
					Files: map[string]string{"logo": "logo.dark.svg"},
				},
			},
		},
	}
}

func TestThemeCatalog_SelectAndConfig(t *testing.T) {
	catalog := render.NewThemeCatalog("", "")
	if err := catalog.Register(acmeManifest()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := catalog.Register(acmeManifest()); err == nil {
		t.Fatalf("expected duplicate theme to fail")
	}

	selection, err := catalog.Select("", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := render.ThemeConfig(selection, map[string]string{"table": "templates/table.tmpl"})
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Tokens["brand"] != "#654321" || cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("expected variant tokens to win, got %v / %v", cfg.Tokens, cfg.CSSVars)
	}
	if cfg.Partials["page"] != "themes/acme/page.tmpl" || cfg.Partials["table"] != "templates/table.tmpl" {
		t.Fatalf("unexpected partials %v", cfg.Partials)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("logo"); got != "/assets/themes/acme/logo.dark.svg" {
		t.Fatalf("unexpected logo url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}

	if _, err := catalog.Select("other", ""); !errors.Is(err, render.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if _, err := catalog.Select("acme", "sepia"); err == nil {
		t.Fatalf("expected unknown variant to fail")
	}
}

func TestCSSVarsStyle(t *testing.T) {
	got := render.CSSVarsStyle(map[string]string{"--b": "2", "--a": "1"})
	want := ":root {\n--a: 1;\n--b: 2;\n}"
	if got != want {
		t.Fatalf("unexpected style:\n%s", got)
	}
	if render.CSSVarsStyle(nil) != "" {
		t.Fatalf("expected empty style for no vars")
	}
}

func TestLoadThemeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	manifest := []byte(`name: paper
tokens:
  accent: "#0a7"
variants:
  night:
    tokens:
      accent: "#7f0"
`)
	if err := os.WriteFile(path, manifest, 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	cfg, err := render.LoadThemeFile(path, "night", nil)
	if err != nil {
		t.Fatalf("load theme: %v", err)
	}
	if cfg.Theme != "paper" || cfg.CSSVars["--accent"] != "#7f0" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if _, err := render.ParseThemeManifest([]byte("tokens: {}")); err == nil {
		t.Fatalf("expected nameless manifest to fail")
	}
}
