package html

import (
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName names the built-in theme.
const DefaultThemeName = "default"

// DefaultManifest is the built-in theme: the blue header and buttons of the
// original form, with a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":          "#2563eb",
			"brand-contrast": "#ffffff",
			"text":           "#111827",
			"background":     "#ffffff",
			"muted":          "#e5e7eb",
			"danger":         "#dc2626",
			"font-family":    "system-ui, sans-serif",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"text":       "#f9fafb",
					"background": "#111827",
					"muted":      "#374151",
				},
			},
		},
	}
}

// ThemeConfig resolves manifest and variant into the renderer configuration:
// merged tokens, their CSS custom properties and an asset resolver.
func ThemeConfig(manifest *theme.Manifest, variant string) *theme.RendererConfig {
	if manifest == nil {
		return nil
	}

	tokens := maps.Clone(manifest.Tokens)
	if tokens == nil {
		tokens = make(map[string]string)
	}
	files := maps.Clone(manifest.Assets.Files)
	if files == nil {
		files = make(map[string]string)
	}
	prefix := manifest.Assets.Prefix

	if v, ok := manifest.Variants[variant]; ok {
		maps.Copy(tokens, v.Tokens)
		maps.Copy(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	} else {
		variant = ""
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:   manifest.Name,
		Variant: variant,
		Tokens:  tokens,
		CSSVars: cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

// SelectTheme resolves ref, written "name" or "name/variant", against the
// built-in manifest and any extra manifests. An empty ref selects the default
// theme.
func SelectTheme(ref string, extra ...*theme.Manifest) (*theme.RendererConfig, error) {
	name, variant, _ := strings.Cut(strings.TrimSpace(ref), "/")
	if name == "" {
		name = DefaultThemeName
	}
	for _, manifest := range append([]*theme.Manifest{DefaultManifest()}, extra...) {
		if manifest == nil || manifest.Name != name {
			continue
		}
		if variant != "" {
			if _, ok := manifest.Variants[variant]; !ok {
				return nil, fmt.Errorf("html: theme %q has no variant %q", name, variant)
			}
		}
		return ThemeConfig(manifest, variant), nil
	}
	return nil, fmt.Errorf("html: unknown theme %q", name)
}

func cssVarsStyle(vars map[string]string) string {
	var b strings.Builder
	for _, key := range slices.Sorted(maps.Keys(vars)) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}
