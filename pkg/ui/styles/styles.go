// Package styles holds the named styles used in output templates.
//
// Styles and their adaptive colors are declared in the embedded styles.yaml
// and looked up by the tag names templates use, e.g. <Success>linked</Success>.
package styles

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dotlink/pkg/ui/lipbalm"
)

// ColorDef is an adaptive color
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is one named style
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Width      int    `yaml:"width,omitempty"`
	MarginTop  int    `yaml:"marginTop,omitempty"`
	MarginLeft int    `yaml:"marginLeft,omitempty"`
}

// Config is the styles.yaml document
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

// Registry maps style names to lipgloss styles
var Registry lipbalm.StyleMap

func init() {
	if err := LoadFromData(embeddedStyles); err != nil {
		initDefaultStyles()
	}
}

// initDefaultStyles registers unstyled entries so lookups never fail
func initDefaultStyles() {
	Registry = make(lipbalm.StyleMap)
	for _, name := range []string{"Header", "Success", "Error", "Warning", "Info", "Muted", "Bold", "Path"} {
		Registry[name] = lipgloss.NewStyle()
	}
}

// LoadFromData replaces the registry with the styles in data
func LoadFromData(data []byte) error {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse styles: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	registry := make(lipbalm.StyleMap, len(cfg.Styles))
	for name, def := range cfg.Styles {
		if def.Foreground != "" {
			if _, ok := colors[def.Foreground]; !ok {
				return fmt.Errorf("style %s uses unknown color %q", name, def.Foreground)
			}
		}
		registry[name] = buildStyle(def, colors)
	}

	Registry = registry
	return nil
}

func buildStyle(def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := lipgloss.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if def.Foreground != "" {
		style = style.Foreground(colors[def.Foreground])
	}
	if def.Width > 0 {
		style = style.Width(def.Width)
	}
	if def.MarginTop > 0 {
		style = style.MarginTop(def.MarginTop)
	}
	if def.MarginLeft > 0 {
		style = style.MarginLeft(def.MarginLeft)
	}

	return style
}

// Get returns the named style, or an empty style if there is none
func Get(name string) lipgloss.Style {
	if style, ok := Registry[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}
