// Package theme defines the dial palettes. Built-in palettes can be extended
// or overridden by a themes.yaml next to the settings file.
package theme

import (
	"fmt"
	"image/color"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultName is the palette used when the configured theme is unknown.
const DefaultName = "midnight_gold"

// Theme is a complete dial palette.
type Theme struct {
	Label     string
	BgOuter   color.NRGBA
	BgDisc    color.NRGBA
	BgInner   color.NRGBA
	Arc       color.NRGBA
	TickMajor color.NRGBA
	TickMinor color.NRGBA
	TextTime  color.NRGBA
	TextMode  color.NRGBA
	TextSet   color.NRGBA
	Hand      color.NRGBA
	Shadow    color.NRGBA
}

// BuiltIn returns the shipped palettes.
func BuiltIn() map[string]Theme {
	return map[string]Theme{
		"midnight_gold": {
			Label:     "Midnight Gold",
			BgOuter:   color.NRGBA{R: 15, G: 52, B: 67, A: 255},
			BgDisc:    color.NRGBA{R: 23, G: 58, B: 70, A: 255},
			BgInner:   color.NRGBA{R: 11, G: 40, B: 50, A: 255},
			Arc:       color.NRGBA{R: 180, G: 154, B: 82, A: 255},
			TickMajor: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			TickMinor: color.NRGBA{R: 220, G: 220, B: 220, A: 255},
			TextTime:  color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			TextMode:  color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			TextSet:   color.NRGBA{R: 230, G: 211, B: 154, A: 255},
			Hand:      color.NRGBA{R: 230, G: 211, B: 154, A: 255},
			Shadow:    color.NRGBA{A: 80},
		},
		"dark": {
			Label:     "Dark",
			BgOuter:   color.NRGBA{R: 28, G: 30, B: 34, A: 255},
			BgDisc:    color.NRGBA{R: 38, G: 41, B: 46, A: 255},
			BgInner:   color.NRGBA{R: 32, G: 34, B: 38, A: 255},
			Arc:       color.NRGBA{R: 229, G: 75, B: 75, A: 255},
			TickMajor: color.NRGBA{R: 90, G: 95, B: 105, A: 255},
			TickMinor: color.NRGBA{R: 55, G: 58, B: 64, A: 255},
			TextTime:  color.NRGBA{R: 240, G: 240, B: 245, A: 255},
			TextMode:  color.NRGBA{R: 120, G: 125, B: 135, A: 255},
			TextSet:   color.NRGBA{R: 90, G: 95, B: 105, A: 255},
			Hand:      color.NRGBA{R: 240, G: 240, B: 245, A: 255},
			Shadow:    color.NRGBA{A: 80},
		},
		"light": {
			Label:     "Light",
			BgOuter:   color.NRGBA{R: 240, G: 242, B: 246, A: 255},
			BgDisc:    color.NRGBA{R: 225, G: 228, B: 234, A: 255},
			BgInner:   color.NRGBA{R: 250, G: 250, B: 252, A: 255},
			Arc:       color.NRGBA{R: 96, G: 120, B: 160, A: 255},
			TickMajor: color.NRGBA{R: 80, G: 85, B: 95, A: 255},
			TickMinor: color.NRGBA{R: 130, G: 135, B: 145, A: 255},
			TextTime:  color.NRGBA{R: 40, G: 42, B: 46, A: 255},
			TextMode:  color.NRGBA{R: 70, G: 75, B: 85, A: 255},
			TextSet:   color.NRGBA{R: 90, G: 95, B: 105, A: 255},
			Hand:      color.NRGBA{R: 40, G: 42, B: 46, A: 255},
			Shadow:    color.NRGBA{A: 50},
		},
	}
}

type yamlTheme struct {
	Label     string `yaml:"label"`
	BgOuter   string `yaml:"bg_outer"`
	BgDisc    string `yaml:"bg_disc"`
	BgInner   string `yaml:"bg_inner"`
	Arc       string `yaml:"arc"`
	TickMajor string `yaml:"tick_major"`
	TickMinor string `yaml:"tick_minor"`
	TextTime  string `yaml:"text_time"`
	TextMode  string `yaml:"text_mode"`
	TextSet   string `yaml:"text_set"`
	Hand      string `yaml:"hand"`
	Shadow    string `yaml:"shadow"`
}

// Load returns the built-in palettes merged with overrides from the given
// YAML file. A missing file is not an error; a malformed file is reported but
// the built-ins are still returned.
func Load(path string) (map[string]Theme, error) {
	themes := BuiltIn()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, fmt.Errorf("read themes file: %w", err)
	}

	var fileData map[string]yamlTheme
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return themes, fmt.Errorf("parse themes yaml: %w", err)
	}

	for name, entry := range fileData {
		base, ok := themes[name]
		if !ok {
			base = themes[DefaultName]
		}
		themes[name] = applyOverride(base, entry, name)
	}
	return themes, nil
}

// Lookup returns the named theme, falling back to the default palette.
func Lookup(themes map[string]Theme, name string) Theme {
	if theme, ok := themes[name]; ok {
		return theme
	}
	return themes[DefaultName]
}

// Names returns theme names sorted for stable menu order.
func Names(themes map[string]Theme) []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func applyOverride(base Theme, entry yamlTheme, name string) Theme {
	merged := base
	if entry.Label != "" {
		merged.Label = entry.Label
	} else if merged.Label == "" {
		merged.Label = name
	}
	applyColor(&merged.BgOuter, entry.BgOuter)
	applyColor(&merged.BgDisc, entry.BgDisc)
	applyColor(&merged.BgInner, entry.BgInner)
	applyColor(&merged.Arc, entry.Arc)
	applyColor(&merged.TickMajor, entry.TickMajor)
	applyColor(&merged.TickMinor, entry.TickMinor)
	applyColor(&merged.TextTime, entry.TextTime)
	applyColor(&merged.TextMode, entry.TextMode)
	applyColor(&merged.TextSet, entry.TextSet)
	applyColor(&merged.Hand, entry.Hand)
	applyColor(&merged.Shadow, entry.Shadow)
	return merged
}

func applyColor(target *color.NRGBA, value string) {
	if value == "" {
		return
	}
	parsed, err := ParseHexColor(value)
	if err != nil {
		return
	}
	*target = parsed
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseHexColor(value string) (color.NRGBA, error) {
	if len(value) == 0 || value[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("hex color %q: missing '#'", value)
	}
	hex := value[1:]

	switch len(hex) {
	case 6:
		var r, g, b uint8
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("hex color %q: %w", value, err)
		}
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	case 8:
		var r, g, b, a uint8
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("hex color %q: %w", value, err)
		}
		return color.NRGBA{R: r, G: g, B: b, A: a}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("hex color %q: want 6 or 8 digits", value)
	}
}

// WithAlpha returns the color with its alpha replaced.
func WithAlpha(base color.NRGBA, alpha uint8) color.NRGBA {
	base.A = alpha
	return base
}
