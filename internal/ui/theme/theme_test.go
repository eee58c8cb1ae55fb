package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltInContainsShippedPalettes(t *testing.T) {
	themes := BuiltIn()

	for _, name := range []string{"midnight_gold", "dark", "light"} {
		assert.Contains(t, themes, name)
	}
	assert.Equal(t, "Midnight Gold", themes[DefaultName].Label)
}

func TestLookupFallsBackToDefault(t *testing.T) {
	themes := BuiltIn()

	assert.Equal(t, themes["dark"], Lookup(themes, "dark"))
	assert.Equal(t, themes[DefaultName], Lookup(themes, "no_such_theme"))
}

func TestNamesAreSorted(t *testing.T) {
	assert.Equal(t, []string{"dark", "light", "midnight_gold"}, Names(BuiltIn()))
}

func TestLoadMissingFileReturnsBuiltIns(t *testing.T) {
	themes, err := Load(filepath.Join(t.TempDir(), "themes.yaml"))

	require.NoError(t, err)
	assert.Equal(t, BuiltIn(), themes)
}

func TestLoadMalformedFileReturnsBuiltInsWithError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dark: [unterminated"), 0o644))

	themes, err := Load(path)

	assert.Error(t, err)
	assert.Equal(t, BuiltIn(), themes)
}

func TestLoadOverridesBuiltInColors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"dark:\n  arc: \"#ff8800\"\n"), 0o644))

	themes, err := Load(path)
	require.NoError(t, err)

	dark := themes["dark"]
	assert.Equal(t, color.NRGBA{R: 255, G: 136, A: 255}, dark.Arc)
	// Untouched fields keep the built-in values.
	assert.Equal(t, BuiltIn()["dark"].BgDisc, dark.BgDisc)
	assert.Equal(t, "Dark", dark.Label)
}

func TestLoadAddsCustomThemeOnDefaultBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"forest:\n  label: Forest\n  bg_disc: \"#123a1e\"\n"), 0o644))

	themes, err := Load(path)
	require.NoError(t, err)

	forest, ok := themes["forest"]
	require.True(t, ok)
	assert.Equal(t, "Forest", forest.Label)
	assert.Equal(t, color.NRGBA{R: 0x12, G: 0x3a, B: 0x1e, A: 255}, forest.BgDisc)
	// Everything not named inherits from the default palette.
	assert.Equal(t, BuiltIn()[DefaultName].Arc, forest.Arc)
}

func TestLoadIgnoresBadColorValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"light:\n  arc: \"teal\"\n  hand: \"#00ff00\"\n"), 0o644))

	themes, err := Load(path)
	require.NoError(t, err)

	light := themes["light"]
	assert.Equal(t, BuiltIn()["light"].Arc, light.Arc)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, light.Hand)
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{input: "#000000", want: color.NRGBA{A: 255}},
		{input: "#ffffff", want: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{input: "#B49A52", want: color.NRGBA{R: 0xb4, G: 0x9a, B: 0x52, A: 255}},
		{input: "#11223344", want: color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}},
		{input: "ffffff", wantErr: true},
		{input: "#fff", wantErr: true},
		{input: "#gggggg", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range cases {
		parsed, err := ParseHexColor(tc.input)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, parsed, "input %q", tc.input)
	}
}

func TestWithAlpha(t *testing.T) {
	base := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 90}, WithAlpha(base, 90))
}
