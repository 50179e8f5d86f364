package draw

import (
	"fmt"
	"image/color"
	"strings"
)

// Theme selects one of the two colour palettes.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme accepts "dark" or "light" (case-insensitive); empty means dark.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case "", ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// Palette holds every colour a renderer may use.
type Palette struct {
	BackgroundTop    color.NRGBA
	BackgroundBottom color.NRGBA
	Node             color.NRGBA
	Interactive      color.NRGBA
	Edge             color.NRGBA
	Blobs            []color.NRGBA
	Particle         color.NRGBA
	Link             color.NRGBA
}

// PaletteFor returns the palette for theme. Unknown themes get the dark one.
func PaletteFor(t Theme) Palette {
	if t == ThemeLight {
		return Palette{
			BackgroundTop:    color.NRGBA{R: 246, G: 248, B: 252, A: 255},
			BackgroundBottom: color.NRGBA{R: 226, G: 232, B: 244, A: 255},
			Node:             color.NRGBA{R: 70, G: 92, B: 160, A: 200},
			Interactive:      color.NRGBA{R: 220, G: 90, B: 60, A: 230},
			Edge:             color.NRGBA{R: 90, G: 110, B: 170, A: 255},
			Blobs: []color.NRGBA{
				{R: 140, G: 170, B: 255, A: 90},
				{R: 255, G: 170, B: 200, A: 80},
				{R: 150, G: 230, B: 210, A: 80},
			},
			Particle: color.NRGBA{R: 80, G: 100, B: 150, A: 180},
			Link:     color.NRGBA{R: 80, G: 100, B: 150, A: 255},
		}
	}
	return Palette{
		BackgroundTop:    color.NRGBA{R: 10, G: 12, B: 24, A: 255},
		BackgroundBottom: color.NRGBA{R: 20, G: 26, B: 48, A: 255},
		Node:             color.NRGBA{R: 170, G: 200, B: 255, A: 220},
		Interactive:      color.NRGBA{R: 255, G: 140, B: 90, A: 240},
		Edge:             color.NRGBA{R: 120, G: 160, B: 255, A: 255},
		Blobs: []color.NRGBA{
			{R: 70, G: 90, B: 220, A: 90},
			{R: 160, G: 60, B: 200, A: 80},
			{R: 40, G: 160, B: 180, A: 80},
		},
		Particle: color.NRGBA{R: 190, G: 210, B: 255, A: 190},
		Link:     color.NRGBA{R: 150, G: 180, B: 255, A: 255},
	}
}
