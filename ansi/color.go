package ansi

import (
	"fmt"

	"github.com/invopop/jsonschema"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorKind tells which form a Color takes. The zero value means the color
// is absent and the renderer's default applies.
type ColorKind uint8

const (
	ColorNone ColorKind = iota
	ColorBasic
	ColorRGB
)

func (k ColorKind) String() string {
	switch k {
	case ColorBasic:
		return "basic"
	case ColorRGB:
		return "rgb"
	}
	return "none"
}

func (k ColorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ColorKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none", "":
		*k = ColorNone
	case "basic":
		*k = ColorBasic
	case "rgb":
		*k = ColorRGB
	default:
		return fmt.Errorf("unknown color kind: %q", b)
	}
	return nil
}

func (ColorKind) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "string",
		Enum: []any{ColorNone.String(), ColorBasic.String(), ColorRGB.String()},
	}
}

// Color is either one of the 8 basic colors (normal or bright) or a 24-bit
// RGB triple.
type Color struct {
	Kind   ColorKind `json:"kind"`
	Index  uint8     `json:"index,omitempty"`
	Bright bool      `json:"bright,omitempty"`
	R      uint8     `json:"r,omitempty"`
	G      uint8     `json:"g,omitempty"`
	B      uint8     `json:"b,omitempty"`
}

func BasicColor(i uint8) Color {
	return Color{Kind: ColorBasic, Index: i % 8}
}

func BrightColor(i uint8) Color {
	return Color{Kind: ColorBasic, Index: i % 8, Bright: true}
}

func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

func (c Color) IsSet() bool {
	return c.Kind != ColorNone
}

// Palettes in CSS hex. The normal foreground and background palettes differ
// only in white.
var (
	ForegroundPalette = [8]string{"#000", "#c00", "#0a0", "#ca0", "#00c", "#c0c", "#0cc", "#ccc"}
	BackgroundPalette = [8]string{"#000", "#c00", "#0a0", "#ca0", "#00c", "#c0c", "#0cc", "#fff"}
	BrightPalette     = [8]string{"#555", "#f55", "#5f5", "#ff5", "#55f", "#f5f", "#5ff", "#fff"}
)

// Substitutes used for inverse video. They do not depend on the colors in
// effect.
const (
	InverseForeground = "#000"
	InverseBackground = "#e6edf3"
)

// Hex resolves c to a CSS hex color. Palette colors keep their short form.
// It returns "" for an absent color.
func (c Color) Hex(background bool) string {
	switch c.Kind {
	case ColorBasic:
		switch {
		case c.Bright:
			return BrightPalette[c.Index%8]
		case background:
			return BackgroundPalette[c.Index%8]
		default:
			return ForegroundPalette[c.Index%8]
		}
	case ColorRGB:
		return c.Colorful(background).Hex()
	}
	return ""
}

// Colorful converts c for blending and drawing. An absent color converts to
// black.
func (c Color) Colorful(background bool) colorful.Color {
	switch c.Kind {
	case ColorBasic:
		cc, err := colorful.Hex(c.Hex(background))
		if err != nil {
			return colorful.Color{}
		}
		return cc
	case ColorRGB:
		return colorful.Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
		}
	}
	return colorful.Color{}
}
