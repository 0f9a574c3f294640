package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

// Palette used by the collapse renderer and HUD.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorMagenta
	ColorPink
	ColorCyan
	ColorWhite
	ColorGray
	ColorBrightRed
	ColorBrightGreen
	ColorBrightBlue
	ColorBrightYellow
	ColorBrightMagenta
	ColorBrightPink
	ColorBrightWhite
)

// Bright returns the highlighted variant of a base tile color.
// Colors without a variant are returned unchanged.
func (c Color) Bright() Color {
	switch c {
	case ColorRed:
		return ColorBrightRed
	case ColorGreen:
		return ColorBrightGreen
	case ColorBlue:
		return ColorBrightBlue
	case ColorYellow:
		return ColorBrightYellow
	case ColorMagenta:
		return ColorBrightMagenta
	case ColorPink:
		return ColorBrightPink
	case ColorWhite, ColorDefault:
		return ColorBrightWhite
	default:
		return c
	}
}
