package core

import "strings"

// Color is the colour category of an item.
type Color uint8

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
	ColorYellow
	ColorPurple
	ColorPink
	ColorCount // Sentinel value for iteration
)

// MaxColors is the largest colour count a board may use.
const MaxColors = int(ColorCount)

// String returns the string representation of a color.
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	case ColorPurple:
		return "purple"
	case ColorPink:
		return "pink"
	default:
		return "unknown"
	}
}

// Char returns a single character representation of the color for ASCII rendering.
func (c Color) Char() rune {
	switch c {
	case ColorRed:
		return 'R'
	case ColorGreen:
		return 'G'
	case ColorBlue:
		return 'B'
	case ColorYellow:
		return 'Y'
	case ColorPurple:
		return 'P'
	case ColorPink:
		return 'K'
	default:
		return '?'
	}
}

// Valid reports whether c is one of the known colours.
func (c Color) Valid() bool {
	return c < ColorCount
}

// ParseColor converts a string or its single-letter form to a Color.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(s) {
	case "red", "r":
		return ColorRed, true
	case "green", "g":
		return ColorGreen, true
	case "blue", "b":
		return ColorBlue, true
	case "yellow", "y":
		return ColorYellow, true
	case "purple", "p":
		return ColorPurple, true
	case "pink", "k":
		return ColorPink, true
	default:
		return ColorRed, false
	}
}

// Tier is the severity tier of an item, derived from the size of its block.
type Tier uint8

const (
	Tier0 Tier = iota
	Tier1
	Tier2
	Tier3
	TierCount
)

// String returns a short name for the tier.
func (t Tier) String() string {
	switch t {
	case Tier0:
		return "default"
	case Tier1:
		return "a"
	case Tier2:
		return "b"
	case Tier3:
		return "c"
	default:
		return "unknown"
	}
}

// Thresholds are the ascending block sizes that separate the tiers.
type Thresholds struct {
	A int `yaml:"a" toml:"a"`
	B int `yaml:"b" toml:"b"`
	C int `yaml:"c" toml:"c"`
}

// TierFor maps a block size to its tier.
func (t Thresholds) TierFor(size int) Tier {
	switch {
	case size <= t.A:
		return Tier0
	case size <= t.B:
		return Tier1
	case size <= t.C:
		return Tier2
	default:
		return Tier3
	}
}
