package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to an ANSI color.
type Color uint8

// Palette shared by all simulations.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

// Semantic aliases so simulations agree on what things look like.
const (
	ColorAgent    = ColorCyan
	ColorOpponent = ColorMagenta
	ColorHazard   = ColorRed
	ColorGround   = ColorGray
	ColorBall     = ColorWhite
	ColorGoal     = ColorYellow
	ColorFlag     = ColorOrange
	ColorHUD      = ColorGreen
)

var colorNames = [...]string{
	ColorDefault: "default",
	ColorRed:     "red",
	ColorGreen:   "green",
	ColorYellow:  "yellow",
	ColorBlue:    "blue",
	ColorMagenta: "magenta",
	ColorCyan:    "cyan",
	ColorWhite:   "white",
	ColorOrange:  "orange",
	ColorGray:    "gray",
}

// String returns the palette name of c.
func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}
