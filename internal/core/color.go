package core

// Color is a palette entry for a screen cell or a drawn shape.
// Terminal hosts map it to ANSI 256 codes, window hosts to RGBA.
type Color uint8

// Palette used by the game and its overlays.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorBrown
	ColorBlack
)
