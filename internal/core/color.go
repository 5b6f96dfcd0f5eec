package core

// Color represents a foreground color for a screen cell.
type Color uint8

// Palette used by the maze renderer and menus.
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
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorPink
	ColorGray
)

// ansiCodes holds the ANSI 256-color code for each palette entry.
var ansiCodes = [...]string{
	ColorDefault:      "",
	ColorRed:          "1",
	ColorGreen:        "2",
	ColorYellow:       "3",
	ColorBlue:         "4",
	ColorMagenta:      "5",
	ColorCyan:         "6",
	ColorWhite:        "7",
	ColorBrightRed:    "9",
	ColorBrightYellow: "11",
	ColorBrightBlue:   "12",
	ColorBrightCyan:   "14",
	ColorBrightWhite:  "15",
	ColorOrange:       "208",
	ColorPink:         "213",
	ColorGray:         "245",
}

// ANSI returns the terminal colour code, or "" for the default colour.
func (c Color) ANSI() string {
	if int(c) >= len(ansiCodes) {
		return ""
	}
	return ansiCodes[c]
}
