package music

import "fmt"

// Style selects the synthesis algorithm for the background bed.
type Style string

const (
	StyleNone   Style = "none"
	StyleCalm   Style = "calm"
	StyleUpbeat Style = "upbeat"
	StyleFocus  Style = "focus"
)

// Styles lists every supported style.
func Styles() []Style {
	return []Style{StyleNone, StyleCalm, StyleUpbeat, StyleFocus}
}

// ParseStyle converts a string tag into a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleNone, StyleCalm, StyleUpbeat, StyleFocus:
		return Style(s), nil
	case "":
		return StyleNone, nil
	default:
		return "", fmt.Errorf("unknown music style %q (valid: none, calm, upbeat, focus)", s)
	}
}

// String implements fmt.Stringer.
func (s Style) String() string {
	return string(s)
}
