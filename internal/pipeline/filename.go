package pipeline

import "strings"

// DefaultFilename is used when a briefing title sanitizes to nothing.
const DefaultFilename = "briefing.wav"

// SuggestedFilename derives a download filename from a briefing title:
// non-alphanumeric characters are dropped, the rest lowercased, and a
// .wav extension appended.
func SuggestedFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	if b.Len() == 0 {
		return DefaultFilename
	}
	return b.String() + ".wav"
}
