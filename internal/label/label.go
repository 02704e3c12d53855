package label

import "strings"

const (
	maxCharsPerLine = 7
	maxLines        = 2
	maxTotalChars   = maxCharsPerLine * maxLines

	// A first line shorter than this reads as noise, so hard-break instead.
	minFirstLine = 3

	ellipsis = "…"
)

// Format lays out captured text for a key face: at most two lines of
// seven characters, with an ellipsis on the second line when the text
// does not fit.
func Format(raw string) string {
	text := strings.Join(strings.Fields(raw), " ")
	runes := []rune(text)

	if len(runes) <= maxCharsPerLine {
		return text
	}

	first, rest := splitFirstLine(runes)
	if len(runes) <= maxTotalChars {
		return first + "\n" + rest
	}

	second := []rune(rest)
	if len(second) > maxCharsPerLine-1 {
		cut := lastSpace(second, maxCharsPerLine-1)
		if cut <= minFirstLine {
			cut = maxCharsPerLine - 1
		}
		second = second[:cut]
	}

	return first + "\n" + strings.TrimSpace(string(second)) + ellipsis
}

func splitFirstLine(runes []rune) (string, string) {
	cut := lastSpace(runes, maxCharsPerLine)
	if cut < minFirstLine {
		cut = maxCharsPerLine
	}
	return strings.TrimSpace(string(runes[:cut])), strings.TrimSpace(string(runes[cut:]))
}

// lastSpace returns the index of the last space at or before limit, or -1.
func lastSpace(runes []rune, limit int) int {
	if limit >= len(runes) {
		limit = len(runes) - 1
	}
	for i := limit; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
