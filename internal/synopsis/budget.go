package synopsis

import "unicode/utf8"

// charsPerToken is the proxy ratio used to turn text length into cost.
const charsPerToken = 4

// EstimateCost approximates how many model tokens text will take: one unit per
// four characters. It never calls out, is monotonic in length and returns 0
// for the empty string.
func EstimateCost(text string) float64 {
	return float64(utf8.RuneCountInString(text)) / charsPerToken
}

// costToRunes converts a cost budget back to a character count, floored at zero.
func costToRunes(cost float64) int {
	n := int(cost * charsPerToken)
	if n < 0 {
		return 0
	}
	return n
}

// Tail returns the last n characters of s. The cut is by character count
// and may fall mid-line.
func Tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[len(runes)-n:])
}
