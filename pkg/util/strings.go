package util

import "unicode/utf8"

// TrimString cuts s down to at most length runes
func TrimString(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}

	runes := []rune(s)
	return string(runes[:length])
}

// FixedWidth trims or right pads s so it is exactly width runes wide
func FixedWidth(s string, width int) string {
	s = TrimString(s, width)

	for n := utf8.RuneCountInString(s); n < width; n++ {
		s += " "
	}

	return s
}
