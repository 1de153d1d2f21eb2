package store

import (
	"strconv"
	"strings"
)

// Int coerces cell text to an integer. Non-numeric text (including empty
// cells) defaults to 0. This is the single place that policy lives: upstream
// tables routinely carry dashes or blanks in numeric columns, and every
// consumer is expected to treat those as zero rather than fail.
func Int(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Float coerces cell text to a float, defaulting to 0 like Int.
func Float(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
