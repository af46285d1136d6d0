package order

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// CodePrefix starts every order code.
const CodePrefix = "MS"

// CodeLength is the fixed length of a generated order code: prefix, YYMMDD and a 4-digit suffix.
const CodeLength = len(CodePrefix) + 6 + 4

// CodeGenerator produces a human-readable order code for the given instant.
type CodeGenerator func(now time.Time) string

// NewCode derives a code from the local calendar date of now and a random suffix.
func NewCode(now time.Time) string {
	return FormatCode(now, rand.IntN(10000))
}

// FormatCode formats a code from a date and a suffix in [0, 9999].
func FormatCode(now time.Time, suffix int) string {
	return fmt.Sprintf("%s%02d%02d%02d%04d", CodePrefix, now.Year()%100, int(now.Month()), now.Day(), suffix%10000)
}
