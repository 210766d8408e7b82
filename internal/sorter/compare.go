package sorter

import (
	"cmp"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collator is not safe for concurrent use.
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und)
)

// Compare orders two cell values. Each value is classified on its own:
// numeric values compare numerically, text compares with locale collation,
// and a numeric value always sorts before a text value. The result is a
// total order, so mixed columns sort deterministically.
func Compare(a, b string) int {
	na, aNum := parseNumber(a)
	nb, bNum := parseNumber(b)

	switch {
	case aNum && bNum:
		return cmp.Compare(na, nb)
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return compareText(a, b)
}

func compareText(a, b string) int {
	collatorMu.Lock()
	c := collator.CompareString(a, b)
	collatorMu.Unlock()
	if c != 0 {
		return c
	}
	// Collation may treat distinct strings as equal; fall back to byte order.
	return strings.Compare(a, b)
}

// radixPrefixes are the integer literal prefixes Number() accepts. They
// are only valid unsigned and without a fraction or exponent.
var radixPrefixes = map[string]int{"0x": 16, "0o": 8, "0b": 2}

// parseNumber reports whether s reads as a number the way a browser's
// Number() would. Blank strings and NaN are not numbers.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	if len(s) > 2 {
		if base, ok := radixPrefixes[strings.ToLower(s[:2])]; ok {
			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(u), true
		}
	}
	if strings.ContainsAny(s, "_iInNxXpP") {
		// Reject Go-only syntax: digit separators, inf and nan spellings,
		// signed or fractional hex floats.
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
