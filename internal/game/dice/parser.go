package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression represents a parsed dice expression ready to be rolled.
// Precondition: Count >= 1, Sides >= 2 after successful Parse.
type Expression struct {
	Raw       string // original input string
	Count     int    // number of dice
	Sides     int    // faces per die
	Modifier  int    // flat modifier (may be negative)
	RerollLow int    // if > 0, reroll each die once when it lands at or below this value (e.g. 2d6r2)
}

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2", "2d6r2+3"
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a non-nil Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	if expr == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	raw := expr
	s := strings.ToLower(expr)

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", raw)
	}

	// Parse count (the part before 'd'); defaults to 1 when omitted.
	var count int
	countStr := s[:dIdx]
	if countStr == "" {
		count = 1
	} else {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		if count <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", raw)
		}
	}

	// Everything after 'd'.
	rest := s[dIdx+1:]

	// Extract reroll suffix ("r<N>") before any modifier.
	rerollLow := 0
	if rIdx := strings.Index(rest, "r"); rIdx >= 0 {
		rPart := rest[rIdx+1:]
		rest = rest[:rIdx]

		// rPart may still have a modifier suffix; handle that.
		// Find the first '+' or '-' in rPart (not at position 0).
		modOffset := -1
		for i := 1; i < len(rPart); i++ {
			if rPart[i] == '+' || rPart[i] == '-' {
				modOffset = i
				break
			}
		}

		var rStr string
		if modOffset >= 0 {
			// Modifier is after the reroll threshold; re-attach it to rest for later parsing.
			rStr = rPart[:modOffset]
			rest = rest + rPart[modOffset:]
		} else {
			rStr = rPart
		}

		r, err := strconv.Atoi(rStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid reroll threshold in %q: %w", raw, err)
		}
		if r <= 0 {
			return Expression{}, fmt.Errorf("dice: reroll threshold %d must be > 0 in %q", r, raw)
		}
		rerollLow = r
	}

	// Parse sides and optional modifier from rest.
	// Find the first '+' or '-' that is not at position 0 (to skip leading sign).
	modOffset := -1
	for i := 1; i < len(rest); i++ {
		if rest[i] == '+' || rest[i] == '-' {
			modOffset = i
			break
		}
	}

	var sidesStr, modStr string
	if modOffset >= 0 {
		sidesStr = rest[:modOffset]
		modStr = rest[modOffset:]
	} else {
		sidesStr = rest
		modStr = ""
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", raw)
	}
	if rerollLow >= sides {
		return Expression{}, fmt.Errorf("dice: reroll threshold %d must be < sides %d in %q", rerollLow, sides, raw)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
	}

	return Expression{
		Raw:       raw,
		Count:     count,
		Sides:     sides,
		Modifier:  modifier,
		RerollLow: rerollLow,
	}, nil
}

// Mean returns the truncated per-die average used by the hit point formulas:
// sides/2 + 1 (e.g. 5 for a d8, 4 for a d6).
//
// Precondition: sides >= 2.
func Mean(sides int) int {
	return sides/2 + 1
}
