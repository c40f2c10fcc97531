package extract

import (
	"strconv"
	"strings"

	"github.com/decklint/decklint/internal/model"
)

// Normalize converts a raw numeric literal plus its unit/suffix token
// into a canonical (magnitude, unit class) pair. Currency collapses to
// a single base unit regardless of symbol or K/M/B suffix, so "$2M",
// "2,000,000 dollars" and "2M USD" compare equal. Time tokens map to
// distinct classes per granularity: minutes are never compared against
// hours. The boolean is false when the literal does not parse; callers
// drop the match silently.
func Normalize(raw, unit string, family model.PatternFamily) (float64, model.UnitClass, bool) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, "", false
	}

	switch family {
	case model.FamilyCurrency:
		switch strings.ToUpper(strings.TrimSpace(unit)) {
		case "K":
			value *= 1e3
		case "M":
			value *= 1e6
		case "B":
			value *= 1e9
		}
		return value, model.UnitCurrency, true

	case model.FamilyTime:
		class, ok := timeClass(unit)
		if !ok {
			return 0, "", false
		}
		return value, class, true

	case model.FamilyPercentage:
		return value, model.UnitPercentage, true

	case model.FamilyMultiplier:
		return value, model.UnitMultiplier, true

	default:
		return 0, "", false
	}
}

// NormalizeRatio converts a pair of literals ("3", "1" from "3:1")
// into a single comparable magnitude a/b.
func NormalizeRatio(rawA, rawB string) (float64, model.UnitClass, bool) {
	a, err := strconv.ParseFloat(strings.ReplaceAll(rawA, ",", ""), 64)
	if err != nil {
		return 0, "", false
	}
	b, err := strconv.ParseFloat(strings.ReplaceAll(rawB, ",", ""), 64)
	if err != nil || b == 0 {
		return 0, "", false
	}
	return a / b, model.UnitRatio, true
}

// timeClass maps a time unit token to its class
func timeClass(unit string) (model.UnitClass, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	switch {
	case strings.HasPrefix(u, "min"):
		return model.UnitMinutes, true
	case strings.HasPrefix(u, "hour"), strings.HasPrefix(u, "hr"):
		return model.UnitHours, true
	case strings.HasPrefix(u, "day"):
		return model.UnitDays, true
	case strings.HasPrefix(u, "week"):
		return model.UnitWeeks, true
	case strings.HasPrefix(u, "month"):
		return model.UnitMonths, true
	case strings.HasPrefix(u, "year"):
		return model.UnitYears, true
	default:
		return "", false
	}
}
