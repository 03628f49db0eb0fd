package ruleset

import (
	"encoding/json"
	"math"
	"strconv"
)

// Severity is the canonical enablement level of a rule.
type Severity int

const (
	SeverityOff   Severity = 0
	SeverityWarn  Severity = 1
	SeverityError Severity = 2
)

func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarn:
		return "warn"
	default:
		return "error"
	}
}

// NormalizeSeverity maps any spelling of a rule severity onto its canonical
// level. Numbers pass through (clamped to 0..2), "off" and "warn" map to 0 and
// 1, and every other string, like anything unrecognized, is treated as "error".
func NormalizeSeverity(v any) Severity {
	switch t := v.(type) {
	case Severity:
		return clamp(float64(t))
	case int:
		return clamp(float64(t))
	case int64:
		return clamp(float64(t))
	case float64:
		return clamp(t)
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return SeverityError
		}
		return clamp(f)
	case string:
		switch t {
		case "off":
			return SeverityOff
		case "warn":
			return SeverityWarn
		default:
			return SeverityError
		}
	default:
		return SeverityError
	}
}

func clamp(f float64) Severity {
	switch {
	case math.IsNaN(f):
		return SeverityError
	case f <= 0:
		return SeverityOff
	case f < 2:
		return Severity(math.Floor(f))
	default:
		return SeverityError
	}
}
