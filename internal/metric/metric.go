package metric

import (
	"fmt"
	"strconv"
	"strings"
)

// Display colors shared by the terminal and web renderers.
const (
	ColorGreen = "green"
	ColorRed   = "red"
)

// MaxHistory bounds a metric's sparkline window. Oldest points drop off
// the front as new ones are appended.
const MaxHistory = 60

// Metric is a single named measurement reported by a collector. The JSON
// tags match the inbound metrics contract consumed from custom HTTP
// servers, and the same shape is served back out on /api/status.
type Metric struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Value     any       `json:"value"`
	Unit      string    `json:"unit,omitempty"`
	Color     string    `json:"color,omitempty"`
	WarnAbove *float64  `json:"warn_above,omitempty"`
	WarnBelow *float64  `json:"warn_below,omitempty"`
	Sparkline []float64 `json:"sparkline_history,omitempty"`
}

// ColorFor computes the effective display color for a metric. An explicit
// Color wins; otherwise numeric values are checked against the warn
// thresholds. Non-numeric values never trip a threshold.
func ColorFor(m Metric) string {
	if m.Color != "" {
		return m.Color
	}
	v, ok := Numeric(m.Value)
	if !ok {
		return ColorGreen
	}
	if m.WarnAbove != nil && v > *m.WarnAbove {
		return ColorRed
	}
	if m.WarnBelow != nil && v < *m.WarnBelow {
		return ColorRed
	}
	return ColorGreen
}

// Numeric reports whether the value is numeric and returns it as a float64.
// JSON decoding yields float64, collectors produce Go integer types, and
// Postgres rows can surface several widths, so all of them are accepted.
func Numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// FormatValue renders a metric value for display: integers with thousands
// separators, floats with one decimal place, everything else verbatim.
func FormatValue(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		if n == float64(int64(n)) {
			return groupThousands(strconv.FormatInt(int64(n), 10))
		}
		s := strconv.FormatFloat(n, 'f', 1, 64)
		dot := strings.IndexByte(s, '.')
		return groupThousands(s[:dot]) + s[dot:]
	case float32:
		return FormatValue(float64(n))
	case int:
		return groupThousands(strconv.Itoa(n))
	case int32:
		return groupThousands(strconv.FormatInt(int64(n), 10))
	case int64:
		return groupThousands(strconv.FormatInt(n, 10))
	case uint64:
		return groupThousands(strconv.FormatUint(n, 10))
	default:
		return fmt.Sprintf("%v", v)
	}
}

// groupThousands inserts commas into a decimal integer string.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}

// Threshold is a convenience for building optional warn thresholds inline.
func Threshold(v float64) *float64 {
	return &v
}
