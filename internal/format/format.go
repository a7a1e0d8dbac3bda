// Package format turns raw backend values into display strings.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Tone is the semantic color of a signed value.
type Tone int

const (
	Neutral Tone = iota
	Positive
	Negative
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseISO parses the date and timestamp forms the backend emits.
// Offsets are converted to local time; values without one are taken as local.
func ParseISO(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Local(), true
		}
	}
	return time.Time{}, false
}

// Date renders YYYY-MM-DD. Unparseable input is returned as is.
func Date(s string) string {
	t, ok := ParseISO(s)
	if !ok {
		return s
	}
	return t.Format("2006-01-02")
}

// DateTime renders YYYY-MM-DD HH:mm. Unparseable input is returned as is.
func DateTime(s string) string {
	t, ok := ParseISO(s)
	if !ok {
		return s
	}
	return t.Format("2006-01-02 15:04")
}

// fixed rounds half away from zero to places decimals.
func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Percent renders a signed percentage with two decimals: 12.345 is "+12.35%".
func Percent(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if !d.IsNegative() {
		sign = "+"
	}
	return sign + d.StringFixed(2) + "%"
}

// WinRate renders a [0, 1] fraction as a percentage with one decimal.
func WinRate(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return fixed(v*100, 1) + "%"
}

// Number groups thousands and keeps up to three decimals.
func Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	rounded, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return humanize.Commaf(rounded)
}

// Volume abbreviates with K, M and B suffixes: 1500000 is "1.5M".
func Volume(v float64) string {
	switch {
	case v >= 1_000_000_000:
		return fixed(v/1_000_000_000, 1) + "B"
	case v >= 1_000_000:
		return fixed(v/1_000_000, 1) + "M"
	case v >= 1_000:
		return fixed(v/1_000, 1) + "K"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// Price renders dollars with two decimals.
func Price(v float64) string {
	return "$" + fixed(v, 2)
}

// PercentTone classifies a signed change.
func PercentTone(v float64) Tone {
	switch {
	case v > 0:
		return Positive
	case v < 0:
		return Negative
	default:
		return Neutral
	}
}

// Or returns s, or fallback when s is nil or blank.
func Or(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}
