// Package price normalizes the monetary amounts the listing API returns in
// several shapes (raw numbers, "₦5,000,000", "5.0M") into one canonical
// number of Naira, and renders them back for display.
package price

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultSymbol is the currency prefix used by Format.
const DefaultSymbol = "₦"

var multipliers = map[byte]float64{
	'k': 1e3, 'K': 1e3,
	'm': 1e6, 'M': 1e6,
	'b': 1e9, 'B': 1e9,
}

// Normalize converts a price string into its canonical value. Unparseable
// or empty input yields 0.
func Normalize(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	mult := 1.0
	if m, ok := multipliers[s[len(s)-1]]; ok {
		mult = m
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(numericOnly(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v * mult
}

// NormalizeAny accepts whatever a decoded JSON field held. Non-negative
// numbers are returned unchanged, so normalizing a canonical value is a
// no-op. Negative numbers lose their sign, as Normalize("-5") does.
func NormalizeAny(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return math.Abs(x)
	case float32:
		return NormalizeAny(float64(x))
	case int:
		return NormalizeAny(float64(x))
	case int64:
		return NormalizeAny(float64(x))
	case int32:
		return NormalizeAny(float64(x))
	case Value:
		return NormalizeAny(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Normalize(x.String())
		}
		return NormalizeAny(f)
	case string:
		return Normalize(x)
	default:
		return 0
	}
}

func numericOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Value is a canonical price that decodes from a JSON number, a formatted
// string or null. Decoding never fails; malformed input becomes 0.
type Value float64

func (v *Value) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*v = 0
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*v = 0
			return nil
		}
		*v = Value(Normalize(s))
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*v = 0
		return nil
	}
	*v = Value(NormalizeAny(f))
	return nil
}

// Float returns the canonical amount.
func (v Value) Float() float64 { return float64(v) }

// Formatter renders canonical prices with a currency symbol.
type Formatter struct {
	Symbol string
}

// NewFormatter returns a Formatter, defaulting to the Naira sign.
func NewFormatter(symbol string) Formatter {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return Formatter{Symbol: symbol}
}

// Format renders v. Abbreviated output uses one decimal and an M or K
// suffix; full output rounds to the nearest unit and groups it in threes.
func (f Formatter) Format(v float64, abbreviated bool) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	if abbreviated {
		switch {
		case v >= 1e6:
			return fmt.Sprintf("%s%.1fM", f.Symbol, v/1e6)
		case v >= 1e3:
			return fmt.Sprintf("%s%.1fK", f.Symbol, v/1e3)
		}
	}

	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return sign + f.Symbol + group(n)
}

// Format renders v with the default symbol.
func Format(v float64, abbreviated bool) string {
	return Formatter{Symbol: DefaultSymbol}.Format(v, abbreviated)
}

func group(n int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
