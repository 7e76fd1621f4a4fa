// Package normalize coerces loosely-typed call event fields into canonical values.
//
// Callers are automated agents that send prices as "$1,900", durations as
// floats and flags as "yes". None of the functions here return an error:
// anything that cannot be coerced becomes nil (absent).
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// truthy holds the accepted spellings of a true flag, compared lower-cased.
var truthy = map[string]struct{}{
	"true": {},
	"1":    {},
	"yes":  {},
	"y":    {},
}

// Int coerces v into an integer quantity.
//
// Strings keep only their ASCII digits, so "-42" becomes 42 and "12.5"
// becomes 125. Floats are truncated toward zero.
func Int(v any) *int64 {
	switch n := v.(type) {
	case nil:
		return nil
	case int:
		return ptr(int64(n))
	case int8:
		return ptr(int64(n))
	case int16:
		return ptr(int64(n))
	case int32:
		return ptr(int64(n))
	case int64:
		return ptr(n)
	case uint:
		return fromUint(uint64(n))
	case uint8:
		return ptr(int64(n))
	case uint16:
		return ptr(int64(n))
	case uint32:
		return ptr(int64(n))
	case uint64:
		return fromUint(n)
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return ptr(i)
		}
		if f, err := n.Float64(); err == nil {
			return fromFloat(f)
		}
		return fromDigits(string(n))
	case string:
		return fromDigits(n)
	default:
		return nil
	}
}

// Bool coerces v into a flag. Strings match true/1/yes/y case-insensitively
// and are false otherwise; non-string, non-bool input is absent.
func Bool(v any) *bool {
	switch b := v.(type) {
	case bool:
		return ptr(b)
	case string:
		_, ok := truthy[strings.ToLower(strings.TrimSpace(b))]
		return ptr(ok)
	default:
		return nil
	}
}

// Text coerces v into a trimmed free-text value. Blank strings are absent.
func Text(v any) *string {
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case json.Number:
		s = t.String()
	case bool:
		s = strconv.FormatBool(t)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return nil
	}
	if s == "" {
		return nil
	}
	return &s
}

// InferNegotiated derives the negotiation flag. An explicit value always
// wins; otherwise both prices must be known to decide.
func InferNegotiated(base, final *int64, explicit *bool) *bool {
	if explicit != nil {
		return ptr(*explicit)
	}
	if base != nil && final != nil {
		return ptr(*base != *final)
	}
	return nil
}

// Capitalize upper-cases the first rune of s and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func fromDigits(s string) *int64 {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	if b.Len() == 0 {
		return nil
	}
	i, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return nil
	}
	return ptr(i)
}

func fromFloat(f float64) *int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return nil
	}
	return ptr(int64(t))
}

func fromUint(u uint64) *int64 {
	if u > math.MaxInt64 {
		return nil
	}
	return ptr(int64(u))
}

func ptr[T any](v T) *T {
	return &v
}
