package field

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// numberOf normalises Go numeric kinds: signed and unsigned integers become
// int64, floats become float64. uint64 values above math.MaxInt64 become
// float64.
func numberOf(value any) (any, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return numberOfUint(uint64(v)), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return numberOfUint(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return nil, false
	}
}

func numberOfUint(v uint64) any {
	if v > math.MaxInt64 {
		return float64(v)
	}
	return int64(v)
}

// parseLeadingInt reads the integer at the start of value's text, ignoring
// leading whitespace and any trailing characters: "42px" is 42, "3.9" is 3,
// "0x1F" is 31. Values with no leading digits, booleans and nil fail.
// Integers beyond the int64 range saturate.
func parseLeadingInt(value any) (int64, bool) {
	if s, ok := value.(string); ok {
		return parseLeadingIntString(s)
	}
	n, ok := numberOf(value)
	if !ok {
		return 0, false
	}
	switch v := n.(type) {
	case int64:
		return v, true
	case float64:
		if math.IsNaN(v) {
			return 0, false
		}
		t := math.Trunc(v)
		switch {
		case t >= math.MaxInt64:
			return math.MaxInt64, true
		case t <= math.MinInt64:
			return math.MinInt64, true
		}
		return int64(t), true
	}
	return 0, false
}

func parseLeadingIntString(raw string) (int64, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}

	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(sign+s[:end], base, 64)
	if err != nil {
		// ParseInt saturates on overflow
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return n, true
		}
		return 0, false
	}
	return n, true
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	default:
		return false
	}
}

var leadingFloat = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// parseLeadingFloat reads the decimal number at the start of value's text,
// ignoring leading whitespace and trailing characters: "2.5kg" is 2.5,
// "Infinity" is +Inf. Values with no leading number, booleans and nil fail.
func parseLeadingFloat(value any) (float64, bool) {
	if n, ok := numberOf(value); ok {
		switch v := n.(type) {
		case int64:
			return float64(v), true
		case float64:
			return v, !math.IsNaN(v)
		}
	}
	switch v := value.(type) {
	case string:
		s := strings.TrimLeftFunc(v, unicode.IsSpace)
		match := leadingFloat.FindString(s)
		if match == "" {
			return 0, false
		}
		switch strings.TrimLeft(match, "+-") {
		case "Infinity":
			if strings.HasPrefix(match, "-") {
				return math.Inf(-1), true
			}
			return math.Inf(1), true
		}
		f, err := strconv.ParseFloat(match, 64)
		if err != nil {
			// out of range values saturate to ±Inf, which is still a number
			if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
				return f, true
			}
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
