package ordered

import (
	"encoding/json"
	"fmt"
	"math"
)

// Plain converts v into the representation encoding/json produces when
// decoding into an interface value: Objects become maps and every number
// becomes a float64.
func Plain(v any) any {
	switch t := v.(type) {
	case Object:
		m := make(map[string]any, len(t))
		for _, member := range t {
			m[member.Key] = Plain(member.Value)
		}

		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = Plain(val)
		}

		return m
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Plain(val)
		}

		return out
	default:
		if f, ok := Number(v); ok {
			return f
		}

		return v
	}
}

// Number reports whether v is a numeric value and returns it as a float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN(), false
		}

		return f, true
	default:
		return 0, false
	}
}

// Equal compares two decoded values. Numbers compare by value regardless of
// their Go representation; objects compare without regard to member order.
func Equal(a, b any) bool {
	fa, aNum := Number(a)
	fb, bNum := Number(b)

	if aNum || bNum {
		return aNum && bNum && fa == fb
	}

	switch x := Plain(a).(type) {
	case map[string]any:
		y, ok := Plain(b).(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}

		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}

		return true
	case []any:
		y, ok := Plain(b).([]any)
		if !ok || len(x) != len(y) {
			return false
		}

		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}

		return true
	case nil, bool, string:
		return x == Plain(b)
	default:
		return fmt.Sprint(x) == fmt.Sprint(Plain(b))
	}
}
