package boq

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Helpers over decoded JSON trees. Each takes a closed list of alias keys and
// returns the first one present with the expected type.

func firstValue(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func firstMap(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if v, ok := m[k].(map[string]any); ok {
			return v
		}
	}
	return nil
}

func firstList(m map[string]any, keys ...string) ([]any, bool) {
	for _, k := range keys {
		if v, ok := m[k].([]any); ok {
			return v, true
		}
	}
	return nil, false
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := stringOf(m[k]); ok {
			return s
		}
	}
	return ""
}

func firstNumber(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if f, ok := numberOf(m[k]); ok {
			return f
		}
	}
	return 0
}

func stringOf(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// numberOf accepts JSON numbers and numeric strings such as "1,250.50" or "12.5 m".
func numberOf(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		fields := strings.Fields(strings.ReplaceAll(t, ",", ""))
		if len(fields) == 0 {
			return 0, false
		}
		f, err := strconv.ParseFloat(fields[0], 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// textOf renders an arbitrary JSON value as display text.
func textOf(v any) string {
	if s, ok := stringOf(v); ok {
		return s
	}
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
