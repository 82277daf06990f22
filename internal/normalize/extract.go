package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// decodeObject parses a JSON object body. Non-object bodies fail with
// ErrMalformedResponse since every envelope-based provider returns an object.
func decodeObject(body []byte) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, ErrMalformedResponse
	}
	return m, nil
}

// dig walks a dotted path ("team.displayName") through nested objects.
// Bare integers index into arrays ("competitions.0.competitors").
func dig(v interface{}, path string) (interface{}, bool) {
	cur := v
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = next
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// strAt returns the first non-empty string found at any of the given paths.
// These path lists encode the known per-provider field-name variants.
func strAt(v interface{}, paths ...string) (string, bool) {
	for _, p := range paths {
		raw, ok := dig(v, p)
		if !ok {
			continue
		}
		switch s := raw.(type) {
		case string:
			if s != "" {
				return s, true
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64), true
		}
	}
	return "", false
}

// numAt returns the first numeric value found at any of the given paths.
// Handles numbers, numeric strings, and aggregate objects like
// {"total": 15} (API-Sports nests totals this way).
func numAt(v interface{}, paths ...string) (float64, bool) {
	for _, p := range paths {
		raw, ok := dig(v, p)
		if !ok {
			continue
		}
		if f, ok := extractNumber(raw); ok {
			return f, true
		}
	}
	return 0, false
}

// extractNumber normalizes a stat value from various provider formats.
func extractNumber(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
		return 0, false
	case map[string]interface{}:
		for _, key := range []string{"total", "all", "value", "count"} {
			if inner, exists := v[key]; exists && inner != nil {
				return extractNumber(inner)
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// intAt is numAt truncated to a pointer, for optional canonical fields.
func intAt(v interface{}, paths ...string) *int {
	if f, ok := numAt(v, paths...); ok {
		n := int(f)
		return &n
	}
	return nil
}

// arrayAt returns the array found at any of the given paths.
func arrayAt(v interface{}, paths ...string) ([]interface{}, bool) {
	for _, p := range paths {
		if raw, ok := dig(v, p); ok {
			if arr, ok := raw.([]interface{}); ok {
				return arr, true
			}
		}
	}
	return nil, false
}
