package models

import "fmt"

// Helpers reading the record form back. Numbers may arrive as any Go numeric
// type or as float64 after a trip through encoding/json.

func missingField(key string) error {
	return FormatError("record", "missing or invalid field %q", key)
}

func stringField(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key].(string)
	if !ok {
		return "", missingField(key)
	}
	return v, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

func floatField(m map[string]interface{}, key string) (float64, error) {
	f, ok := toFloat(m[key])
	if !ok {
		return 0, missingField(key)
	}
	return f, nil
}

func intField(m map[string]interface{}, key string) (int, error) {
	f, ok := toFloat(m[key])
	if !ok || f != float64(int(f)) {
		return 0, missingField(key)
	}
	return int(f), nil
}

func boolField(m map[string]interface{}, key string) (bool, error) {
	b, ok := m[key].(bool)
	if !ok {
		return false, missingField(key)
	}
	return b, nil
}

func mapField(m map[string]interface{}, key string) (map[string]interface{}, error) {
	switch v := m[key].(type) {
	case map[string]interface{}:
		return v, nil
	case map[string]string:
		out := make(map[string]interface{}, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, nil
	}
	return nil, missingField(key)
}

func floatSlice(v interface{}) ([]float64, error) {
	switch s := v.(type) {
	case []float64:
		out := make([]float64, len(s))
		copy(out, s)
		return out, nil
	case []interface{}:
		out := make([]float64, len(s))
		for i, item := range s {
			f, ok := toFloat(item)
			if !ok {
				return nil, fmt.Errorf("value %d is not a number", i)
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a list of numbers")
}

func intSlice(v interface{}) ([]int, error) {
	switch s := v.(type) {
	case []int:
		out := make([]int, len(s))
		copy(out, s)
		return out, nil
	case []interface{}:
		out := make([]int, len(s))
		for i, item := range s {
			f, ok := toFloat(item)
			if !ok || f != float64(int(f)) {
				return nil, fmt.Errorf("value %d is not an integer", i)
			}
			out[i] = int(f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a list of integers")
}
