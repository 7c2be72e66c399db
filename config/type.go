// File: lixenwraith/stylecheck/config/type.go
package config

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// ParameterBag holds merged parameters as nested maps
type ParameterBag map[string]any

// Get retrieves a value by dot-separated path (e.g. "skip.firstCode").
// The second return value reports whether the path exists; a present null is found.
func (p ParameterBag) Get(path string) (any, bool) {
	return navigateToPath(p, path)
}

// Has reports whether a path exists
func (p ParameterBag) Has(path string) bool {
	_, found := p.Get(path)
	return found
}

// String retrieves a string parameter.
// Attempts conversion from common types if the stored value isn't already a string.
func (p ParameterBag) String(path string) (string, error) {
	val, found := p.Get(path)
	if !found {
		return "", fmt.Errorf("parameter not defined: %s", path)
	}
	if val == nil {
		return "", nil // Treat nil as empty string for convenience
	}

	switch v := val.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(val).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(val).Uint(), 10), nil
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("cannot convert type %T to string for parameter %s", val, path)
	}
}

// Int64 retrieves an int64 parameter.
// Attempts conversion from numeric types and parsable strings.
func (p ParameterBag) Int64(path string) (int64, error) {
	val, found := p.Get(path)
	if !found {
		return 0, fmt.Errorf("parameter not defined: %s", path)
	}
	if val == nil {
		return 0, fmt.Errorf("value for parameter %s is nil, cannot convert to int64", path)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > uint64(int64(^uint64(0)>>1)) {
			return 0, fmt.Errorf("cannot convert unsigned integer %d to int64 for parameter %s: overflow", u, path)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("cannot convert float %v to int64 for parameter %s: not an integer", f, path)
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("cannot convert float %v to int64 for parameter %s: overflow", f, path)
		}
		return int64(f), nil
	case reflect.String:
		i, err := strconv.ParseInt(v.String(), 0, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to int64 for parameter %s: %w", v.String(), path, err)
		}
		return i, nil
	}

	return 0, fmt.Errorf("cannot convert type %T to int64 for parameter %s", val, path)
}

// Bool retrieves a boolean parameter.
// Numbers convert as 0=false, non-zero=true; strings via strconv.ParseBool.
func (p ParameterBag) Bool(path string) (bool, error) {
	val, found := p.Get(path)
	if !found {
		return false, fmt.Errorf("parameter not defined: %s", path)
	}
	if val == nil {
		return false, fmt.Errorf("value for parameter %s is nil, cannot convert to bool", path)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.String:
		b, err := strconv.ParseBool(v.String())
		if err != nil {
			return false, fmt.Errorf("cannot convert string %q to bool for parameter %s: %w", v.String(), path, err)
		}
		return b, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0, nil
	}

	return false, fmt.Errorf("cannot convert type %T to bool for parameter %s", val, path)
}

// Float64 retrieves a float64 parameter.
func (p ParameterBag) Float64(path string) (float64, error) {
	val, found := p.Get(path)
	if !found {
		return 0.0, fmt.Errorf("parameter not defined: %s", path)
	}
	if val == nil {
		return 0.0, fmt.Errorf("value for parameter %s is nil, cannot convert to float64", path)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	case reflect.String:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0.0, fmt.Errorf("cannot convert string %q to float64 for parameter %s: %w", v.String(), path, err)
		}
		return f, nil
	}

	return 0.0, fmt.Errorf("cannot convert type %T to float64 for parameter %s", val, path)
}

// StringSlice retrieves a sequence of strings. A single string becomes a one-element slice.
func (p ParameterBag) StringSlice(path string) ([]string, error) {
	val, found := p.Get(path)
	if !found || val == nil {
		return nil, nil
	}

	switch v := val.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("parameter %s[%d] is %T, expected string", path, i, item)
			}
			out = append(out, s)
		}
		return out, nil
	}

	return nil, fmt.Errorf("cannot convert type %T to []string for parameter %s", val, path)
}
