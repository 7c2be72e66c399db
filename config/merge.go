// FILE: lixenwraith/stylecheck/config/merge.go
package config

// MergeKeepExisting merges incoming parameters into existing ones without overriding
// anything existing already defines. Keys present in both are merged recursively when
// both values are maps, otherwise the existing value is kept. Sequences are values like
// any other and are never concatenated.
// Neither argument is modified; maps in the result are fresh copies.
func MergeKeepExisting(incoming, existing map[string]any) map[string]any {
	merged := make(map[string]any, len(existing)+len(incoming))

	for key, value := range existing {
		merged[key] = deepCopy(value)
	}

	for key, inValue := range incoming {
		exValue, exists := merged[key]
		if !exists {
			merged[key] = deepCopy(inValue)
			continue
		}

		exMap, exIsMap := asStringMap(exValue)
		inMap, inIsMap := asStringMap(inValue)
		if exIsMap && inIsMap {
			merged[key] = MergeKeepExisting(inMap, exMap)
		}
		// Otherwise the existing value stays
	}

	return merged
}

// asStringMap normalizes the map shapes decoders produce into map[string]any.
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// deepCopy copies maps and slices so merged results never alias decoder output.
func deepCopy(v any) any {
	if m, ok := asStringMap(v); ok {
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = deepCopy(val)
		}
		return out
	}
	if s, ok := v.([]any); ok {
		out := make([]any, len(s))
		for i, val := range s {
			out[i] = deepCopy(val)
		}
		return out
	}
	return v
}
