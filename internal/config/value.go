// value.go provides coercion helpers over the generic mapping/sequence
// structures the markup decoders produce.
//
// The YAML decoder yields int for whole numbers while the JSON decoder
// yields float64, so asInt accepts both. Everything else is a plain type
// assertion with an ok result; validators turn a false ok into a
// wrong-type ConfigError with the decoder-visible type name.
package config

import "sort"

// asMapping asserts a decoded value is a mapping.
func asMapping(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

// asList asserts a decoded value is a sequence.
func asList(v interface{}) ([]interface{}, bool) {
	l, ok := v.([]interface{})
	return l, ok
}

// asString asserts a decoded value is a string.
func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asInt coerces a decoded value to int. YAML decodes whole numbers to int
// or int64 depending on magnitude; JSON decodes every number to float64.
// A float64 is accepted only when it is integral.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// typeName returns the decoder-visible name of a value's type for use in
// wrong-type error messages.
func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "dict"
	case []interface{}:
		return "list"
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	default:
		return "unknown"
	}
}

// sortedKeys returns the mapping's keys in sorted order. Validation loops
// iterate in this order so the first error reported for a given input is
// deterministic.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
