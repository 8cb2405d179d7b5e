package openlibrary

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// optString is the lenient accessor: a missing or non-string member yields "".
func optString(obj map[string]any, name string) string {
	s, _ := obj[name].(string)
	return s
}

// requireString is the strict accessor used where a record is unusable
// without the member.
func requireString(obj map[string]any, name, path string) (string, error) {
	v, present := obj[name]
	if !present || v == nil {
		return "", newLineError(KindMissingRequiredField, path, nil)
	}
	s, ok := v.(string)
	if !ok {
		return "", newLineError(KindMissingRequiredField, path, fmt.Errorf("expected string, got %s", jsonType(v)))
	}
	return s, nil
}

// optObject returns the named member when it is a JSON object.
func optObject(obj map[string]any, name string) (map[string]any, bool) {
	m, ok := obj[name].(map[string]any)
	return m, ok
}

// optArray returns the named member when it is a JSON array.
func optArray(obj map[string]any, name string) ([]any, bool) {
	a, ok := obj[name].([]any)
	return a, ok
}

// coerceString renders a scalar array element as text. Objects, arrays and
// null have no string form.
func coerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
