package filters

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Builtins returns a Registry pre-loaded with the filters a host typically
// wants available without writing its own: json path extraction against a
// serialized Host value, and jsonSet for building one. Both are stateless:
// same input and args always produce the same output.
func Builtins() *Registry {
	r := New()
	r.RegisterMap(map[string]Factory{
		"json":    func() Func { return jsonFilter },
		"jsonSet": func() Func { return jsonSetFilter },
	})
	return r
}

// jsonFilter reads args[0] as a gjson path out of a JSON-text input value.
// Non-string inputs or missing paths yield nil (null) rather than erroring,
// matching spec.md §4.4's "no safety guards, no special error handling on
// filter inputs or outputs" stance.
func jsonFilter(input any, args ...any) any {
	text, ok := input.(string)
	if !ok || len(args) == 0 {
		return nil
	}
	path, ok := args[0].(string)
	if !ok {
		return nil
	}
	result := gjson.Get(text, path)
	if !result.Exists() {
		return nil
	}
	return jsonResultToValue(result)
}

func jsonResultToValue(r gjson.Result) any {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Num
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Null:
		return nil
	}
	if r.IsArray() || r.IsObject() {
		return r.Value()
	}
	return r.Value()
}

// jsonSetFilter sets args[1] (a gjson/sjson path) to args[0] within the
// JSON-text input, returning the updated text. args[0] is the value,
// args[1] is the path, matching the `input | jsonSet:value:path` pipeline
// order the same way other filters take their configuration after the
// piped-in value.
func jsonSetFilter(input any, args ...any) any {
	text, ok := input.(string)
	if !ok || len(args) < 2 {
		return input
	}
	path, ok := args[1].(string)
	if !ok {
		return input
	}
	updated, err := sjson.Set(text, path, args[0])
	if err != nil {
		return input
	}
	return updated
}
