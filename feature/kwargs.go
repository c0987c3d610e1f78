package feature

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// Kwargs holds typed keyword arguments parsed from strategy_args text.
// Values are bool, int, float64, string, []interface{} or nil.
type Kwargs map[string]interface{}

// Keys returns the argument names in sorted order.
func (k Kwargs) Keys() []string {
	keys := make([]string, 0, len(k))
	for key := range k {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ParseKwargs parses comma separated key=value pairs.
//
// Values are inferred: true/false become bool, none/null become nil, integer
// text becomes int, float text becomes float64 and anything else stays a
// string. An explicit type can be attached with pipes:
//
//	max_features=100|int
//	ngram_range=1;2|tuple|int
//	stop_words=a;an;the|list|str
//
// Empty input yields an empty map.
func ParseKwargs(text string) (Kwargs, error) {
	out := Kwargs{}
	text = strings.TrimSpace(text)
	if text == "" || IsNone(text) {
		return out, nil
	}
	for _, pair := range strings.Split(text, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.NewValidationError("strategy_args", "expected key=value", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, errors.NewValidationError("strategy_args", "empty argument name", pair)
		}
		value, err := parseValue(strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "argument %q", key)
		}
		out[key] = value
	}
	return out, nil
}

// IsNone reports whether text spells a null value.
func IsNone(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "none", "null", "nil":
		return true
	}
	return false
}

func parseValue(raw string) (interface{}, error) {
	parts := strings.Split(raw, "|")
	switch len(parts) {
	case 1:
		return inferValue(raw), nil
	case 2:
		return coerce(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	case 3:
		container := strings.ToLower(strings.TrimSpace(parts[1]))
		if container != "list" && container != "tuple" {
			return nil, errors.NewValidationError("strategy_args", "unknown container type", parts[1])
		}
		typ := strings.TrimSpace(parts[2])
		items := strings.Split(parts[0], ";")
		values := make([]interface{}, 0, len(items))
		for _, item := range items {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			v, err := coerce(item, typ)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	}
	return nil, errors.NewValidationError("strategy_args", "too many type annotations", raw)
}

func inferValue(raw string) interface{} {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	if IsNone(raw) {
		return nil
	}
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func coerce(raw, typ string) (interface{}, error) {
	switch strings.ToLower(typ) {
	case "str", "string":
		return raw, nil
	case "int":
		i, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.NewValidationError("strategy_args", "cannot convert to int", raw)
		}
		return i, nil
	case "float":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.NewValidationError("strategy_args", "cannot convert to float", raw)
		}
		return f, nil
	case "bool":
		b, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return nil, errors.NewValidationError("strategy_args", "cannot convert to bool", raw)
		}
		return b, nil
	}
	return nil, errors.NewValidationError("strategy_args", "unknown value type", typ)
}

// Bool returns the boolean argument key, or def when absent.
func (k Kwargs) Bool(key string, def bool) (bool, error) {
	v, ok := k[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.NewValidationError(key, "expected a boolean", v)
	}
	return b, nil
}

// Int returns the integer argument key, or def when absent. A nil value
// yields zero. Floats with an integral value are accepted.
func (k Kwargs) Int(key string, def int) (int, error) {
	v, ok := k[key]
	if !ok {
		return def, nil
	}
	return toInt(key, v)
}

// Float returns the numeric argument key, or def when absent.
func (k Kwargs) Float(key string, def float64) (float64, error) {
	v, ok := k[key]
	if !ok {
		return def, nil
	}
	switch x := v.(type) {
	case int:
		return float64(x), nil
	case float64:
		return x, nil
	}
	return 0, errors.NewValidationError(key, "expected a number", v)
}

// String returns the string argument key, or def when absent. A nil value
// yields the empty string.
func (k Kwargs) String(key, def string) (string, error) {
	v, ok := k[key]
	if !ok {
		return def, nil
	}
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	}
	return "", errors.NewValidationError(key, "expected a string", v)
}

// Strings returns a list argument as strings. A single string is treated as
// a one element list.
func (k Kwargs) Strings(key string) ([]string, bool, error) {
	v, ok := k[key]
	if !ok || v == nil {
		return nil, ok, nil
	}
	switch x := v.(type) {
	case string:
		return []string{x}, true, nil
	case []interface{}:
		out := make([]string, len(x))
		for i, item := range x {
			out[i] = fmt.Sprint(item)
		}
		return out, true, nil
	}
	return nil, true, errors.NewValidationError(key, "expected a list of strings", v)
}

// Ints returns a list argument as integers.
func (k Kwargs) Ints(key string) ([]int, bool, error) {
	v, ok := k[key]
	if !ok {
		return nil, false, nil
	}
	items, isList := v.([]interface{})
	if !isList {
		return nil, true, errors.NewValidationError(key, "expected a list of integers", v)
	}
	out := make([]int, len(items))
	for i, item := range items {
		n, err := toInt(key, item)
		if err != nil {
			return nil, true, err
		}
		out[i] = n
	}
	return out, true, nil
}

func toInt(key string, v interface{}) (int, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int:
		return x, nil
	case float64:
		if x == float64(int(x)) {
			return int(x), nil
		}
	}
	return 0, errors.NewValidationError(key, "expected an integer", v)
}

// Floats returns a list argument as float64 values.
func (k Kwargs) Floats(key string) ([]float64, bool, error) {
	v, ok := k[key]
	if !ok {
		return nil, false, nil
	}
	items, isList := v.([]interface{})
	if !isList {
		return nil, true, errors.NewValidationError(key, "expected a list of numbers", v)
	}
	out := make([]float64, len(items))
	for i, item := range items {
		switch x := item.(type) {
		case int:
			out[i] = float64(x)
		case float64:
			out[i] = x
		default:
			return nil, true, errors.NewValidationError(key, "expected a list of numbers", v)
		}
	}
	return out, true, nil
}
