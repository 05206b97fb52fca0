package settings

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dycw/hooksmith/internal/format"
)

// CheckValues verifies that expected is structurally contained in actual.
// Maps are compared key by key, recursing into shared keys. Lists are
// compared as sets: every expected element must appear in actual, in any
// order. Extra keys and elements are warnings, not errors. Scalars must
// match exactly, though numeric types are normalized first so an int 6
// equals a float 6.0.
func CheckValues(path string, actual, expected any) error {
	actMap, actIsMap := asMap(actual)
	expMap, expIsMap := asMap(expected)
	actList, actIsList := asList(actual)
	expList, expIsList := asList(expected)

	switch {
	case actIsMap && expIsMap:
		keys := make([]string, 0, len(expMap))
		for key := range expMap {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			actVal, ok := actMap[key]
			if !ok {
				return fmt.Errorf("%s: missing key %q", path, key)
			}
			if err := CheckValues(joinPath(path, key), actVal, expMap[key]); err != nil {
				return err
			}
		}
		extras := make([]string, 0)
		for key := range actMap {
			if _, ok := expMap[key]; !ok {
				extras = append(extras, key)
			}
		}
		sort.Strings(extras)
		for _, key := range extras {
			format.Warnf("%s: extra key %q", path, key)
		}
	case actIsList && expIsList:
		actSet := make(map[string]bool, len(actList))
		for _, v := range actList {
			actSet[freeze(v)] = true
		}
		expSet := make(map[string]bool, len(expList))
		for _, v := range expList {
			expSet[freeze(v)] = true
		}
		for _, v := range expList {
			if !actSet[freeze(v)] {
				return fmt.Errorf("%s: missing value %s", path, render(v))
			}
		}
		for _, v := range actList {
			if !expSet[freeze(v)] {
				format.Warnf("%s: extra value %s", path, render(v))
			}
		}
	default:
		if freeze(actual) != freeze(expected) {
			return fmt.Errorf("%s: got %s, want %s", path, render(actual), render(expected))
		}
	}
	return nil
}

// freeze renders a value into a canonical string so that structurally
// equal values compare equal regardless of map ordering, list ordering
// or numeric representation.
func freeze(v any) string {
	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for key := range x {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = strconv.Quote(key) + ":" + freeze(x[key])
		}
		return "map{" + strings.Join(parts, ",") + "}"
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = freeze(item)
		}
		sort.Strings(parts)
		return "set{" + strings.Join(parts, ",") + "}"
	case []string:
		return freeze(boxStrings(x))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		return boxStrings(x), true
	default:
		return nil, false
	}
}

func boxStrings(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func render(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
