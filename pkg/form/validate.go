package form

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError reports a validator failure at a node.
type ValidationError struct {
	Path string // dotted path from the validated root; empty for the root
	Err  error
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Validate runs the validators of n and all of its enabled descendants and
// returns every failure in tree order. Disabled nodes and their subtrees are
// skipped.
func Validate(n Node) []ValidationError {
	var out []ValidationError
	validate(n, "", &out)
	return out
}

func validate(n Node, path string, out *[]ValidationError) {
	if n == nil || n.Disabled() {
		return
	}
	value := RawValue(n)
	for _, v := range n.Validators() {
		if err := v(value); err != nil {
			*out = append(*out, ValidationError{Path: path, Err: err})
		}
	}
	switch c := n.(type) {
	case *Group:
		for _, name := range c.names {
			validate(c.controls[name], join(path, name), out)
		}
	case *Array:
		for i, ctrl := range c.controls {
			validate(ctrl, join(path, strconv.Itoa(i)), out)
		}
	}
}

func join(path, step string) string {
	if path == "" {
		return step
	}
	return path + "." + step
}

// =============================================================================
// Common Validators
// =============================================================================

// Required rejects nil values, blank strings and empty slices.
func Required() Validator {
	return func(v any) error {
		switch x := v.(type) {
		case nil:
			return fmt.Errorf("value is required")
		case string:
			if strings.TrimSpace(x) == "" {
				return fmt.Errorf("value is required")
			}
		case []any:
			if len(x) == 0 {
				return fmt.Errorf("value is required")
			}
		}
		return nil
	}
}

// IntRange accepts integer values within [min, max]. Empty values pass so
// that the validator can be combined with Required.
func IntRange(min, max int64) Validator {
	return func(v any) error {
		if isEmpty(v) {
			return nil
		}
		n, ok := ToInt64(v)
		if !ok {
			return fmt.Errorf("%q is not an integer", Stringify(v))
		}
		if n < min || n > max {
			return fmt.Errorf("%d is out of range [%d, %d]", n, min, max)
		}
		return nil
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// ToInt64 converts numeric control values, including numeric strings and
// whole floats, to int64.
func ToInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int64(x), true
	case float32:
		return ToInt64(float64(x))
	case json.Number:
		n, err := x.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	}
	return 0, false
}
