package form

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// CopyValue returns v, or a new slice holding the same elements when v is a
// slice. Other values are returned unchanged: strings, numbers and booleans
// are immutable, and controls are not expected to hold maps or pointers.
func CopyValue(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.IsNil() {
		return v
	}
	cp := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	reflect.Copy(cp, rv)
	return cp.Interface()
}

// RawValue returns the plain value tree of n: map[string]any for groups,
// []any for arrays and the (copied) value for controls. Disabled nodes are
// included.
func RawValue(n Node) any {
	switch c := n.(type) {
	case *Group:
		if c == nil {
			return nil
		}
		out := make(map[string]any, len(c.names))
		for _, name := range c.names {
			out[name] = RawValue(c.controls[name])
		}
		return out
	case *Array:
		if c == nil {
			return nil
		}
		out := make([]any, 0, len(c.controls))
		for _, ctrl := range c.controls {
			out = append(out, RawValue(ctrl))
		}
		return out
	case *Control:
		return CopyValue(c.value)
	}
	return nil
}

// Lookup walks a dotted path ("suboptions.0.optionCode") from n and returns
// the node found there, or nil. Array steps are decimal indexes.
func Lookup(n Node, path string) Node {
	if path == "" {
		return n
	}
	cur := n
	for _, step := range strings.Split(path, ".") {
		switch c := cur.(type) {
		case *Group:
			if c == nil {
				return nil
			}
			cur = c.Get(step)
		case *Array:
			i, err := strconv.Atoi(step)
			if c == nil || err != nil {
				return nil
			}
			cur = c.At(i)
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// ControlValue returns the value of the control at path below n. The second
// result is false when no control exists there.
func ControlValue(n Node, path string) (any, bool) {
	c, ok := Lookup(n, path).(*Control)
	if !ok || c == nil {
		return nil, false
	}
	return c.Value(), true
}

// Stringify renders a control value the way a text input shows it: nil as
// the empty string, whole floats without a fraction, everything else through
// its default format.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
