package jsontree

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Kind classifies a value for rendering.
type Kind int

const (
	KindPrimitive Kind = iota
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "primitive"
}

// Complex reports whether values of kind k have children.
func (k Kind) Complex() bool { return k != KindPrimitive }

var timeType = reflect.TypeOf(time.Time{})

// Classify returns the kind of v. Times, nil, booleans, numbers and strings
// are primitive; slices and arrays are arrays; maps and structs are objects.
// Anything else is rendered as a primitive.
func Classify(v any) Kind {
	return classify(resolve(v))
}

func classify(v any) Kind {
	switch v.(type) {
	case nil, bool, string, json.Number, time.Time, []byte:
		return KindPrimitive
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Map:
		return KindObject
	}
	return KindPrimitive
}

// resolve dereferences pointers and replaces structs by their JSON decoded
// form so that they render like the objects they serialize to. Values that
// cannot be marshaled stay as they are and render as primitives.
func resolve(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || rv.Type() == timeType {
		return rv.Interface()
	}
	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return rv.Interface()
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return rv.Interface()
	}
	return out
}

// entry is a child of a complex value.
type entry struct {
	key   string
	value any
}

// childCount returns the number of children of a resolved value.
func childCount(v any) int {
	switch x := v.(type) {
	case []any:
		return len(x)
	case map[string]any:
		return len(x)
	}
	if classify(v) == KindPrimitive {
		return 0
	}
	return reflect.ValueOf(v).Len()
}

// childEntries returns the children of a resolved value in display order:
// arrays by index, objects by collated key.
func childEntries(v any, coll *collate.Collator) []entry {
	switch x := v.(type) {
	case []any:
		out := make([]entry, len(x))
		for i, e := range x {
			out[i] = entry{key: strconv.Itoa(i), value: e}
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		coll.SortStrings(keys)
		out := make([]entry, len(keys))
		for i, k := range keys {
			out[i] = entry{key: k, value: x[k]}
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch classify(v) {
	case KindArray:
		out := make([]entry, rv.Len())
		for i := range out {
			out[i] = entry{key: strconv.Itoa(i), value: rv.Index(i).Interface()}
		}
		return out
	case KindObject:
		return mapEntries(rv, coll)
	}
	return nil
}

// mapEntries lists the entries of a map with arbitrary keys. Keys that print
// the same, such as 1 and "1", stay distinct: they are ordered by type name
// and every one after the first gets a "#n" suffix.
func mapEntries(rv reflect.Value, coll *collate.Collator) []entry {
	type mapKey struct {
		text, typ string
		value     any
	}
	keys := make([]mapKey, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().Interface()
		keys = append(keys, mapKey{text: fmt.Sprint(k), typ: fmt.Sprintf("%T", k), value: iter.Value().Interface()})
	}
	if coll == nil {
		coll = newCollator()
	}
	slices.SortStableFunc(keys, func(a, b mapKey) int {
		if c := coll.CompareString(a.text, b.text); c != 0 {
			return c
		}
		if c := strings.Compare(a.text, b.text); c != 0 {
			return c
		}
		return strings.Compare(a.typ, b.typ)
	})

	used := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		used[k.text] = struct{}{}
	}
	out := make([]entry, len(keys))
	for i, k := range keys {
		name := k.text
		if i > 0 && keys[i-1].text == k.text {
			for n := 2; ; n++ {
				name = k.text + "#" + strconv.Itoa(n)
				if _, taken := used[name]; !taken {
					break
				}
			}
			used[name] = struct{}{}
		}
		out[i] = entry{key: name, value: k.value}
	}
	return out
}

func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

// ChildKeys returns the keys of v's children in display order: decimal
// indexes for arrays and collated keys for objects. Primitives have none.
func ChildKeys(v any) []string {
	entries := childEntries(resolve(v), newCollator())
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return keys
}

// IsCorrupted reports whether v looks damaged: a string with unbalanced
// braces or brackets or an odd number of quotes, or an array mixing values
// of different categories (string, number, boolean, object). The result is
// a hint for the reader only.
func IsCorrupted(v any) bool {
	v = resolve(v)
	if s, ok := v.(string); ok {
		return strings.Count(s, "{") != strings.Count(s, "}") ||
			strings.Count(s, "[") != strings.Count(s, "]") ||
			strings.Count(s, `"`)%2 == 1 ||
			strings.Count(s, "'")%2 == 1
	}
	if classify(v) != KindArray {
		return false
	}
	first := ""
	for _, e := range childEntries(v, nil) {
		c := category(resolve(e.value))
		if first == "" {
			first = c
		} else if c != first {
			return true
		}
	}
	return false
}

// category mirrors the JSON value categories used by IsCorrupted. Null,
// arrays, objects and times all count as "object".
func category(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	}
	return "object"
}
