package dhcpopt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/form"
	"github.com/matzehuels/dhcpdash/pkg/observability"
)

// MaxNestingLevel is the deepest suboption level Process accepts. Level 0
// holds top-level options, level 1 their suboptions.
const MaxNestingLevel = 1

// OptionSetForm converts an option-set form into wire format.
//
// The form is an array of option groups (see NewOptionGroup). Process walks
// it and caches the result, which SerializedOptions returns until Process is
// called again. A failed Process leaves the previous result in place.
type OptionSetForm struct {
	options     *form.Array
	level       int
	optionSpace string
	serialized  []SerializedOption
}

// NewOptionSetForm wraps a top-level option array.
func NewOptionSetForm(options *form.Array) *OptionSetForm {
	return &OptionSetForm{options: options}
}

// newNestedForm wraps a suboption array. optionSpace is the encapsulated
// space of the parent option.
func newNestedForm(options *form.Array, level int, optionSpace string) *OptionSetForm {
	return &OptionSetForm{options: options, level: level, optionSpace: optionSpace}
}

// Process serializes the form for universe.
func (f *OptionSetForm) Process(universe Universe) error {
	start := time.Now()
	err := f.process(universe)
	if f.level == 0 {
		count := 0
		if err == nil {
			count = len(f.serialized)
		}
		observability.Serializer().OnProcess(int(universe), count, time.Since(start), err)
	}
	return err
}

func (f *OptionSetForm) process(universe Universe) error {
	if f.level > MaxNestingLevel {
		return errors.New(errors.ErrCodeNestingTooDeep, "options serialization supports up to two nesting levels")
	}
	if !universe.Valid() {
		return errors.New(errors.ErrCodeInvalidUniverse, "invalid universe %d: must be 4 or 6", universe)
	}
	var controls []form.Node
	if f.options != nil {
		controls = f.options.Controls()
	}
	serialized := make([]SerializedOption, 0, len(controls))
	for _, ctrl := range controls {
		o, ok := ctrl.(*form.Group)
		if !ok || o == nil {
			return errors.New(errors.ErrCodeMissingOptionCode, "form group does not contain control with an option code")
		}
		item, err := f.processOption(o, universe)
		if err != nil {
			return err
		}
		serialized = append(serialized, item)
	}
	f.serialized = serialized
	return nil
}

func (f *OptionSetForm) processOption(o *form.Group, universe Universe) (SerializedOption, error) {
	codeValue, _ := form.ControlValue(o, ControlOptionCode)
	code, ok := form.ToInt64(codeValue)
	if !ok || code == 0 {
		return SerializedOption{}, errors.New(errors.ErrCodeMissingOptionCode,
			"form group does not contain control with an option code")
	}
	alwaysSend, _ := form.ControlValue(o, ControlAlwaysSend)
	item := SerializedOption{
		AlwaysSend: truthy(alwaysSend),
		Code:       int(code),
		Fields:     []SerializedField{},
		Universe:   universe,
		Options:    []SerializedOption{},
	}

	if fields, ok := o.Get(ControlOptionFields).(*form.Array); ok && fields != nil {
		for _, node := range fields.Controls() {
			field, err := serializeField(node)
			if err != nil {
				return SerializedOption{}, err
			}
			item.Fields = append(item.Fields, field)
		}
	}

	subs, ok := o.Get(ControlSuboptions).(*form.Array)
	if ok && subs != nil && subs.Len() > 0 {
		if f.optionSpace != "" {
			item.Encapsulate = fmt.Sprintf("%s.%d", f.optionSpace, item.Code)
		} else {
			item.Encapsulate = fmt.Sprintf("option-%d", item.Code)
		}
		nested := newNestedForm(subs, f.level+1, item.Encapsulate)
		if err := nested.process(universe); err != nil {
			return SerializedOption{}, err
		}
		item.Options = nested.serialized
	}
	return item, nil
}

func serializeField(node form.Node) (SerializedField, error) {
	g, ok := node.(*form.Group)
	field, hasField := FieldOf(g)
	if !ok || !hasField {
		return SerializedField{}, errors.New(errors.ErrCodeInvalidFieldType, "option field has no field type")
	}
	var values []string
	switch field.Type {
	case IPv6PrefixField:
		if !g.Contains(ControlPrefix) || !g.Contains(ControlPrefixLength) {
			return SerializedField{}, errors.New(errors.ErrCodeMissingControl,
				"IPv6 prefix option field must contain prefix and prefixLength controls")
		}
		prefix, _ := form.ControlValue(g, ControlPrefix)
		length, _ := form.ControlValue(g, ControlPrefixLength)
		values = []string{strings.TrimSpace(form.Stringify(prefix)), form.Stringify(length)}
	case PsidField:
		if !g.Contains(ControlPsid) || !g.Contains(ControlPsidLength) {
			return SerializedField{}, errors.New(errors.ErrCodeMissingControl,
				"PSID option field must contain psid and psidLength controls")
		}
		psid, _ := form.ControlValue(g, ControlPsid)
		length, _ := form.ControlValue(g, ControlPsidLength)
		values = []string{form.Stringify(psid), form.Stringify(length)}
	default:
		if !g.Contains(ControlValue) {
			return SerializedField{}, errors.New(errors.ErrCodeMissingControl,
				"%s option field must contain control", field.Type)
		}
		v, _ := form.ControlValue(g, ControlValue)
		s := strings.TrimSpace(form.Stringify(v))
		if field.Type == BoolField && s == "" {
			s = "false"
		}
		values = []string{s}
	}
	return SerializedField{FieldType: field.Type, Values: values}, nil
}

// SerializedOptions returns the result of the last successful Process.
func (f *OptionSetForm) SerializedOptions() ([]SerializedOption, error) {
	if f.serialized == nil {
		return nil, errors.New(errors.ErrCodeNotProcessed, "options form has not been processed")
	}
	return f.serialized, nil
}

// truthy interprets a control value as a flag. Strings parse as booleans
// when possible and count as set when non-empty otherwise.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		s := strings.TrimSpace(x)
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
		return s != ""
	}
	n, ok := form.ToInt64(v)
	return !ok || n != 0
}
