package dhcpopt

import (
	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/form"
	"github.com/matzehuels/dhcpdash/pkg/observability"
)

// FormFromOptions builds an editable option-set form from options in wire
// format, typically fetched with a host or subnet. Field values become
// string control values. Options nested deeper than one suboption level
// are rejected the same way Process rejects them.
func FormFromOptions(options []SerializedOption) (*form.Array, error) {
	arr, err := decodeLevel(options, 0)
	if err != nil {
		observability.Serializer().OnDecode(0, err)
		return nil, err
	}
	observability.Serializer().OnDecode(len(options), nil)
	return arr, nil
}

func decodeLevel(options []SerializedOption, level int) (*form.Array, error) {
	if level > MaxNestingLevel {
		return nil, errors.New(errors.ErrCodeNestingTooDeep, "options serialization supports up to two nesting levels")
	}
	arr := form.NewArray()
	for _, o := range options {
		if o.Code == 0 {
			return nil, errors.New(errors.ErrCodeMissingOptionCode, "form group does not contain control with an option code")
		}
		fields := make([]*form.Group, 0, len(o.Fields))
		for _, f := range o.Fields {
			t, err := ParseFieldType(string(f.FieldType))
			if err != nil {
				return nil, err
			}
			values := make([]any, len(f.Values))
			for i, v := range f.Values {
				values[i] = v
			}
			fields = append(fields, NewFieldGroup(t, values...))
		}
		var subs []*form.Group
		if len(o.Options) > 0 {
			nested, err := decodeLevel(o.Options, level+1)
			if err != nil {
				return nil, err
			}
			for _, n := range nested.Controls() {
				subs = append(subs, n.(*form.Group))
			}
		}
		arr.Append(NewOptionGroup(o.Code, o.AlwaysSend, fields, subs))
	}
	return arr, nil
}
