package dhcpopt

import (
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/form"
)

// FieldType is the type of a DHCP option field.
type FieldType string

// Supported option field types.
const (
	BinaryField      FieldType = "binary"
	StringField      FieldType = "string"
	BoolField        FieldType = "bool"
	Uint8Field       FieldType = "uint8"
	Uint16Field      FieldType = "uint16"
	Uint32Field      FieldType = "uint32"
	Int8Field        FieldType = "int8"
	Int16Field       FieldType = "int16"
	Int32Field       FieldType = "int32"
	IPv4AddressField FieldType = "ipv4-address"
	IPv6AddressField FieldType = "ipv6-address"
	IPv6PrefixField  FieldType = "ipv6-prefix"
	PsidField        FieldType = "psid"
	FqdnField        FieldType = "fqdn"
	SuboptionField   FieldType = "suboption"
)

var fieldTypes = []FieldType{
	BinaryField, StringField, BoolField,
	Uint8Field, Uint16Field, Uint32Field,
	Int8Field, Int16Field, Int32Field,
	IPv4AddressField, IPv6AddressField, IPv6PrefixField,
	PsidField, FqdnField, SuboptionField,
}

// FieldTypes returns all supported field types.
func FieldTypes() []FieldType {
	return append([]FieldType(nil), fieldTypes...)
}

// ParseFieldType returns the field type named s (case-insensitive).
func ParseFieldType(s string) (FieldType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, t := range fieldTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFieldType, "unsupported option field type %q", s)
}

// Names of the controls inside a field group.
const (
	ControlValue        = "control"
	ControlPrefix       = "prefix"
	ControlPrefixLength = "prefixLength"
	ControlPsid         = "psid"
	ControlPsidLength   = "psidLength"
)

// Controls returns the names of the controls a field group of type t holds.
func (t FieldType) Controls() []string {
	switch t {
	case IPv6PrefixField:
		return []string{ControlPrefix, ControlPrefixLength}
	case PsidField:
		return []string{ControlPsid, ControlPsidLength}
	}
	return []string{ControlValue}
}

// Field describes one option field: its type and one generated input
// identifier per editable control. The identifiers only link labels to
// inputs in a user interface.
type Field struct {
	Type     FieldType
	InputIDs []string
}

// NewField creates a field of type t with fresh input identifiers.
func NewField(t FieldType) *Field {
	n := len(t.Controls())
	ids := make([]string, n)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return &Field{Type: t, InputIDs: ids}
}

// CloneMeta gives a cloned field group its own input identifiers.
func (f *Field) CloneMeta() any {
	return NewField(f.Type)
}

// FieldOf returns the field descriptor attached to a field group.
func FieldOf(g *form.Group) (*Field, bool) {
	if g == nil {
		return nil, false
	}
	f, ok := g.Meta.(*Field)
	return f, ok && f != nil
}

// NewFieldGroup builds the form group for a field of type t. values are
// assigned to the type's controls in order; missing values are left empty.
// The type's validators are attached to each control.
func NewFieldGroup(t FieldType, values ...any) *form.Group {
	g := form.NewGroup()
	g.Meta = NewField(t)
	for i, name := range t.Controls() {
		var v any = ""
		if i < len(values) {
			v = values[i]
		}
		g.Set(name, form.NewControl(v, controlValidators(t, name)...))
	}
	return g
}
