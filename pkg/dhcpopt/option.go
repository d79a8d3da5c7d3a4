package dhcpopt

import (
	"strings"

	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/form"
)

// Universe selects the DHCP protocol version of an option.
type Universe int

const (
	UniverseIPv4 Universe = 4
	UniverseIPv6 Universe = 6
)

// ParseUniverse accepts "4", "6" and the spellings v4, ipv4, dhcp4 (and
// their v6 counterparts).
func ParseUniverse(s string) (Universe, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "4", "v4", "ipv4", "dhcp4", "dhcpv4":
		return UniverseIPv4, nil
	case "6", "v6", "ipv6", "dhcp6", "dhcpv6":
		return UniverseIPv6, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidUniverse, "invalid universe %q: must be 4 or 6", s)
}

// Valid reports whether u is 4 or 6.
func (u Universe) Valid() bool {
	return u == UniverseIPv4 || u == UniverseIPv6
}

// Space returns the top-level option space name, dhcp4 or dhcp6.
func (u Universe) Space() string {
	if u == UniverseIPv6 {
		return "dhcp6"
	}
	return "dhcp4"
}

// SerializedField is an option field in wire format.
type SerializedField struct {
	FieldType FieldType `json:"fieldType"`
	Values    []string  `json:"values"`
}

// SerializedOption is an option in wire format. Encapsulate is empty for
// options without suboptions.
type SerializedOption struct {
	AlwaysSend  bool               `json:"alwaysSend"`
	Code        int                `json:"code"`
	Encapsulate string             `json:"encapsulate"`
	Fields      []SerializedField  `json:"fields"`
	Universe    Universe           `json:"universe"`
	Options     []SerializedOption `json:"options"`
}

// Names of the controls inside an option group.
const (
	ControlAlwaysSend   = "alwaysSend"
	ControlOptionCode   = "optionCode"
	ControlOptionFields = "optionFields"
	ControlSuboptions   = "suboptions"
)

// NewOptionGroup builds the form group of one option. fields are groups
// created with NewFieldGroup; suboptions are option groups.
func NewOptionGroup(code any, alwaysSend bool, fields []*form.Group, suboptions []*form.Group) *form.Group {
	fieldArray := form.NewArray()
	for _, f := range fields {
		fieldArray.Append(f)
	}
	subArray := form.NewArray()
	for _, s := range suboptions {
		subArray.Append(s)
	}
	return form.NewGroup().
		Set(ControlAlwaysSend, form.NewControl(alwaysSend)).
		Set(ControlOptionCode, form.NewControl(code, form.Required(), form.IntRange(1, 65535))).
		Set(ControlOptionFields, fieldArray).
		Set(ControlSuboptions, subArray)
}

// NewOptionSet collects option groups into the array processed by
// OptionSetForm.
func NewOptionSet(options ...*form.Group) *form.Array {
	a := form.NewArray()
	for _, o := range options {
		a.Append(o)
	}
	return a
}
