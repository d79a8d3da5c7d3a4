package dhcpopt

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/form"
)

// Format is the encoding of an option-set document.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "toml" and "json".
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTOML:
		return FormatTOML, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q: use toml or json", s)
}

// FormatFromPath guesses the format from a file extension. Unknown
// extensions are treated as TOML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// Document is a hand-written option set:
//
//	universe = 6
//
//	[[option]]
//	code = 1024
//	always_send = true
//
//	  [[option.field]]
//	  type = "ipv6-prefix"
//	  values = ["3000::", 64]
//
//	  [[option.suboption]]
//	  code = 1
//	  [[option.suboption.field]]
//	  type = "uint8"
//	  values = [5]
type Document struct {
	Universe Universe         `toml:"universe" json:"universe,omitempty"`
	Options  []DocumentOption `toml:"option" json:"options"`
}

// DocumentOption is one option of a Document.
type DocumentOption struct {
	Code       int              `toml:"code" json:"code"`
	AlwaysSend bool             `toml:"always_send" json:"alwaysSend,omitempty"`
	Fields     []DocumentField  `toml:"field" json:"fields,omitempty"`
	Suboptions []DocumentOption `toml:"suboption" json:"suboptions,omitempty"`
}

// DocumentField is one typed field of a DocumentOption. Values fill the
// field's controls in order (prefix and length for ipv6-prefix).
type DocumentField struct {
	Type   string `toml:"type" json:"type"`
	Values []any  `toml:"values" json:"values"`
}

// ParseDocument decodes data in format. Unknown keys are rejected.
func ParseDocument(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode option document")
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode option document")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown key %q in option document", undecoded[0].String())
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", format)
	}
	if doc.Universe != 0 && !doc.Universe.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidUniverse, "invalid universe %d: must be 4 or 6", doc.Universe)
	}
	return &doc, nil
}

// Form converts the document into an option-set form. Nesting depth is
// not checked here; Process reports it.
func (d *Document) Form() (*form.Array, error) {
	return documentOptions(d.Options)
}

func documentOptions(options []DocumentOption) (*form.Array, error) {
	arr := form.NewArray()
	for _, o := range options {
		fields := make([]*form.Group, 0, len(o.Fields))
		for _, f := range o.Fields {
			t, err := ParseFieldType(f.Type)
			if err != nil {
				return nil, err
			}
			fields = append(fields, NewFieldGroup(t, f.Values...))
		}
		var subs []*form.Group
		if len(o.Suboptions) > 0 {
			nested, err := documentOptions(o.Suboptions)
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

// Serialize builds the document's form and processes it. A zero universe
// falls back to the document's universe, then to IPv4.
func (d *Document) Serialize(universe Universe) ([]SerializedOption, error) {
	if universe == 0 {
		universe = d.Universe
	}
	if universe == 0 {
		universe = UniverseIPv4
	}
	arr, err := d.Form()
	if err != nil {
		return nil, err
	}
	f := NewOptionSetForm(arr)
	if err := f.Process(universe); err != nil {
		return nil, err
	}
	return f.SerializedOptions()
}
