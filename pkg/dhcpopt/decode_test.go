package dhcpopt

import (
	"reflect"
	"testing"

	"github.com/matzehuels/dhcpdash/pkg/errors"
)

func TestFormFromOptionsRoundTrip(t *testing.T) {
	wire := []SerializedOption{
		{
			AlwaysSend: true,
			Code:       1024,
			Fields: []SerializedField{
				{FieldType: IPv6PrefixField, Values: []string{"3000::", "64"}},
				{FieldType: PsidField, Values: []string{"12", "8"}},
			},
			Universe: UniverseIPv6,
			Options:  []SerializedOption{},
		},
		{
			Code:        3087,
			Encapsulate: "option-3087",
			Fields:      []SerializedField{},
			Universe:    UniverseIPv6,
			Options: []SerializedOption{{
				Code:     1,
				Fields:   []SerializedField{{FieldType: BoolField, Values: []string{"false"}}},
				Universe: UniverseIPv6,
				Options:  []SerializedOption{},
			}},
		},
	}

	arr, err := FormFromOptions(wire)
	if err != nil {
		t.Fatalf("FormFromOptions: %v", err)
	}
	f := NewOptionSetForm(arr)
	if err := f.Process(UniverseIPv6); err != nil {
		t.Fatalf("Process: %v", err)
	}
	got, _ := f.SerializedOptions()
	if !reflect.DeepEqual(got, wire) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, wire)
	}
}

func TestFormFromOptionsErrors(t *testing.T) {
	deep := []SerializedOption{{Code: 1, Options: []SerializedOption{{Code: 2, Options: []SerializedOption{{Code: 3}}}}}}
	tests := []struct {
		name string
		in   []SerializedOption
		code errors.Code
	}{
		{"too deep", deep, errors.ErrCodeNestingTooDeep},
		{"zero code", []SerializedOption{{Code: 0}}, errors.ErrCodeMissingOptionCode},
		{"bad type", []SerializedOption{{Code: 1, Fields: []SerializedField{{FieldType: "float"}}}}, errors.ErrCodeInvalidFieldType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FormFromOptions(tt.in); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}
