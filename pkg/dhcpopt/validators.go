package dhcpopt

import (
	"encoding/hex"
	"fmt"
	"math"
	"net/netip"
	"strconv"
	"strings"

	"github.com/matzehuels/dhcpdash/pkg/form"
)

// controlValidators returns the validators for control name of a field of
// type t. Empty values pass every validator.
func controlValidators(t FieldType, name string) []form.Validator {
	switch t {
	case Uint8Field:
		return []form.Validator{form.IntRange(0, math.MaxUint8)}
	case Uint16Field:
		return []form.Validator{form.IntRange(0, math.MaxUint16)}
	case Uint32Field:
		return []form.Validator{form.IntRange(0, math.MaxUint32)}
	case Int8Field:
		return []form.Validator{form.IntRange(math.MinInt8, math.MaxInt8)}
	case Int16Field:
		return []form.Validator{form.IntRange(math.MinInt16, math.MaxInt16)}
	case Int32Field:
		return []form.Validator{form.IntRange(math.MinInt32, math.MaxInt32)}
	case BoolField:
		return []form.Validator{boolValue}
	case BinaryField:
		return []form.Validator{hexValue}
	case IPv4AddressField:
		return []form.Validator{ipAddress(4)}
	case IPv6AddressField:
		return []form.Validator{ipAddress(6)}
	case IPv6PrefixField:
		if name == ControlPrefixLength {
			return []form.Validator{form.IntRange(0, 128)}
		}
		return []form.Validator{ipAddress(6)}
	case PsidField:
		if name == ControlPsidLength {
			return []form.Validator{form.IntRange(0, 16)}
		}
		return []form.Validator{form.IntRange(0, math.MaxUint16)}
	}
	return nil
}

func blank(v any) (string, bool) {
	s := strings.TrimSpace(form.Stringify(v))
	return s, s == ""
}

func boolValue(v any) error {
	s, empty := blank(v)
	if empty {
		return nil
	}
	if _, err := strconv.ParseBool(s); err != nil {
		return fmt.Errorf("%q is not a boolean", s)
	}
	return nil
}

// hexValue accepts hexadecimal strings, optionally separated by colons or
// spaces ("0a:1b", "0a 1b", "0a1b").
func hexValue(v any) error {
	s, empty := blank(v)
	if empty {
		return nil
	}
	digits := strings.NewReplacer(":", "", " ", "").Replace(s)
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	if _, err := hex.DecodeString(digits); err != nil {
		return fmt.Errorf("%q is not a hexadecimal string", s)
	}
	return nil
}

func ipAddress(family int) form.Validator {
	return func(v any) error {
		s, empty := blank(v)
		if empty {
			return nil
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return fmt.Errorf("%q is not an IP address", s)
		}
		if family == 4 && !addr.Is4() {
			return fmt.Errorf("%q is not an IPv4 address", s)
		}
		if family == 6 && (!addr.Is6() || addr.Is4In6()) {
			return fmt.Errorf("%q is not an IPv6 address", s)
		}
		return nil
	}
}
