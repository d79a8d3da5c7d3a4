package dhcpopt

import (
	"strings"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/insomniacslk/dhcp/dhcpv6"
)

var v4Names = func() map[int]string {
	codes := []dhcpv4.OptionCode{
		dhcpv4.OptionSubnetMask,
		dhcpv4.OptionTimeOffset,
		dhcpv4.OptionRouter,
		dhcpv4.OptionTimeServer,
		dhcpv4.OptionNameServer,
		dhcpv4.OptionDomainNameServer,
		dhcpv4.OptionLogServer,
		dhcpv4.OptionHostName,
		dhcpv4.OptionDomainName,
		dhcpv4.OptionBroadcastAddress,
		dhcpv4.OptionNTPServers,
		dhcpv4.OptionVendorSpecificInformation,
		dhcpv4.OptionRequestedIPAddress,
		dhcpv4.OptionIPAddressLeaseTime,
		dhcpv4.OptionDHCPMessageType,
		dhcpv4.OptionServerIdentifier,
		dhcpv4.OptionParameterRequestList,
		dhcpv4.OptionMessage,
		dhcpv4.OptionMaximumDHCPMessageSize,
		dhcpv4.OptionRenewTimeValue,
		dhcpv4.OptionRebindingTimeValue,
		dhcpv4.OptionClassIdentifier,
		dhcpv4.OptionClientIdentifier,
		dhcpv4.OptionTFTPServerName,
		dhcpv4.OptionBootfileName,
		dhcpv4.OptionUserClassInformation,
		dhcpv4.OptionRelayAgentInformation,
		dhcpv4.OptionDNSDomainSearchList,
		dhcpv4.OptionClasslessStaticRoute,
	}
	m := make(map[int]string, len(codes))
	for _, c := range codes {
		m[int(c.Code())] = c.String()
	}
	return m
}()

// OptionName returns the standard name of a top-level option, or "" when
// the code has no registered name in universe.
func OptionName(universe Universe, code int) string {
	switch universe {
	case UniverseIPv4:
		return v4Names[code]
	case UniverseIPv6:
		if code <= 0 || code > 0xffff {
			return ""
		}
		name := dhcpv6.OptionCode(code).String()
		if strings.HasPrefix(name, "unknown") {
			return ""
		}
		return name
	}
	return ""
}
