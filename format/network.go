package format

import (
	"fmt"
	"net"
	"net/netip"
	"regexp"
	"strings"
)

var networkFormats = map[string]Func{
	"hostname":  Hostname,
	"ipv4":      IPv4,
	"ipv6":      IPv6,
	"eui":       EUI,
	"ipv4-addr": IPv4,
	"ipv6-addr": IPv6,
	"ipv4-net":  ipNet(4),
	"ipv6-net":  ipNet(6),
}

const hostnameMaxLength = 253

var hostnameLabel = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)

// Hostname validates a hostname per RFC 1034 section 3.1.
func Hostname(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	// One trailing dot marks a fully qualified name.
	s = strings.TrimSuffix(s, ".")
	if len(s) < 1 {
		return fmt.Errorf("hostname is not a valid length, minimum 1 character")
	}
	if len(s) > hostnameMaxLength {
		return fmt.Errorf("hostname is not a valid length, exceeds %d characters", hostnameMaxLength)
	}
	for _, label := range strings.Split(s, ".") {
		if !hostnameLabel.MatchString(label) {
			return fmt.Errorf("hostname given is not valid")
		}
	}
	return nil
}

// IPv4 validates a dotted-quad IPv4 address.
func IPv4(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return fmt.Errorf("ipv4 address is not valid: %w", err)
	}
	if !addr.Is4() {
		return fmt.Errorf("ipv4 address is not valid: %s", s)
	}
	return nil
}

// IPv6 validates the text representation of an IPv6 address.
func IPv6(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return fmt.Errorf("ipv6 address is not valid: %w", err)
	}
	if !addr.Is6() || addr.Is4() {
		return fmt.Errorf("ipv6 address is not valid: %s", s)
	}
	return nil
}

// EUI validates an IEEE Extended Unique Identifier (MAC address), EUI-48 or
// EUI-64.
func EUI(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	hw, err := net.ParseMAC(s)
	if err != nil {
		return fmt.Errorf("eui is not valid: %w", err)
	}
	if len(hw) != 6 && len(hw) != 8 {
		return fmt.Errorf("eui must be EUI-48 or EUI-64, given %d octets", len(hw)*8)
	}
	return nil
}

// ipNet returns a validator for an address range: either a bare address or
// address/prefix-length. Accepts a string or a two-element [addr, prefix]
// tuple.
func ipNet(version int) Func {
	addrCheck := IPv4
	if version == 6 {
		addrCheck = IPv6
	}
	return func(v any) error {
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case []any:
			if len(val) == 1 {
				return addrCheck(val[0])
			}
			if len(val) != 2 {
				return fmt.Errorf("ipv%d network is not 2 values, given %d", version, len(val))
			}
			s = fmt.Sprintf("%v/%v", val[0], val[1])
		default:
			return fmt.Errorf("expected string or address pair, given %T", v)
		}
		if !strings.Contains(s, "/") {
			return addrCheck(s)
		}
		pfx, err := netip.ParsePrefix(s)
		if err != nil {
			return fmt.Errorf("ipv%d network is not valid: %w", version, err)
		}
		is4 := pfx.Addr().Is4()
		if (version == 4) != is4 {
			return fmt.Errorf("ipv%d network is not valid: %s", version, s)
		}
		return nil
	}
}
