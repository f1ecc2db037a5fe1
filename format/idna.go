package format

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

var idnaFormats = map[string]Func{
	"idn-hostname": IDNHostname,
	"idn-email":    IDNEmail,
}

// IDNHostname validates an internationalized hostname per RFC 5890 section
// 2.3.2.3 by mapping it to its ASCII form and applying the hostname rules.
func IDNHostname(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	ascii, err := idna.Lookup.ToASCII(strings.TrimSuffix(s, "."))
	if err != nil {
		return fmt.Errorf("idn-hostname is not valid: %w", err)
	}
	return Hostname(ascii)
}

// IDNEmail validates an internationalized e-mail address per RFC 6531 by
// mapping the domain part to ASCII and applying the e-mail rules.
func IDNEmail(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return fmt.Errorf("idn-email address is not valid")
	}
	domain, err := idna.Lookup.ToASCII(s[at+1:])
	if err != nil {
		return fmt.Errorf("idn-email address is not valid: %w", err)
	}
	return Email(s[:at+1] + domain)
}
