package format

import (
	"encoding/hex"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var generalFormats = map[string]Func{
	"email":                 Email,
	"regex":                 Regex,
	"json-pointer":          JSONPointer,
	"relative-json-pointer": RelativeJSONPointer,
	"i8":                    bits(8),
	"i16":                   bits(16),
	"i32":                   bits(32),
	"x":                     Base16,
}

func asText(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expected string, given %T", v)
}

func asInteger(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n == float64(int64(n)) {
			return int64(n), nil
		}
	}
	return 0, fmt.Errorf("expected integer, given %T", v)
}

// Email validates an e-mail address per RFC 5322 section 3.4.1.
func Email(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return fmt.Errorf("email address is not valid: %w", err)
	}
	if addr.Name != "" || addr.Address != s {
		return fmt.Errorf("email address is not valid")
	}
	return nil
}

// Regex validates a regular expression.
func Regex(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	if _, err := regexp.Compile(s); err != nil {
		return err
	}
	return nil
}

// JSONPointer validates a JSON Pointer per RFC 6901 section 5.
func JSONPointer(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "/") {
		return fmt.Errorf("json pointer must start with /")
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '~' {
			continue
		}
		if i+1 >= len(s) || (s[i+1] != '0' && s[i+1] != '1') {
			return fmt.Errorf("json pointer has invalid escape at offset %d", i)
		}
	}
	return nil
}

// RelativeJSONPointer validates a relative JSON Pointer: a non-negative
// integer followed by either # or a JSON Pointer.
func RelativeJSONPointer(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return fmt.Errorf("relative json pointer must start with a non-negative integer")
	}
	if i > 1 && s[0] == '0' {
		return fmt.Errorf("relative json pointer prefix must not have leading zeros")
	}
	rest := s[i:]
	if rest == "#" {
		return nil
	}
	return JSONPointer(rest)
}

// bits returns a validator for a signed integer of n bits.
func bits(n int) Func {
	minimum := -(int64(1) << (n - 1))
	maximum := int64(1)<<(n-1) - 1
	return func(v any) error {
		val, err := asInteger(v)
		if err != nil {
			return err
		}
		if val < minimum || val > maximum {
			return fmt.Errorf("number is not %d-bit, %d", n, val)
		}
		return nil
	}
}

// Unsigned validates an unsigned integer or bit field of n bits: an integer
// value must be between 0 and 2^n - 1, and a binary value no longer than
// 2^n - 1 octets.
func Unsigned(n int, v any) error {
	maximum := int64(1)<<n - 1
	if n >= 63 {
		maximum = int64(^uint64(0) >> 1)
	}
	switch val := v.(type) {
	case []byte:
		if int64(len(val)) > maximum {
			return fmt.Errorf("unsigned bytes given is invalid, cannot be more than %d bytes", maximum)
		}
		return nil
	case string:
		if int64(len(val)) > maximum {
			return fmt.Errorf("unsigned bytes given is invalid, cannot be more than %d bytes", maximum)
		}
		return nil
	}
	val, err := asInteger(v)
	if err != nil {
		return err
	}
	if val < 0 {
		return fmt.Errorf("unsigned integer given is invalid, cannot be negative")
	}
	if val > maximum {
		return fmt.Errorf("unsigned integer given is invalid, cannot be greater than %d", maximum)
	}
	return nil
}

// Base16 validates a string holding the RFC 4648 section 8 hex encoding of a
// binary value. The Base16 alphabet does not include lower-case letters.
func Base16(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	if strings.ToUpper(s) != s {
		return fmt.Errorf("base16 must not contain lower-case letters")
	}
	if _, err := hex.DecodeString(s); err != nil {
		return fmt.Errorf("base16 value is not valid: %w", err)
	}
	return nil
}
