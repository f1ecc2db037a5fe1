package format_test

import (
	"errors"
	"testing"

	"github.com/ScreamBun/jadn-go/format"
)

func TestRegistryLookup(t *testing.T) {
	r := format.NewRegistry()
	for _, name := range []string{"email", "hostname", "ipv4", "date-time", "uri", "json-pointer", "x"} {
		if r.Lookup(name) == nil {
			t.Errorf("default format %s missing", name)
		}
	}
	if r.Lookup("nope") != nil {
		t.Error("unknown format resolved")
	}
}

func TestRegistryUnsignedFamily(t *testing.T) {
	r := format.NewRegistry()
	fn := r.Lookup("u4")
	if fn == nil {
		t.Fatal("u4 did not resolve")
	}
	if err := fn(15); err != nil {
		t.Errorf("u4(15): %v", err)
	}
	if err := fn(16); err == nil {
		t.Error("u4(16) accepted")
	}
	if err := fn(-1); err == nil {
		t.Error("u4(-1) accepted")
	}
}

func TestRegistryRegister(t *testing.T) {
	r := format.NewRegistry()
	fn := func(v any) error { return errors.New("always") }
	if err := r.Register("custom", fn, false); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register("custom", fn, false); err == nil {
		t.Fatal("re-register without override accepted")
	}
	if err := r.Register("custom", fn, true); err != nil {
		t.Fatalf("override: %v", err)
	}
	if err := r.Register("nilfn", nil, false); err == nil {
		t.Fatal("nil function accepted")
	}
}

func TestFormatValidators(t *testing.T) {
	cases := []struct {
		format string
		value  any
		ok     bool
	}{
		{"email", "chef@example.com", true},
		{"email", "Chef <chef@example.com>", false},
		{"email", "nope", false},
		{"hostname", "kitchen.example.com", true},
		{"hostname", "kitchen.example.com.", true},
		{"hostname", "-bad-.example.com", false},
		{"hostname", "", false},
		{"ipv4", "10.0.0.1", true},
		{"ipv4", "10.0.0.256", false},
		{"ipv4", "::1", false},
		{"ipv6", "2001:db8::1", true},
		{"ipv6", "10.0.0.1", false},
		{"ipv4-net", "10.0.0.0/8", true},
		{"ipv4-net", "10.0.0.1", true},
		{"ipv4-net", []any{"10.0.0.0", 24}, true},
		{"ipv4-net", "10.0.0.0/33", false},
		{"ipv6-net", "2001:db8::/32", true},
		{"eui", "00:1b:44:11:3a:b7", true},
		{"eui", "00:1b:44", false},
		{"date-time", "2024-05-01T12:30:00Z", true},
		{"date-time", "2024-05-01", false},
		{"date", "2024-05-01", true},
		{"date", "May 1st", false},
		{"time", "12:30:00", true},
		{"uri", "https://example.com/menu?dish=penne", true},
		{"uri", "not a uri", false},
		{"uri-reference", "/menu", true},
		{"json-pointer", "/dishes/0/name", true},
		{"json-pointer", "dishes", false},
		{"json-pointer", "/a~2b", false},
		{"relative-json-pointer", "2/dishes", true},
		{"relative-json-pointer", "0#", true},
		{"relative-json-pointer", "#", false},
		{"regex", "^a+$", true},
		{"regex", "([", false},
		{"x", "DEADBEEF", true},
		{"x", "deadbeef", false},
		{"i8", 127, true},
		{"i8", 128, false},
		{"idn-hostname", "bücher.example", true},
		{"idn-email", "chef@bücher.example", true},
	}
	r := format.NewRegistry()
	for _, tc := range cases {
		fn := r.Lookup(tc.format)
		if fn == nil {
			t.Errorf("format %s missing", tc.format)
			continue
		}
		err := fn(tc.value)
		if tc.ok && err != nil {
			t.Errorf("%s(%v): %v", tc.format, tc.value, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s(%v) accepted", tc.format, tc.value)
		}
	}
}
