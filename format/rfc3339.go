package format

import (
	"fmt"
	"time"
)

var rfc3339Formats = map[string]Func{
	"date-time": DateTime,
	"date":      Date,
	"time":      Time,
}

// DateTime validates an RFC 3339 section 5.6 date-time.
func DateTime(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		return fmt.Errorf("date-time is not valid: %w", err)
	}
	return nil
}

// Date validates an RFC 3339 full-date.
func Date(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	return DateTime(s + "T00:00:00Z")
}

// Time validates an RFC 3339 partial-time or full-time.
func Time(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	for _, layout := range []string{"15:04:05Z07:00", "15:04:05.999999999Z07:00", "15:04:05", "15:04:05.999999999"} {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return fmt.Errorf("time is not valid: %s", s)
}
