package format

import (
	"fmt"
	"net/url"
	"regexp"
)

var rfc3986Formats = map[string]Func{
	"uri":           URI,
	"uri-reference": URIReference,
	"uri-template":  URITemplate,
}

var rfc3987Formats = map[string]Func{
	"iri":           URI,
	"iri-reference": URIReference,
}

// URI validates an absolute URI per RFC 3986. IRIs (RFC 3987) share the
// structural rules with unicode allowed, which url.Parse accepts.
func URI(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("uri is not valid: %w", err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("uri must be absolute: %s", s)
	}
	return nil
}

// URIReference validates a URI or a relative reference.
func URIReference(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	if _, err := url.Parse(s); err != nil {
		return fmt.Errorf("uri-reference is not valid: %w", err)
	}
	return nil
}

var uriTemplateExpr = regexp.MustCompile(`^\{[+#./;?&]?[A-Za-z0-9_%,.:*]+\}$`)

// URITemplate validates an RFC 6570 URI template: the literal parts must form
// a valid URI reference once expressions are removed, and every expression
// must be well formed.
func URITemplate(v any) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	literal := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] != '{' {
			if s[i] == '}' {
				return fmt.Errorf("uri-template has unmatched } at offset %d", i)
			}
			literal = append(literal, s[i])
			i++
			continue
		}
		j := i + 1
		for j < len(s) && s[j] != '}' {
			j++
		}
		if j == len(s) {
			return fmt.Errorf("uri-template has unterminated expression at offset %d", i)
		}
		if !uriTemplateExpr.MatchString(s[i : j+1]) {
			return fmt.Errorf("uri-template has invalid expression %q", s[i:j+1])
		}
		i = j + 1
	}
	return URIReference(string(literal))
}
