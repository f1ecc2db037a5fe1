package jadn

import (
	"fmt"
	"sort"
)

// Tuple decoding for the at-rest document shape: every type is a tuple
// [name, type, options, description, fields?], every general field a tuple
// [id, name, type, options, description], and every enumerated field a tuple
// [id, value, description]. JSON and YAML decoders hand these over as []any
// with numbers as float64 or int; the helpers below normalize both.

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func asTokens(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, len(t))
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func asTuple(v any) ([]any, bool) {
	t, ok := v.([]any)
	return t, ok
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// makeDefinition builds a Definition from its at-rest tuple, enforcing the
// name pattern, the reserved-keyword rule, and the compound/fields invariant.
func makeDefinition(raw any, cfg *Config) (*Definition, error) {
	tuple, ok := asTuple(raw)
	if !ok || len(tuple) < 4 || len(tuple) > 5 {
		return nil, issuef(CodeFormat, "", "type definition improperly formatted: %v", raw)
	}
	name, ok := asString(tuple[0])
	if !ok {
		return nil, issuef(CodeFormat, "", "type name is not a string: %v", tuple[0])
	}
	typeName, ok := asString(tuple[1])
	if !ok {
		return nil, issuef(CodeFormat, name, "type keyword of %s is not a string", name)
	}
	tokens, ok := asTokens(tuple[2])
	if !ok {
		return nil, issuef(CodeFormat, name, "options of %s are not a list of strings", name)
	}
	opts, err := DecodeOptions(tokens)
	if err != nil {
		return nil, err
	}
	desc, _ := asString(tuple[3])

	d := &Definition{Name: name, Type: typeName, Options: opts, Description: desc}

	if !cfg.typeNameRe.MatchString(name) {
		return nil, issuef(CodeFormat, name, "Name invalid - %s", name)
	}
	if IsBuiltin(name) {
		return nil, issuef(CodeFormat, name, "%s cannot be the name of a builtin type", d)
	}

	hasFields := len(tuple) == 5
	if d.IsCompound() && !hasFields {
		return nil, issuef(CodeFormat, name, "%s must have defined fields", d)
	}
	if !d.IsCompound() && hasFields {
		return nil, issuef(CodeFormat, name, "%s improperly formatted", d)
	}
	if !hasFields {
		return d, nil
	}

	rows, ok := asTuple(tuple[4])
	if !ok {
		return nil, issuef(CodeFormat, name, "%s has improperly formatted field(s)", d)
	}
	if d.BaseType() == "Enumerated" {
		d.Enums = make([]*EnumeratedField, 0, len(rows))
		for _, row := range rows {
			ef, err := makeEnumeratedField(row, d)
			if err != nil {
				return nil, err
			}
			d.Enums = append(d.Enums, ef)
		}
	} else {
		d.Fields = make([]*Field, 0, len(rows))
		for _, row := range rows {
			f, err := makeField(row, d, cfg)
			if err != nil {
				return nil, err
			}
			d.Fields = append(d.Fields, f)
		}
	}
	return d, nil
}

func makeEnumeratedField(raw any, d *Definition) (*EnumeratedField, error) {
	tuple, ok := asTuple(raw)
	if !ok || len(tuple) != 3 {
		return nil, issuef(CodeFormat, d.Name, "%s has improperly formatted field(s)", d)
	}
	id, ok := asInt(tuple[0])
	if !ok {
		return nil, issuef(CodeFormat, d.Name, "enumerated field id of %s is not an integer", d.Name)
	}
	value := tuple[1]
	if n, ok := asInt(value); ok {
		value = n
	} else if _, ok := asString(value); !ok {
		return nil, issuef(CodeFormat, d.Name, "enumerated field value of %s is not an integer or string", d.Name)
	}
	desc, _ := asString(tuple[2])
	return &EnumeratedField{ID: id, Value: value, Description: desc}, nil
}

func makeField(raw any, d *Definition, cfg *Config) (*Field, error) {
	tuple, ok := asTuple(raw)
	if !ok || len(tuple) != 5 {
		return nil, issuef(CodeFormat, d.Name, "%s has improperly formatted field(s)", d)
	}
	id, ok := asInt(tuple[0])
	if !ok {
		return nil, issuef(CodeFormat, d.Name, "field id of %s is not an integer", d.Name)
	}
	name, ok := asString(tuple[1])
	if !ok {
		return nil, issuef(CodeFormat, d.Name, "field name of %s is not a string", d.Name)
	}
	if !cfg.fieldNameRe.MatchString(name) {
		return nil, issuef(CodeFormat, fmt.Sprintf("%s.%s", d.Name, name), "Name invalid - %s", name)
	}
	typeName, ok := asString(tuple[2])
	if !ok {
		return nil, issuef(CodeFormat, fmt.Sprintf("%s.%s", d.Name, name), "field type of %s.%s is not a string", d.Name, name)
	}
	tokens, ok := asTokens(tuple[3])
	if !ok {
		return nil, issuef(CodeFormat, fmt.Sprintf("%s.%s", d.Name, name), "options of %s.%s are not a list of strings", d.Name, name)
	}
	opts, err := DecodeOptions(tokens)
	if err != nil {
		return nil, err
	}
	desc, _ := asString(tuple[4])
	return &Field{ID: id, Name: name, Type: typeName, Options: opts, Description: desc}, nil
}
