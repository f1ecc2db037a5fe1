package jsonschema

import (
	"fmt"
	"regexp"
	"strings"

	jadn "github.com/ScreamBun/jadn-go"
)

// Convert renders a loaded JADN schema as a JSON Schema draft-07 document.
// Every declared type becomes a definition; the document validates instances
// of any exported type through a oneOf of references.
func Convert(s *jadn.Schema) (*Schema, error) {
	c := &converter{schema: s}
	root := &Schema{
		Draft:       "http://json-schema.org/draft-07/schema#",
		ID:          s.Meta.Module,
		Title:       s.Meta.Title,
		Description: s.Meta.Description,
		Definitions: map[string]*Schema{},
	}
	for _, name := range s.Meta.Exports {
		root.OneOf = append(root.OneOf, ref(name))
	}
	for _, name := range s.TypeNames() {
		node, err := c.convertType(s.Type(name))
		if err != nil {
			return nil, err
		}
		root.Definitions[name] = node
	}
	return root, nil
}

type converter struct {
	schema *jadn.Schema
}

func ref(name string) *Schema {
	return &Schema{Ref: "#/definitions/" + name}
}

func (c *converter) convertType(def *jadn.Definition) (*Schema, error) {
	var node *Schema
	var err error
	switch def.Kind() {
	case jadn.KindArray:
		node = c.convertArray(def)
	case jadn.KindArrayOf:
		node, err = c.convertArrayOf(def)
	case jadn.KindChoice:
		node, err = c.convertChoice(def)
	case jadn.KindEnumerated:
		node = convertEnumerated(def)
	case jadn.KindMap, jadn.KindRecord:
		node, err = c.convertMapped(def)
	case jadn.KindMapOf:
		node, err = c.convertMapOf(def)
	default:
		node, err = primitiveSchema(def.BaseType(), def.Options)
	}
	if err != nil {
		return nil, err
	}
	node.Description = def.Description
	return node, nil
}

var primitiveKinds = map[string]string{
	"Binary":  "string",
	"Boolean": "boolean",
	"Integer": "integer",
	"Null":    "null",
	"Number":  "number",
	"String":  "string",
}

func primitiveSchema(basetype string, o *jadn.Option) (*Schema, error) {
	kind, ok := primitiveKinds[basetype]
	if !ok {
		return nil, fmt.Errorf("cannot convert %s to a JSON Schema type", basetype)
	}
	node := &Schema{Type: kind, Format: formatKeyword(o)}
	switch basetype {
	case "Binary":
		node.ContentEncoding = "base64url"
		node.MinLength = o.MinV
		node.MaxLength = o.MaxV
	case "String":
		node.MinLength = o.MinV
		node.MaxLength = o.MaxV
		if o.Pattern != nil {
			node.Pattern = *o.Pattern
		}
	case "Integer", "Number":
		node.Minimum = o.MinV
		node.Maximum = o.MaxV
	}
	return node, nil
}

// formatKeyword maps a JADN semantic format to its JSON Schema spelling.
// Formats JSON Schema has no keyword for are carried through verbatim,
// except the sized-integer family which becomes plain integer bounds checks
// on the consumer side.
func formatKeyword(o *jadn.Option) string {
	f := ""
	if o.Format != nil {
		f = *o.Format
	}
	switch f {
	case "x":
		return ""
	case "ipv4-addr":
		return "ipv4"
	case "ipv6-addr":
		return "ipv6"
	}
	if sizedIntRe.MatchString(f) {
		return ""
	}
	return f
}

var sizedIntRe = regexp.MustCompile(`^[iu]\d+$`)

func convertEnumerated(def *jadn.Definition) *Schema {
	node := &Schema{}
	if def.Options.ID {
		node.Type = "integer"
		for _, ef := range def.Enums {
			node.Enum = append(node.Enum, ef.ID)
		}
		return node
	}
	node.Type = "string"
	for _, ef := range def.Enums {
		node.Enum = append(node.Enum, ef.Value)
	}
	return node
}

func (c *converter) convertArray(def *jadn.Definition) *Schema {
	node := &Schema{Type: "array", Format: formatKeyword(def.Options)}
	node.MinItems = def.Options.MinV
	node.MaxItems = def.Options.MaxV
	return node
}

func (c *converter) convertArrayOf(def *jadn.Definition) (*Schema, error) {
	items, err := c.refSchema(vtypeOf(def.Options), nil)
	if err != nil {
		return nil, err
	}
	return &Schema{
		Type:        "array",
		Items:       items,
		MinItems:    def.Options.MinV,
		MaxItems:    def.Options.MaxV,
		UniqueItems: def.Options.Unique,
	}, nil
}

func (c *converter) convertChoice(def *jadn.Definition) (*Schema, error) {
	node := &Schema{Type: "object"}
	for _, f := range def.Fields {
		fs, err := c.fieldSchema(f)
		if err != nil {
			return nil, err
		}
		key := f.Name
		if def.Options.ID {
			key = fmt.Sprint(f.ID)
		}
		node.OneOf = append(node.OneOf, &Schema{
			Type:                 "object",
			Properties:           map[string]*Schema{key: fs},
			Required:             []string{key},
			AdditionalProperties: false,
		})
	}
	return node, nil
}

func (c *converter) convertMapped(def *jadn.Definition) (*Schema, error) {
	node := &Schema{
		Type:                 "object",
		Properties:           map[string]*Schema{},
		AdditionalProperties: false,
		MinProperties:        def.Options.MinV,
		MaxProperties:        def.Options.MaxV,
	}
	for _, f := range def.Fields {
		fs, err := c.fieldSchema(f)
		if err != nil {
			return nil, err
		}
		key := f.Name
		if def.Options.ID {
			key = fmt.Sprint(f.ID)
		}
		node.Properties[key] = fs
		if f.Required() {
			node.Required = append(node.Required, key)
		}
	}
	return node, nil
}

func (c *converter) convertMapOf(def *jadn.Definition) (*Schema, error) {
	values, err := c.refSchema(vtypeOf(def.Options), nil)
	if err != nil {
		return nil, err
	}
	return &Schema{
		Type:                 "object",
		AdditionalProperties: values,
		MinProperties:        def.Options.MinV,
		MaxProperties:        def.Options.MaxV,
	}, nil
}

func (c *converter) fieldSchema(f *jadn.Field) (*Schema, error) {
	_, typeOpts := f.Options.Split()
	node, err := c.refSchema(f.Type, typeOpts)
	if err != nil {
		return nil, err
	}
	if node.Ref == "" {
		node.Description = f.Description
	}
	return node, nil
}

// refSchema resolves a type reference: builtins inline, derived enumerations
// inline from their materialized definition, declared types by $ref.
func (c *converter) refSchema(name string, opts *jadn.Option) (*Schema, error) {
	if opts == nil {
		opts = &jadn.Option{}
	}
	if strings.HasPrefix(name, "$") {
		def := c.schema.Derived(name)
		if def == nil {
			return nil, fmt.Errorf("derived enumeration %s not resolved", name)
		}
		return convertEnumerated(def), nil
	}
	if c.schema.Type(name) != nil {
		return ref(name), nil
	}
	switch name {
	case "ArrayOf":
		return c.convertArrayOf(&jadn.Definition{Type: name, Options: opts})
	case "MapOf":
		return c.convertMapOf(&jadn.Definition{Type: name, Options: opts})
	}
	if _, ok := primitiveKinds[name]; ok {
		return primitiveSchema(name, opts)
	}
	return ref(name), nil
}

func vtypeOf(o *jadn.Option) string {
	if o.VType == nil {
		return "String"
	}
	return *o.VType
}
