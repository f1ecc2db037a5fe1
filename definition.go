package jadn

import (
	"fmt"
	"strings"
)

// Kind is the closed set of definition variants. Every dispatch over
// definitions switches exhaustively on Kind so the compiler surfaces a
// missing variant.
type Kind int

const (
	KindCustom Kind = iota // constrained reuse of a primitive type
	KindArray
	KindArrayOf
	KindChoice
	KindEnumerated
	KindMap
	KindMapOf
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "Array"
	case KindArrayOf:
		return "ArrayOf"
	case KindChoice:
		return "Choice"
	case KindEnumerated:
		return "Enumerated"
	case KindMap:
		return "Map"
	case KindMapOf:
		return "MapOf"
	case KindRecord:
		return "Record"
	default:
		return "Custom"
	}
}

// Builtin type keyword tables.
var (
	primitiveTypes = []string{"Binary", "Boolean", "Integer", "Number", "Null", "String"}
	selectorTypes  = []string{"Choice", "Enumerated"}
	compoundTypes  = []string{"Array", "ArrayOf", "Map", "MapOf", "Record"}
)

// IsPrimitive reports whether name is a builtin primitive type keyword.
func IsPrimitive(name string) bool { return contains(primitiveTypes, name) }

// IsStructure reports whether name is a builtin structure or selector keyword.
func IsStructure(name string) bool {
	return contains(compoundTypes, name) || contains(selectorTypes, name)
}

// IsBuiltin reports whether name is any builtin type keyword.
func IsBuiltin(name string) bool { return IsPrimitive(name) || IsStructure(name) }

// isCompoundName reports whether the keyword names a kind that owns an
// explicit field list.
func isCompoundName(name string) bool {
	switch name {
	case "Array", "Choice", "Enumerated", "Map", "Record":
		return true
	}
	return false
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// Definition is one named type declaration of a schema: a tagged union over
// the six primitive kinds, the two selector kinds, the five compound kinds,
// and the Custom kind for constrained primitive reuse. Fields is populated
// for Array, Choice, Map and Record; Enums for Enumerated.
type Definition struct {
	Name        string
	Type        string // type keyword, possibly carrying a subtype suffix such as Enumerated.ID
	Options     *Option
	Description string
	Fields      []*Field
	Enums       []*EnumeratedField
}

func (d *Definition) String() string {
	return fmt.Sprintf("%s(%s)", d.Name, d.Type)
}

// BaseType strips a subtype suffix (for example Enumerated.ID) from the type
// keyword.
func (d *Definition) BaseType() string {
	return strings.Split(d.Type, ".")[0]
}

// Kind classifies the definition by its base type.
func (d *Definition) Kind() Kind {
	switch d.BaseType() {
	case "Array":
		return KindArray
	case "ArrayOf":
		return KindArrayOf
	case "Choice":
		return KindChoice
	case "Enumerated":
		return KindEnumerated
	case "Map":
		return KindMap
	case "MapOf":
		return KindMapOf
	case "Record":
		return KindRecord
	default:
		return KindCustom
	}
}

// IsBuiltin reports whether the base type is a builtin keyword.
func (d *Definition) IsBuiltin() bool { return IsBuiltin(d.BaseType()) }

// IsPrimitive reports whether the base type is a builtin primitive.
func (d *Definition) IsPrimitive() bool { return IsPrimitive(d.BaseType()) }

// IsStructure reports whether the base type is a builtin structure.
func (d *Definition) IsStructure() bool { return IsStructure(d.BaseType()) }

// IsCompound reports whether the definition kind owns an explicit field list.
func (d *Definition) IsCompound() bool { return isCompoundName(d.BaseType()) }

// hasFields reports whether any field list was supplied.
func (d *Definition) hasFields() bool { return d.Fields != nil || d.Enums != nil }

// GetField returns the named field, or nil when it is absent or ambiguous.
func (d *Definition) GetField(name string) *Field {
	var found *Field
	n := 0
	for _, f := range d.Fields {
		if f.Name == name {
			found = f
			n++
		}
	}
	if n != 1 {
		return nil
	}
	return found
}

// getFieldByID returns the field with the given id, or nil.
func (d *Definition) getFieldByID(id int) *Field {
	for _, f := range d.Fields {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// optionDeps collects the non-builtin ktype/vtype references of an option set.
func optionDeps(o *Option, deps map[string]bool) {
	for _, ref := range []*string{o.KType, o.VType} {
		if ref != nil && *ref != "" && !IsBuiltin(*ref) {
			deps[*ref] = true
		}
	}
}

// Dependencies reports the other type names this definition references,
// through ktype/vtype options for ArrayOf/MapOf and through field types for
// the other compounds. Builtins and self-references are excluded; derived
// enumeration references keep their $ marker.
func (d *Definition) Dependencies() []string {
	deps := map[string]bool{}
	switch d.BaseType() {
	case "ArrayOf", "MapOf":
		optionDeps(d.Options, deps)
	}
	if d.IsCompound() && d.BaseType() != "Enumerated" {
		for _, f := range d.Fields {
			switch f.Type {
			case "ArrayOf", "MapOf":
				optionDeps(f.Options, deps)
			default:
				if !IsBuiltin(f.Type) && f.Type != d.Name {
					deps[f.Type] = true
				}
			}
		}
	}
	return sortedKeys(deps)
}

// FieldTypes reports the non-builtin types used by this definition's fields,
// for forward-reference collection at schema load.
func (d *Definition) FieldTypes() []string {
	types := map[string]bool{}
	if d.IsCompound() && d.BaseType() != "Enumerated" {
		for _, f := range d.Fields {
			if !IsBuiltin(f.Type) {
				types[f.Type] = true
			}
		}
	}
	return sortedKeys(types)
}

// Raw re-serializes the definition to its at-rest tuple form
// [name, type, options, description, fields?].
func (d *Definition) Raw() ([]any, error) { return d.raw(false) }

// RawStrip is Raw with every description blanked.
func (d *Definition) RawStrip() ([]any, error) { return d.raw(true) }

func (d *Definition) raw(strip bool) ([]any, error) {
	opts, err := d.Options.Encode(d.Type, d.Name, false)
	if err != nil {
		return nil, err
	}
	desc := d.Description
	if strip {
		desc = ""
	}
	values := []any{d.Name, d.Type, toAnySlice(opts), desc}
	if !d.IsCompound() {
		return values, nil
	}
	var fields []any
	if d.BaseType() == "Enumerated" {
		for _, f := range d.Enums {
			if strip {
				fields = append(fields, f.RawStrip())
			} else {
				fields = append(fields, f.Raw())
			}
		}
	} else {
		for _, f := range d.Fields {
			var raw []any
			if strip {
				raw, err = f.RawStrip()
			} else {
				raw, err = f.Raw()
			}
			if err != nil {
				return nil, err
			}
			fields = append(fields, raw)
		}
	}
	if fields == nil {
		fields = []any{}
	}
	return append(values, fields), nil
}

// Verify checks the definition's structural self-consistency: option legality
// per base type, field types resolvable, per-field option legality, ordinal
// positional integrity for Array/Record, id uniqueness, and name/value
// uniqueness (names need not be unique for Array). Problems accumulate.
func (d *Definition) Verify(schemaTypes map[string]bool) Issues {
	return d.verify(schemaTypes, knownFormat)
}

func (d *Definition) verify(schemaTypes map[string]bool, formatOK func(string) bool) Issues {
	iss := d.Options.verify(d.BaseType(), d.Name, false, formatOK)

	if !d.hasFields() {
		return iss
	}
	if !d.IsCompound() {
		return append(iss, issuef(CodeFormat, d.Name, "Type of %s should have no defined fields", d))
	}

	if d.BaseType() == "Enumerated" {
		ids := map[int]bool{}
		values := map[string]bool{}
		for _, f := range d.Enums {
			ids[f.ID] = true
			values[fmt.Sprint(f.Value)] = true
		}
		if len(ids) != len(d.Enums) {
			iss = append(iss, issuef(CodeDuplicate, d.Name, "Tag count mismatch in %s - %d items, %d unique tags", d.Name, len(d.Enums), len(ids)))
		}
		if len(values) != len(d.Enums) && !d.Options.ID {
			iss = append(iss, issuef(CodeDuplicate, d.Name, "Name/Value count mismatch in %s - %d items, %d unique values", d.Name, len(d.Enums), len(values)))
		}
		return iss
	}

	ordinal := d.BaseType() == "Array" || d.BaseType() == "Record"
	ids := map[int]bool{}
	names := map[string]bool{}
	for i, f := range d.Fields {
		ids[f.ID] = true
		names[f.Name] = true

		if ordinal && f.ID != i+1 {
			iss = append(iss, issuef(CodeFormat, d.Name, "Item ID - %s(%s).%s -- %d should be %d", d.Name, d.BaseType(), f.Name, f.ID, i+1))
		}
		if !schemaTypes[f.Type] {
			iss = append(iss, issuef(CodeType, d.Name, "Type of %s.%s not defined: %s", d.Name, f.Name, f.Type))
		}
		iss = append(iss, f.Options.verify(f.Type, fmt.Sprintf("%s.%s", d.Name, f.Name), true, formatOK)...)
	}
	if len(ids) != len(d.Fields) {
		iss = append(iss, issuef(CodeDuplicate, d.Name, "Tag count mismatch in %s - %d items, %d unique tags", d.Name, len(d.Fields), len(ids)))
	}
	if len(names) != len(d.Fields) && d.BaseType() != "Array" {
		iss = append(iss, issuef(CodeDuplicate, d.Name, "Name/Value count mismatch in %s - %d items, %d unique names", d.Name, len(d.Fields), len(names)))
	}
	return iss
}

// Enumerated derives an Enumerated definition from this definition's field
// names. Primitive types cannot be derived from; an Enumerated derives to
// itself.
func (d *Definition) Enumerated() (*Definition, error) {
	if d.IsPrimitive() {
		return nil, issuef(CodeType, d.Name, "%s cannot be extended as an enumerated type", d)
	}
	if d.BaseType() == "Enumerated" {
		return d, nil
	}
	enums := make([]*EnumeratedField, 0, len(d.Fields))
	for _, f := range d.Fields {
		enums = append(enums, f.enumField())
	}
	return &Definition{
		Name:        "Enum-" + d.Name,
		Type:        "Enumerated",
		Options:     &Option{},
		Description: fmt.Sprintf("Derived Enumerated from %s", d.Name),
		Enums:       enums,
	}, nil
}

func (d *Definition) clone() *Definition {
	c := *d
	c.Options = d.Options.clone()
	if d.Fields != nil {
		c.Fields = make([]*Field, len(d.Fields))
		for i, f := range d.Fields {
			c.Fields[i] = f.clone()
		}
	}
	if d.Enums != nil {
		c.Enums = make([]*EnumeratedField, len(d.Enums))
		for i, f := range d.Enums {
			c.Enums[i] = f.clone()
		}
	}
	return &c
}
