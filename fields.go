package jadn

import "fmt"

// EnumeratedField is one item of an Enumerated definition.
type EnumeratedField struct {
	ID          int // integer identifier of the item
	Value       any // value of the item, an integer or a string
	Description string
}

func (f *EnumeratedField) String() string {
	return fmt.Sprintf("Enumerated Field %v(%d)", f.Value, f.ID)
}

// Raw re-serializes the enumerated field to its at-rest tuple form.
func (f *EnumeratedField) Raw() []any {
	return []any{f.ID, f.Value, f.Description}
}

// RawStrip is Raw with the description blanked.
func (f *EnumeratedField) RawStrip() []any {
	return []any{f.ID, f.Value, ""}
}

func (f *EnumeratedField) clone() *EnumeratedField {
	c := *f
	return &c
}

// Field is one member of an Array, Choice, Map or Record definition.
type Field struct {
	ID          int    // integer identifier of the field
	Name        string // name or label of the field
	Type        string // type of the field
	Options     *Option
	Description string
}

func (f *Field) String() string {
	return fmt.Sprintf("Field %s(%s)", f.Name, f.Type)
}

// Required reports whether the field must appear in an instance: a field is
// optional only when minc is present and zero.
func (f *Field) Required() bool {
	return optInt(f.Options.MinC, 1) != 0
}

// Raw re-serializes the field to its at-rest tuple form. The options are
// verified against the field's type as a side effect.
func (f *Field) Raw() ([]any, error) {
	opts, err := f.Options.Encode(f.Type, f.Name, true)
	if err != nil {
		return nil, err
	}
	return []any{f.ID, f.Name, f.Type, toAnySlice(opts), f.Description}, nil
}

// RawStrip is Raw with the description blanked.
func (f *Field) RawStrip() ([]any, error) {
	raw, err := f.Raw()
	if err != nil {
		return nil, err
	}
	raw[4] = ""
	return raw, nil
}

// enumField projects the field into an item of a derived enumeration.
func (f *Field) enumField() *EnumeratedField {
	return &EnumeratedField{ID: f.ID, Value: f.Name, Description: f.Description}
}

func (f *Field) clone() *Field {
	c := *f
	c.Options = f.Options.clone()
	return &c
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
