package jadn_test

import (
	"strings"
	"testing"

	jadn "github.com/ScreamBun/jadn-go"
)

func builtinTypes(extra ...string) map[string]bool {
	set := map[string]bool{
		"Binary": true, "Boolean": true, "Integer": true, "Null": true,
		"Number": true, "String": true, "Choice": true, "Enumerated": true,
		"Array": true, "ArrayOf": true, "Map": true, "MapOf": true, "Record": true,
	}
	for _, n := range extra {
		set[n] = true
	}
	return set
}

func TestVerifyRecordOrdinals(t *testing.T) {
	d := &jadn.Definition{
		Name:    "Order",
		Type:    "Record",
		Options: &jadn.Option{},
		Fields: []*jadn.Field{
			{ID: 1, Name: "dish", Type: "String", Options: &jadn.Option{}},
			{ID: 3, Name: "quantity", Type: "Integer", Options: &jadn.Option{}},
		},
	}
	iss := d.Verify(builtinTypes())
	if len(iss) != 1 {
		t.Fatalf("issues = %v, want 1 ordinal issue", iss)
	}
	if !strings.Contains(iss[0].Message, "3 should be 2") {
		t.Fatalf("unexpected message: %s", iss[0].Message)
	}
}

func TestVerifyMapSkipsOrdinals(t *testing.T) {
	d := &jadn.Definition{
		Name:    "Attrs",
		Type:    "Map",
		Options: &jadn.Option{},
		Fields: []*jadn.Field{
			{ID: 7, Name: "color", Type: "String", Options: &jadn.Option{}},
			{ID: 12, Name: "size", Type: "Integer", Options: &jadn.Option{}},
		},
	}
	if iss := d.Verify(builtinTypes()); len(iss) != 0 {
		t.Fatalf("sparse Map ids rejected: %v", iss)
	}
}

func TestVerifyDuplicateFieldNames(t *testing.T) {
	d := &jadn.Definition{
		Name:    "Pair",
		Type:    "Map",
		Options: &jadn.Option{},
		Fields: []*jadn.Field{
			{ID: 1, Name: "value", Type: "String", Options: &jadn.Option{}},
			{ID: 2, Name: "value", Type: "String", Options: &jadn.Option{}},
		},
	}
	iss := d.Verify(builtinTypes())
	if len(iss) != 1 || iss[0].Code != jadn.CodeDuplicate {
		t.Fatalf("issues = %v, want one duplicate_error", iss)
	}

	// Records behave the same way.
	d.Type = "Record"
	if iss := d.Verify(builtinTypes()); len(iss) != 1 || iss[0].Code != jadn.CodeDuplicate {
		t.Fatalf("issues = %v, want one duplicate_error", iss)
	}

	// Array items are positional, so repeated names are fine there.
	d.Type = "Array"
	if iss := d.Verify(builtinTypes()); len(iss) != 0 {
		t.Fatalf("Array duplicate names rejected: %v", iss)
	}
}

func TestVerifyDuplicateEnumValues(t *testing.T) {
	d := &jadn.Definition{
		Name:    "Dish",
		Type:    "Enumerated",
		Options: &jadn.Option{},
		Enums: []*jadn.EnumeratedField{
			{ID: 1, Value: "penne"},
			{ID: 2, Value: "penne"},
		},
	}
	if iss := d.Verify(builtinTypes()); len(iss) != 1 {
		t.Fatalf("issues = %v, want one duplicate_error", iss)
	}

	// In id mode only the ids must be unique.
	d.Options = &jadn.Option{ID: true}
	if iss := d.Verify(builtinTypes()); len(iss) != 0 {
		t.Fatalf("id-mode duplicate values rejected: %v", iss)
	}
}

func TestVerifyUnknownFieldType(t *testing.T) {
	d := &jadn.Definition{
		Name:    "Order",
		Type:    "Record",
		Options: &jadn.Option{},
		Fields: []*jadn.Field{
			{ID: 1, Name: "dish", Type: "Dish", Options: &jadn.Option{}},
		},
	}
	iss := d.Verify(builtinTypes())
	if len(iss) != 1 || iss[0].Code != jadn.CodeType {
		t.Fatalf("issues = %v, want one type_error", iss)
	}
	if iss := d.Verify(builtinTypes("Dish")); len(iss) != 0 {
		t.Fatalf("known field type rejected: %v", iss)
	}
}

func TestDependencies(t *testing.T) {
	d := &jadn.Definition{
		Name:    "Order",
		Type:    "Record",
		Options: &jadn.Option{},
		Fields: []*jadn.Field{
			{ID: 1, Name: "dish", Type: "Dish", Options: &jadn.Option{}},
			{ID: 2, Name: "notes", Type: "String", Options: &jadn.Option{}},
			{ID: 3, Name: "parent", Type: "Order", Options: &jadn.Option{}},
			{ID: 4, Name: "sides", Type: "ArrayOf", Options: &jadn.Option{VType: jadn.String("Side")}},
		},
	}
	deps := d.Dependencies()
	want := []string{"Dish", "Side"}
	if len(deps) != len(want) || deps[0] != want[0] || deps[1] != want[1] {
		t.Fatalf("deps = %v, want %v", deps, want)
	}
}

func TestEnumeratedDerivation(t *testing.T) {
	d := &jadn.Definition{
		Name:    "Order",
		Type:    "Record",
		Options: &jadn.Option{},
		Fields: []*jadn.Field{
			{ID: 1, Name: "dish", Type: "Dish", Options: &jadn.Option{}, Description: "what to cook"},
			{ID: 2, Name: "notes", Type: "String", Options: &jadn.Option{}},
		},
	}
	enum, err := d.Enumerated()
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if enum.Type != "Enumerated" || len(enum.Enums) != 2 {
		t.Fatalf("derived = %+v", enum)
	}
	if enum.Enums[0].Value != "dish" || enum.Enums[0].Description != "what to cook" {
		t.Fatalf("derived field = %+v", enum.Enums[0])
	}

	prim := &jadn.Definition{Name: "Name", Type: "String", Options: &jadn.Option{}}
	if _, err := prim.Enumerated(); err == nil {
		t.Fatal("primitive derivation accepted")
	}
}
