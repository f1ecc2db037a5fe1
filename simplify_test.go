package jadn_test

import (
	"reflect"
	"testing"

	jadn "github.com/ScreamBun/jadn-go"
)

const menuSchema = `{
  "meta": {"module": "http://example.com/menu", "exports": ["Menu", "Stock"]},
  "types": [
    ["Menu", "Record", [], "", [
      [1, "name", "String", [], ""],
      [2, "dishes", "Dish", ["]10"], ""],
      [3, "code", "String", ["%^[A-Z]{3}$", "[0"], ""]
    ]],
    ["Dish", "Record", [], "", [
      [1, "title", "String", [], ""],
      [2, "price", "Integer", [], ""]
    ]],
    ["Stock", "MapOf", ["+Enum(Dish)", "*Integer"], ""]
  ]
}`

func loadMenu(t *testing.T) *jadn.Schema {
	t.Helper()
	s := jadn.New()
	if err := s.Loads([]byte(menuSchema)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestMultiplicityLiftedOnLoad(t *testing.T) {
	s := loadMenu(t)
	// The repeated field is rewritten at load into an explicit ArrayOf type
	// named from the pluralized field name.
	lifted := s.Type("Dishes")
	if lifted == nil {
		t.Fatal("Dishes not synthesized")
	}
	if lifted.BaseType() != "ArrayOf" || *lifted.Options.VType != "Dish" {
		t.Fatalf("lifted = %+v", lifted)
	}
	if *lifted.Options.MinV != 1 || *lifted.Options.MaxV != 10 {
		t.Fatalf("lifted bounds = %+v", lifted.Options)
	}
	f := s.Type("Menu").GetField("dishes")
	if f.Type != "Dishes" {
		t.Fatalf("field type = %q", f.Type)
	}
	if f.Options.MaxC != nil {
		t.Fatal("field kept its maxc after lifting")
	}
}

func TestMultiplicityPluralizesFieldName(t *testing.T) {
	doc := `{
	  "meta": {"module": "m", "exports": ["Box"]},
	  "types": [
	    ["Box", "Record", [], "", [
	      [1, "item_name", "String", ["]0"], ""]
	    ]]
	  ]
	}`
	s := jadn.New()
	if err := s.Loads([]byte(doc)); err != nil {
		t.Fatalf("load: %v", err)
	}
	lifted := s.Type("Item-Names")
	if lifted == nil {
		t.Fatalf("Item-Names not synthesized, have %v", s.TypeNames())
	}
	// maxc 0 means unbounded, so the synthesized type carries no maxv.
	if lifted.Options.MaxV != nil {
		t.Fatalf("lifted maxv = %v, want none", *lifted.Options.MaxV)
	}
}

func TestSimplifyAnonymousTypes(t *testing.T) {
	s := loadMenu(t)
	simple, err := s.Simplify(jadn.SimplifyOpt{Anon: true})
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	lifted := simple.Type("String$code")
	if lifted == nil {
		t.Fatalf("String$code not synthesized, have %v", simple.TypeNames())
	}
	if lifted.BaseType() != "String" || lifted.Options.Pattern == nil {
		t.Fatalf("lifted = %+v", lifted)
	}
	f := simple.Type("Menu").GetField("code")
	if f.Type != "String$code" {
		t.Fatalf("field type = %q", f.Type)
	}
	// The field keeps its own options.
	if f.Options.MinC == nil || *f.Options.MinC != 0 {
		t.Fatalf("field options = %+v", f.Options)
	}
	// The receiver is untouched.
	if s.Type("String$code") != nil {
		t.Fatal("simplify mutated the source schema")
	}
}

func TestSimplifyDerivedEnumerations(t *testing.T) {
	s := loadMenu(t)
	simple, err := s.Simplify(jadn.SimplifyOpt{Derived: true})
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	enum := simple.Type("Dish$Enum")
	if enum == nil {
		t.Fatalf("Dish$Enum not synthesized, have %v", simple.TypeNames())
	}
	if enum.BaseType() != "Enumerated" || len(enum.Enums) != 2 {
		t.Fatalf("derived = %+v", enum)
	}
	if enum.Enums[0].Value != "title" {
		t.Fatalf("derived values = %v", enum.Enums)
	}
	if got := *simple.Type("Stock").Options.KType; got != "Dish$Enum" {
		t.Fatalf("ktype = %q", got)
	}
}

func TestSimplifyMapOfExpansion(t *testing.T) {
	s := loadMenu(t)
	simple, err := s.Simplify(jadn.SimplifyOpt{Derived: true, MapOf: true})
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	stock := simple.Type("Stock")
	if stock.BaseType() != "Map" {
		t.Fatalf("Stock = %+v, want Map", stock)
	}
	if len(stock.Fields) != 2 || stock.Fields[0].Name != "title" || stock.Fields[0].Type != "Integer" {
		t.Fatalf("Stock fields = %v", stock.Fields)
	}
	if stock.Options.KType != nil || stock.Options.VType != nil {
		t.Fatal("Map kept MapOf options")
	}
}

func TestSimplifyMissingDerivedReference(t *testing.T) {
	doc := `{
	  "meta": {"module": "m", "exports": ["A"]},
	  "types": [["A", "ArrayOf", ["*Enum(Nope)"], ""]]
	}`
	s := jadn.New()
	if err := s.Loads([]byte(doc)); err == nil {
		t.Fatal("derived reference to missing type accepted at load")
	}
}

func TestSimplifyMapOfNeedsDerivedPass(t *testing.T) {
	s := loadMenu(t)
	// Stock's key type is still the $Dish marker when the derived pass is
	// skipped, so the expansion cannot resolve it.
	if _, err := s.Simplify(jadn.SimplifyOpt{MapOf: true}); err == nil {
		t.Fatal("MapOf expansion resolved an unmaterialized key type")
	}
	if _, err := s.Simplify(jadn.SimplifyOpt{Derived: true, MapOf: true}); err != nil {
		t.Fatalf("simplify: %v", err)
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	s := loadMenu(t)
	once, err := s.Simplify(jadn.SimplifyAll())
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	twice, err := once.Simplify(jadn.SimplifyAll())
	if err != nil {
		t.Fatalf("second simplify: %v", err)
	}
	raw1, err := once.Raw()
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	raw2, err := twice.Raw()
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	if !reflect.DeepEqual(raw1, raw2) {
		t.Fatalf("simplify not idempotent:\n%v\n%v", raw1, raw2)
	}
}
