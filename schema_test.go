package jadn_test

import (
	"errors"
	"reflect"
	"testing"

	jadn "github.com/ScreamBun/jadn-go"
)

const pastaSchema = `{
  "meta": {
    "module": "http://example.com/pasta",
    "patch": "1.0",
    "title": "Pasta Orders",
    "exports": ["Order", "Kitchen"]
  },
  "types": [
    ["Order", "Record", [], "A single order", [
      [1, "dish", "Dish", [], ""],
      [2, "quantity", "Integer", ["{1", "}99"], ""],
      [3, "notes", "String", ["[0"], ""],
      [4, "table", "Table", [], ""]
    ]],
    ["Dish", "Enumerated", [], "", [
      [1, "spaghetti", ""],
      [2, "penne", ""],
      [3, "rigatoni", ""]
    ]],
    ["Table", "Integer", ["{1", "}40"], ""],
    ["Kitchen", "MapOf", ["+Dish", "*Integer"], "Stock per dish"]
  ]
}`

func loadPasta(t *testing.T) *jadn.Schema {
	t.Helper()
	s := jadn.New()
	if err := s.Loads([]byte(pastaSchema)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestLoadSchema(t *testing.T) {
	s := loadPasta(t)
	want := []string{"Order", "Dish", "Table", "Kitchen"}
	if got := s.TypeNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("type names = %v, want %v", got, want)
	}
	if s.Type("Order") == nil || s.Type("Nope") != nil {
		t.Fatal("type lookup broken")
	}
	if s.Meta.Module != "http://example.com/pasta" {
		t.Fatalf("module = %q", s.Meta.Module)
	}
}

func TestLoadRejectsDuplicateTypes(t *testing.T) {
	doc := `{
	  "meta": {"module": "m", "exports": ["A"]},
	  "types": [
	    ["A", "String", [], ""],
	    ["A", "Integer", [], ""]
	  ]
	}`
	s := jadn.New()
	err := s.Loads([]byte(doc))
	if err == nil {
		t.Fatal("duplicate type accepted")
	}
	iss, ok := jadn.AsIssues(err)
	if !ok || iss[0].Code != jadn.CodeDuplicate {
		t.Fatalf("err = %v, want duplicate_error", err)
	}
}

func TestLoadIsAtomic(t *testing.T) {
	s := loadPasta(t)
	bad := `{"meta": {"module": "m"}, "types": [["A", "Record", [], ""]]}`
	if err := s.Loads([]byte(bad)); err == nil {
		t.Fatal("fieldless Record accepted")
	}
	// The previous content survives a failed load.
	if got := s.TypeNames(); len(got) != 4 {
		t.Fatalf("type names after failed load = %v", got)
	}
}

func TestLoadRejectsBadTypeName(t *testing.T) {
	doc := `{"meta": {"module": "m"}, "types": [["lowercase", "String", [], ""]]}`
	if err := jadn.New().Loads([]byte(doc)); err == nil {
		t.Fatal("bad type name accepted")
	}
}

func TestAnalyzeReportsUndefined(t *testing.T) {
	doc := `{
	  "meta": {"module": "m", "exports": ["A"]},
	  "types": [["A", "ArrayOf", ["*Missing", "}5"], ""]]
	}`
	s := jadn.New()
	// References through options are forward references; they load fine and
	// surface through Analyze.
	if err := s.Loads([]byte(doc)); err != nil {
		t.Fatalf("load: %v", err)
	}
	a := s.Analyze()
	if !reflect.DeepEqual(a.Undefined, []string{"Missing"}) {
		t.Fatalf("undefined = %v, want [Missing]", a.Undefined)
	}
}

func TestLoadYAML(t *testing.T) {
	doc := `
meta:
  module: http://example.com/yaml
  exports: [Name]
types:
  - [Name, String, ["{1", "}50"], ""]
`
	s := jadn.New()
	if err := s.LoadsYAML([]byte(doc)); err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if s.Type("Name") == nil {
		t.Fatal("Name not loaded")
	}
}

func TestDumpRoundTrip(t *testing.T) {
	s := loadPasta(t)
	text, err := s.Dumps(2, false)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}

	again := jadn.New()
	if err := again.Loads([]byte(text)); err != nil {
		t.Fatalf("reload: %v", err)
	}
	raw1, err := s.Raw()
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	raw2, err := again.Raw()
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	if !reflect.DeepEqual(raw1, raw2) {
		t.Fatalf("round trip changed the document:\n%v\n%v", raw1, raw2)
	}
}

func TestRawStripBlanksDescriptions(t *testing.T) {
	s := loadPasta(t)
	raw, err := s.RawStrip()
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	types := raw["types"].([]any)
	order := types[0].([]any)
	if order[3] != "" {
		t.Fatalf("description kept: %v", order[3])
	}
}

func TestConfigOverrides(t *testing.T) {
	doc := `{
	  "meta": {
	    "module": "m",
	    "exports": ["Name"],
	    "config": {"$MaxString": 10}
	  },
	  "types": [["Name", "String", [], ""]]
	}`
	s := jadn.New()
	if err := s.Loads([]byte(doc)); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Meta.Config.MaxString != 10 {
		t.Fatalf("MaxString = %d, want 10", s.Meta.Config.MaxString)
	}
	// The override bites during validation.
	if iss := s.ValidateAs("elevenchars!", "Name"); len(iss) == 0 {
		t.Fatal("string over MaxString accepted")
	}
	if iss := s.ValidateAs("short", "Name"); len(iss) != 0 {
		t.Fatalf("short string rejected: %v", iss)
	}
}

func TestConfigRejectsUnknownKeys(t *testing.T) {
	doc := `{
	  "meta": {"module": "m", "config": {"$Bogus": 1}},
	  "types": [["Name", "String", [], ""]]
	}`
	if err := jadn.New().Loads([]byte(doc)); err == nil {
		t.Fatal("unknown config key accepted")
	}
}

func TestAnalyze(t *testing.T) {
	doc := `{
	  "meta": {
	    "module": "http://example.com/acme",
	    "patch": "1",
	    "imports": {"ext": "http://example.com/ext"},
	    "exports": ["Command"]
	  },
	  "types": [
	    ["Command", "Record", [], "", [
	      [1, "target", "Target", [], ""],
	      [2, "extra", "ext:Widget", ["[0"], ""]
	    ]],
	    ["Target", "ArrayOf", ["*Missing"], ""],
	    ["Orphan", "String", [], ""],
	    ["Missing", "String", [], ""]
	  ]
	}`
	s := jadn.New()
	if err := s.Loads([]byte(doc)); err != nil {
		t.Fatalf("load: %v", err)
	}

	a := s.Analyze()
	if a.Module != "http://example.com/acme1" {
		t.Fatalf("module = %q", a.Module)
	}
	if !reflect.DeepEqual(a.Unreferenced, []string{"Orphan"}) {
		t.Fatalf("unreferenced = %v, want [Orphan]", a.Unreferenced)
	}
	if len(a.Undefined) != 0 {
		t.Fatalf("undefined = %v, want none", a.Undefined)
	}

	deps := s.Dependencies()
	if !reflect.DeepEqual(deps["Command"], []string{"Target", "ext"}) {
		t.Fatalf("Command deps = %v", deps["Command"])
	}
	if _, ok := deps["ext"]; !ok {
		t.Fatal("import alias missing from dependency view")
	}
}

func TestAddFormat(t *testing.T) {
	s := loadPasta(t)
	even := func(v any) error {
		if n, ok := v.(int); ok && n%2 == 0 {
			return nil
		}
		return errors.New("not an even int")
	}
	if err := s.AddFormat("even", even, false); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.AddFormat("even", even, false); err == nil {
		t.Fatal("re-register without override accepted")
	}
	if err := s.AddFormat("even", even, true); err != nil {
		t.Fatalf("override: %v", err)
	}
}

func TestAddFormatUsableInSchema(t *testing.T) {
	s := jadn.New()
	even := func(v any) error {
		if n, ok := v.(float64); ok && int(n)%2 == 0 {
			return nil
		}
		return errors.New("not an even integer")
	}
	if err := s.AddFormat("even", even, false); err != nil {
		t.Fatalf("register: %v", err)
	}
	// A registered format is a legal keyword for schemas loaded afterwards.
	doc := `{
	  "meta": {"module": "m", "exports": ["Pair"]},
	  "types": [["Pair", "Integer", ["/even"], ""]]
	}`
	if err := s.Loads([]byte(doc)); err != nil {
		t.Fatalf("load with registered format: %v", err)
	}
	if iss := s.ValidateAs(float64(4), "Pair"); len(iss) != 0 {
		t.Fatalf("even value rejected: %v", iss)
	}
	if iss := s.ValidateAs(float64(5), "Pair"); len(iss) == 0 {
		t.Fatal("odd value accepted")
	}
	// Unregistered names are still rejected at load.
	bad := `{
	  "meta": {"module": "m", "exports": ["Pair"]},
	  "types": [["Pair", "Integer", ["/odd"], ""]]
	}`
	if err := s.Loads([]byte(bad)); err == nil {
		t.Fatal("unregistered format accepted")
	}
}
