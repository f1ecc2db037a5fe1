package convert_test

import (
	"strings"
	"testing"

	jadn "github.com/ScreamBun/jadn-go"
	"github.com/ScreamBun/jadn-go/convert"
)

const orderSchema = `{
  "meta": {
    "module": "http://example.com/pasta",
    "title": "Pasta Orders",
    "exports": ["Order"]
  },
  "types": [
    ["Order", "Record", [], "A single order", [
      [1, "dish", "Dish", [], ""],
      [2, "notes", "String", ["[0"], "free text"]
    ]],
    ["Dish", "Enumerated", [], "", [
      [1, "spaghetti", ""],
      [2, "penne", ""]
    ]],
    ["Tags", "ArrayOf", ["*String", "{1", "}5"], ""]
  ]
}`

func TestMarkdown(t *testing.T) {
	s := jadn.New()
	if err := s.Loads([]byte(orderSchema)); err != nil {
		t.Fatalf("load: %v", err)
	}
	md := convert.Markdown(s)

	for _, want := range []string{
		"# Pasta Orders",
		"| **module:** | http://example.com/pasta |",
		"| **exports:** | Order |",
		"## Order",
		"**Order (Record)**",
		"| 1 | **dish** | Dish | 1 | ",
		"| 2 | **notes** | String | 0..1 | free text |",
		"| 1 | **spaghetti** |",
		"**Tags (ArrayOf(String){1..5})**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
}
