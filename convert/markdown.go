// Package convert renders loaded schemas into human-readable documents.
package convert

import (
	"fmt"
	"sort"
	"strings"

	jadn "github.com/ScreamBun/jadn-go"
)

// Markdown renders a schema as a GitHub-flavored markdown document: a header
// table for the meta block, then one section per declared type.
func Markdown(s *jadn.Schema) string {
	var b strings.Builder

	title := s.Meta.Title
	if title == "" {
		title = s.Meta.Module
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if s.Meta.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", s.Meta.Description)
	}

	b.WriteString("## Schema\n\n")
	writeRow(&b, ".", "..")
	writeRow(&b, "---:", ":---")
	writeRow(&b, "**module:**", s.Meta.Module)
	if s.Meta.Patch != "" {
		writeRow(&b, "**patch:**", s.Meta.Patch)
	}
	if len(s.Meta.Exports) > 0 {
		writeRow(&b, "**exports:**", strings.Join(s.Meta.Exports, ", "))
	}
	if len(s.Meta.Imports) > 0 {
		nsids := make([]string, 0, len(s.Meta.Imports))
		for ns := range s.Meta.Imports {
			nsids = append(nsids, ns)
		}
		sort.Strings(nsids)
		pairs := make([]string, len(nsids))
		for i, ns := range nsids {
			pairs[i] = fmt.Sprintf("%s: %s", ns, s.Meta.Imports[ns])
		}
		writeRow(&b, "**imports:**", strings.Join(pairs, ", "))
	}
	b.WriteString("\n")

	for _, name := range s.TypeNames() {
		writeType(&b, s.Type(name))
	}
	return b.String()
}

func writeType(b *strings.Builder, def *jadn.Definition) {
	fmt.Fprintf(b, "## %s\n\n", def.Name)
	if def.Description != "" {
		fmt.Fprintf(b, "%s\n\n", def.Description)
	}
	fmt.Fprintf(b, "**%s (%s)**\n\n", def.Name, typeSignature(def))

	switch {
	case def.BaseType() == "Enumerated":
		writeRow(b, "ID", "Name", "Description")
		writeRow(b, "---:", ":---", ":---")
		for _, ef := range def.Enums {
			writeRow(b, fmt.Sprint(ef.ID), fmt.Sprintf("**%v**", ef.Value), ef.Description)
		}
		b.WriteString("\n")
	case len(def.Fields) > 0:
		writeRow(b, "ID", "Name", "Type", "#", "Description")
		writeRow(b, "---:", ":---", ":---", "---:", ":---")
		for _, f := range def.Fields {
			card := f.Options.Multiplicity(1, 1, true, func(minimum, maximum int) bool {
				return minimum != 1 || maximum != 1
			})
			if card == "" {
				card = "1"
			}
			writeRow(b, fmt.Sprint(f.ID), fmt.Sprintf("**%s**", f.Name), f.Type, card, f.Description)
		}
		b.WriteString("\n")
	}
}

// typeSignature spells a type header like "ArrayOf(Target){1..*}" from the
// definition's base type and options.
func typeSignature(def *jadn.Definition) string {
	sig := def.BaseType()
	switch def.BaseType() {
	case "ArrayOf":
		if def.Options.VType != nil {
			sig += fmt.Sprintf("(%s)", strings.TrimPrefix(*def.Options.VType, "$"))
		}
	case "MapOf":
		k, v := "", ""
		if def.Options.KType != nil {
			k = strings.TrimPrefix(*def.Options.KType, "$")
		}
		if def.Options.VType != nil {
			v = strings.TrimPrefix(*def.Options.VType, "$")
		}
		sig += fmt.Sprintf("(%s, %s)", k, v)
	}
	if card := def.Options.Multiplicity(0, 0, false, func(minimum, maximum int) bool {
		return minimum != 0 || maximum != 0
	}); card != "" {
		sig += fmt.Sprintf("{%s}", card)
	}
	return sig
}

func writeRow(b *strings.Builder, cells ...string) {
	fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
}
