package jadn

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Formatted schema output. Meta entries print one per line; each type tuple
// prints on a single line, except that a compound's field tuples nest one per
// line beneath it. This mirrors the conventional layout of schema documents
// in the wild, which generic JSON indentation does not produce.

func dumpDocument(meta *Meta, types []any, indent int) string {
	if indent < 1 {
		indent = 2
	}
	ind := strings.Repeat(" ", indent)
	b := &strings.Builder{}
	b.WriteString("{\n")

	b.WriteString(ind + `"meta": ` + dumpMeta(meta, indent, 1) + ",\n")

	b.WriteString(ind + `"types": [` + "\n")
	for i, t := range types {
		tuple := t.([]any)
		b.WriteString(ind + ind + dumpTypeTuple(tuple, indent))
		if i < len(types)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(ind + "]\n")
	b.WriteString("}")
	return b.String()
}

func dumpMeta(meta *Meta, indent, level int) string {
	ind := strings.Repeat(" ", indent*(level+1))
	indEnd := strings.Repeat(" ", indent*level)
	var lines []string
	add := func(key string, val string) {
		lines = append(lines, fmt.Sprintf("%s%s: %s", ind, jsonScalar(key), val))
	}
	if meta.Module != "" {
		add("module", jsonScalar(meta.Module))
	}
	if meta.Patch != "" {
		add("patch", jsonScalar(meta.Patch))
	}
	if meta.Title != "" {
		add("title", jsonScalar(meta.Title))
	}
	if meta.Description != "" {
		add("description", jsonScalar(meta.Description))
	}
	if len(meta.Imports) > 0 {
		nss := make([]string, 0, len(meta.Imports))
		for ns := range meta.Imports {
			nss = append(nss, ns)
		}
		sort.Strings(nss)
		var entries []string
		for _, ns := range nss {
			entries = append(entries, fmt.Sprintf("%s%s%s: %s", ind, strings.Repeat(" ", indent), jsonScalar(ns), jsonScalar(meta.Imports[ns])))
		}
		add("imports", "{\n"+strings.Join(entries, ",\n")+"\n"+ind+"}")
	}
	if len(meta.Exports) > 0 {
		add("exports", inlineValue(toAnySlice(meta.Exports)))
	}
	if meta.hasConfig {
		cfg := meta.Config.Raw()
		keys := make([]string, 0, len(cfg))
		for k := range cfg {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var entries []string
		for _, k := range keys {
			entries = append(entries, fmt.Sprintf("%s%s%s: %s", ind, strings.Repeat(" ", indent), jsonScalar(k), inlineValue(cfg[k])))
		}
		add("config", "{\n"+strings.Join(entries, ",\n")+"\n"+ind+"}")
	}
	if len(lines) == 0 {
		return "{}"
	}
	return "{\n" + strings.Join(lines, ",\n") + "\n" + indEnd + "}"
}

// dumpTypeTuple renders [name, type, options, description, fields?]; field
// tuples go one per line.
func dumpTypeTuple(tuple []any, indent int) string {
	if len(tuple) != 5 {
		return inlineValue(tuple)
	}
	fields, ok := tuple[4].([]any)
	if !ok {
		return inlineValue(tuple)
	}
	ind := strings.Repeat(" ", indent*2)
	head := make([]string, 4)
	for i := 0; i < 4; i++ {
		head[i] = inlineValue(tuple[i])
	}
	b := &strings.Builder{}
	b.WriteString("[" + strings.Join(head, ", ") + ", [\n")
	for i, f := range fields {
		b.WriteString(ind + strings.Repeat(" ", indent) + inlineValue(f))
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(ind + "]]")
	return b.String()
}

func inlineValue(v any) string {
	switch t := v.(type) {
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = inlineValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		return inlineValue(toAnySlice(t))
	default:
		return jsonScalar(v)
	}
}

func jsonScalar(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%q", fmt.Sprint(v))
	}
	return string(data)
}
