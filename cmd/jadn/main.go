package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	jadn "github.com/ScreamBun/jadn-go"
	"github.com/ScreamBun/jadn-go/convert"
	"github.com/ScreamBun/jadn-go/jsonschema"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "verify":
		verifyCmd(os.Args[2:])
	case "validate":
		validateCmd(os.Args[2:])
	case "analyze":
		analyzeCmd(os.Args[2:])
	case "simplify":
		simplifyCmd(os.Args[2:])
	case "convert":
		convertCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "jadn CLI\n\nUsage:\n  jadn verify -schema s.jadn\n  jadn validate -schema s.jadn -instance msg.json [-type TypeName]\n  jadn analyze -schema s.jadn\n  jadn simplify -schema s.jadn [-anon=false] [-multi=false] [-derived=false] [-mapof=false] [-o out.jadn]\n  jadn convert -schema s.jadn -format jsonschema|markdown [-o out]\n\nSchemas ending in .yaml/.yml are read as YAML, otherwise as JSON.")
}

func loadSchema(path string) *jadn.Schema {
	if path == "" {
		fmt.Fprintln(os.Stderr, "missing -schema")
		os.Exit(2)
	}
	s := jadn.New()
	if err := s.LoadFile(path); err != nil {
		fatalf("load %s: %v", path, err)
	}
	return s
}

func verifyCmd(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema file")
	_ = fs.Parse(args)

	// Load verifies; reaching this point means the schema is well formed.
	s := loadSchema(*schemaPath)
	fmt.Printf("%s: %d types OK\n", *schemaPath, len(s.TypeNames()))
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema file")
	instPath := fs.String("instance", "", "instance file (JSON)")
	typeName := fs.String("type", "", "exported type to validate against (default: any export)")
	_ = fs.Parse(args)

	s := loadSchema(*schemaPath)
	if *instPath == "" {
		fmt.Fprintln(os.Stderr, "missing -instance")
		os.Exit(2)
	}
	data, err := os.ReadFile(*instPath)
	if err != nil {
		fatalf("read %s: %v", *instPath, err)
	}
	var inst any
	if err := json.Unmarshal(data, &inst); err != nil {
		fatalf("parse %s: %v", *instPath, err)
	}

	if *typeName != "" {
		if iss := s.ValidateAs(inst, *typeName); len(iss) > 0 {
			reportIssues(iss)
			os.Exit(1)
		}
	} else if err := s.Validate(inst); err != nil {
		fatalf("%v", err)
	}
	fmt.Println("valid")
}

func analyzeCmd(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema file")
	_ = fs.Parse(args)

	a := loadSchema(*schemaPath).Analyze()
	fmt.Printf("module:       %s\n", a.Module)
	fmt.Printf("exports:      %v\n", a.Exports)
	fmt.Printf("unreferenced: %v\n", a.Unreferenced)
	fmt.Printf("undefined:    %v\n", a.Undefined)
	if len(a.Undefined) > 0 {
		os.Exit(1)
	}
}

func simplifyCmd(args []string) {
	fs := flag.NewFlagSet("simplify", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema file")
	out := fs.String("o", "", "output file (default stdout)")
	anon := fs.Bool("anon", true, "lift anonymous type options")
	multi := fs.Bool("multi", true, "lift field multiplicity")
	derived := fs.Bool("derived", true, "materialize derived enumerations")
	mapof := fs.Bool("mapof", true, "expand enumerated-keyed MapOf")
	_ = fs.Parse(args)

	s := loadSchema(*schemaPath)
	simple, err := s.Simplify(jadn.SimplifyOpt{Anon: *anon, Multi: *multi, Derived: *derived, MapOf: *mapof})
	if err != nil {
		fatalf("simplify: %v", err)
	}
	text, err := simple.Dumps(2, false)
	if err != nil {
		fatalf("dump: %v", err)
	}
	writeOut(*out, text+"\n")
}

func convertCmd(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema file")
	target := fs.String("format", "jsonschema", "output format: jsonschema or markdown")
	out := fs.String("o", "", "output file (default stdout)")
	_ = fs.Parse(args)

	s := loadSchema(*schemaPath)
	switch *target {
	case "jsonschema":
		js, err := jsonschema.Convert(s)
		if err != nil {
			fatalf("convert: %v", err)
		}
		data, err := json.MarshalIndent(js, "", "  ")
		if err != nil {
			fatalf("encode: %v", err)
		}
		writeOut(*out, string(data)+"\n")
	case "markdown":
		writeOut(*out, convert.Markdown(s))
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *target)
		os.Exit(2)
	}
}

func reportIssues(iss jadn.Issues) {
	for _, i := range iss {
		fmt.Fprintln(os.Stderr, i.Error())
	}
}

func writeOut(path, text string) {
	if path == "" {
		fmt.Print(text)
		return
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		fatalf("write %s: %v", path, err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
