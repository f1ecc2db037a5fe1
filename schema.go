package jadn

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/ScreamBun/jadn-go/format"
)

// Config carries the per-schema overrides of the structural limits and name
// patterns. Defaults apply for absent keys; only overridden keys round-trip
// on serialization.
type Config struct {
	MaxBinary   int    // Default maximum number of octets
	MaxString   int    // Default maximum number of characters
	MaxElements int    // Default maximum number of items/properties
	FS          string // Field Separator character used in pathnames
	Sys         string // System character for TypeName
	TypeName    string // TypeName regex
	FieldName   string // FieldName regex
	NSID        string // Namespace Identifier regex

	overrides   []string
	typeNameRe  *regexp.Regexp
	fieldNameRe *regexp.Regexp
	nsidRe      *regexp.Regexp
}

const (
	defaultMaxBinary   = 255
	defaultMaxString   = 255
	defaultMaxElements = 100
	defaultFS          = "/"
	defaultSys         = "$"
	defaultTypeName    = "^[A-Z][-$A-Za-z0-9]{0,31}$"
	defaultFieldName   = "^[a-z][_A-Za-z0-9]{0,31}$"
	defaultNSID        = "^[A-Za-z][A-Za-z0-9]{0,7}$"
)

func defaultConfig() *Config {
	cfg, err := makeConfig(nil)
	if err != nil {
		panic(err) // defaults always compile
	}
	return cfg
}

// makeConfig builds a Config from the at-rest map, whose keys carry a $
// prefix. Overridden values are checked: counts must be positive, separator
// characters single, name patterns compilable.
func makeConfig(raw map[string]any) (*Config, error) {
	cfg := &Config{
		MaxBinary:   defaultMaxBinary,
		MaxString:   defaultMaxString,
		MaxElements: defaultMaxElements,
		FS:          defaultFS,
		Sys:         defaultSys,
		TypeName:    defaultTypeName,
		FieldName:   defaultFieldName,
		NSID:        defaultNSID,
	}
	for key, val := range raw {
		k := strings.TrimPrefix(key, "$")
		cfg.overrides = append(cfg.overrides, k)
		switch k {
		case "MaxBinary", "MaxString", "MaxElements":
			n, ok := asInt(val)
			if !ok || n < 1 {
				return nil, issuef(CodeValue, "", "%s invalid, must be greater than 1 - %v", k, val)
			}
			switch k {
			case "MaxBinary":
				cfg.MaxBinary = n
			case "MaxString":
				cfg.MaxString = n
			case "MaxElements":
				cfg.MaxElements = n
			}
		case "FS", "Sys":
			s, ok := asString(val)
			if !ok || len(s) != 1 {
				return nil, issuef(CodeValue, "", "%s invalid, must be 1 character", k)
			}
			if k == "FS" {
				cfg.FS = s
			} else {
				cfg.Sys = s
			}
		case "TypeName", "FieldName", "NSID":
			s, ok := asString(val)
			if !ok || len(s) < 1 || len(s) > 127 {
				return nil, issuef(CodeValue, "", "%s invalid, must be between 1 and 127 characters", k)
			}
			if _, err := regexp.Compile(s); err != nil {
				return nil, issuef(CodeValue, "", "%s invalid, pattern does not compile: %v", k, err)
			}
			switch k {
			case "TypeName":
				cfg.TypeName = s
			case "FieldName":
				cfg.FieldName = s
			case "NSID":
				cfg.NSID = s
			}
		default:
			return nil, issuef(CodeFormat, "", "Config has extra keys - %s", k)
		}
	}
	var err error
	if cfg.typeNameRe, err = regexp.Compile(cfg.TypeName); err != nil {
		return nil, issuef(CodeValue, "", "TypeName pattern does not compile: %v", err)
	}
	if cfg.fieldNameRe, err = regexp.Compile(cfg.FieldName); err != nil {
		return nil, issuef(CodeValue, "", "FieldName pattern does not compile: %v", err)
	}
	if cfg.nsidRe, err = regexp.Compile(cfg.NSID); err != nil {
		return nil, issuef(CodeValue, "", "NSID pattern does not compile: %v", err)
	}
	return cfg, nil
}

// Raw re-serializes the config, emitting only the overridden keys with their
// $ prefix.
func (c *Config) Raw() map[string]any {
	out := map[string]any{}
	for _, k := range c.overrides {
		switch k {
		case "MaxBinary":
			out["$MaxBinary"] = c.MaxBinary
		case "MaxString":
			out["$MaxString"] = c.MaxString
		case "MaxElements":
			out["$MaxElements"] = c.MaxElements
		case "FS":
			out["$FS"] = c.FS
		case "Sys":
			out["$Sys"] = c.Sys
		case "TypeName":
			out["$TypeName"] = c.TypeName
		case "FieldName":
			out["$FieldName"] = c.FieldName
		case "NSID":
			out["$NSID"] = c.NSID
		}
	}
	return out
}

// Meta is the module identity block of a schema.
type Meta struct {
	Module      string
	Patch       string
	Title       string
	Description string
	Imports     map[string]string // namespace id -> module reference
	Exports     []string          // type names instances may validate against
	Config      *Config

	hasConfig bool
}

func makeMeta(raw map[string]any) (*Meta, error) {
	m := &Meta{}
	for key, val := range raw {
		switch key {
		case "module":
			m.Module, _ = asString(val)
		case "patch":
			m.Patch, _ = asString(val)
		case "title":
			m.Title, _ = asString(val)
		case "description":
			m.Description, _ = asString(val)
		case "imports":
			imports, ok := val.(map[string]any)
			if !ok {
				return nil, issuef(CodeFormat, "", "meta imports improperly formatted")
			}
			m.Imports = map[string]string{}
			for ns, ref := range imports {
				s, ok := asString(ref)
				if !ok {
					return nil, issuef(CodeFormat, "", "meta import %s improperly formatted", ns)
				}
				m.Imports[ns] = s
			}
		case "exports":
			exports, ok := asTokens(val)
			if !ok {
				return nil, issuef(CodeFormat, "", "meta exports improperly formatted")
			}
			m.Exports = exports
		case "config":
			cfgMap, ok := val.(map[string]any)
			if !ok {
				return nil, issuef(CodeFormat, "", "meta config improperly formatted")
			}
			cfg, err := makeConfig(cfgMap)
			if err != nil {
				return nil, err
			}
			m.Config = cfg
			m.hasConfig = true
		default:
			return nil, issuef(CodeFormat, "", "Meta has extra keys - %s", key)
		}
	}
	if m.Config == nil {
		m.Config = defaultConfig()
	}
	return m, nil
}

func (m *Meta) isEmpty() bool {
	return m.Module == "" && m.Patch == "" && m.Title == "" && m.Description == "" &&
		len(m.Imports) == 0 && len(m.Exports) == 0 && !m.hasConfig
}

// Raw re-serializes the meta block; the config appears only when it was
// supplied on load.
func (m *Meta) Raw() map[string]any {
	out := map[string]any{}
	if m.Module != "" {
		out["module"] = m.Module
	}
	if m.Patch != "" {
		out["patch"] = m.Patch
	}
	if m.Title != "" {
		out["title"] = m.Title
	}
	if m.Description != "" {
		out["description"] = m.Description
	}
	if len(m.Imports) > 0 {
		imports := map[string]any{}
		for ns, ref := range m.Imports {
			imports[ns] = ref
		}
		out["imports"] = imports
	}
	if len(m.Exports) > 0 {
		out["exports"] = toAnySlice(m.Exports)
	}
	if m.hasConfig {
		out["config"] = m.Config.Raw()
	}
	return out
}

// Schema owns a Meta block and an ordered name -> Definition map. It is the
// unit of load, verification, instance validation, simplification and
// re-serialization. A Schema that failed to load stays unusable; Load is
// atomic and never leaves partial content behind.
type Schema struct {
	Meta *Meta

	names   []string // declaration order
	types   map[string]*Definition
	derived map[string]*Definition // $Type -> materialized derived enumeration
	formats *format.Registry

	schemaTypes map[string]bool
	loaded      bool
}

// New returns an empty Schema with the default format registry.
func New() *Schema {
	return &Schema{
		Meta:    &Meta{Config: defaultConfig()},
		types:   map[string]*Definition{},
		derived: map[string]*Definition{},
		formats: format.NewRegistry(),
	}
}

// rawDocument is the at-rest document shape: exactly two top-level keys.
type rawDocument struct {
	Meta  map[string]any `json:"meta"`
	Types []any          `json:"types"`
}

// Load reads a JSON schema document from r and loads it.
func (s *Schema) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return s.Loads(data)
}

// LoadFile loads a schema document from a file; .yaml/.yml files are decoded
// as YAML, anything else as JSON.
func (s *Schema) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return s.LoadsYAML(data)
	}
	return s.Loads(data)
}

// Loads loads a schema from JSON text. The load is atomic: on any error the
// receiver keeps its previous content.
func (s *Schema) Loads(data []byte) error {
	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return issuef(CodeFormat, "", "schema improperly formatted: %v", err)
	}
	return s.loadDocument(doc)
}

// LoadsYAML loads a schema from YAML text.
func (s *Schema) LoadsYAML(data []byte) error {
	var doc struct {
		Meta  map[string]any `yaml:"meta"`
		Types []any          `yaml:"types"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return issuef(CodeFormat, "", "schema improperly formatted: %v", err)
	}
	return s.loadDocument(rawDocument{Meta: doc.Meta, Types: doc.Types})
}

// loadDocument builds a fresh container from the document, desugars field
// multiplicity, resolves derived enumerations eagerly, verifies, and only
// then swaps the result into the receiver.
func (s *Schema) loadDocument(doc rawDocument) error {
	meta, err := makeMeta(doc.Meta)
	if err != nil {
		return err
	}
	cfg := meta.Config

	staging := &Schema{
		Meta:    meta,
		types:   map[string]*Definition{},
		derived: map[string]*Definition{},
		formats: s.formats,
	}
	if staging.formats == nil {
		staging.formats = format.NewRegistry()
	}
	for _, raw := range doc.Types {
		def, err := makeDefinition(raw, cfg)
		if err != nil {
			return err
		}
		if _, dup := staging.types[def.Name]; dup {
			return issuef(CodeDuplicate, def.Name, "duplicate type definition %s", def.Name)
		}
		staging.names = append(staging.names, def.Name)
		staging.types[def.Name] = def
	}

	// Field multiplicity is always desugared on load; the other simplify
	// passes stay opt-in.
	liftMultiplicity(staging)

	if err := staging.resolveDerived(); err != nil {
		return err
	}
	staging.collectSchemaTypes()

	if err := staging.VerifySchema().OrNil(); err != nil {
		return err
	}

	s.Meta = staging.Meta
	s.names = staging.names
	s.types = staging.types
	s.derived = staging.derived
	s.formats = staging.formats
	s.schemaTypes = staging.schemaTypes
	s.loaded = true
	return nil
}

// resolveDerived materializes every $Type ktype/vtype reference into a
// derived Enumerated definition, so validation never mutates the schema.
func (s *Schema) resolveDerived() error {
	resolve := func(ref *string) error {
		if ref == nil || !strings.HasPrefix(*ref, DerivedMarker) {
			return nil
		}
		if _, done := s.derived[*ref]; done {
			return nil
		}
		base, ok := s.types[strings.TrimPrefix(*ref, DerivedMarker)]
		if !ok {
			return issuef(CodeType, "", "Type of %s does not exist within the schema", strings.TrimPrefix(*ref, DerivedMarker))
		}
		enum, err := base.Enumerated()
		if err != nil {
			return err
		}
		s.derived[*ref] = enum
		return nil
	}
	for _, name := range s.names {
		def := s.types[name]
		refs := []*string{def.Options.KType, def.Options.VType}
		for _, f := range def.Fields {
			refs = append(refs, f.Options.KType, f.Options.VType)
		}
		for _, ref := range refs {
			if err := resolve(ref); err != nil {
				return err
			}
		}
	}
	return nil
}

// collectSchemaTypes gathers the universe of known type names: builtins,
// declared names, and every name reachable as a field type.
func (s *Schema) collectSchemaTypes() {
	set := map[string]bool{}
	for _, n := range primitiveTypes {
		set[n] = true
	}
	for _, n := range selectorTypes {
		set[n] = true
	}
	for _, n := range compoundTypes {
		set[n] = true
	}
	for name, def := range s.types {
		set[name] = true
		for _, t := range def.FieldTypes() {
			set[t] = true
		}
	}
	s.schemaTypes = set
}

// SchemaTypes reports every known type name, sorted.
func (s *Schema) SchemaTypes() []string {
	return sortedKeys(s.schemaTypes)
}

// TypeNames reports the declared type names in declaration order.
func (s *Schema) TypeNames() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Type returns the named declared definition, or nil.
func (s *Schema) Type(name string) *Definition {
	return s.types[name]
}

// Derived returns the materialized derived enumeration for a $Type marker,
// or nil.
func (s *Schema) Derived(ref string) *Definition {
	return s.derived[ref]
}

// Formats reports the registered format keywords.
func (s *Schema) Formats() []string {
	return s.formats.Names()
}

// AddFormat registers a semantic-format validation function. Re-registering
// an existing keyword without override is an error.
func (s *Schema) AddFormat(name string, fn format.Func, override bool) error {
	return s.formats.Register(name, fn, override)
}

// VerifySchema checks the structural self-consistency of the loaded schema,
// accumulating every problem: a schema without meta or types is rejected
// outright, every declared type's keyword must resolve, and each definition
// runs its own verification.
func (s *Schema) VerifySchema() Issues {
	if s.Meta == nil || s.Meta.isEmpty() || len(s.types) == 0 {
		return singleFormatIssue("Schema not properly defined")
	}
	// Any format the registry resolves is nameable, including formats added
	// through AddFormat.
	formatOK := knownFormat
	if s.formats != nil {
		formatOK = func(name string) bool { return s.formats.Lookup(name) != nil }
	}
	var iss Issues
	for _, name := range s.names {
		def := s.types[name]
		if !s.schemaTypes[def.Type] && !s.schemaTypes[def.BaseType()] {
			iss = AppendIssues(iss, issuef(CodeType, name, "Type of %s not defined: %s", name, def.Type))
		}
		iss = append(iss, def.verify(s.schemaTypes, formatOK)...)
	}
	return iss
}

func singleFormatIssue(msg string) Issues {
	return Issues{{Code: CodeFormat, Message: msg}}
}

// Analysis is the result of Analyze: the dependency view of a schema.
type Analysis struct {
	Module       string
	Exports      []string
	Unreferenced []string
	Undefined    []string
}

// Dependencies reports, per declared type, the set of type names it
// references. Cross-module references collapse to their import namespace
// alias; import aliases themselves appear as entries with no dependencies.
func (s *Schema) Dependencies() map[string][]string {
	nsids := map[string]bool{}
	deps := map[string][]string{}
	for ns := range s.Meta.Imports {
		nsids[ns] = true
		deps[ns] = nil
	}
	collapse := func(name string) string {
		if ns, _, found := strings.Cut(name, ":"); found && nsids[ns] {
			return ns
		}
		return name
	}
	for _, name := range s.names {
		set := map[string]bool{}
		for _, dep := range s.types[name].Dependencies() {
			set[collapse(dep)] = true
		}
		deps[name] = sortedKeys(set)
	}
	return deps
}

// Analyze computes the unreferenced and undefined type names of the schema:
// undefined names are referenced but neither declared, derived nor imported;
// unreferenced names are declared but unreachable from any export.
func (s *Schema) Analyze() Analysis {
	deps := s.Dependencies()

	refs := map[string]bool{}
	for _, dd := range deps {
		for _, d := range dd {
			refs[d] = true
		}
	}
	for _, exp := range s.Meta.Exports {
		refs[exp] = true
	}

	declared := map[string]bool{}
	for name := range deps {
		declared[name] = true
	}
	for name := range s.derived {
		declared[name] = true
	}

	var unreferenced, undefined []string
	for _, name := range sortedKeys(declared) {
		if !refs[name] && s.derived[name] == nil && !isImport(s.Meta, name) {
			unreferenced = append(unreferenced, name)
		}
	}
	for _, name := range sortedKeys(refs) {
		if !declared[name] {
			undefined = append(undefined, name)
		}
	}
	return Analysis{
		Module:       s.Meta.Module + s.Meta.Patch,
		Exports:      append([]string(nil), s.Meta.Exports...),
		Unreferenced: unreferenced,
		Undefined:    undefined,
	}
}

func isImport(m *Meta, name string) bool {
	_, ok := m.Imports[name]
	return ok
}

// Raw re-serializes the schema to its at-rest document form.
func (s *Schema) Raw() (map[string]any, error) { return s.raw(false) }

// RawStrip is Raw with every description blanked.
func (s *Schema) RawStrip() (map[string]any, error) { return s.raw(true) }

func (s *Schema) raw(strip bool) (map[string]any, error) {
	types := make([]any, 0, len(s.names))
	for _, name := range s.names {
		var raw []any
		var err error
		if strip {
			raw, err = s.types[name].RawStrip()
		} else {
			raw, err = s.types[name].Raw()
		}
		if err != nil {
			return nil, err
		}
		types = append(types, raw)
	}
	return map[string]any{"meta": s.Meta.Raw(), "types": types}, nil
}

// Dumps renders the schema as formatted JSON text: meta keys one per line,
// each type tuple on its own line with its fields nested below.
func (s *Schema) Dumps(indent int, strip bool) (string, error) {
	raw, err := s.raw(strip)
	if err != nil {
		return "", err
	}
	return dumpDocument(s.Meta, raw["types"].([]any), indent), nil
}

// Dump writes the formatted schema to w.
func (s *Schema) Dump(w io.Writer, indent int, strip bool) error {
	text, err := s.Dumps(indent, strip)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, text)
	return err
}
