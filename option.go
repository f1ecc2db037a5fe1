package jadn

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Option is the structured form of the compact tagged-token option list that
// a Definition or Field carries at rest. Optional integer and string options
// are pointers so that absence is a first-class state; boolean options are
// presence flags.
type Option struct {
	// Type structural
	Enum  *string // Enumerated type derived from the specified Array, Choice, Map or Record type
	ID    bool    // Enumerated values and fields of compound types denoted by FieldID rather than FieldName
	KType *string // Key type for MapOf
	VType *string // Value type for ArrayOf and MapOf

	// Type validation
	Format  *string // Semantic validation keyword
	MinV    *int    // Minimum numeric value, octet or character count, or element count
	MaxV    *int    // Maximum numeric value, octet or character count, or element count
	Pattern *string // Regular expression used to validate a String type
	Unique  bool    // An ArrayOf instance must not contain duplicate values

	// Field
	Default *string // Reserved for default value
	Path    bool    // Use FieldName as a qualifier for fields in FieldType
	MinC    *int    // Minimum cardinality
	MaxC    *int    // Maximum cardinality
	TField  *string // Field that specifies the type of this field, value is Enumerated
}

// Tag characters of the compact option encoding. The table is fixed; decoding
// an unknown tag is a hard error rather than a silently dropped option.
const (
	tagDefault = '!'
	tagPath    = '<'
	tagMinC    = '['
	tagMaxC    = ']'
	tagTField  = '&'
	tagEnum    = '#'
	tagID      = '='
	tagKType   = '+'
	tagVType   = '*'
	tagFormat  = '/'
	tagMinV    = '{'
	tagMaxV    = '}'
	tagPattern = '%'
	tagUnique  = 'q'
)

// DerivedMarker prefixes a ktype/vtype/enum value that names a derived
// enumeration rather than a declared type.
const DerivedMarker = "$"

var enumSpelling = regexp.MustCompile(`^[eE]num\(([^)]*)\)$`)

// normalizeTypeRef rewrites the Enum(Type) spelling of a derived-enumeration
// reference into the internal $Type marker.
func normalizeTypeRef(val string) string {
	if m := enumSpelling.FindStringSubmatch(val); m != nil {
		return DerivedMarker + m[1]
	}
	return val
}

// fieldOptionNames are the options valid on a Field of any base type, in
// canonical encode order.
var fieldOptionNames = []string{"default", "minc", "maxc", "path", "tfield"}

// typeOptionNames are the type options in canonical encode order.
var typeOptionNames = []string{"enum", "id", "ktype", "vtype", "format", "pattern", "minv", "maxv", "unique"}

// validTypeOptions is the allow-list of type options per base type.
var validTypeOptions = map[string][]string{
	// Primitives
	"Binary":  {"format", "minv", "maxv"},
	"Boolean": {},
	"Integer": {"format", "minv", "maxv"},
	"Number":  {"format", "minv", "maxv"},
	"Null":    {},
	"String":  {"format", "minv", "maxv", "pattern"},
	// Structures
	"Array":      {"format", "minv", "maxv"},
	"ArrayOf":    {"minv", "maxv", "vtype", "unique"},
	"Choice":     {"id", "path"},
	"Enumerated": {"id", "enum", "path"},
	"Map":        {"id", "minv", "maxv", "path"},
	"MapOf":      {"ktype", "minv", "maxv", "vtype"},
	"Record":     {"minv", "maxv", "path"},
}

// validFormats lists the semantic validation keywords an option may name.
// Entries are exact keywords except unsignedFormat, which matches the u<n>
// parametric family.
var validFormats = []string{
	// JSON formats
	"date-time", "date", "time",
	"email", "idn-email",
	"hostname", "idn-hostname",
	"ipv4", "ipv6",
	"uri", "uri-reference", "iri", "iri-reference", "uri-template",
	"json-pointer", "relative-json-pointer",
	"regex",
	// JADN formats
	"eui",
	"ipv4-addr", "ipv6-addr", "ipv4-net", "ipv6-net",
	"i8", "i16", "i32",
	// Serialization
	"x",
}

var unsignedFormat = regexp.MustCompile(`^u\d+$`)

func knownFormat(fmtName string) bool {
	if unsignedFormat.MatchString(fmtName) {
		return true
	}
	for _, vf := range validFormats {
		if vf == fmtName {
			return true
		}
	}
	return false
}

// Int returns a pointer to v, for building Option literals.
func Int(v int) *int { return &v }

// String returns a pointer to s, for building Option literals.
func String(s string) *string { return &s }

// DecodeOptions parses a list of compact tagged tokens into an Option. An
// unknown tag, a duplicate target, or a malformed integer value is an error.
func DecodeOptions(tokens []string) (*Option, error) {
	o := &Option{}
	seen := map[byte]bool{}
	for _, tok := range tokens {
		if tok == "" {
			return nil, issuef(CodeOption, "", "empty option token")
		}
		tag, val := tok[0], tok[1:]
		if seen[tag] {
			return nil, issuef(CodeOption, "", "duplicate option %q", tok)
		}
		seen[tag] = true

		switch tag {
		case tagDefault:
			o.Default = &val
		case tagPath:
			o.Path = true
		case tagMinC:
			n, err := decodeOptionInt("minc", val)
			if err != nil {
				return nil, err
			}
			o.MinC = n
		case tagMaxC:
			n, err := decodeOptionInt("maxc", val)
			if err != nil {
				return nil, err
			}
			o.MaxC = n
		case tagTField:
			o.TField = &val
		case tagEnum:
			o.Enum = &val
		case tagID:
			o.ID = true
		case tagKType:
			ref := normalizeTypeRef(val)
			o.KType = &ref
		case tagVType:
			ref := normalizeTypeRef(val)
			o.VType = &ref
		case tagFormat:
			o.Format = &val
		case tagMinV:
			n, err := decodeOptionInt("minv", val)
			if err != nil {
				return nil, err
			}
			o.MinV = n
		case tagMaxV:
			n, err := decodeOptionInt("maxv", val)
			if err != nil {
				return nil, err
			}
			o.MaxV = n
		case tagPattern:
			o.Pattern = &val
		case tagUnique:
			o.Unique = true
		default:
			return nil, issuef(CodeOption, "", "unknown option %q", tok)
		}
	}
	return o, nil
}

func decodeOptionInt(name, val string) (*int, error) {
	n, err := strconv.Atoi(val)
	if err != nil {
		return nil, issuef(CodeValue, "", "invalid value for %s option: %q", name, val)
	}
	return &n, nil
}

// Encode verifies the options against the base type and re-serializes them to
// compact tagged tokens in canonical order. Boolean options emit a bare tag.
// Format legality is not re-checked here: it belongs to the owning schema's
// registry, which serialization has no access to.
func (o *Option) Encode(basetype, defname string, field bool) ([]string, error) {
	if iss := o.verify(basetype, defname, field, nil); len(iss) > 0 {
		return nil, iss
	}
	var rtn []string
	appendStr := func(tag byte, v *string) {
		if v != nil {
			rtn = append(rtn, string(tag)+*v)
		}
	}
	appendInt := func(tag byte, v *int) {
		if v != nil {
			rtn = append(rtn, string(tag)+strconv.Itoa(*v))
		}
	}
	appendBool := func(tag byte, v bool) {
		if v {
			rtn = append(rtn, string(tag))
		}
	}
	appendStr(tagDefault, o.Default)
	appendInt(tagMinC, o.MinC)
	appendInt(tagMaxC, o.MaxC)
	appendBool(tagPath, o.Path)
	appendStr(tagTField, o.TField)
	appendStr(tagEnum, o.Enum)
	appendBool(tagID, o.ID)
	appendStr(tagKType, o.KType)
	appendStr(tagVType, o.VType)
	appendStr(tagFormat, o.Format)
	appendStr(tagPattern, o.Pattern)
	appendInt(tagMinV, o.MinV)
	appendInt(tagMaxV, o.MaxV)
	appendBool(tagUnique, o.Unique)
	return rtn, nil
}

// names reports the present options, field options first, in canonical order.
func (o *Option) names() []string {
	var present []string
	set := map[string]bool{
		"default": o.Default != nil,
		"minc":    o.MinC != nil,
		"maxc":    o.MaxC != nil,
		"path":    o.Path,
		"tfield":  o.TField != nil,
		"enum":    o.Enum != nil,
		"id":      o.ID,
		"ktype":   o.KType != nil,
		"vtype":   o.VType != nil,
		"format":  o.Format != nil,
		"pattern": o.Pattern != nil,
		"minv":    o.MinV != nil,
		"maxv":    o.MaxV != nil,
		"unique":  o.Unique,
	}
	for _, n := range fieldOptionNames {
		if set[n] {
			present = append(present, n)
		}
	}
	for _, n := range typeOptionNames {
		if set[n] {
			present = append(present, n)
		}
	}
	return present
}

// Verify checks that every present option is legal for the given base type
// (and field status), that ArrayOf/MapOf carry their required options, that
// cardinality bounds are ordered, and that any format keyword is known.
// All problems are accumulated. Schema-level verification widens the format
// check to the owning schema's registry.
func (o *Option) Verify(basetype, defname string, field bool) Issues {
	return o.verify(basetype, defname, field, knownFormat)
}

func (o *Option) verify(basetype, defname string, field bool, formatOK func(string) bool) Issues {
	var iss Issues
	loc := basetype
	if defname != "" {
		loc = fmt.Sprintf("%s(%s)", defname, basetype)
	}

	allowed := map[string]bool{}
	for _, n := range validTypeOptions[basetype] {
		allowed[n] = true
	}
	if field {
		for _, n := range fieldOptionNames {
			allowed[n] = true
		}
	}

	var extra []string
	for _, n := range o.names() {
		if !allowed[n] {
			extra = append(extra, n)
		}
	}
	if len(extra) > 0 {
		iss = append(iss, issuef(CodeOption, defname, "Extra options given for %s - %s", loc, strings.Join(extra, ", ")))
	} else if basetype == "ArrayOf" && o.VType == nil {
		iss = append(iss, issuef(CodeOption, defname, "ArrayOf %s requires options: vtype", loc))
	} else if basetype == "MapOf" && (o.VType == nil || o.KType == nil) {
		iss = append(iss, issuef(CodeOption, defname, "MapOf %s requires options: vtype and ktype", loc))
	}

	minName, maxName := "minv", "maxv"
	minP, maxP := o.MinV, o.MaxV
	if field {
		minName, maxName = "minc", "maxc"
		minP, maxP = o.MinC, o.MaxC
	}
	minimum := optInt(minP, 1)
	maximum := optInt(maxP, maxInt(1, minimum))
	if maximum != 0 && maximum < minimum {
		iss = append(iss, issuef(CodeOption, defname, "%s cannot be less than %s", maxName, minName))
	}

	if o.Format != nil && formatOK != nil && !formatOK(*o.Format) {
		iss = AppendIssues(iss, issuef(CodeOption, defname, "%s %s specified unknown format %s", basetype, loc, *o.Format))
	}
	return iss
}

// Multiplicity renders the min/max bounds for display:
//
//	minc  maxc  multiplicity  keywords
//	0     1     0..1          optional
//	1     1     1             required
//	0     0     0..*          optional, repeated
//	1     0     1..*          required, repeated
//	m     n     m..n          required, repeated if m > 1
//
// The check predicate suppresses the result (empty string) when it reports
// false for the effective bounds.
func (o *Option) Multiplicity(minDefault, maxDefault int, field bool, check func(minimum, maximum int) bool) string {
	minP, maxP := o.MinV, o.MaxV
	if field {
		minP, maxP = o.MinC, o.MaxC
	}
	minimum := optInt(minP, minDefault)
	maximum := optInt(maxP, maxDefault)
	if check != nil && !check(minimum, maximum) {
		return ""
	}
	if minimum == 1 && maximum == 1 {
		return "1"
	}
	if maximum == 0 {
		return fmt.Sprintf("%d..*", minimum)
	}
	return fmt.Sprintf("%d..%d", minimum, maximum)
}

// Split partitions the options into their field-option and type-option parts.
func (o *Option) Split() (fieldOpts, typeOpts *Option) {
	fieldOpts = &Option{
		Default: o.Default,
		Path:    o.Path,
		MinC:    o.MinC,
		MaxC:    o.MaxC,
		TField:  o.TField,
	}
	typeOpts = &Option{
		Enum:    o.Enum,
		ID:      o.ID,
		KType:   o.KType,
		VType:   o.VType,
		Format:  o.Format,
		MinV:    o.MinV,
		MaxV:    o.MaxV,
		Pattern: o.Pattern,
		Unique:  o.Unique,
	}
	return fieldOpts, typeOpts
}

// empty reports whether no option is present.
func (o *Option) empty() bool { return len(o.names()) == 0 }

func (o *Option) clone() *Option {
	c := *o
	return &c
}

func optInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func optStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
