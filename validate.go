package jadn

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validate checks an instance against the schema's exported types. The
// instance is valid when it validates against at least one export.
func (s *Schema) Validate(inst any) error {
	for _, name := range s.Meta.Exports {
		if iss := s.ValidateAs(inst, name); len(iss) == 0 {
			return nil
		}
	}
	return issuef(CodeValidation, "", "instance not valid under the current schema")
}

// ValidateAs checks an instance against one named export, accumulating every
// problem found. Validating against a non-exported type is itself an error.
func (s *Schema) ValidateAs(inst any, typeName string) Issues {
	exported := false
	for _, name := range s.Meta.Exports {
		if name == typeName {
			exported = true
			break
		}
	}
	if !exported {
		return Issues{issuef(CodeValidation, typeName, "invalid export type, %s", typeName)}
	}
	def := s.types[typeName]
	if def == nil {
		return Issues{issuef(CodeType, typeName, "Type of %s not defined: %s", typeName, typeName)}
	}
	v := &validator{schema: s, cfg: s.Meta.Config}
	return v.validate(def, inst, typeName)
}

// validator walks an instance against the loaded schema. It never mutates the
// schema: derived enumerations were materialized at load, and field options
// validate through throwaway definitions.
type validator struct {
	schema *Schema
	cfg    *Config
}

func (v *validator) validate(def *Definition, inst any, path string) Issues {
	switch def.Kind() {
	case KindArray:
		return v.validateArray(def, inst, path)
	case KindArrayOf:
		return v.validateArrayOf(def, inst, path)
	case KindChoice:
		return v.validateChoice(def, inst, path)
	case KindEnumerated:
		return v.validateEnumerated(def, inst, path)
	case KindMap, KindRecord:
		return v.validateMapped(def, inst, path)
	case KindMapOf:
		return v.validateMapOf(def, inst, path)
	default:
		return v.validateCustom(def, inst, path)
	}
}

// validateCustom handles the primitive base types and any custom type defined
// over one: type check, value or length bounds, pattern and semantic format.
func (v *validator) validateCustom(def *Definition, inst any, path string) Issues {
	var iss Issues
	switch def.BaseType() {
	case "Binary":
		data, ok := asBytes(inst)
		if !ok {
			return Issues{issuef(CodeValidation, path, "%s is not a valid %s", path, def.BaseType())}
		}
		iss = append(iss, v.checkLength(def, len(data), v.cfg.MaxBinary, path)...)
	case "Boolean":
		if _, ok := inst.(bool); !ok {
			return Issues{issuef(CodeValidation, path, "%s is not a valid %s", path, def.BaseType())}
		}
	case "Integer":
		n, ok := asInt(inst)
		if !ok {
			return Issues{issuef(CodeValidation, path, "%s is not a valid %s", path, def.BaseType())}
		}
		iss = append(iss, v.checkBounds(def, float64(n), path)...)
	case "Number":
		n, ok := asNumber(inst)
		if !ok {
			return Issues{issuef(CodeValidation, path, "%s is not a valid %s", path, def.BaseType())}
		}
		iss = append(iss, v.checkBounds(def, n, path)...)
	case "Null":
		if inst != nil {
			if s, ok := inst.(string); !ok || s != "" {
				return Issues{issuef(CodeValidation, path, "%s is not a valid %s", path, def.BaseType())}
			}
		}
	case "String":
		s, ok := inst.(string)
		if !ok {
			return Issues{issuef(CodeValidation, path, "%s is not a valid %s", path, def.BaseType())}
		}
		// String bounds count characters; octet counts apply to Binary only.
		iss = append(iss, v.checkLength(def, utf8.RuneCountInString(s), v.cfg.MaxString, path)...)
		if p := def.Options.Pattern; p != nil {
			re, err := regexp.Compile(*p)
			if err != nil {
				iss = append(iss, issuef(CodeOption, path, "pattern of %s does not compile: %v", path, err))
			} else if !re.MatchString(s) {
				iss = append(iss, issuef(CodeValidation, path, "%s does not match the pattern %s", path, *p))
			}
		}
	default:
		return Issues{issuef(CodeType, path, "Type of %s not defined: %s", path, def.Type)}
	}
	iss = append(iss, v.checkFormat(def, inst, path)...)
	return iss
}

func (v *validator) checkLength(def *Definition, length, maxDefault int, path string) Issues {
	minLen := optInt(def.Options.MinV, 0)
	maxLen := optInt(def.Options.MaxV, 0)
	if maxLen == 0 {
		maxLen = maxDefault
	}
	var iss Issues
	if length < minLen {
		iss = append(iss, issuef(CodeValidation, path, "%s is shorter than the minimum length of %d", path, minLen))
	}
	if length > maxLen {
		iss = append(iss, issuef(CodeValidation, path, "%s is longer than the maximum length of %d", path, maxLen))
	}
	return iss
}

// checkBounds applies numeric minv/maxv. A maxv of zero means unbounded.
func (v *validator) checkBounds(def *Definition, val float64, path string) Issues {
	var iss Issues
	if minV := def.Options.MinV; minV != nil && val < float64(*minV) {
		iss = append(iss, issuef(CodeValidation, path, "%s is less than the minimum value of %d", path, *minV))
	}
	if maxV := def.Options.MaxV; maxV != nil && *maxV != 0 && val > float64(*maxV) {
		iss = append(iss, issuef(CodeValidation, path, "%s is greater than the maximum value of %d", path, *maxV))
	}
	return iss
}

func (v *validator) checkFormat(def *Definition, inst any, path string) Issues {
	name := optStr(def.Options.Format)
	if name == "" {
		return nil
	}
	fn := v.schema.formats.Lookup(name)
	if fn == nil {
		return Issues{issuef(CodeFormat, path, "unknown format %s on %s", name, path)}
	}
	if err := fn(inst); err != nil {
		return Issues{issuef(CodeFormat, path, "%s is not a valid %s: %v", path, name, err)}
	}
	return nil
}

// validateArray checks an ordered collection of typed items addressed by
// ordinal. An Array carrying a format option is opaque: the format function
// judges the whole value.
func (v *validator) validateArray(def *Definition, inst any, path string) Issues {
	if optStr(def.Options.Format) != "" {
		return v.checkFormat(def, inst, path)
	}
	arr, ok := inst.([]any)
	if !ok {
		return Issues{issuef(CodeValidation, path, "%s is not a valid %s", path, def.BaseType())}
	}
	iss := v.checkCount(def, len(arr), path)
	for _, f := range def.Fields {
		idx := f.ID - 1
		fieldPath := v.join(path, f.Name)
		if idx >= len(arr) || arr[idx] == nil {
			if f.Required() {
				iss = append(iss, issuef(CodeValidation, fieldPath, "%s is a required item of %s", f.Name, path))
			}
			continue
		}
		iss = append(iss, v.validateField(f, arr[idx], fieldPath)...)
	}
	return iss
}

func (v *validator) validateArrayOf(def *Definition, inst any, path string) Issues {
	arr, ok := inst.([]any)
	if !ok {
		return Issues{issuef(CodeValidation, path, "%s is not a valid %s", path, def.BaseType())}
	}
	iss := v.checkCount(def, len(arr), path)
	if def.Options.Unique {
		seen := map[string]bool{}
		for _, item := range arr {
			key := fmt.Sprint(item)
			if seen[key] {
				iss = append(iss, issuef(CodeDuplicate, path, "%s contains duplicate item %v", path, item))
			}
			seen[key] = true
		}
	}
	vtype := optStr(def.Options.VType)
	for i, item := range arr {
		iss = append(iss, v.validateRef(vtype, nil, item, v.join(path, fmt.Sprint(i)))...)
	}
	return iss
}

// validateChoice requires a single-key map selecting exactly one alternative,
// by field id when the id option is set, otherwise by field name.
func (v *validator) validateChoice(def *Definition, inst any, path string) Issues {
	m, ok := inst.(map[string]any)
	if !ok || len(m) != 1 {
		return Issues{issuef(CodeValidation, path, "%s requires exactly one field", path)}
	}
	for key, val := range m {
		f := v.lookupField(def, key)
		if f == nil {
			return Issues{issuef(CodeValidation, path, "%s is not a valid field in %s", key, path)}
		}
		return v.validateField(f, val, v.join(path, f.Name))
	}
	return nil
}

func (v *validator) validateEnumerated(def *Definition, inst any, path string) Issues {
	if def.Options.ID {
		id, ok := asInt(inst)
		if !ok {
			return Issues{issuef(CodeValidation, path, "%v is not a valid value for %s", inst, path)}
		}
		for _, ef := range def.Enums {
			if ef.ID == id {
				return nil
			}
		}
		return Issues{issuef(CodeValidation, path, "%v is not a valid value for %s", inst, path)}
	}
	for _, ef := range def.Enums {
		if enumEqual(ef.Value, inst) {
			return nil
		}
	}
	return Issues{issuef(CodeValidation, path, "%v is not a valid value for %s", inst, path)}
}

// validateMapped covers Map and Record: unordered typed fields keyed by name
// (or id for an id-mode Map), with unknown keys rejected and required fields
// enforced.
func (v *validator) validateMapped(def *Definition, inst any, path string) Issues {
	m, ok := inst.(map[string]any)
	if !ok {
		return Issues{issuef(CodeValidation, path, "%s is not a valid %s", path, def.BaseType())}
	}
	iss := v.checkCount(def, len(m), path)
	for key := range m {
		if v.lookupField(def, key) == nil {
			iss = append(iss, issuef(CodeValidation, path, "%s is not a valid field in %s", key, path))
		}
	}
	for _, f := range def.Fields {
		key := f.Name
		if def.Options.ID {
			key = fmt.Sprint(f.ID)
		}
		val, present := m[key]
		if !present {
			if f.Required() {
				iss = append(iss, issuef(CodeValidation, v.join(path, f.Name), "%s is a required field of %s", f.Name, path))
			}
			continue
		}
		iss = append(iss, v.validateField(f, val, v.join(path, f.Name))...)
	}
	return iss
}

func (v *validator) validateMapOf(def *Definition, inst any, path string) Issues {
	m, ok := inst.(map[string]any)
	if !ok {
		return Issues{issuef(CodeValidation, path, "%s is not a valid %s", path, def.BaseType())}
	}
	iss := v.checkCount(def, len(m), path)
	ktype := optStr(def.Options.KType)
	vtype := optStr(def.Options.VType)
	for key, val := range m {
		keyPath := v.join(path, key)
		// Object keys arrive as strings even when the key type is numeric.
		keyIss := v.validateRef(ktype, nil, key, keyPath)
		if len(keyIss) > 0 {
			if n, err := strconv.Atoi(key); err == nil {
				keyIss = v.validateRef(ktype, nil, n, keyPath)
			}
		}
		iss = append(iss, keyIss...)
		iss = append(iss, v.validateRef(vtype, nil, val, keyPath)...)
	}
	return iss
}

// checkCount applies minv/maxv to an item or property count. A maxv of zero
// falls back to the configured MaxElements.
func (v *validator) checkCount(def *Definition, count int, path string) Issues {
	minV := optInt(def.Options.MinV, 0)
	maxV := optInt(def.Options.MaxV, 0)
	if maxV == 0 {
		maxV = v.cfg.MaxElements
	}
	var iss Issues
	if count < minV {
		iss = append(iss, issuef(CodeValidation, path, "%s has fewer than the minimum of %d items", path, minV))
	}
	if count > maxV {
		iss = append(iss, issuef(CodeValidation, path, "%s has more than the maximum of %d items", path, maxV))
	}
	return iss
}

// validateField checks one field value, carrying the field's lifted type
// options into a throwaway definition when the field type is a builtin.
func (v *validator) validateField(f *Field, val any, path string) Issues {
	_, typeOpts := f.Options.Split()
	return v.validateRef(f.Type, typeOpts, val, path)
}

// validateRef resolves a type reference and validates a value against it.
// Derived markers resolve through the materialized enumerations; references
// into imported namespaces are opaque and accepted as-is.
func (v *validator) validateRef(name string, opts *Option, val any, path string) Issues {
	if strings.HasPrefix(name, DerivedMarker) {
		def := v.schema.derived[name]
		if def == nil {
			return Issues{issuef(CodeType, path, "Type of %s does not exist within the schema", strings.TrimPrefix(name, DerivedMarker))}
		}
		return v.validateEnumerated(def, val, path)
	}
	if def := v.schema.types[name]; def != nil {
		return v.validate(def, val, path)
	}
	if IsBuiltin(name) {
		if opts == nil {
			opts = &Option{}
		}
		return v.validate(&Definition{Name: path, Type: name, Options: opts}, val, path)
	}
	if ns, _, found := strings.Cut(name, ":"); found {
		if _, ok := v.schema.Meta.Imports[ns]; ok {
			return nil
		}
	}
	return Issues{issuef(CodeType, path, "Type of %s not defined: %s", path, name)}
}

func (v *validator) lookupField(def *Definition, key string) *Field {
	if def.Options.ID {
		if id, err := strconv.Atoi(key); err == nil {
			return def.getFieldByID(id)
		}
		return nil
	}
	return def.GetField(key)
}

func (v *validator) join(base, elem string) string {
	if base == "" {
		return elem
	}
	return base + v.cfg.FS + elem
}

func enumEqual(a, b any) bool {
	if ai, ok := asInt(a); ok {
		bi, ok := asInt(b)
		return ok && ai == bi
	}
	as, aok := asString(a)
	bs, bok := asString(b)
	return aok && bok && as == bs
}

func asBytes(v any) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	}
	return nil, false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
