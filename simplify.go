package jadn

import (
	"fmt"
	"strings"

	"github.com/gertd/go-pluralize"
)

// SimplifyOpt toggles the four desugaring passes. Each pass is idempotent:
// synthesized types are deduplicated by name, so simplifying an already
// simplified schema adds nothing.
type SimplifyOpt struct {
	Anon    bool // lift anonymous type options out of fields
	Multi   bool // lift field multiplicity into explicit ArrayOf types
	Derived bool // materialize derived enumerations as explicit Enumerated types
	MapOf   bool // expand enumerated-keyed MapOf into explicit Map types
}

// SimplifyAll enables every pass.
func SimplifyAll() SimplifyOpt {
	return SimplifyOpt{Anon: true, Multi: true, Derived: true, MapOf: true}
}

// Simplify returns a new Schema with the selected syntactic sugar rewritten
// into explicit type declarations. The receiver is not modified.
func (s *Schema) Simplify(opt SimplifyOpt) (*Schema, error) {
	staging := &Schema{
		Meta:    s.Meta,
		types:   map[string]*Definition{},
		derived: map[string]*Definition{},
		formats: s.formats,
	}
	for _, name := range s.names {
		staging.names = append(staging.names, name)
		staging.types[name] = s.types[name].clone()
	}

	if opt.Anon {
		liftAnonymous(staging)
	}
	if opt.Multi {
		liftMultiplicity(staging)
	}
	if opt.Derived {
		if err := materializeDerived(staging); err != nil {
			return nil, err
		}
	}
	if opt.MapOf {
		if err := expandMapOfEnum(staging); err != nil {
			return nil, err
		}
	}

	if err := staging.resolveDerived(); err != nil {
		return nil, err
	}
	staging.collectSchemaTypes()
	if err := staging.VerifySchema().OrNil(); err != nil {
		return nil, err
	}
	staging.loaded = true
	return staging, nil
}

func (s *Schema) addType(def *Definition) {
	if _, ok := s.types[def.Name]; ok {
		return
	}
	s.names = append(s.names, def.Name)
	s.types[def.Name] = def
}

// liftAnonymous rewrites any field carrying type-level options to reference a
// synthesized named type <FieldType><Sys><fieldName> holding those options.
func liftAnonymous(s *Schema) {
	sys := s.Meta.Config.Sys
	for _, name := range append([]string(nil), s.names...) {
		def := s.types[name]
		if def.BaseType() == "Enumerated" {
			continue
		}
		for _, f := range def.Fields {
			fieldOpts, typeOpts := f.Options.Split()
			if typeOpts.empty() {
				continue
			}
			newName := strings.ReplaceAll(f.Type+sys+f.Name, "_", "-")
			s.addType(&Definition{
				Name:        newName,
				Type:        f.Type,
				Options:     typeOpts,
				Description: f.Description,
			})
			f.Type = newName
			f.Options = fieldOpts
		}
	}
}

// liftMultiplicity rewrites any field whose cardinality is not exactly-one to
// reference a synthesized ArrayOf type wrapping the field type, moving the
// bounds into minv/maxv. The synthesized name is pluralized from the field
// name. This pass also runs unconditionally at load.
func liftMultiplicity(s *Schema) {
	p := pluralize.NewClient()
	for _, name := range append([]string(nil), s.names...) {
		def := s.types[name]
		if def.BaseType() == "Enumerated" {
			continue
		}
		for _, f := range def.Fields {
			minc, maxc := f.Options.MinC, f.Options.MaxC
			if !((maxc != nil && *maxc != 1) || (minc != nil && *minc > 1)) {
				continue
			}
			fieldOpts, typeOpts := f.Options.Split()
			fieldOpts.MaxC = nil

			vtype := f.Type
			typeOpts.VType = &vtype
			typeOpts.MinV = Int(maxInt(optInt(minc, 0), 1))
			if maxc != nil && *maxc > 1 {
				typeOpts.MaxV = maxc
			}

			parts := strings.Split(f.Name, "_")
			last := parts[len(parts)-1]
			if p.IsSingular(last) {
				parts[len(parts)-1] = p.Plural(last)
			}
			for i, part := range parts {
				parts[i] = capitalize(part)
			}
			newName := strings.Join(parts, "-")

			s.addType(&Definition{
				Name:        newName,
				Type:        "ArrayOf",
				Options:     typeOpts,
				Description: f.Description,
			})
			f.Type = newName
			f.Options = fieldOpts
		}
	}
}

// materializeDerived replaces every derived-enumeration reference (the enum
// option, and $-marked ktype/vtype values) with a synthesized Enumerated type
// <Type><Sys>Enum mirroring the referenced type's field names.
func materializeDerived(s *Schema) error {
	sys := s.Meta.Config.Sys
	for _, name := range append([]string(nil), s.names...) {
		def := s.types[name]
		switch def.BaseType() {
		case "ArrayOf", "Enumerated", "MapOf":
		default:
			continue
		}
		for _, ref := range []**string{&def.Options.Enum, &def.Options.KType, &def.Options.VType} {
			val := *ref
			if val == nil {
				continue
			}
			// ktype/vtype participate only when marked; enum always does.
			if ref != &def.Options.Enum && !strings.HasPrefix(*val, DerivedMarker) {
				continue
			}
			origName := strings.TrimPrefix(*val, DerivedMarker)
			orig, ok := s.types[origName]
			if !ok {
				return issuef(CodeType, def.Name, "Type of %s does not exist within the schema", origName)
			}
			newName := strings.ReplaceAll(origName+sys+"Enum", "_", "-")
			if _, ok := s.types[newName]; !ok {
				enums, err := derivedEnums(orig)
				if err != nil {
					return err
				}
				s.addType(&Definition{
					Name:        newName,
					Type:        "Enumerated",
					Options:     &Option{},
					Description: fmt.Sprintf("Derived enumeration of %s", origName),
					Enums:       enums,
				})
			}
			*ref = &newName
		}
	}
	return nil
}

func derivedEnums(orig *Definition) ([]*EnumeratedField, error) {
	if orig.BaseType() == "Enumerated" {
		enums := make([]*EnumeratedField, len(orig.Enums))
		for i, ef := range orig.Enums {
			enums[i] = ef.clone()
		}
		return enums, nil
	}
	if !orig.IsCompound() {
		return nil, issuef(CodeType, orig.Name, "%s cannot be extended as an enumerated type", orig)
	}
	enums := make([]*EnumeratedField, len(orig.Fields))
	for i, f := range orig.Fields {
		enums[i] = f.enumField()
	}
	return enums, nil
}

// expandMapOfEnum rewrites a MapOf whose key type is an Enumerated into an
// explicit Map whose field list mirrors the enumeration's values.
func expandMapOfEnum(s *Schema) error {
	for _, name := range s.names {
		def := s.types[name]
		if def.BaseType() != "MapOf" {
			continue
		}
		ktype := optStr(def.Options.KType)
		keyDef, ok := s.types[ktype]
		if !ok {
			// A $-marked ktype fails here too: this pass needs the derived
			// pass to have materialized it first.
			return issuef(CodeType, def.Name, "Type of %s does not exist within the schema", ktype)
		}
		if keyDef.BaseType() != "Enumerated" {
			continue
		}
		vtype := optStr(def.Options.VType)
		opts := def.Options.clone()
		opts.KType = nil
		opts.VType = nil

		fields := make([]*Field, len(keyDef.Enums))
		for i, ef := range keyDef.Enums {
			fields[i] = &Field{
				ID:          ef.ID,
				Name:        fmt.Sprint(ef.Value),
				Type:        vtype,
				Options:     &Option{},
				Description: ef.Description,
			}
		}
		s.types[name] = &Definition{
			Name:        def.Name,
			Type:        "Map",
			Options:     opts,
			Description: def.Description,
			Fields:      fields,
		}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
