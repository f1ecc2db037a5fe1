package jadn

// Package jadn provides:
//
// - A schema data model over the JADN at-rest document form (meta + type tuples)
// - A compact option codec mapping single-character tags to named options
// - Two-phase checking: structural verification at load, instance validation on demand
// - Schema analysis (per-type dependencies, unreferenced and undefined names)
// - A simplify pipeline desugaring anonymous types, field multiplicity,
//   derived enumerations and enumerated-keyed MapOf types
//
// Design policy:
// - Keep the schema model and its operations in the root package; put the
//   semantic-format registry under format/, converters under jsonschema/ and
//   convert/, and the CLI under cmd/jadn.
// - Loading is atomic: a Schema either holds a fully verified document or its
//   previous content.
// - Validation is read-only; derived enumerations are materialized at load.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := jadn.New()
//	err := s.LoadFile("schema.jadn")
//
//	err = s.Validate(instance)
//	iss := s.ValidateAs(instance, "OpenC2-Command")
//
//	simple, err := s.Simplify(jadn.SimplifyAll())
//	text, err := simple.Dumps(2, false)
