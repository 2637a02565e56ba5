// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

// Extracted contract facts. Each fact kind is an explicit record rather than
// an ad hoc string match, so repair transforms can be parameterized without
// re-deriving anything from raw text.

// CollaboratorField is an injected dependency field discovered in a unit,
// e.g. an @Autowired repository.
type CollaboratorField struct {
	// Type is the declared field type (e.g. "OrderRepository").
	Type string

	// VarName is the field name the artifact should stub (e.g. "orderRepo").
	VarName string
}

// NumericGuard is a validation guard comparing against a literal ceiling,
// e.g. `if (quantity * price > 1000)`.
type NumericGuard struct {
	Ceiling float64
}

// EnumUsage is a Type.CONSTANT reference discovered in a unit, resolved
// against the declaring unit's package when a declaration exists.
type EnumUsage struct {
	// Enum is the enum type name (e.g. "OrderStatus").
	Enum string

	// Constant is the referenced constant (e.g. "COMPLETED").
	Constant string

	// Package is the declaring unit's package, empty when no declaration
	// was found anywhere in the run.
	Package string
}

// FactSet is the closed set of contract facts for one run.
//
// Absence of a fact is not an error: every repair transform keyed on a
// missing fact degrades to a no-op.
type FactSet struct {
	// Collaborator is the first injected dependency field found, nil when
	// no unit declares one.
	Collaborator *CollaboratorField

	// Guard is the first numeric ceiling guard found, nil when absent.
	Guard *NumericGuard

	// Enum is the first enum usage found, nil when absent.
	Enum *EnumUsage

	// DoubleMembers lists member names declaring a floating-point return
	// type, across all units, without duplicates.
	DoubleMembers []string

	// Entities lists the component names of model-kind units. Construction
	// canonicalization applies only to these.
	Entities []string

	// EnumDecls maps declared enum type names to their constants.
	EnumDecls map[string][]string

	// UsesBigDecimal is true when any unit types money fields with the
	// precision-decimal class.
	UsesBigDecimal bool
}

// HasDoubleMember reports whether name was discovered as a floating-point
// returning member.
func (f *FactSet) HasDoubleMember(name string) bool {
	for _, m := range f.DoubleMembers {
		if m == name {
			return true
		}
	}
	return false
}
