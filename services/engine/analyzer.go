// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Extraction patterns. These mirror the structural conventions of the target
// project family (field injection annotations, literal ceiling guards,
// floating-point member signatures, enum constant references).
var (
	injectedFieldPattern = regexp.MustCompile(`@Autowired\s+private\s+(\w+Repository)\s+(\w+);`)
	ceilingGuardPattern  = regexp.MustCompile(`if\s*\(.*>\s*(\d+(?:\.\d+)?)\s*\)`)
	doubleMemberPattern  = regexp.MustCompile(`(?:public|protected|private)\s+(?:static\s+)?(?:Double|double)\s+(\w+)\s*\(`)
	enumUsagePattern     = regexp.MustCompile(`(\w+Status)\.(\w+)`)
	enumDeclPattern      = regexp.MustCompile(`enum\s+(\w+Status)\s*\{([^}]*)}`)
	packageDeclPattern   = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+);`)
)

// Analyzer extracts contract facts from the raw text of all discovered
// source units.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Extract derives the run's FactSet from all units.
//
// Description:
//
//	Single-kind facts (collaborator field, ceiling guard, enum usage) take
//	the first occurrence across units in input order; enum usage is assumed
//	present in at most one meaningfully distinct form per run. Multi-valued
//	facts (floating-point members, entity names, enum declarations) are
//	unioned across units.
//
//	A fact referencing two units — an enum used in one unit and declared
//	in another — is resolved here: the first declaration whose type name
//	matches the usage contributes its package.
func (a *Analyzer) Extract(units []SourceUnit) FactSet {
	facts := FactSet{EnumDecls: make(map[string][]string)}
	seen := make(map[string]bool)

	for _, u := range units {
		if facts.Collaborator == nil {
			if m := injectedFieldPattern.FindStringSubmatch(u.Text); m != nil {
				facts.Collaborator = &CollaboratorField{Type: m[1], VarName: m[2]}
			}
		}

		if facts.Guard == nil {
			if m := ceilingGuardPattern.FindStringSubmatch(u.Text); m != nil {
				if ceiling, err := strconv.ParseFloat(m[1], 64); err == nil {
					facts.Guard = &NumericGuard{Ceiling: ceiling}
				}
			}
		}

		for _, m := range doubleMemberPattern.FindAllStringSubmatch(u.Text, -1) {
			if !seen["double:"+m[1]] {
				seen["double:"+m[1]] = true
				facts.DoubleMembers = append(facts.DoubleMembers, m[1])
			}
		}

		for _, m := range enumDeclPattern.FindAllStringSubmatch(u.Text, -1) {
			if _, ok := facts.EnumDecls[m[1]]; !ok {
				facts.EnumDecls[m[1]] = splitConstants(m[2])
			}
		}

		if u.Kind == KindModel && !seen["entity:"+u.Component] {
			seen["entity:"+u.Component] = true
			facts.Entities = append(facts.Entities, u.Component)
		}

		if strings.Contains(u.Text, "BigDecimal") {
			facts.UsesBigDecimal = true
		}
	}

	// Enum usage is resolved after declarations so the declaring package is
	// available regardless of unit order.
	for _, u := range units {
		m := enumUsagePattern.FindStringSubmatch(u.Text)
		if m == nil {
			continue
		}
		usage := &EnumUsage{Enum: m[1], Constant: m[2]}
		usage.Package = a.findDeclaringPackage(units, usage.Enum)
		facts.Enum = usage
		break
	}

	a.logger.Debug("Extracted contract facts",
		slog.Bool("collaborator", facts.Collaborator != nil),
		slog.Bool("guard", facts.Guard != nil),
		slog.Bool("enum", facts.Enum != nil),
		slog.Int("double_members", len(facts.DoubleMembers)),
		slog.Int("entities", len(facts.Entities)),
		slog.Bool("big_decimal", facts.UsesBigDecimal),
	)

	return facts
}

// findDeclaringPackage locates the package of the unit declaring enumName.
// First declaration found wins; empty when undeclared in this run.
func (a *Analyzer) findDeclaringPackage(units []SourceUnit, enumName string) string {
	for _, u := range units {
		for _, m := range enumDeclPattern.FindAllStringSubmatch(u.Text, -1) {
			if m[1] == enumName {
				if pm := packageDeclPattern.FindStringSubmatch(u.Text); pm != nil {
					return pm[1]
				}
				return u.Package
			}
		}
	}
	return ""
}

func splitConstants(body string) []string {
	var out []string
	for _, c := range strings.Split(body, ",") {
		c = strings.TrimSpace(c)
		// Constant lists may end with a semicolon before enum members.
		c = strings.TrimSuffix(c, ";")
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
