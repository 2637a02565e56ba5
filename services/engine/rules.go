// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import "regexp"

// Rules are declared as data, not code. One engine serves any target domain
// whose contract can be phrased as ordered required and forbidden patterns;
// new domains are a new RuleSet, not new code.

// Rule is one required or forbidden pattern with its violation message and
// the examples the prompt builder renders for the oracle.
type Rule struct {
	// Pattern is the structural pattern the artifact is checked against.
	Pattern *regexp.Regexp

	// Message is the violation message appended when the rule is not
	// satisfied (required: zero matches; forbidden: any match).
	Message string

	// Allowed exempts forbidden matches whose first capture group equals
	// one of these values. Empty means every match violates.
	Allowed []string

	// Good is a concrete correct example rendered into the prompt.
	Good string

	// Bad is a concrete incorrect example rendered into the prompt for
	// forbidden rules.
	Bad string
}

// RuleSet is the ordered contract rule set. Order is preserved into
// violation messages and prompt rendering.
type RuleSet struct {
	Required  []Rule
	Forbidden []Rule
}

// approvedCollaboratorMethods are the only repository methods an artifact
// may stub or call.
var approvedCollaboratorMethods = []string{"findAll", "findById", "save", "deleteById"}

// SpringRuleSet returns the default contract for Spring-style targets:
// integration-test marker, bean-style construction, and an allowlist of
// collaborator methods.
func SpringRuleSet() RuleSet {
	return RuleSet{
		Required: []Rule{
			{
				Pattern: regexp.MustCompile(`@SpringBootTest`),
				Message: "Missing: @SpringBootTest",
				Good:    "@SpringBootTest\n@AutoConfigureMockMvc\npublic class OrderControllerTest { ... }",
			},
			{
				Pattern: regexp.MustCompile(`new\s+[A-Z]\w*\s*\(\s*\)`),
				Message: "Missing: no-argument entity construction followed by property setters",
				Good:    "Order order = new Order();\norder.setCustomerName(\"Alice\");\norder.setQuantity(2);",
			},
		},
		Forbidden: []Rule{
			{
				Pattern: regexp.MustCompile(`new\s+[A-Z]\w*\s*\(\s*[^)\s][^)]*\)`),
				Message: "Must not call multi-argument construction; build entities with the no-argument constructor and setters",
				Good:    "Order order = new Order();\norder.setQuantity(2);",
				Bad:     "Order order = new Order(1L, \"Alice\", 2);",
			},
			{
				Pattern: regexp.MustCompile(`(?i)\w*repo\w*\.(\w+)\s*\(`),
				Message: "Must not stub or call unapproved collaborator methods (approved: findAll, findById, save, deleteById)",
				Allowed: approvedCollaboratorMethods,
				Good:    "when(orderRepo.findAll()).thenReturn(List.of(order1));",
				Bad:     "when(orderRepo.deleteAll()).thenReturn(null);",
			},
		},
	}
}
