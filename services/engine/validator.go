// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

// Validate classifies artifact text against a contract rule set.
//
// Description:
//
//	Pure function: no side effects, no mutation of inputs, and no errors —
//	malformed text simply fails more required rules. Violation messages and
//	offending snippets are deduplicated in first-occurrence order, snippets
//	capped at snippetCap with excess distinct matches counted in
//	TruncatedSnippets.
//
// Inputs:
//
//	text - Artifact text to classify
//	rules - Ordered required and forbidden rules
//	snippetCap - Maximum stored offending snippets (values < 1 mean 1)
//
// Outputs:
//
//	ValidationResult - Valid is true iff every required pattern matched at
//	least once and no forbidden pattern matched.
func Validate(text string, rules RuleSet, snippetCap int) ValidationResult {
	if snippetCap < 1 {
		snippetCap = 1
	}

	res := ValidationResult{}
	seenMessage := make(map[string]bool)
	seenSnippet := make(map[string]bool)

	appendMessage := func(msg string) {
		if !seenMessage[msg] {
			seenMessage[msg] = true
			res.Violations = append(res.Violations, msg)
		}
	}

	for _, rule := range rules.Required {
		if !rule.Pattern.MatchString(text) {
			appendMessage(rule.Message)
		}
	}

	for _, rule := range rules.Forbidden {
		for _, match := range rule.Pattern.FindAllStringSubmatch(text, -1) {
			if len(rule.Allowed) > 0 && len(match) > 1 && containsString(rule.Allowed, match[1]) {
				continue
			}
			appendMessage(rule.Message)

			snippet := match[0]
			if seenSnippet[snippet] {
				continue
			}
			seenSnippet[snippet] = true
			if len(res.OffendingSnippets) < snippetCap {
				res.OffendingSnippets = append(res.OffendingSnippets, snippet)
			} else {
				res.TruncatedSnippets++
			}
		}
	}

	res.Valid = len(res.Violations) == 0
	return res
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
