// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"fmt"
	"strings"
)

// DefaultSystemPrompt frames every oracle request. The response format
// demand matches what ExtractCode strips.
const DefaultSystemPrompt = `You are an expert Java/Maven/Mockito developer.
Write a complete JUnit 5 test class for the class you are given.
Use Mockito for collaborators and follow every structural requirement listed in the request exactly.
Return ONLY Java code inside one ` + "```java block." + `
`

// BuildPrompt renders the generation instructions for one unit.
//
// Description:
//
//	Pure and deterministic: the same unit, contract model and feedback
//	always yield the same instruction text. Embeds the unit's raw text,
//	every required construct with a correct example, every forbidden
//	construct with an incorrect and a corrected example, and — on retry —
//	the verbatim violation messages of the immediately preceding attempt
//	only, never cumulative history.
func BuildPrompt(unit SourceUnit, model *ContractModel, previousViolations []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate `%sTest` for the class below.\n\n", unit.Component)
	sb.WriteString("```java\n")
	sb.WriteString(unit.Text)
	sb.WriteString("\n```\n\n")

	sb.WriteString("The generated test class MUST satisfy all of these requirements:\n")
	for i, rule := range model.Rules.Required {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, strings.TrimPrefix(rule.Message, "Missing: "))
		if rule.Good != "" {
			sb.WriteString("   Correct example:\n")
			writeIndented(&sb, rule.Good)
		}
	}
	sb.WriteString("\nThe generated test class MUST NOT contain any of these constructs:\n")
	for i, rule := range model.Rules.Forbidden {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, rule.Message)
		if rule.Bad != "" {
			sb.WriteString("   Incorrect example:\n")
			writeIndented(&sb, rule.Bad)
		}
		if rule.Good != "" {
			sb.WriteString("   Correct example:\n")
			writeIndented(&sb, rule.Good)
		}
	}

	if model.Facts.Guard != nil {
		fmt.Fprintf(&sb, "\nAll monetary totals must stay at or below %.0f; larger values are rejected by the service.\n",
			model.Facts.Guard.Ceiling)
	}
	if model.Facts.Enum != nil {
		fmt.Fprintf(&sb, "Set the entity status with %s.%s where a status is needed.\n",
			model.Facts.Enum.Enum, model.Facts.Enum.Constant)
	}

	if len(previousViolations) > 0 {
		sb.WriteString("\nYour previous attempt violated the contract. Fix every one of these violations:\n")
		for _, v := range previousViolations {
			fmt.Fprintf(&sb, "- %s\n", v)
		}
	}

	return sb.String()
}

func writeIndented(sb *strings.Builder, block string) {
	for _, line := range strings.Split(block, "\n") {
		sb.WriteString("       ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}
