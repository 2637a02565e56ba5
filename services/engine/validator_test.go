// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"reflect"
	"strings"
	"testing"
)

const validTestClass = `package com.example.orders;

@SpringBootTest
public class OrderControllerTest {
    @Test
    void createsOrder() {
        Order order = new Order();
        order.setCustomerName("Alice");
    }
}`

func TestValidate_Accepts(t *testing.T) {
	res := Validate(validTestClass, SpringRuleSet(), 3)
	if !res.Valid {
		t.Fatalf("Valid = false, violations: %v", res.Violations)
	}
	if len(res.Violations) != 0 || len(res.OffendingSnippets) != 0 || res.TruncatedSnippets != 0 {
		t.Errorf("clean artifact produced findings: %+v", res)
	}
}

func TestValidate_RequiredRules(t *testing.T) {
	t.Run("missing integration marker", func(t *testing.T) {
		text := strings.Replace(validTestClass, "@SpringBootTest\n", "", 1)
		res := Validate(text, SpringRuleSet(), 3)
		if res.Valid {
			t.Fatal("Valid = true, want false")
		}
		want := []string{"Missing: @SpringBootTest"}
		if !reflect.DeepEqual(res.Violations, want) {
			t.Errorf("Violations = %v, want %v", res.Violations, want)
		}
	})

	t.Run("missing no-argument construction", func(t *testing.T) {
		text := strings.Replace(validTestClass, "Order order = new Order();", "", 1)
		res := Validate(text, SpringRuleSet(), 3)
		if res.Valid {
			t.Fatal("Valid = true, want false")
		}
		if len(res.Violations) != 1 || !strings.Contains(res.Violations[0], "no-argument entity construction") {
			t.Errorf("Violations = %v", res.Violations)
		}
	})
}

// TestValidate_DeduplicatesViolations feeds two distinct multi-argument
// constructions through one forbidden rule: one message, both snippets.
func TestValidate_DeduplicatesViolations(t *testing.T) {
	text := validTestClass + `
        Order bad1 = new Order(1L, "Alice", 2);
        Order bad2 = new Order(2L, "Bob", 3);`

	res := Validate(text, SpringRuleSet(), 3)
	if res.Valid {
		t.Fatal("Valid = true, want false")
	}
	if len(res.Violations) != 1 {
		t.Fatalf("Violations = %v, want exactly 1 deduplicated message", res.Violations)
	}
	if !strings.Contains(res.Violations[0], "multi-argument construction") {
		t.Errorf("Violations[0] = %q", res.Violations[0])
	}
	want := []string{`new Order(1L, "Alice", 2)`, `new Order(2L, "Bob", 3)`}
	if !reflect.DeepEqual(res.OffendingSnippets, want) {
		t.Errorf("OffendingSnippets = %v, want %v", res.OffendingSnippets, want)
	}
}

func TestValidate_RepeatedSnippetRecordedOnce(t *testing.T) {
	text := validTestClass + `
        Order bad1 = new Order(1L, "Alice", 2);
        Order bad2 = new Order(1L, "Alice", 2);`

	res := Validate(text, SpringRuleSet(), 3)
	if len(res.OffendingSnippets) != 1 {
		t.Errorf("OffendingSnippets = %v, want 1 distinct snippet", res.OffendingSnippets)
	}
	if res.TruncatedSnippets != 0 {
		t.Errorf("TruncatedSnippets = %d, want 0", res.TruncatedSnippets)
	}
}

func TestValidate_SnippetCap(t *testing.T) {
	text := validTestClass + `
        Order b1 = new Order(1L, "A", 1);
        Order b2 = new Order(2L, "B", 2);
        Order b3 = new Order(3L, "C", 3);
        Order b4 = new Order(4L, "D", 4);
        Order b5 = new Order(5L, "E", 5);`

	res := Validate(text, SpringRuleSet(), 3)
	if len(res.OffendingSnippets) != 3 {
		t.Errorf("OffendingSnippets = %v, want 3", res.OffendingSnippets)
	}
	if res.TruncatedSnippets != 2 {
		t.Errorf("TruncatedSnippets = %d, want 2", res.TruncatedSnippets)
	}

	t.Run("cap below one is raised to one", func(t *testing.T) {
		res := Validate(text, SpringRuleSet(), 0)
		if len(res.OffendingSnippets) != 1 {
			t.Errorf("OffendingSnippets = %v, want 1", res.OffendingSnippets)
		}
		if res.TruncatedSnippets != 4 {
			t.Errorf("TruncatedSnippets = %d, want 4", res.TruncatedSnippets)
		}
	})
}

func TestValidate_CollaboratorAllowlist(t *testing.T) {
	t.Run("approved methods pass", func(t *testing.T) {
		text := validTestClass + `
        when(orderRepo.findAll()).thenReturn(List.of(order));
        when(orderRepo.findById(1L)).thenReturn(Optional.of(order));
        when(orderRepo.save(order)).thenReturn(order);`
		res := Validate(text, SpringRuleSet(), 3)
		if !res.Valid {
			t.Errorf("Valid = false, violations: %v", res.Violations)
		}
	})

	t.Run("unapproved method fails", func(t *testing.T) {
		text := validTestClass + `
        orderRepo.deleteAll();`
		res := Validate(text, SpringRuleSet(), 3)
		if res.Valid {
			t.Fatal("Valid = true, want false")
		}
		if len(res.Violations) != 1 || !strings.Contains(res.Violations[0], "unapproved collaborator methods") {
			t.Errorf("Violations = %v", res.Violations)
		}
		if len(res.OffendingSnippets) != 1 || !strings.Contains(res.OffendingSnippets[0], "deleteAll") {
			t.Errorf("OffendingSnippets = %v", res.OffendingSnippets)
		}
	})
}

// TestValidate_Pure checks that validation never mutates its inputs and is
// stable across calls.
func TestValidate_Pure(t *testing.T) {
	rules := SpringRuleSet()
	text := validTestClass + "\nOrder bad = new Order(1L, \"A\", 1);"

	first := Validate(text, rules, 3)
	second := Validate(text, rules, 3)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated validation diverged:\nfirst: %+v\nsecond: %+v", first, second)
	}
}
