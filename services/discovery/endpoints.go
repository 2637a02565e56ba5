// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package discovery

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/testforge-ai/testforge/services/engine"
)

// EndpointDescriptor is the structured alternative to raw source files: one
// HTTP endpoint extracted by an upstream static-analysis pass. Descriptors
// are validated at ingestion; a malformed descriptor never reaches the
// engine.
type EndpointDescriptor struct {
	Path       string              `json:"path" validate:"required,startswith=/"`
	Method     string              `json:"method" validate:"required,oneof=GET POST PUT PATCH DELETE"`
	Parameters []EndpointParameter `json:"parameters" validate:"dive"`
	Response   ResponseShape       `json:"response"`
}

// EndpointParameter describes one endpoint parameter.
type EndpointParameter struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type"`
	In       string `json:"in" validate:"omitempty,oneof=path query body"`
	Required bool   `json:"required"`
}

// ResponseShape describes the endpoint response.
type ResponseShape struct {
	Type string `json:"type"`
}

var validate = validator.New()

// LoadEndpoints reads and validates a descriptor file.
func LoadEndpoints(path string) ([]EndpointDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoint descriptors: %w", err)
	}
	var descriptors []EndpointDescriptor
	if err := json.Unmarshal(data, &descriptors); err != nil {
		return nil, fmt.Errorf("parse endpoint descriptors: %w", err)
	}
	if err := ValidateDescriptors(descriptors); err != nil {
		return nil, err
	}
	return descriptors, nil
}

// ValidateDescriptors checks every descriptor's structural constraints.
func ValidateDescriptors(descriptors []EndpointDescriptor) error {
	for i, d := range descriptors {
		if err := validate.Struct(d); err != nil {
			return fmt.Errorf("endpoint descriptor %d (%s %s) invalid: %w", i, d.Method, d.Path, err)
		}
	}
	return nil
}

// ToSourceUnit converts the descriptor into the uniform unit shape.
//
// The component name is derived deterministically from path and method
// (`/api/orders/{id}` GET becomes ApiOrdersIdGet), so the destination key
// is stable across runs.
func (d EndpointDescriptor) ToSourceUnit() engine.SourceUnit {
	var text strings.Builder
	fmt.Fprintf(&text, "Path: %s\n", d.Path)
	fmt.Fprintf(&text, "Method: %s\n", d.Method)
	if len(d.Parameters) > 0 {
		params, _ := json.MarshalIndent(d.Parameters, "", "  ")
		fmt.Fprintf(&text, "Parameters: %s\n", params)
	}
	fmt.Fprintf(&text, "Response Type: %s\n", d.Response.Type)

	return engine.SourceUnit{
		Path:      d.Method + " " + d.Path,
		Component: componentName(d.Path, d.Method),
		Kind:      engine.KindController,
		Text:      text.String(),
	}
}

// componentName camel-cases the path segments and appends the title-cased
// method.
func componentName(path, method string) string {
	var sb strings.Builder
	for _, seg := range strings.Split(path, "/") {
		seg = strings.Trim(seg, "{}")
		if seg == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(seg[:1]))
		sb.WriteString(seg[1:])
	}
	m := strings.ToLower(method)
	sb.WriteString(strings.ToUpper(m[:1]))
	sb.WriteString(m[1:])
	return sb.String()
}
