// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testforge-ai/testforge/services/engine"
)

func TestLoadEndpoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.json")
	payload := `[
		{
			"path": "/api/orders",
			"method": "POST",
			"parameters": [{"name": "body", "type": "Order", "in": "body", "required": true}],
			"response": {"type": "Order"}
		},
		{
			"path": "/api/orders/{id}",
			"method": "GET",
			"parameters": [{"name": "id", "type": "Long", "in": "path", "required": true}],
			"response": {"type": "Order"}
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0640))

	descriptors, err := LoadEndpoints(path)
	require.NoError(t, err)
	require.Len(t, descriptors, 2)
	assert.Equal(t, "/api/orders", descriptors[0].Path)
	assert.Equal(t, "GET", descriptors[1].Method)

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadEndpoints(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0640))
		_, err := LoadEndpoints(bad)
		assert.Error(t, err)
	})
}

func TestValidateDescriptors(t *testing.T) {
	tests := []struct {
		name       string
		descriptor EndpointDescriptor
		wantErr    bool
	}{
		{
			name:       "valid",
			descriptor: EndpointDescriptor{Path: "/api/orders", Method: "GET"},
			wantErr:    false,
		},
		{
			name:       "missing path",
			descriptor: EndpointDescriptor{Method: "GET"},
			wantErr:    true,
		},
		{
			name:       "relative path",
			descriptor: EndpointDescriptor{Path: "api/orders", Method: "GET"},
			wantErr:    true,
		},
		{
			name:       "unknown method",
			descriptor: EndpointDescriptor{Path: "/api/orders", Method: "FETCH"},
			wantErr:    true,
		},
		{
			name: "unnamed parameter",
			descriptor: EndpointDescriptor{
				Path:       "/api/orders",
				Method:     "GET",
				Parameters: []EndpointParameter{{Type: "Long"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDescriptors([]EndpointDescriptor{tt.descriptor})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEndpointDescriptor_ToSourceUnit(t *testing.T) {
	d := EndpointDescriptor{
		Path:       "/api/orders/{id}",
		Method:     "GET",
		Parameters: []EndpointParameter{{Name: "id", Type: "Long", In: "path", Required: true}},
		Response:   ResponseShape{Type: "Order"},
	}

	unit := d.ToSourceUnit()
	assert.Equal(t, "ApiOrdersIdGet", unit.Component)
	assert.Equal(t, engine.KindController, unit.Kind)
	assert.Equal(t, "GET /api/orders/{id}", unit.Path)
	assert.Empty(t, unit.Package)
	assert.Contains(t, unit.Text, "Path: /api/orders/{id}")
	assert.Contains(t, unit.Text, "Method: GET")
	assert.Contains(t, unit.Text, "Response Type: Order")

	t.Run("deterministic destination", func(t *testing.T) {
		assert.Equal(t, "ApiOrdersIdGetTest.java", unit.DestinationKey())
	})
}

func TestComponentName(t *testing.T) {
	tests := []struct {
		path   string
		method string
		want   string
	}{
		{"/api/orders", "POST", "ApiOrdersPost"},
		{"/api/orders/{id}", "GET", "ApiOrdersIdGet"},
		{"/", "GET", "Get"},
		{"/api/orders/{id}/items", "DELETE", "ApiOrdersIdItemsDelete"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, componentName(tt.path, tt.method), "%s %s", tt.method, tt.path)
	}
}
