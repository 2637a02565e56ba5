// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package oracle

import (
	"context"
	"sync"
	"time"
)

// MockClient is a scriptable oracle for tests.
//
// Thread Safety:
//
//	MockClient is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// responses are queued responses returned in order.
	responses []string

	// defaultResponse is returned when no queued responses remain.
	defaultResponse string

	// responseFunc allows dynamic response generation; takes precedence
	// over queued responses when set.
	responseFunc func(system, user string) (string, error)

	// errorToReturn causes Generate to fail.
	errorToReturn error

	// calls records every call to Generate.
	calls []GenerateCall
}

// GenerateCall records one call to Generate.
type GenerateCall struct {
	System    string
	User      string
	Timestamp time.Time
}

// NewMockClient creates a mock oracle with a generic default response.
func NewMockClient() *MockClient {
	return &MockClient{defaultResponse: "// mock artifact"}
}

// WithResponses queues responses to return in order.
func (c *MockClient) WithResponses(responses ...string) *MockClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, responses...)
	return c
}

// WithDefaultResponse sets the response used when the queue is empty.
func (c *MockClient) WithDefaultResponse(response string) *MockClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultResponse = response
	return c
}

// WithResponseFunc sets a dynamic response generator.
func (c *MockClient) WithResponseFunc(fn func(system, user string) (string, error)) *MockClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseFunc = fn
	return c
}

// WithError makes every Generate call fail with err.
func (c *MockClient) WithError(err error) *MockClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorToReturn = err
	return c
}

// Generate implements the engine's Oracle interface.
func (c *MockClient) Generate(ctx context.Context, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, GenerateCall{System: system, User: user, Timestamp: time.Now()})

	if c.errorToReturn != nil {
		return "", c.errorToReturn
	}
	if c.responseFunc != nil {
		return c.responseFunc(system, user)
	}
	if len(c.responses) > 0 {
		resp := c.responses[0]
		c.responses = c.responses[1:]
		return resp, nil
	}
	return c.defaultResponse, nil
}

// Calls returns a copy of all recorded calls.
func (c *MockClient) Calls() []GenerateCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]GenerateCall, len(c.calls))
	copy(out, c.calls)
	return out
}

// CallCount returns the number of Generate calls made.
func (c *MockClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}
