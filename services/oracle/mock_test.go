// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package oracle

import (
	"context"
	"errors"
	"testing"
)

func TestMockClient_QueuedResponses(t *testing.T) {
	client := NewMockClient().WithResponses("first", "second")

	got, err := client.Generate(context.Background(), "sys", "user")
	if err != nil || got != "first" {
		t.Errorf("Generate() = %q, %v, want first", got, err)
	}
	got, _ = client.Generate(context.Background(), "sys", "user")
	if got != "second" {
		t.Errorf("Generate() = %q, want second", got)
	}

	// Queue drained: fall back to the default.
	got, _ = client.Generate(context.Background(), "sys", "user")
	if got != "// mock artifact" {
		t.Errorf("Generate() = %q, want default response", got)
	}
}

func TestMockClient_DefaultResponse(t *testing.T) {
	client := NewMockClient().WithDefaultResponse("custom")
	got, _ := client.Generate(context.Background(), "sys", "user")
	if got != "custom" {
		t.Errorf("Generate() = %q, want custom", got)
	}
}

func TestMockClient_ResponseFunc(t *testing.T) {
	client := NewMockClient().WithResponseFunc(func(system, user string) (string, error) {
		return "echo:" + user, nil
	})
	got, _ := client.Generate(context.Background(), "sys", "hello")
	if got != "echo:hello" {
		t.Errorf("Generate() = %q, want echo:hello", got)
	}
}

func TestMockClient_Error(t *testing.T) {
	wantErr := errors.New("transport down")
	client := NewMockClient().WithError(wantErr)

	_, err := client.Generate(context.Background(), "sys", "user")
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	// Failed calls are still recorded.
	if client.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1", client.CallCount())
	}
}

func TestMockClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewMockClient()
	_, err := client.Generate(ctx, "sys", "user")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if client.CallCount() != 0 {
		t.Errorf("CallCount = %d, want 0 for a cancelled call", client.CallCount())
	}
}

func TestMockClient_RecordsCalls(t *testing.T) {
	client := NewMockClient()
	_, _ = client.Generate(context.Background(), "system prompt", "user prompt")

	calls := client.Calls()
	if len(calls) != 1 {
		t.Fatalf("Calls = %d, want 1", len(calls))
	}
	if calls[0].System != "system prompt" || calls[0].User != "user prompt" {
		t.Errorf("recorded call = %+v", calls[0])
	}
	if calls[0].Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
}
