// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/testforge-ai/testforge/services/discovery"
	"github.com/testforge-ai/testforge/services/engine"
)

// GenerateRequest is the body of POST /v1/testforge/generate.
type GenerateRequest struct {
	Endpoints []discovery.EndpointDescriptor `json:"endpoints"`
}

// UnitStatus is one unit's terminal disposition.
type UnitStatus struct {
	Unit       string   `json:"unit"`
	Outcome    string   `json:"outcome"`
	Attempts   int      `json:"attempts"`
	Violations []string `json:"violations,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// GenerateResponse is the run summary returned to the caller.
type GenerateResponse struct {
	RunID     string       `json:"run_id"`
	Accepted  int          `json:"accepted"`
	Exhausted int          `json:"exhausted"`
	Failed    int          `json:"failed"`
	Units     []UnitStatus `json:"units"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Handlers holds the HTTP handlers for the generation service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates the handlers.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleGenerate handles POST /v1/testforge/generate.
//
// Response:
//
//	200 OK: GenerateResponse
//	400 Bad Request: malformed body or invalid descriptors
//	500 Internal Server Error: run failed before producing a summary
func (h *Handlers) HandleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	if len(req.Endpoints) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "At least one endpoint is required", Code: "EMPTY_REQUEST"})
		return
	}
	if err := discovery.ValidateDescriptors(req.Endpoints); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_DESCRIPTOR"})
		return
	}

	summary, err := h.svc.GenerateFromEndpoints(c.Request.Context(), req.Endpoints)
	if err != nil {
		slog.Error("Generation run failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "RUN_FAILED"})
		return
	}

	c.JSON(http.StatusOK, toResponse(summary))
}

// HandleHealth handles GET /v1/testforge/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleReady handles GET /v1/testforge/ready.
func (h *Handlers) HandleReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func toResponse(summary *engine.Summary) GenerateResponse {
	resp := GenerateResponse{
		RunID:     summary.RunID,
		Accepted:  summary.Accepted,
		Exhausted: summary.Exhausted,
		Failed:    summary.Failed,
	}
	for _, res := range summary.Results {
		status := UnitStatus{
			Unit:    res.Unit.ID(),
			Outcome: res.Outcome.String(),
		}
		if res.Final != nil {
			status.Attempts = res.Final.Index
		}
		if len(res.Violations) > 0 {
			status.Violations = res.Violations
		}
		if res.Err != nil {
			status.Error = res.Err.Error()
		}
		resp.Units = append(resp.Units, status)
	}
	return resp
}
