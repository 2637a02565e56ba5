// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all testforge routes with the router group.
//
// Endpoints:
//
//	POST /v1/testforge/generate - Generate tests for endpoint descriptors
//	GET  /v1/testforge/health - Health check
//	GET  /v1/testforge/ready - Readiness check
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	testforge := rg.Group("/testforge")
	{
		testforge.POST("/generate", handlers.HandleGenerate)
		testforge.GET("/health", handlers.HandleHealth)
		testforge.GET("/ready", handlers.HandleReady)
	}
}
