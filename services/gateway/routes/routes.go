// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/CampusGraph/pkg/config"
	"github.com/AleutianAI/CampusGraph/pkg/logging"
	"github.com/AleutianAI/CampusGraph/services/gateway/handlers"
	"github.com/AleutianAI/CampusGraph/services/gateway/middleware"
)

// SetupRoutes wires the gateway's endpoints. /health and /metrics are
// open; everything under /api/v1 requires basic auth.
func SetupRoutes(router *gin.Engine, cfg config.Gateway, svc handlers.ReportService,
	runner handlers.SyncRunner, stores map[string]handlers.Pinger, log *logging.Logger) {

	router.Use(otelgin.Middleware("campusgraph-gateway"))
	router.Use(middleware.RequestID())

	router.GET("/health", handlers.HandleHealth(stores))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.BasicAuth(cfg.User, cfg.Password))
	{
		reports := v1.Group("/reports")
		{
			reports.POST("/attendance", handlers.HandleAttendanceReport(svc, log))
			reports.POST("/audience", handlers.HandleAudienceReport(svc, log))
			reports.POST("/group", handlers.HandleGroupReport(svc, log))
		}
		v1.POST("/sync/run", handlers.HandleSyncRun(runner, log))
	}
}
