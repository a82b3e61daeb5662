// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/CampusGraph/pkg/logging"
	"github.com/AleutianAI/CampusGraph/services/gateway/observability"
	"github.com/AleutianAI/CampusGraph/services/sync"
)

// SyncRunner triggers one reconciliation pass.
type SyncRunner interface {
	Run(ctx context.Context) (*sync.RunSummary, error)
}

// HandleSyncRun serves POST /api/v1/sync/run. The run is synchronous:
// the response carries the per-stage summary, or the partial summary of
// an aborted run.
func HandleSyncRun(runner SyncRunner, log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := gatewayTracer.Start(c.Request.Context(), "HandleSyncRun")
		defer span.End()
		started := time.Now()

		summary, err := runner.Run(ctx)
		if summary != nil {
			for _, st := range summary.Stages {
				observability.DefaultMetrics.ObserveSyncStage(st.Stage, st.Rows, st.Duration)
			}
		}
		if err != nil {
			observability.DefaultMetrics.SyncRunsTotal.WithLabelValues("error").Inc()
			observability.DefaultMetrics.ObserveRequest("sync", "error", time.Since(started))
			if log != nil {
				log.Error("sync run failed", "error", err)
			}
			status := http.StatusServiceUnavailable
			msg := "upstream store unavailable"
			if errors.Is(err, sync.ErrMissingDependency) {
				// The relational source is internally inconsistent;
				// retrying will not help until it is repaired.
				status = http.StatusInternalServerError
				msg = "relational source references a missing parent"
			}
			c.JSON(status, gin.H{"error": msg, "summary": summary})
			return
		}

		observability.DefaultMetrics.SyncRunsTotal.WithLabelValues("success").Inc()
		observability.DefaultMetrics.ObserveRequest("sync", "success", time.Since(started))
		c.JSON(http.StatusOK, gin.H{"status": "ok", "summary": summary})
	}
}
