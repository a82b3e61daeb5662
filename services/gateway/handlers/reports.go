// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the gateway's HTTP endpoints. Handlers
// are closures over their collaborators so tests can inject fakes; all
// date parsing and range validation happens here, before the core is
// consulted.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/CampusGraph/pkg/logging"
	"github.com/AleutianAI/CampusGraph/services/gateway/datatypes"
	"github.com/AleutianAI/CampusGraph/services/gateway/observability"
	"github.com/AleutianAI/CampusGraph/services/reports"
)

var gatewayTracer = otel.Tracer("campusgraph.services.gateway")

const dateLayout = "2006-01-02"

// ReportService is the slice of the reports core the gateway needs.
type ReportService interface {
	Attendance(ctx context.Context, term string, start, end time.Time) ([]reports.AttendanceReportRow, error)
	Group(ctx context.Context, groupID int64) ([]reports.GroupReportRow, error)
	Audience(ctx context.Context, year, semester int) ([]reports.AudienceRow, error)
}

// HandleAttendanceReport serves POST /api/v1/reports/attendance.
//
// 404 means the term matched no lectures at all. When lectures matched
// but the window held no qualifying students, the report is a valid
// empty one and the answer is 200.
func HandleAttendanceReport(svc ReportService, log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := gatewayTracer.Start(c.Request.Context(), "HandleAttendanceReport")
		defer span.End()
		started := time.Now()

		var req datatypes.AttendanceReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			observability.DefaultMetrics.ObserveRequest("attendance", "invalid", time.Since(started))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		span.SetAttributes(attribute.String("term", req.Term))

		// Binding guarantees the layout, so these cannot fail.
		start, _ := time.Parse(dateLayout, req.StartDate)
		end, _ := time.Parse(dateLayout, req.EndDate)

		rows, err := svc.Attendance(ctx, req.Term, start, end)
		if errors.Is(err, reports.ErrNoCandidates) {
			observability.DefaultMetrics.ObserveRequest("attendance", "not_found", time.Since(started))
			c.JSON(http.StatusNotFound, gin.H{"error": "No lectures found for the term"})
			return
		}
		if err != nil {
			writeReportError(c, log, "attendance", started, err)
			return
		}
		if rows == nil {
			rows = []reports.AttendanceReportRow{}
		}

		observability.DefaultMetrics.ObserveRequest("attendance", "success", time.Since(started))
		c.JSON(http.StatusOK, datatypes.ReportResponse{
			Report: rows,
			Meta:   datatypes.ReportMeta{Status: "ok", Count: len(rows)},
		})
	}
}

// HandleAudienceReport serves POST /api/v1/reports/audience. An empty
// semester is a valid empty report.
func HandleAudienceReport(svc ReportService, log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := gatewayTracer.Start(c.Request.Context(), "HandleAudienceReport")
		defer span.End()
		started := time.Now()

		var req datatypes.AudienceReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			observability.DefaultMetrics.ObserveRequest("audience", "invalid", time.Since(started))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		span.SetAttributes(
			attribute.Int("year", req.Year),
			attribute.Int("semester", req.Semester))

		rows, err := svc.Audience(ctx, req.Year, req.Semester)
		if err != nil {
			writeReportError(c, log, "audience", started, err)
			return
		}

		observability.DefaultMetrics.ObserveRequest("audience", "success", time.Since(started))
		c.JSON(http.StatusOK, datatypes.ReportResponse{
			Report: rows,
			Meta:   datatypes.ReportMeta{Status: "ok", Count: len(rows)},
		})
	}
}

// HandleGroupReport serves POST /api/v1/reports/group. A group with no
// students yields an empty report, not an error.
func HandleGroupReport(svc ReportService, log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := gatewayTracer.Start(c.Request.Context(), "HandleGroupReport")
		defer span.End()
		started := time.Now()

		var req datatypes.GroupReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			observability.DefaultMetrics.ObserveRequest("group", "invalid", time.Since(started))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		span.SetAttributes(attribute.Int64("group_id", req.GroupID))

		rows, err := svc.Group(ctx, req.GroupID)
		if err != nil {
			writeReportError(c, log, "group", started, err)
			return
		}
		if rows == nil {
			rows = []reports.GroupReportRow{}
		}

		observability.DefaultMetrics.ObserveRequest("group", "success", time.Since(started))
		c.JSON(http.StatusOK, datatypes.ReportResponse{
			Report: rows,
			Meta:   datatypes.ReportMeta{Status: "ok", Count: len(rows)},
		})
	}
}

// writeReportError maps core errors onto HTTP statuses. Store detail
// never reaches the client; it is already in the core's logs.
func writeReportError(c *gin.Context, log *logging.Logger, endpoint string, started time.Time, err error) {
	switch {
	case errors.Is(err, reports.ErrInvalidRange):
		observability.DefaultMetrics.ObserveRequest(endpoint, "invalid", time.Since(started))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, reports.ErrUpstreamUnavailable):
		observability.DefaultMetrics.ObserveRequest(endpoint, "error", time.Since(started))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "upstream store unavailable"})
	default:
		if log != nil {
			log.Error("unexpected report failure", "endpoint", endpoint, "error", err)
		}
		observability.DefaultMetrics.ObserveRequest(endpoint, "error", time.Since(started))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
