// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/CampusGraph/pkg/config"
	"github.com/AleutianAI/CampusGraph/services/reports"
	"github.com/AleutianAI/CampusGraph/services/sync"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubReports struct{}

func (stubReports) Attendance(ctx context.Context, term string, start, end time.Time) ([]reports.AttendanceReportRow, error) {
	return []reports.AttendanceReportRow{{StudentID: 1}}, nil
}
func (stubReports) Group(ctx context.Context, groupID int64) ([]reports.GroupReportRow, error) {
	return nil, nil
}
func (stubReports) Audience(ctx context.Context, year, semester int) ([]reports.AudienceRow, error) {
	return nil, nil
}

type stubRunner struct{}

func (stubRunner) Run(ctx context.Context) (*sync.RunSummary, error) {
	return &sync.RunSummary{}, nil
}

func newRouter() *gin.Engine {
	r := gin.New()
	cfg := config.Gateway{User: "user", Password: "user"}
	SetupRoutes(r, cfg, stubReports{}, stubRunner{}, nil, nil)
	return r
}

func TestHealthIsOpen(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsIsOpen(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestAPIRequiresAuth(t *testing.T) {
	for _, path := range []string{
		"/api/v1/reports/attendance",
		"/api/v1/reports/audience",
		"/api/v1/reports/group",
		"/api/v1/sync/run",
	} {
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestAuthedReportRequestReachesHandler(t *testing.T) {
	body := bytes.NewBufferString(`{"term":"db","start_date":"2023-01-01","end_date":"2023-12-31"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/attendance", body)
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("user", "user")

	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
