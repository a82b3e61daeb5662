// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the request and response shapes of the
// gateway API. Validation happens at binding time; date fields must be
// YYYY-MM-DD and anything malformed never reaches the core.
package datatypes

// AttendanceReportRequest asks for the worst-attendees report over a
// free-text term and a date window.
type AttendanceReportRequest struct {
	Term      string `json:"term" binding:"required"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

// AudienceReportRequest asks for per-course/group aggregates over an
// academic semester.
type AudienceReportRequest struct {
	Year     int `json:"year" binding:"required"`
	Semester int `json:"semester" binding:"required"`
}

// GroupReportRequest asks for the per-student attendance report of one
// group.
type GroupReportRequest struct {
	GroupID int64 `json:"group_id" binding:"required"`
}

// ReportMeta accompanies every report response.
type ReportMeta struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ReportResponse is the envelope for all report endpoints.
type ReportResponse struct {
	Report any        `json:"report"`
	Meta   ReportMeta `json:"meta"`
}
