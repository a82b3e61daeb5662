// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package reports

// StudentAttendance is one aggregated graph result: how many qualifying
// sessions a student had and how many they attended.
type StudentAttendance struct {
	StudentID         int64   `json:"student_id"`
	TotalSessions     int64   `json:"total_sessions"`
	AttendedSessions  int64   `json:"attended_sessions"`
	AttendancePercent float64 `json:"attendance_percent"`
}

// AudienceRow is one per-course/group aggregate of the audience report.
type AudienceRow struct {
	CourseID          int64   `json:"course_id"`
	CourseName        string  `json:"course_name"`
	GroupID           int64   `json:"group_id"`
	GroupName         string  `json:"group_name"`
	Students          int64   `json:"students"`
	Sessions          int64   `json:"sessions"`
	AttendancePercent float64 `json:"attendance_percent"`
}

// Period is the date window a report was computed over.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AttendanceReportRow is one row of the worst-attendees report,
// enriched with cache-resident profile data when available.
type AttendanceReportRow struct {
	StudentID         int64             `json:"student_id"`
	AttendancePercent float64           `json:"attendance_percent"`
	StudentInfo       map[string]string `json:"student_info,omitempty"`
	ReportPeriod      Period            `json:"report_period"`
	SearchTerm        string            `json:"search_term"`
}

// GroupReportRow is one row of the per-group attendance report.
type GroupReportRow struct {
	StudentID         int64             `json:"student_id"`
	AttendancePercent float64           `json:"attendance_percent"`
	StudentInfo       map[string]string `json:"student_info,omitempty"`
}
