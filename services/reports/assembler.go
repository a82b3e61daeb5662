// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package reports answers federated analytic queries over academic
// records: a full-text lookup picks candidate lectures, a graph
// aggregation computes attendance over them, and a key-value cache
// enriches the ranked result with profile data.
//
// The three stores are consulted strictly in that order. Zero search
// candidates is ErrNoCandidates; candidates with no qualifying rows in
// the window is an empty report. A store error is surfaced as
// ErrUpstreamUnavailable with the detail kept in the logs.
package reports

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/CampusGraph/pkg/logging"
)

var reportsTracer = otel.Tracer("campusgraph.services.reports")

// Service assembles reports from the search gateway, the graph
// analytics engine, and the cache enrichment layer.
type Service struct {
	search    Searcher
	analytics Analytics
	profiles  ProfileStore
	log       *logging.Logger
}

// NewService wires the three collaborators.
func NewService(search Searcher, analytics Analytics, profiles ProfileStore, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Default()
	}
	return &Service{search: search, analytics: analytics, profiles: profiles, log: log}
}

// Attendance produces the worst-attendees report for a search term and
// date window. The range is validated before any store is touched.
// ErrNoCandidates means the term matched no lectures at all; an empty
// row set means lectures matched but no sessions qualified in the
// window. The boundary layer presents the two differently.
func (s *Service) Attendance(ctx context.Context, term string, start, end time.Time) ([]AttendanceReportRow, error) {
	ctx, span := reportsTracer.Start(ctx, "Service.Attendance")
	defer span.End()
	span.SetAttributes(attribute.String("term", term))

	if start.After(end) {
		return nil, ErrInvalidRange
	}

	lectureIDs, err := s.search.SearchLectures(ctx, term)
	if err != nil {
		s.log.Error("lecture search failed", "term", term, "error", err)
		return nil, ErrUpstreamUnavailable
	}
	span.SetAttributes(attribute.Int("lectures_found", len(lectureIDs)))
	if len(lectureIDs) == 0 {
		s.log.Info("no lectures matched term", "term", term)
		return nil, ErrNoCandidates
	}

	ranked, err := s.analytics.WorstAttendees(ctx, lectureIDs, start, end, DefaultWorstLimit)
	if err != nil {
		s.log.Error("attendance aggregation failed", "term", term, "error", err)
		return nil, ErrUpstreamUnavailable
	}

	ids := make([]int64, len(ranked))
	for i, r := range ranked {
		ids[i] = r.StudentID
	}
	profiles, err := lookupProfiles(ctx, s.profiles, ids)
	if err != nil {
		s.log.Error("profile enrichment failed", "error", err)
		return nil, ErrUpstreamUnavailable
	}

	period := Period{Start: start.Format(dateLayout), End: end.Format(dateLayout)}
	rows := make([]AttendanceReportRow, len(ranked))
	for i, r := range ranked {
		rows[i] = AttendanceReportRow{
			StudentID:         r.StudentID,
			AttendancePercent: r.AttendancePercent,
			StudentInfo:       profiles[i],
			ReportPeriod:      period,
			SearchTerm:        term,
		}
	}
	return rows, nil
}

// Group produces the per-student attendance report for one group,
// enriched from the cache.
func (s *Service) Group(ctx context.Context, groupID int64) ([]GroupReportRow, error) {
	ctx, span := reportsTracer.Start(ctx, "Service.Group")
	defer span.End()
	span.SetAttributes(attribute.Int64("group_id", groupID))

	ranked, err := s.analytics.GroupAttendance(ctx, groupID)
	if err != nil {
		s.log.Error("group aggregation failed", "group_id", groupID, "error", err)
		return nil, ErrUpstreamUnavailable
	}

	ids := make([]int64, len(ranked))
	for i, r := range ranked {
		ids[i] = r.StudentID
	}
	profiles, err := lookupProfiles(ctx, s.profiles, ids)
	if err != nil {
		s.log.Error("profile enrichment failed", "group_id", groupID, "error", err)
		return nil, ErrUpstreamUnavailable
	}

	rows := make([]GroupReportRow, len(ranked))
	for i, r := range ranked {
		rows[i] = GroupReportRow{
			StudentID:         r.StudentID,
			AttendancePercent: r.AttendancePercent,
			StudentInfo:       profiles[i],
		}
	}
	return rows, nil
}

// Audience produces per-course/group aggregates for an academic
// semester.
func (s *Service) Audience(ctx context.Context, year, semester int) ([]AudienceRow, error) {
	ctx, span := reportsTracer.Start(ctx, "Service.Audience")
	defer span.End()

	start, end, err := SemesterWindow(year, semester)
	if err != nil {
		return nil, err
	}

	rows, err := s.analytics.Audience(ctx, start, end)
	if err != nil {
		s.log.Error("audience aggregation failed", "year", year, "semester", semester, "error", err)
		return nil, ErrUpstreamUnavailable
	}
	if rows == nil {
		rows = []AudienceRow{}
	}
	return rows, nil
}
