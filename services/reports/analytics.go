// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package reports

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/AleutianAI/CampusGraph/pkg/stores/neo4jdb"
	"github.com/AleutianAI/CampusGraph/services/sync"
)

// DefaultWorstLimit is how many worst attendees a report returns.
const DefaultWorstLimit = 10

// Analytics computes attendance aggregates by traversing the graph.
type Analytics interface {
	WorstAttendees(ctx context.Context, lectureIDs []int64, start, end time.Time, limit int) ([]StudentAttendance, error)
	GroupAttendance(ctx context.Context, groupID int64) ([]StudentAttendance, error)
	Audience(ctx context.Context, start, end time.Time) ([]AudienceRow, error)
}

// GraphAnalytics runs attendance aggregations against Neo4j. Counting
// happens in Cypher; percentage, ordering, tie-break and truncation
// happen in rankAttendance so they are uniform across report variants.
type GraphAnalytics struct {
	client *neo4jdb.Client
}

// NewGraphAnalytics wraps a Neo4j client.
func NewGraphAnalytics(client *neo4jdb.Client) *GraphAnalytics {
	return &GraphAnalytics{client: client}
}

// Query labels come from the sync package's identity mapping, so the
// readers here can never drift from what the stage builders write.

// worstAttendeesQuery selects students whose group has at least one
// session of the given lectures inside the window. A missing ATTENDANCE
// edge counts as not attended via the OPTIONAL MATCH.
var worstAttendeesQuery = fmt.Sprintf(`
MATCH (s:%[1]s)-[:MEMBER_OF]->(g:%[2]s)
MATCH (ss:%[3]s)-[:FOR_GROUP]->(g)
MATCH (l:%[4]s)-[:HAS_SESSION]->(ss)
WHERE l.id IN $lecture_ids
  AND ss.date >= date($start_date)
  AND ss.date <= date($end_date)
OPTIONAL MATCH (s)-[a:ATTENDANCE]->(ss)
WITH s,
     count(DISTINCT ss) AS total_sessions,
     sum(CASE WHEN a.attended = true THEN 1 ELSE 0 END) AS attended_sessions
WHERE total_sessions > 0
RETURN s.id AS student_id, total_sessions, attended_sessions`,
	sync.EntityStudent, sync.EntityGroup, sync.EntitySession, sync.EntityLecture)

var groupAttendanceQuery = "\n" + sync.EntityGroup.Match("g", "$group_id") + fmt.Sprintf(`<-[:MEMBER_OF]-(s:%s)
MATCH (ss:%s)-[:FOR_GROUP]->(g)
OPTIONAL MATCH (s)-[a:ATTENDANCE]->(ss)
WITH s,
     count(DISTINCT ss) AS total_sessions,
     sum(CASE WHEN a.attended = true THEN 1 ELSE 0 END) AS attended_sessions
WHERE total_sessions > 0
RETURN s.id AS student_id, total_sessions, attended_sessions`,
	sync.EntityStudent, sync.EntitySession)

// audienceQuery walks Course → Lecture → Session → Group and counts
// each group's listeners and attendance over the window. Rows are
// unique per (student, session) within a course/group pair, so the
// plain count/sum pair follows the same rules as the student variant.
var audienceQuery = fmt.Sprintf(`
MATCH (c:%[1]s)-[:INCLUDES_LECTURE]->(l:%[2]s)-[:HAS_SESSION]->(ss:%[3]s)-[:FOR_GROUP]->(g:%[4]s)
WHERE ss.date >= date($start_date)
  AND ss.date <= date($end_date)
MATCH (s:%[5]s)-[:MEMBER_OF]->(g)
OPTIONAL MATCH (s)-[a:ATTENDANCE]->(ss)
WITH c, g,
     count(DISTINCT s) AS students,
     count(DISTINCT ss) AS sessions,
     count(*) AS pairs,
     sum(CASE WHEN a.attended = true THEN 1 ELSE 0 END) AS attended
WHERE pairs > 0
RETURN c.id AS course_id, c.name AS course_name,
       g.id AS group_id, g.name AS group_name,
       students, sessions,
       100.0 * attended / pairs AS attendance_percent
ORDER BY course_id ASC, group_id ASC`,
	sync.EntityCourse, sync.EntityLecture, sync.EntitySession, sync.EntityGroup, sync.EntityStudent)

// WorstAttendees implements the worst-attendees report: attendance
// percentage per student over the qualifying sessions, worst first.
func (a *GraphAnalytics) WorstAttendees(ctx context.Context, lectureIDs []int64, start, end time.Time, limit int) ([]StudentAttendance, error) {
	if len(lectureIDs) == 0 {
		return nil, nil
	}
	params := map[string]any{
		"lecture_ids": lectureNodeIDs(lectureIDs),
		"start_date":  start.Format(dateLayout),
		"end_date":    end.Format(dateLayout),
	}

	raw, err := a.collectAttendance(ctx, worstAttendeesQuery, params)
	if err != nil {
		return nil, err
	}
	return rankAttendance(raw, limit), nil
}

// GroupAttendance aggregates over every session scheduled for one
// group, no date or lecture filter.
func (a *GraphAnalytics) GroupAttendance(ctx context.Context, groupID int64) ([]StudentAttendance, error) {
	key := sync.KeyFor(sync.EntityGroup, groupID)
	raw, err := a.collectAttendance(ctx, groupAttendanceQuery, map[string]any{"group_id": key.ID})
	if err != nil {
		return nil, err
	}
	return rankAttendance(raw, 0), nil
}

// Audience returns per-course/group aggregates for the window.
func (a *GraphAnalytics) Audience(ctx context.Context, start, end time.Time) ([]AudienceRow, error) {
	session := a.client.ReadSession(ctx)
	defer session.Close(ctx)

	params := map[string]any{
		"start_date": start.Format(dateLayout),
		"end_date":   end.Format(dateLayout),
	}

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, audienceQuery, params)
		if err != nil {
			return nil, err
		}

		var rows []AudienceRow
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			row := AudienceRow{}
			if v, ok := rec.Get("course_id"); ok {
				row.CourseID, _ = v.(int64)
			}
			if v, ok := rec.Get("course_name"); ok {
				row.CourseName, _ = v.(string)
			}
			if v, ok := rec.Get("group_id"); ok {
				row.GroupID, _ = v.(int64)
			}
			if v, ok := rec.Get("group_name"); ok {
				row.GroupName, _ = v.(string)
			}
			if v, ok := rec.Get("students"); ok {
				row.Students, _ = v.(int64)
			}
			if v, ok := rec.Get("sessions"); ok {
				row.Sessions, _ = v.(int64)
			}
			if v, ok := rec.Get("attendance_percent"); ok {
				pct, _ := v.(float64)
				row.AttendancePercent = round2(pct)
			}
			rows = append(rows, row)
		}
		return rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("audience aggregation: %w", err)
	}
	return result.([]AudienceRow), nil
}

func (a *GraphAnalytics) collectAttendance(ctx context.Context, query string, params map[string]any) ([]StudentAttendance, error) {
	session := a.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		raw := make([]StudentAttendance, 0, len(records))
		for _, rec := range records {
			var sa StudentAttendance
			if v, ok := rec.Get("student_id"); ok {
				sa.StudentID, _ = v.(int64)
			}
			if v, ok := rec.Get("total_sessions"); ok {
				sa.TotalSessions, _ = v.(int64)
			}
			if v, ok := rec.Get("attended_sessions"); ok {
				sa.AttendedSessions, _ = v.(int64)
			}
			raw = append(raw, sa)
		}
		return raw, nil
	})
	if err != nil {
		return nil, fmt.Errorf("attendance aggregation: %w", err)
	}
	return result.([]StudentAttendance), nil
}

// lectureNodeIDs correlates search-index lecture ids with their graph
// node identity before they parameterize a query.
func lectureNodeIDs(lectureIDs []int64) []int64 {
	ids := make([]int64, len(lectureIDs))
	for i, id := range lectureIDs {
		ids[i] = sync.KeyFor(sync.EntityLecture, id).ID
	}
	return ids
}

// rankAttendance computes percentages, orders ascending (worst
// attendance first) with student id as the deterministic tie-break,
// and truncates to limit when limit > 0. Students with no qualifying
// sessions are excluded.
func rankAttendance(raw []StudentAttendance, limit int) []StudentAttendance {
	ranked := make([]StudentAttendance, 0, len(raw))
	for _, sa := range raw {
		if sa.TotalSessions <= 0 {
			continue
		}
		sa.AttendancePercent = round2(100.0 * float64(sa.AttendedSessions) / float64(sa.TotalSessions))
		ranked = append(ranked, sa)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].AttendancePercent != ranked[j].AttendancePercent {
			return ranked[i].AttendancePercent < ranked[j].AttendancePercent
		}
		return ranked[i].StudentID < ranked[j].StudentID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// round2 rounds to two decimal places, the precision reports expose.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SemesterWindow maps an academic (year, semester) pair to its date
// window: semester 1 runs Sep 1 through Dec 31 of year, semester 2
// runs Feb 1 through Jun 30 of the following year.
func SemesterWindow(year, semester int) (time.Time, time.Time, error) {
	switch semester {
	case 1:
		return time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC), nil
	case 2:
		return time.Date(year+1, time.February, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year+1, time.June, 30, 0, 0, 0, 0, time.UTC), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: semester must be 1 or 2", ErrInvalidRange)
	}
}

const dateLayout = "2006-01-02"
