// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSnapshot() *Snapshot {
	return &Snapshot{
		Universities: []University{{ID: 1, Name: "BMSTU", Location: "Moscow"}},
		Institutes:   []Institute{{ID: 1, Name: "IU", UniversityID: 1}},
		Departments:  []Department{{ID: 1, Name: "IU-7", InstituteID: 1}},
		Specialties:  []Specialty{{ID: 1, Name: "Software Engineering", DepartmentID: 1}},
		Groups:       []Group{{ID: 1, Name: "SE-41", SpecialtyID: 1}},
		Courses:      []Course{{ID: 1, Name: "Databases", DepartmentID: 1, SpecialtyID: 1}},
		Lectures:     []Lecture{{ID: 1, Name: "Intro to Graphs", CourseID: 1}},
		Sessions: []Session{{
			ID: 1, Date: time.Date(2023, 3, 15, 10, 30, 0, 0, time.UTC),
			LectureID: 1, GroupID: 1,
		}},
		Students:   []Student{{ID: 1, Name: "Ada", Age: 20, Mail: "ada@example.com", GroupID: 1}},
		Attendance: []AttendanceRow{{SessionID: 1, StudentID: 1, Attended: true}},
	}
}

func TestStagesAreInDependencyOrder(t *testing.T) {
	var names []string
	for _, s := range Stages() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"universities", "institutes", "departments", "specialties",
		"groups", "courses_lectures", "sessions", "students", "attendance",
	}, names)
}

func TestStageBuildersAreDeterministic(t *testing.T) {
	// Identical input must compile to identical operations; that is
	// what makes a rerun of the engine a no-op on the graph.
	for _, stage := range Stages() {
		first := stage.Build(fullSnapshot())
		second := stage.Build(fullSnapshot())
		assert.Equal(t, first, second, "stage %s", stage.Name)
	}
}

func TestStageBuildersSkipEmptySlices(t *testing.T) {
	empty := &Snapshot{}
	for _, stage := range Stages() {
		assert.Empty(t, stage.Build(empty), "stage %s", stage.Name)
	}
}

func TestEveryUpsertIsMergeByKeyWithCountCheck(t *testing.T) {
	for _, stage := range Stages() {
		for _, op := range stage.Build(fullSnapshot()) {
			assert.Contains(t, op.Query, "MERGE (", "stage %s", stage.Name)
			assert.Contains(t, op.Query, "RETURN count(*) AS n", "stage %s", stage.Name)
			assert.Positive(t, op.Expect, "stage %s", stage.Name)
		}
	}
}

func TestRelationshipStagesMatchParentNodes(t *testing.T) {
	snap := fullSnapshot()

	cases := map[string]string{
		"institutes":  "MATCH (u:University {id: row.university_id})",
		"departments": "MATCH (i:Institute {id: row.institute_id})",
		"specialties": "MATCH (d:Department {id: row.department_id})",
		"groups":      "MATCH (s:Specialty {id: row.specialty_id})",
		"students":    "MATCH (g:Group {id: row.group_id})",
	}

	for _, stage := range Stages() {
		want, ok := cases[stage.Name]
		if !ok {
			continue
		}
		ops := stage.Build(snap)
		require.Len(t, ops, 1, "stage %s", stage.Name)
		assert.Contains(t, ops[0].Query, want, "stage %s", stage.Name)
	}
}

func TestStageQueriesDeriveNodeIdentityFromKeys(t *testing.T) {
	snap := fullSnapshot()

	merges := map[string]string{
		"universities": EntityUniversity.Merge("u", "row.id"),
		"institutes":   EntityInstitute.Merge("i", "row.id"),
		"departments":  EntityDepartment.Merge("d", "row.id"),
		"specialties":  EntitySpecialty.Merge("s", "row.id"),
		"groups":       EntityGroup.Merge("g", "row.id"),
		"sessions":     EntitySession.Merge("ss", "row.id"),
		"students":     EntityStudent.Merge("st", "row.id"),
	}
	for _, stage := range Stages() {
		want, ok := merges[stage.Name]
		if !ok {
			continue
		}
		ops := stage.Build(snap)
		require.Len(t, ops, 1, "stage %s", stage.Name)
		assert.Contains(t, ops[0].Query, want, "stage %s", stage.Name)
	}

	cl := buildCoursesAndLectures(snap)
	require.Len(t, cl, 2)
	assert.Contains(t, cl[0].Query, EntityCourse.Merge("c", "row.id"))
	assert.Contains(t, cl[1].Query, EntityLecture.Merge("l", "row.id"))

	att := buildAttendance(snap)
	require.Len(t, att, 1)
	assert.Contains(t, att[0].Query, EntityStudent.Ref("st", "row.student_id"))
	assert.Contains(t, att[0].Query, EntitySession.Ref("ss", "row.session_id"))
}

func TestSessionDatesAreStoredDateOnly(t *testing.T) {
	ops := buildSessions(fullSnapshot())

	require.Len(t, ops, 1)
	rows := ops[0].Params["rows"].([]map[string]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "2023-03-15", rows[0]["date"], "time of day must be dropped")
	assert.Contains(t, ops[0].Query, "SET ss.date = date(row.date)")
}

func TestCoursesCompileBeforeLectures(t *testing.T) {
	ops := buildCoursesAndLectures(fullSnapshot())

	require.Len(t, ops, 2)
	assert.Contains(t, ops[0].Query, "MERGE (c:Course {id: row.id})")
	assert.Contains(t, ops[1].Query, "MATCH (c:Course {id: row.course_id})")
}
