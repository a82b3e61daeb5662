// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sync

import "time"

// Typed rows mirroring the fixed relational schema. Field names follow
// the source tables; the graph carries the same attributes verbatim.

type University struct {
	ID       int64
	Name     string
	Location string
}

type Institute struct {
	ID           int64
	Name         string
	UniversityID int64
}

type Department struct {
	ID          int64
	Name        string
	InstituteID int64
}

type Specialty struct {
	ID           int64
	Name         string
	DepartmentID int64
}

type Group struct {
	ID          int64
	Name        string
	SpecialtyID int64
}

type Course struct {
	ID           int64
	Name         string
	DepartmentID int64
	SpecialtyID  int64
}

type Lecture struct {
	ID       int64
	Name     string
	CourseID int64
}

// Session is a single scheduled occurrence of a lecture for one group
// (a Schedule row), not to be confused with a store connection session.
type Session struct {
	ID        int64
	Date      time.Time
	LectureID int64
	GroupID   int64
}

type Student struct {
	ID      int64
	Name    string
	Age     int
	Mail    string
	GroupID int64
}

// AttendanceRow is one relational attendance fact. Pairs with no row at
// all are recorded in the graph as absences, not omitted.
type AttendanceRow struct {
	SessionID int64
	StudentID int64
	Attended  bool
}

// Snapshot is one full read of the relational source. A sync run is a
// pure function of a Snapshot.
type Snapshot struct {
	Universities []University
	Institutes   []Institute
	Departments  []Department
	Specialties  []Specialty
	Groups       []Group
	Courses      []Course
	Lectures     []Lecture
	Sessions     []Session
	Students     []Student
	Attendance   []AttendanceRow
}
