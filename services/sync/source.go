// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sync

import (
	"context"
	"fmt"

	"github.com/AleutianAI/CampusGraph/pkg/stores/postgres"
)

// Source reads one full snapshot of the relational academic records.
// The sync engine has no write access to the source.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// PGSource reads the fixed relational schema from Postgres.
type PGSource struct {
	store *postgres.Store
}

// NewPGSource wraps a Postgres store as a snapshot source.
func NewPGSource(store *postgres.Store) *PGSource {
	return &PGSource{store: store}
}

// Snapshot reads all ten tables. Any query failure aborts the snapshot;
// a partial snapshot would silently shrink the graph's coverage.
func (s *PGSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	if err := s.readUniversities(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.readInstitutes(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.readDepartments(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.readSpecialties(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.readGroups(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.readCourses(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.readLectures(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.readSessions(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.readStudents(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.readAttendance(ctx, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *PGSource) readUniversities(ctx context.Context, snap *Snapshot) error {
	rows, err := s.store.Pool().Query(ctx, "SELECT id, name, location FROM University")
	if err != nil {
		return fmt.Errorf("querying University: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u University
		if err := rows.Scan(&u.ID, &u.Name, &u.Location); err != nil {
			return fmt.Errorf("scanning University row: %w", err)
		}
		snap.Universities = append(snap.Universities, u)
	}
	return rows.Err()
}

func (s *PGSource) readInstitutes(ctx context.Context, snap *Snapshot) error {
	rows, err := s.store.Pool().Query(ctx, "SELECT id, name, university_id FROM Institute")
	if err != nil {
		return fmt.Errorf("querying Institute: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var i Institute
		if err := rows.Scan(&i.ID, &i.Name, &i.UniversityID); err != nil {
			return fmt.Errorf("scanning Institute row: %w", err)
		}
		snap.Institutes = append(snap.Institutes, i)
	}
	return rows.Err()
}

func (s *PGSource) readDepartments(ctx context.Context, snap *Snapshot) error {
	rows, err := s.store.Pool().Query(ctx, "SELECT id, name, institute_id FROM Department")
	if err != nil {
		return fmt.Errorf("querying Department: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.InstituteID); err != nil {
			return fmt.Errorf("scanning Department row: %w", err)
		}
		snap.Departments = append(snap.Departments, d)
	}
	return rows.Err()
}

func (s *PGSource) readSpecialties(ctx context.Context, snap *Snapshot) error {
	rows, err := s.store.Pool().Query(ctx, "SELECT id, name, department_id FROM Specialty")
	if err != nil {
		return fmt.Errorf("querying Specialty: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sp Specialty
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.DepartmentID); err != nil {
			return fmt.Errorf("scanning Specialty row: %w", err)
		}
		snap.Specialties = append(snap.Specialties, sp)
	}
	return rows.Err()
}

func (s *PGSource) readGroups(ctx context.Context, snap *Snapshot) error {
	rows, err := s.store.Pool().Query(ctx, "SELECT id, name, speciality_id FROM St_group")
	if err != nil {
		return fmt.Errorf("querying St_group: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.SpecialtyID); err != nil {
			return fmt.Errorf("scanning St_group row: %w", err)
		}
		snap.Groups = append(snap.Groups, g)
	}
	return rows.Err()
}

func (s *PGSource) readCourses(ctx context.Context, snap *Snapshot) error {
	rows, err := s.store.Pool().Query(ctx, "SELECT id, name, department_id, specialty_id FROM Course_of_lecture")
	if err != nil {
		return fmt.Errorf("querying Course_of_lecture: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Name, &c.DepartmentID, &c.SpecialtyID); err != nil {
			return fmt.Errorf("scanning Course_of_lecture row: %w", err)
		}
		snap.Courses = append(snap.Courses, c)
	}
	return rows.Err()
}

func (s *PGSource) readLectures(ctx context.Context, snap *Snapshot) error {
	rows, err := s.store.Pool().Query(ctx, "SELECT id, name, course_of_lecture_id FROM Lecture")
	if err != nil {
		return fmt.Errorf("querying Lecture: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l Lecture
		if err := rows.Scan(&l.ID, &l.Name, &l.CourseID); err != nil {
			return fmt.Errorf("scanning Lecture row: %w", err)
		}
		snap.Lectures = append(snap.Lectures, l)
	}
	return rows.Err()
}

func (s *PGSource) readSessions(ctx context.Context, snap *Snapshot) error {
	rows, err := s.store.Pool().Query(ctx, "SELECT id, date, lecture_id, group_id FROM Schedule")
	if err != nil {
		return fmt.Errorf("querying Schedule: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ses Session
		if err := rows.Scan(&ses.ID, &ses.Date, &ses.LectureID, &ses.GroupID); err != nil {
			return fmt.Errorf("scanning Schedule row: %w", err)
		}
		snap.Sessions = append(snap.Sessions, ses)
	}
	return rows.Err()
}

func (s *PGSource) readStudents(ctx context.Context, snap *Snapshot) error {
	rows, err := s.store.Pool().Query(ctx, "SELECT id, name, age, mail, group_id FROM Students")
	if err != nil {
		return fmt.Errorf("querying Students: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Age, &st.Mail, &st.GroupID); err != nil {
			return fmt.Errorf("scanning Students row: %w", err)
		}
		snap.Students = append(snap.Students, st)
	}
	return rows.Err()
}

func (s *PGSource) readAttendance(ctx context.Context, snap *Snapshot) error {
	rows, err := s.store.Pool().Query(ctx, "SELECT schedule_id, student_id, attended FROM Attendance")
	if err != nil {
		return fmt.Errorf("querying Attendance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a AttendanceRow
		if err := rows.Scan(&a.SessionID, &a.StudentID, &a.Attended); err != nil {
			return fmt.Errorf("scanning Attendance row: %w", err)
		}
		snap.Attendance = append(snap.Attendance, a)
	}
	return rows.Err()
}
