// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sync

// UpsertOp is one batched graph write: a Cypher statement plus its
// parameters. Every statement is a MERGE-by-key followed by SET, so
// applying the same op twice changes nothing observable.
//
// Statements end in RETURN count(*); Expect is the row count the caller
// compares against. Relationship statements MATCH the parent node, so a
// shortfall means a referenced parent was never upserted.
type UpsertOp struct {
	Query  string
	Params map[string]any
	Expect int64
}

// Stage compiles one slice of the relational snapshot into upsert
// operations. Stages are pure; all side effects happen in the engine.
type Stage struct {
	Name  string
	Build func(snap *Snapshot) []UpsertOp
}

// Stages returns all sync stages in dependency order. Every
// relationship's endpoints are upserted by an earlier stage (or earlier
// in the same statement), which is what makes the parent MATCH safe.
func Stages() []Stage {
	return []Stage{
		{Name: "universities", Build: buildUniversities},
		{Name: "institutes", Build: buildInstitutes},
		{Name: "departments", Build: buildDepartments},
		{Name: "specialties", Build: buildSpecialties},
		{Name: "groups", Build: buildGroups},
		{Name: "courses_lectures", Build: buildCoursesAndLectures},
		{Name: "sessions", Build: buildSessions},
		{Name: "students", Build: buildStudents},
		{Name: "attendance", Build: buildAttendance},
	}
}

func buildUniversities(snap *Snapshot) []UpsertOp {
	if len(snap.Universities) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(snap.Universities))
	for _, u := range snap.Universities {
		key := KeyFor(EntityUniversity, u.ID)
		rows = append(rows, map[string]any{"id": key.ID, "name": u.Name, "location": u.Location})
	}
	return []UpsertOp{{
		Query: `UNWIND $rows AS row
` + EntityUniversity.Merge("u", "row.id") + `
SET u.name = row.name, u.location = row.location
RETURN count(*) AS n`,
		Params: map[string]any{"rows": rows},
		Expect: int64(len(rows)),
	}}
}

func buildInstitutes(snap *Snapshot) []UpsertOp {
	if len(snap.Institutes) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(snap.Institutes))
	for _, i := range snap.Institutes {
		key := KeyFor(EntityInstitute, i.ID)
		parent := KeyFor(EntityUniversity, i.UniversityID)
		rows = append(rows, map[string]any{"id": key.ID, "name": i.Name, "university_id": parent.ID})
	}
	return []UpsertOp{{
		Query: `UNWIND $rows AS row
` + EntityInstitute.Merge("i", "row.id") + `
SET i.name = row.name
WITH i, row
` + EntityUniversity.Match("u", "row.university_id") + `
MERGE (u)-[:HAS_INSTITUTE]->(i)
RETURN count(*) AS n`,
		Params: map[string]any{"rows": rows},
		Expect: int64(len(rows)),
	}}
}

func buildDepartments(snap *Snapshot) []UpsertOp {
	if len(snap.Departments) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(snap.Departments))
	for _, d := range snap.Departments {
		key := KeyFor(EntityDepartment, d.ID)
		parent := KeyFor(EntityInstitute, d.InstituteID)
		rows = append(rows, map[string]any{"id": key.ID, "name": d.Name, "institute_id": parent.ID})
	}
	return []UpsertOp{{
		Query: `UNWIND $rows AS row
` + EntityDepartment.Merge("d", "row.id") + `
SET d.name = row.name
WITH d, row
` + EntityInstitute.Match("i", "row.institute_id") + `
MERGE (i)-[:HAS_DEPARTMENT]->(d)
RETURN count(*) AS n`,
		Params: map[string]any{"rows": rows},
		Expect: int64(len(rows)),
	}}
}

func buildSpecialties(snap *Snapshot) []UpsertOp {
	if len(snap.Specialties) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(snap.Specialties))
	for _, sp := range snap.Specialties {
		key := KeyFor(EntitySpecialty, sp.ID)
		parent := KeyFor(EntityDepartment, sp.DepartmentID)
		rows = append(rows, map[string]any{"id": key.ID, "name": sp.Name, "department_id": parent.ID})
	}
	return []UpsertOp{{
		Query: `UNWIND $rows AS row
` + EntitySpecialty.Merge("s", "row.id") + `
SET s.name = row.name
WITH s, row
` + EntityDepartment.Match("d", "row.department_id") + `
MERGE (d)-[:HAS_SPECIALTY]->(s)
RETURN count(*) AS n`,
		Params: map[string]any{"rows": rows},
		Expect: int64(len(rows)),
	}}
}

func buildGroups(snap *Snapshot) []UpsertOp {
	if len(snap.Groups) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(snap.Groups))
	for _, g := range snap.Groups {
		key := KeyFor(EntityGroup, g.ID)
		parent := KeyFor(EntitySpecialty, g.SpecialtyID)
		rows = append(rows, map[string]any{"id": key.ID, "name": g.Name, "specialty_id": parent.ID})
	}
	return []UpsertOp{{
		Query: `UNWIND $rows AS row
` + EntityGroup.Merge("g", "row.id") + `
SET g.name = row.name
WITH g, row
` + EntitySpecialty.Match("s", "row.specialty_id") + `
MERGE (s)-[:HAS_GROUP]->(g)
RETURN count(*) AS n`,
		Params: map[string]any{"rows": rows},
		Expect: int64(len(rows)),
	}}
}

// buildCoursesAndLectures emits two ops: courses first so the lecture
// statement can MATCH its parent course within the same stage.
func buildCoursesAndLectures(snap *Snapshot) []UpsertOp {
	var ops []UpsertOp

	if len(snap.Courses) > 0 {
		rows := make([]map[string]any, 0, len(snap.Courses))
		for _, c := range snap.Courses {
			key := KeyFor(EntityCourse, c.ID)
			rows = append(rows, map[string]any{
				"id": key.ID, "name": c.Name,
				"department_id": KeyFor(EntityDepartment, c.DepartmentID).ID,
				"specialty_id":  KeyFor(EntitySpecialty, c.SpecialtyID).ID,
			})
		}
		ops = append(ops, UpsertOp{
			Query: `UNWIND $rows AS row
` + EntityCourse.Merge("c", "row.id") + `
SET c.name = row.name
WITH c, row
MATCH ` + EntityDepartment.Ref("d", "row.department_id") + `, ` + EntitySpecialty.Ref("s", "row.specialty_id") + `
MERGE (d)-[:OFFERS_COURSE]->(c)
MERGE (s)-[:REQUIRES_COURSE]->(c)
RETURN count(*) AS n`,
			Params: map[string]any{"rows": rows},
			Expect: int64(len(rows)),
		})
	}

	if len(snap.Lectures) > 0 {
		rows := make([]map[string]any, 0, len(snap.Lectures))
		for _, l := range snap.Lectures {
			key := KeyFor(EntityLecture, l.ID)
			rows = append(rows, map[string]any{
				"id": key.ID, "name": l.Name,
				"course_id": KeyFor(EntityCourse, l.CourseID).ID,
			})
		}
		ops = append(ops, UpsertOp{
			Query: `UNWIND $rows AS row
` + EntityLecture.Merge("l", "row.id") + `
SET l.name = row.name
WITH l, row
` + EntityCourse.Match("c", "row.course_id") + `
MERGE (c)-[:INCLUDES_LECTURE]->(l)
RETURN count(*) AS n`,
			Params: map[string]any{"rows": rows},
			Expect: int64(len(rows)),
		})
	}

	return ops
}

func buildSessions(snap *Snapshot) []UpsertOp {
	if len(snap.Sessions) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(snap.Sessions))
	for _, ses := range snap.Sessions {
		key := KeyFor(EntitySession, ses.ID)
		rows = append(rows, map[string]any{
			"id":         key.ID,
			"date":       ses.Date.Format(dateLayout),
			"lecture_id": KeyFor(EntityLecture, ses.LectureID).ID,
			"group_id":   KeyFor(EntityGroup, ses.GroupID).ID,
		})
	}
	// Dates are stored as Cypher date values so analytics can compare
	// date-only, ignoring time of day.
	return []UpsertOp{{
		Query: `UNWIND $rows AS row
` + EntitySession.Merge("ss", "row.id") + `
SET ss.date = date(row.date)
WITH ss, row
MATCH ` + EntityLecture.Ref("l", "row.lecture_id") + `, ` + EntityGroup.Ref("g", "row.group_id") + `
MERGE (l)-[:HAS_SESSION]->(ss)
MERGE (ss)-[:FOR_GROUP]->(g)
RETURN count(*) AS n`,
		Params: map[string]any{"rows": rows},
		Expect: int64(len(rows)),
	}}
}

func buildStudents(snap *Snapshot) []UpsertOp {
	if len(snap.Students) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(snap.Students))
	for _, st := range snap.Students {
		key := KeyFor(EntityStudent, st.ID)
		rows = append(rows, map[string]any{
			"id": key.ID, "name": st.Name, "age": st.Age, "mail": st.Mail,
			"group_id": KeyFor(EntityGroup, st.GroupID).ID,
		})
	}
	return []UpsertOp{{
		Query: `UNWIND $rows AS row
` + EntityStudent.Merge("st", "row.id") + `
SET st.name = row.name, st.age = row.age, st.mail = row.mail
WITH st, row
` + EntityGroup.Match("g", "row.group_id") + `
MERGE (st)-[:MEMBER_OF]->(g)
RETURN count(*) AS n`,
		Params: map[string]any{"rows": rows},
		Expect: int64(len(rows)),
	}}
}

const dateLayout = "2006-01-02"
