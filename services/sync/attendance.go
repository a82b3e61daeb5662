// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sync

import "sort"

// attendanceFact is one resolved (session, student) attendance edge.
type attendanceFact struct {
	SessionID int64
	StudentID int64
	Attended  bool
}

// resolveAttendance computes the full set of ATTENDANCE edges from the
// snapshot in two phases: first index the relational attendance rows by
// session then student, then walk every (session, student-in-session's-
// group) pair. A pair with no relational row is an absence, not a gap:
// attended defaults to false.
//
// Output is sorted by (session, student) so repeated runs emit
// byte-identical operations.
func resolveAttendance(snap *Snapshot) []attendanceFact {
	attended := make(map[int64]map[int64]bool, len(snap.Sessions))
	for _, row := range snap.Attendance {
		bySession, ok := attended[row.SessionID]
		if !ok {
			bySession = make(map[int64]bool)
			attended[row.SessionID] = bySession
		}
		bySession[row.StudentID] = row.Attended
	}

	studentsByGroup := make(map[int64][]int64)
	for _, st := range snap.Students {
		studentsByGroup[st.GroupID] = append(studentsByGroup[st.GroupID], st.ID)
	}

	var facts []attendanceFact
	for _, ses := range snap.Sessions {
		for _, studentID := range studentsByGroup[ses.GroupID] {
			facts = append(facts, attendanceFact{
				SessionID: ses.ID,
				StudentID: studentID,
				Attended:  attended[ses.ID][studentID],
			})
		}
	}

	sort.Slice(facts, func(i, j int) bool {
		if facts[i].SessionID != facts[j].SessionID {
			return facts[i].SessionID < facts[j].SessionID
		}
		return facts[i].StudentID < facts[j].StudentID
	})
	return facts
}

// buildAttendance emits one edge upsert per (session, student) pair.
// MERGE on the typed relationship keeps the edge unique for the pair;
// SET refreshes the attended flag to the latest relational truth.
func buildAttendance(snap *Snapshot) []UpsertOp {
	facts := resolveAttendance(snap)
	if len(facts) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(facts))
	for _, f := range facts {
		rows = append(rows, map[string]any{
			"session_id": f.SessionID,
			"student_id": f.StudentID,
			"attended":   f.Attended,
		})
	}

	return []UpsertOp{{
		Query: `UNWIND $rows AS row
MATCH ` + EntityStudent.Ref("st", "row.student_id") + `, ` + EntitySession.Ref("ss", "row.session_id") + `
MERGE (st)-[r:ATTENDANCE]->(ss)
SET r.attended = row.attended
RETURN count(*) AS n`,
		Params: map[string]any{"rows": rows},
		Expect: int64(len(rows)),
	}}
}
