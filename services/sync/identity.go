// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sync

import "fmt"

// EntityType is a graph node label. The relational primary key plus the
// label form the stable node identity; the id attribute is never
// reassigned after first upsert.
type EntityType string

const (
	EntityUniversity EntityType = "University"
	EntityInstitute  EntityType = "Institute"
	EntityDepartment EntityType = "Department"
	EntitySpecialty  EntityType = "Specialty"
	EntityGroup      EntityType = "Group"
	EntityCourse     EntityType = "Course"
	EntityLecture    EntityType = "Lecture"
	EntitySession    EntityType = "Session"
	EntityStudent    EntityType = "Student"
)

// NodeKey identifies a graph node: a label and the relational primary
// key carried over as the id attribute.
type NodeKey struct {
	Label EntityType
	ID    int64
}

// KeyFor maps a relational primary key to its graph node identity.
// Pure and injective per entity type.
func KeyFor(entity EntityType, relationalID int64) NodeKey {
	return NodeKey{Label: entity, ID: relationalID}
}

// String renders the key in "Label:id" form, used in logs and error
// messages.
func (k NodeKey) String() string {
	return fmt.Sprintf("%s:%d", k.Label, k.ID)
}

// Ref renders the Cypher node pattern binding alias to the node whose
// identity is this entity type plus the id drawn from idExpr. Every
// statement that names a node goes through Ref (or Merge/Match below)
// so label and key never drift between writers and readers.
func (e EntityType) Ref(alias, idExpr string) string {
	return fmt.Sprintf("(%s:%s {id: %s})", alias, e, idExpr)
}

// Merge renders the MERGE clause claiming the node identity.
func (e EntityType) Merge(alias, idExpr string) string {
	return "MERGE " + e.Ref(alias, idExpr)
}

// Match renders the MATCH clause locating an already-upserted node.
func (e EntityType) Match(alias, idExpr string) string {
	return "MATCH " + e.Ref(alias, idExpr)
}
