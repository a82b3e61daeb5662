// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyForIsInjectivePerEntityType(t *testing.T) {
	seen := make(map[NodeKey]bool)
	entities := []EntityType{
		EntityUniversity, EntityInstitute, EntityDepartment, EntitySpecialty,
		EntityGroup, EntityCourse, EntityLecture, EntitySession, EntityStudent,
	}

	for _, e := range entities {
		for id := int64(1); id <= 3; id++ {
			key := KeyFor(e, id)
			assert.False(t, seen[key], "duplicate key %s", key)
			seen[key] = true
		}
	}
}

func TestKeyForSameEntitySameID(t *testing.T) {
	assert.Equal(t, KeyFor(EntityStudent, 7), KeyFor(EntityStudent, 7))
	assert.NotEqual(t, KeyFor(EntityStudent, 7), KeyFor(EntitySession, 7),
		"same relational id under different labels must map to distinct keys")
}

func TestNodeKeyString(t *testing.T) {
	assert.Equal(t, "Lecture:42", KeyFor(EntityLecture, 42).String())
}

func TestEntityTypeCypherFragments(t *testing.T) {
	assert.Equal(t, "(u:University {id: row.id})", EntityUniversity.Ref("u", "row.id"))
	assert.Equal(t, "MERGE (g:Group {id: row.id})", EntityGroup.Merge("g", "row.id"))
	assert.Equal(t, "MATCH (g:Group {id: $group_id})", EntityGroup.Match("g", "$group_id"))
}
