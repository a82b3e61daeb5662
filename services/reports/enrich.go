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

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/CampusGraph/pkg/stores/rediscache"
)

// enrichConcurrency bounds the profile lookup fan-out.
const enrichConcurrency = 8

// ProfileStore looks up cache-resident profile attributes by identity.
// A miss is not an error: the profile comes back nil and the report row
// simply carries no profile fields.
type ProfileStore interface {
	StudentProfile(ctx context.Context, studentID int64) (map[string]string, error)
}

// RedisProfiles reads student profiles from the key-value cache as
// flat hashes under "student:<id>".
type RedisProfiles struct {
	client *rediscache.Client
}

// NewRedisProfiles wraps a Redis client.
func NewRedisProfiles(client *rediscache.Client) *RedisProfiles {
	return &RedisProfiles{client: client}
}

// StudentProfile returns the student's cached attributes, or nil on a
// cache miss.
func (r *RedisProfiles) StudentProfile(ctx context.Context, studentID int64) (map[string]string, error) {
	key := fmt.Sprintf("student:%d", studentID)
	fields, err := r.client.RDB.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

// lookupProfiles fans out profile lookups over the ranked students,
// preserving their order. Misses leave nil entries; a store failure
// fails the whole enrichment.
func lookupProfiles(ctx context.Context, store ProfileStore, studentIDs []int64) ([]map[string]string, error) {
	profiles := make([]map[string]string, len(studentIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, id := range studentIDs {
		g.Go(func() error {
			profile, err := store.StudentProfile(ctx, id)
			if err != nil {
				return err
			}
			profiles[i] = profile
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}
