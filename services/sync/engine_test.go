// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockSource returns a fixed snapshot or error.
type MockSource struct {
	Snap *Snapshot
	Err  error
	// Calls tracks how many snapshots were requested.
	Calls int
}

func (m *MockSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	m.Calls++
	return m.Snap, m.Err
}

// MockGraphWriter records applied stages and can fail at a chosen stage.
type MockGraphWriter struct {
	AppliedStages []string
	AppliedOps    map[string][]UpsertOp
	FailAt        string
	FailWith      error
}

func (m *MockGraphWriter) ApplyStage(ctx context.Context, stage string, ops []UpsertOp) error {
	if m.FailAt == stage {
		return m.FailWith
	}
	m.AppliedStages = append(m.AppliedStages, stage)
	if m.AppliedOps == nil {
		m.AppliedOps = make(map[string][]UpsertOp)
	}
	m.AppliedOps[stage] = ops
	return nil
}

func TestEngineRunsStagesInDependencyOrder(t *testing.T) {
	source := &MockSource{Snap: fullSnapshot()}
	graph := &MockGraphWriter{}
	engine := NewEngine(source, graph, nil)

	summary, err := engine.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, source.Calls, "one snapshot per run")
	assert.Equal(t, []string{
		"universities", "institutes", "departments", "specialties",
		"groups", "courses_lectures", "sessions", "students", "attendance",
	}, graph.AppliedStages)
	require.Len(t, summary.Stages, 9)
	assert.Equal(t, "universities", summary.Stages[0].Stage)
	assert.Equal(t, int64(1), summary.Stages[0].Rows)
}

func TestEngineAbortsRemainingStagesOnFailure(t *testing.T) {
	source := &MockSource{Snap: fullSnapshot()}
	graph := &MockGraphWriter{
		FailAt:   "specialties",
		FailWith: ErrMissingDependency,
	}
	engine := NewEngine(source, graph, nil)

	summary, err := engine.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingDependency)
	// Stages before the failure stay committed; nothing after runs.
	assert.Equal(t, []string{"universities", "institutes", "departments"}, graph.AppliedStages)
	require.NotNil(t, summary)
	assert.Len(t, summary.Stages, 3)
}

func TestEngineWrapsSnapshotFailureAsUpstream(t *testing.T) {
	source := &MockSource{Err: errors.New("connection refused")}
	engine := NewEngine(source, &MockGraphWriter{}, nil)

	_, err := engine.Run(context.Background())

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestEngineRerunEmitsIdenticalOperations(t *testing.T) {
	// Idempotence at the operation level: two runs over the same
	// snapshot must hand the graph writer the same upserts.
	source := &MockSource{Snap: fullSnapshot()}

	first := &MockGraphWriter{}
	_, err := NewEngine(source, first, nil).Run(context.Background())
	require.NoError(t, err)

	second := &MockGraphWriter{}
	_, err = NewEngine(source, second, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.AppliedOps, second.AppliedOps)
}
