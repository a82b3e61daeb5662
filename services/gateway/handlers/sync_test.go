// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/CampusGraph/services/sync"
)

type MockSyncRunner struct {
	Summary *sync.RunSummary
	Err     error
	Calls   int
}

func (m *MockSyncRunner) Run(ctx context.Context) (*sync.RunSummary, error) {
	m.Calls++
	return m.Summary, m.Err
}

func postSync(t *testing.T, runner SyncRunner) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST("/sync/run", HandleSyncRun(runner, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sync/run", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestSyncRunReturnsSummary(t *testing.T) {
	runner := &MockSyncRunner{Summary: &sync.RunSummary{
		Stages: []sync.StageResult{
			{Stage: "universities", Rows: 2, Duration: 5 * time.Millisecond},
			{Stage: "institutes", Rows: 4, Duration: 7 * time.Millisecond},
		},
		Took: 12 * time.Millisecond,
	}}

	w := postSync(t, runner)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, runner.Calls)

	var resp struct {
		Status  string `json:"status"`
		Summary struct {
			Stages []struct {
				Stage string `json:"stage"`
				Rows  int64  `json:"rows"`
			} `json:"stages"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Summary.Stages, 2)
	assert.Equal(t, "universities", resp.Summary.Stages[0].Stage)
	assert.Equal(t, int64(2), resp.Summary.Stages[0].Rows)
}

func TestSyncRunMissingDependencyIsInternal(t *testing.T) {
	runner := &MockSyncRunner{
		Summary: &sync.RunSummary{Stages: []sync.StageResult{{Stage: "universities", Rows: 2}}},
		Err:     fmt.Errorf("%w: stage institutes applied 3 of 4 rows", sync.ErrMissingDependency),
	}

	w := postSync(t, runner)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "missing parent")
	// The partial summary still ships so operators see how far the run got.
	assert.Contains(t, w.Body.String(), "universities")
}

func TestSyncRunUpstreamFailureIsServiceUnavailable(t *testing.T) {
	runner := &MockSyncRunner{Err: fmt.Errorf("%w: reading relational snapshot", sync.ErrUpstreamUnavailable)}

	w := postSync(t, runner)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSyncRunGenericFailureIsServiceUnavailable(t *testing.T) {
	runner := &MockSyncRunner{Err: errors.New("session closed")}

	w := postSync(t, runner)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "session closed")
}
