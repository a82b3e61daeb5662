// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package reports

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/CampusGraph/pkg/stores/elastic"
)

// newSearchTestServer fakes the search index. The handler captures the
// request body and replies with hits carrying the given lecture ids.
func newSearchTestServer(t *testing.T, lectureIDs []int64, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The v8 client validates this header on every response.
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		if capture != nil && r.Body != nil {
			body, _ := io.ReadAll(r.Body)
			if len(body) > 0 {
				_ = json.Unmarshal(body, capture)
			}
		}

		hits := make([]map[string]any, 0, len(lectureIDs))
		for _, id := range lectureIDs {
			hits = append(hits, map[string]any{
				"_source": map[string]any{"lecture_id": id},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"hits": map[string]any{"hits": hits},
		})
	}))
}

func newTestSearcher(t *testing.T, srv *httptest.Server) *LectureSearcher {
	t.Helper()
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewLectureSearcher(&elastic.Client{ES: es, Index: "lecture_materials"})
}

func TestSearchLecturesReturnsRankedIDs(t *testing.T) {
	srv := newSearchTestServer(t, []int64{7, 3, 12}, nil)
	defer srv.Close()

	ids, err := newTestSearcher(t, srv).SearchLectures(context.Background(), "graph databases")

	require.NoError(t, err)
	assert.Equal(t, []int64{7, 3, 12}, ids, "index ranking order is preserved")
}

func TestSearchLecturesSendsWeightedMultiMatch(t *testing.T) {
	var captured map[string]any
	srv := newSearchTestServer(t, nil, &captured)
	defer srv.Close()

	_, err := newTestSearcher(t, srv).SearchLectures(context.Background(), "systems")

	require.NoError(t, err)
	require.NotNil(t, captured)

	query := captured["query"].(map[string]any)
	mm := query["multi_match"].(map[string]any)
	assert.Equal(t, "systems", mm["query"])
	assert.Equal(t, "best_fields", mm["type"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
	assert.ElementsMatch(t,
		[]any{"lecture_name^3", "course_name^2", "content", "keywords"},
		mm["fields"].([]any))
	assert.Equal(t, float64(maxSearchResults), captured["size"])
}

func TestSearchLecturesEmptyTermSkipsTheIndex(t *testing.T) {
	var captured map[string]any
	srv := newSearchTestServer(t, []int64{1}, &captured)
	defer srv.Close()

	ids, err := newTestSearcher(t, srv).SearchLectures(context.Background(), "")

	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Nil(t, captured, "no request must reach the index")
}

func TestSearchLecturesNoMatches(t *testing.T) {
	srv := newSearchTestServer(t, nil, nil)
	defer srv.Close()

	ids, err := newTestSearcher(t, srv).SearchLectures(context.Background(), "zzz_no_match")

	require.NoError(t, err, "zero hits is not an error")
	assert.Empty(t, ids)
}

func TestSearchLecturesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestSearcher(t, srv).SearchLectures(context.Background(), "systems")

	assert.Error(t, err)
}
