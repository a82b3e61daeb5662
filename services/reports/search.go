// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/AleutianAI/CampusGraph/pkg/stores/elastic"
)

// maxSearchResults caps how many lecture candidates one search returns.
const maxSearchResults = 100

// Searcher finds lecture ids matching a free-text term. An empty result
// is not an error; it means no report can be produced for the term.
type Searcher interface {
	SearchLectures(ctx context.Context, term string) ([]int64, error)
}

// LectureSearcher queries the lecture-material index. Ranking is the
// index's business; the gateway only fixes the fields, their weights,
// and typo tolerance.
type LectureSearcher struct {
	client *elastic.Client
}

// NewLectureSearcher wraps an Elasticsearch client.
func NewLectureSearcher(client *elastic.Client) *LectureSearcher {
	return &LectureSearcher{client: client}
}

type searchHit struct {
	Source struct {
		LectureID int64 `json:"lecture_id"`
	} `json:"_source"`
}

type searchResponse struct {
	Hits struct {
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

// SearchLectures runs a best-fields multi_match over lecture name,
// course name, content and keywords, with automatic fuzziness. Results
// come back ranked best-first, capped at 100.
func (s *LectureSearcher) SearchLectures(ctx context.Context, term string) ([]int64, error) {
	if term == "" {
		return nil, nil
	}

	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     term,
				"fields":    []string{"lecture_name^3", "course_name^2", "content", "keywords"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
		"size": maxSearchResults,
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(query); err != nil {
		return nil, fmt.Errorf("encoding search query: %w", err)
	}

	es := s.client.ES
	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(s.client.Index),
		es.Search.WithBody(&body),
	)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", s.client.Index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		// Drain for connection reuse before reporting.
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("search returned %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	ids := make([]int64, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		ids = append(ids, hit.Source.LectureID)
	}
	return ids, nil
}
