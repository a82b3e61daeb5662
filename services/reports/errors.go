// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package reports

import "errors"

var (
	// ErrInvalidRange rejects a report request whose start date falls
	// after its end date. Checked before any store I/O.
	ErrInvalidRange = errors.New("invalid report range")

	// ErrNoCandidates means the full-text search matched no lectures,
	// so no report exists for the term. Distinct from a report whose
	// candidates simply had no qualifying rows in the window.
	ErrNoCandidates = errors.New("no lectures matched the search term")

	// ErrUpstreamUnavailable is what the pipeline surfaces when any of
	// the consulted stores fails. The underlying store error is logged,
	// not returned, so internal detail never reaches the boundary.
	ErrUpstreamUnavailable = errors.New("upstream store unavailable")
)
