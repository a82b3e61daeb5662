// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sync

import "errors"

var (
	// ErrUpstreamUnavailable indicates a store connection could not be
	// established or a query failed. The current run is aborted;
	// re-running is safe because every stage is an idempotent upsert.
	ErrUpstreamUnavailable = errors.New("upstream store unavailable")

	// ErrMissingDependency indicates a stage referenced a parent node
	// that was never upserted. This is an ordering bug or an incomplete
	// prior stage, so the run aborts rather than retries.
	ErrMissingDependency = errors.New("missing parent node for relationship")
)
