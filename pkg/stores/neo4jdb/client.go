// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package neo4jdb wraps the Neo4j driver used for the derived graph.
//
// Sessions are scoped resources: callers open one per operation with
// ReadSession/WriteSession and must close it on every exit path. The
// package holds no session state of its own.
package neo4jdb

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/AleutianAI/CampusGraph/pkg/config"
)

// Client holds the Neo4j driver and the target database name.
type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
}

// New creates a Neo4j client and verifies connectivity.
func New(ctx context.Context, cfg config.Neo4j) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j unreachable: %w", err)
	}

	return &Client{Driver: driver, Database: cfg.Database}, nil
}

// WriteSession opens a write-mode session. The caller owns the session
// and must Close it.
func (c *Client) WriteSession(ctx context.Context) neo4j.SessionWithContext {
	return c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: c.Database,
	})
}

// ReadSession opens a read-mode session. The caller owns the session
// and must Close it.
func (c *Client) ReadSession(ctx context.Context) neo4j.SessionWithContext {
	return c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: c.Database,
	})
}

// Close shuts down the driver and its connection pool.
func (c *Client) Close(ctx context.Context) error {
	return c.Driver.Close(ctx)
}
