// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package rediscache wraps the go-redis client for the profile cache.
package rediscache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/AleutianAI/CampusGraph/pkg/config"
)

// Client holds a connected Redis client.
type Client struct {
	RDB *redis.Client
}

// New creates a Redis client and verifies connectivity.
func New(ctx context.Context, cfg config.Redis) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}

	return &Client{RDB: rdb}, nil
}

// Close releases the client's connection pool.
func (c *Client) Close() error {
	return c.RDB.Close()
}
