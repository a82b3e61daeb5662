// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CampusGraph/pkg/config"
	"github.com/AleutianAI/CampusGraph/pkg/stores/neo4jdb"
	"github.com/AleutianAI/CampusGraph/pkg/stores/postgres"
	"github.com/AleutianAI/CampusGraph/services/sync"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one relational-to-graph reconciliation pass",
	Long: "Reads a snapshot of the relational academic records and upserts it\n" +
		"into the Neo4j graph in dependency order. The run is idempotent and\n" +
		"safe to repeat; a failed run is corrected by running again.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := newLogger(cfg)

	pg, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer pg.Close()

	graph, err := neo4jdb.New(ctx, cfg.Neo4j)
	if err != nil {
		return fmt.Errorf("connecting to neo4j: %w", err)
	}
	defer graph.Close(ctx)

	engine := sync.NewEngine(sync.NewPGSource(pg), sync.NewNeo4jWriter(graph), log)

	summary, err := engine.Run(ctx)
	if summary != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(summary)
	}
	if err != nil {
		return fmt.Errorf("sync run: %w", err)
	}
	return nil
}
