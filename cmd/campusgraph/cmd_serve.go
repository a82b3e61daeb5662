// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/CampusGraph/pkg/config"
	"github.com/AleutianAI/CampusGraph/pkg/stores/elastic"
	"github.com/AleutianAI/CampusGraph/pkg/stores/neo4jdb"
	"github.com/AleutianAI/CampusGraph/pkg/stores/postgres"
	"github.com/AleutianAI/CampusGraph/pkg/stores/rediscache"
	"github.com/AleutianAI/CampusGraph/services/gateway/handlers"
	"github.com/AleutianAI/CampusGraph/services/gateway/routes"
	"github.com/AleutianAI/CampusGraph/services/reports"
	"github.com/AleutianAI/CampusGraph/services/sync"
)

const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the report gateway HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
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

	search, err := elastic.New(ctx, cfg.Elastic)
	if err != nil {
		return fmt.Errorf("connecting to elasticsearch: %w", err)
	}

	cache, err := rediscache.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer cache.Close()

	reportSvc := reports.NewService(
		reports.NewLectureSearcher(search),
		reports.NewGraphAnalytics(graph),
		reports.NewRedisProfiles(cache),
		log)
	engine := sync.NewEngine(sync.NewPGSource(pg), sync.NewNeo4jWriter(graph), log)

	stores := map[string]handlers.Pinger{
		"postgres": pg,
		"neo4j":    neo4jPinger{graph},
		"redis":    redisPinger{cache},
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	routes.SetupRoutes(router, cfg.Gateway, reportSvc, engine, stores, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Gateway.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("gateway listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("gateway server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// neo4jPinger adapts the driver's connectivity check to the health
// handler's Pinger.
type neo4jPinger struct{ client *neo4jdb.Client }

func (p neo4jPinger) Ping(ctx context.Context) error {
	return p.client.Driver.VerifyConnectivity(ctx)
}

type redisPinger struct{ client *rediscache.Client }

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.RDB.Ping(ctx).Err()
}
