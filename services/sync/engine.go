// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package sync reconciles the relational academic records into the
// derived Neo4j graph.
//
// One run is one ordered pass through all stages: University →
// Institute → Department → Specialty → Group → Course/Lecture → Session
// → Student → Attendance. Each stage compiles its slice of the
// relational snapshot into MERGE-by-key upserts, so running the engine
// twice on unchanged input produces an identical graph. There is no
// cross-stage rollback; a failure in stage N leaves stages 1..N-1
// committed, and re-running the whole sequence is corrective.
//
// The engine never deletes graph entities. Rows removed from the
// relational source leave orphaned nodes behind; reconciling deletions
// is out of scope.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/CampusGraph/pkg/logging"
	"github.com/AleutianAI/CampusGraph/pkg/stores/neo4jdb"
)

var syncTracer = otel.Tracer("campusgraph.services.sync")

// GraphWriter applies one stage's upsert operations to the graph store
// inside a single write transaction.
type GraphWriter interface {
	ApplyStage(ctx context.Context, stage string, ops []UpsertOp) error
}

// StageResult reports one executed stage.
type StageResult struct {
	Stage    string        `json:"stage"`
	Rows     int64         `json:"rows"`
	Duration time.Duration `json:"duration"`
}

// RunSummary reports one full sync run.
type RunSummary struct {
	Stages []StageResult `json:"stages"`
	Took   time.Duration `json:"took"`
}

// Engine orchestrates sync runs.
type Engine struct {
	source Source
	graph  GraphWriter
	log    *logging.Logger
}

// NewEngine wires a snapshot source and a graph writer.
func NewEngine(source Source, graph GraphWriter, log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Default()
	}
	return &Engine{source: source, graph: graph, log: log}
}

// Run executes one full reconciliation pass. The snapshot is read once
// up front; stages then execute strictly in dependency order and the
// first failure aborts the remainder of the run.
func (e *Engine) Run(ctx context.Context) (*RunSummary, error) {
	ctx, span := syncTracer.Start(ctx, "Engine.Run")
	defer span.End()

	started := time.Now()

	snap, err := e.source.Snapshot(ctx)
	if err != nil {
		e.log.Error("relational snapshot failed", "error", err)
		return nil, fmt.Errorf("%w: reading relational snapshot", ErrUpstreamUnavailable)
	}

	summary := &RunSummary{}
	for _, stage := range Stages() {
		stageStart := time.Now()
		ops := stage.Build(snap)

		var rows int64
		for _, op := range ops {
			rows += op.Expect
		}

		if err := e.graph.ApplyStage(ctx, stage.Name, ops); err != nil {
			e.log.Error("sync stage failed, aborting run",
				"stage", stage.Name, "error", err)
			return summary, err
		}

		result := StageResult{Stage: stage.Name, Rows: rows, Duration: time.Since(stageStart)}
		summary.Stages = append(summary.Stages, result)
		e.log.Info("sync stage complete",
			"stage", stage.Name, "rows", rows, "duration", result.Duration)
	}

	summary.Took = time.Since(started)
	e.log.Info("sync run complete", "stages", len(summary.Stages), "took", summary.Took)
	return summary, nil
}

// Neo4jWriter applies stage operations against Neo4j. Each stage runs
// in its own session and managed write transaction; the session is
// closed on every exit path.
type Neo4jWriter struct {
	client *neo4jdb.Client
}

// NewNeo4jWriter wraps a Neo4j client as a GraphWriter.
func NewNeo4jWriter(client *neo4jdb.Client) *Neo4jWriter {
	return &Neo4jWriter{client: client}
}

// ApplyStage runs the stage's operations in one write transaction.
// Every statement returns count(*); a shortfall against op.Expect means
// a relationship referenced a parent node that does not exist, which is
// fatal for the run.
func (w *Neo4jWriter) ApplyStage(ctx context.Context, stage string, ops []UpsertOp) error {
	if len(ops) == 0 {
		return nil
	}

	session := w.client.WriteSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, op := range ops {
			res, err := tx.Run(ctx, op.Query, op.Params)
			if err != nil {
				return nil, fmt.Errorf("%w: stage %s: %v", ErrUpstreamUnavailable, stage, err)
			}
			record, err := res.Single(ctx)
			if err != nil {
				return nil, fmt.Errorf("%w: stage %s: %v", ErrUpstreamUnavailable, stage, err)
			}
			n, _ := record.Get("n")
			applied, ok := n.(int64)
			if !ok {
				return nil, fmt.Errorf("%w: stage %s: unexpected count type %T", ErrUpstreamUnavailable, stage, n)
			}
			if op.Expect > 0 && applied < op.Expect {
				return nil, fmt.Errorf("%w: stage %s applied %d of %d rows",
					ErrMissingDependency, stage, applied, op.Expect)
			}
		}
		return nil, nil
	})
	return err
}
