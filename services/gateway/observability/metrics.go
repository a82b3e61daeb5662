// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the gateway.
//
// Metrics cover the report endpoints and sync runs, exposed on
// /metrics for Prometheus scraping. All operations are thread-safe via
// Prometheus's internal locking.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "campusgraph"

// GatewayMetrics holds all Prometheus metrics for the gateway service.
// Initialize once at startup via NewGatewayMetrics().
type GatewayMetrics struct {
	// RequestsTotal counts report requests by endpoint and status.
	// Labels: endpoint (attendance, audience, group, sync), status
	// (success, not_found, invalid, error)
	RequestsTotal *prometheus.CounterVec

	// RequestDuration measures report request latency.
	// Labels: endpoint
	RequestDuration *prometheus.HistogramVec

	// SyncRunsTotal counts sync runs by outcome.
	// Labels: status (success, error)
	SyncRunsTotal *prometheus.CounterVec

	// SyncStageDuration measures per-stage sync duration.
	// Labels: stage
	SyncStageDuration *prometheus.HistogramVec

	// SyncRowsTotal counts rows upserted per stage.
	// Labels: stage
	SyncRowsTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance used by the handlers.
var DefaultMetrics = NewGatewayMetrics()

// NewGatewayMetrics creates and registers all gateway metrics with the
// default Prometheus registry. Call once; promauto panics on duplicate
// registration.
func NewGatewayMetrics() *GatewayMetrics {
	return &GatewayMetrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Report requests by endpoint and status.",
		}, []string{"endpoint", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Report request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		SyncRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Sync runs by outcome.",
		}, []string{"status"}),
		SyncStageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "sync",
			Name:      "stage_duration_seconds",
			Help:      "Per-stage sync duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		SyncRowsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sync",
			Name:      "rows_total",
			Help:      "Rows upserted per sync stage.",
		}, []string{"stage"}),
	}
}

// ObserveRequest records one report request.
func (m *GatewayMetrics) ObserveRequest(endpoint, status string, took time.Duration) {
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(took.Seconds())
}

// ObserveSyncStage records one completed sync stage.
func (m *GatewayMetrics) ObserveSyncStage(stage string, rows int64, took time.Duration) {
	m.SyncStageDuration.WithLabelValues(stage).Observe(took.Seconds())
	m.SyncRowsTotal.WithLabelValues(stage).Add(float64(rows))
}
