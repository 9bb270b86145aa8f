// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dreaming"

var (
	// HTTPRequestsTotal counts handled requests.
	// Labels: method, route (gin full path), status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Handled HTTP requests.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// PledgeReconciliationsTotal counts reconciliation attempts by outcome:
	// created, updated, deleted, noop, or the rejection reason.
	PledgeReconciliationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pledges",
		Name:      "reconciliations_total",
		Help:      "Pledge reconciliations by outcome.",
	}, []string{"outcome"})

	// FundInjectionsTotal counts webhook fund injections by outcome.
	FundInjectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "funds",
		Name:      "injections_total",
		Help:      "Webhook fund injections by outcome.",
	}, []string{"outcome"})
)
