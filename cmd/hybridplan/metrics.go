package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	planRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hybridplan_plan_requests_total",
		Help: "Plan requests by search outcome",
	}, []string{"outcome"})

	planDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hybridplan_plan_duration_seconds",
		Help:    "Wall time spent searching per plan request",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	})

	planNodesExpanded = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hybridplan_nodes_expanded",
		Help:    "Lattice nodes expanded per plan request",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	planRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hybridplan_plan_rejected_total",
		Help: "Plan requests rejected before searching",
	}, []string{"reason"})
)
