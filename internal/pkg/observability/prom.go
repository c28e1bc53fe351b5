package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "posecoach"
)

var (
	FrameProcessDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "frame", "process_duration_seconds"),
		Help:    "Duration of a single frame going through extraction, comparison and projection in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	}, []string{"source"})
	FrameOutcome = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "frame", "outcome_total"),
		Help: "Processed frames by resulting feedback status",
	}, []string{"status", "source"})
	FrameConsumeMessagingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "frame", "consume_messaging_latency_seconds"),
		Help:    "Messaging latency of frame consumption in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{})
	FrameAccuracy = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "frame", "accuracy_percent"),
		Help:    "Accuracy distribution of compared frames",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "session", "active"),
		Help: "Number of comparison sessions held by this instance",
	})
	ReferenceReDerived = promauto.NewCounter(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "reference", "rederived_total"),
		Help: "References whose angles were re-derived because they were stored under another formulation or catalog",
	})
)
