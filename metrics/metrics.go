// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	MetricsNamespace       = "airdrops"
	MetricsSubsystemSystem = "system"
	MetricsSubsystemSteps  = "steps"

	MetricsVersionLabel = "version"
	MetricsTierLabel    = "tier"
)

type Metrics interface {
	GetRegistry() *prometheus.Registry

	ObserveParse(tier string, stepCount int, elapsed float64)

	IncrementCacheHits()
	IncrementCacheMisses()
	IncrementTruncatedInputs()
}

type InstanceInfo struct {
	Version string
}

// metrics used to instrumentate step parsing in prometheus.
type metrics struct {
	registry *prometheus.Registry

	startTime prometheus.Gauge
	info      prometheus.Gauge

	parsesTotal  *prometheus.CounterVec
	parseTime    prometheus.Histogram
	stepsPerDoc  prometheus.Histogram
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	truncatedDoc prometheus.Counter
}

// NewMetrics Factory method to create a new metrics collector.
func NewMetrics(info InstanceInfo) Metrics {
	m := &metrics{}

	m.registry = prometheus.NewRegistry()
	options := collectors.ProcessCollectorOpts{
		Namespace: MetricsNamespace,
	}
	m.registry.MustRegister(collectors.NewProcessCollector(options))
	m.registry.MustRegister(collectors.NewGoCollector())

	m.startTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemSystem,
		Name:      "start_timestamp_seconds",
		Help:      "The time the process started.",
	})
	m.startTime.SetToCurrentTime()
	m.registry.MustRegister(m.startTime)

	m.info = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemSystem,
		Name:      "info",
		Help:      "The build version.",
		ConstLabels: map[string]string{
			MetricsVersionLabel: info.Version,
		},
	})
	m.info.Set(1)
	m.registry.MustRegister(m.info)

	m.parsesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemSteps,
		Name:      "parses_total",
		Help:      "The total number of participation step parses, by the tier that matched.",
	}, []string{MetricsTierLabel})
	m.registry.MustRegister(m.parsesTotal)

	m.parseTime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemSteps,
		Name:      "parse_time_seconds",
		Help:      "Time to parse participation steps.",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
	})
	m.registry.MustRegister(m.parseTime)

	m.stepsPerDoc = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemSteps,
		Name:      "steps_per_document",
		Help:      "Number of steps extracted per parsed document.",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})
	m.registry.MustRegister(m.stepsPerDoc)

	m.cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemSteps,
		Name:      "cache_hits_total",
		Help:      "The total number of parses served from the cache.",
	})
	m.registry.MustRegister(m.cacheHits)

	m.cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemSteps,
		Name:      "cache_misses_total",
		Help:      "The total number of parses not found in the cache.",
	})
	m.registry.MustRegister(m.cacheMisses)

	m.truncatedDoc = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemSteps,
		Name:      "truncated_inputs_total",
		Help:      "The total number of inputs truncated for exceeding the size limit.",
	})
	m.registry.MustRegister(m.truncatedDoc)

	return m
}

func (m *metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

func (m *metrics) ObserveParse(tier string, stepCount int, elapsed float64) {
	if m == nil {
		return
	}

	if tier == "" {
		tier = "unknown"
	}

	m.parsesTotal.With(prometheus.Labels{MetricsTierLabel: tier}).Inc()
	m.parseTime.Observe(elapsed)
	m.stepsPerDoc.Observe(float64(stepCount))
}

func (m *metrics) IncrementCacheHits() {
	if m != nil {
		m.cacheHits.Inc()
	}
}

func (m *metrics) IncrementCacheMisses() {
	if m != nil {
		m.cacheMisses.Inc()
	}
}

func (m *metrics) IncrementTruncatedInputs() {
	if m != nil {
		m.truncatedDoc.Inc()
	}
}
