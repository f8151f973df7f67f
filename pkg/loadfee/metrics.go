// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadfee

import (
	"github.com/prometheus/client_golang/prometheus"

	m "github.com/lodenet/lode/pkg/metrics"
)

type metrics struct {
	// all metrics fields must be exported
	// to be able to return them by Metrics()
	// using reflection
	LocalLevel        prometheus.Gauge
	RemoteLevel       prometheus.Gauge
	ClusterLevel      prometheus.Gauge
	RaiseRequestCount prometheus.Counter
	RaiseCount        prometheus.Counter
	LowerCount        prometheus.Counter
}

func newMetrics() metrics {
	subsystem := "loadfee"

	return metrics{
		LocalLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "local_level",
			Help:      "Load level measured by the local node.",
		}),
		RemoteLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "remote_level",
			Help:      "Load level last reported by a counterparty peer.",
		}),
		ClusterLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "cluster_level",
			Help:      "Load level reported by a trusted cluster member.",
		}),
		RaiseRequestCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "raise_request_count",
			Help:      "Number of local level raise requests, including debounced ones.",
		}),
		RaiseCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "raise_count",
			Help:      "Number of local level raises that changed the level.",
		}),
		LowerCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "lower_count",
			Help:      "Number of local level lowerings that changed the level.",
		}),
	}
}

// Metrics returns the prometheus collectors for the tracker.
func (t *Tracker) Metrics() []prometheus.Collector {
	return m.PrometheusCollectorsFromFields(t.metrics)
}
