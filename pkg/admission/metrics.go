// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package admission

import (
	"github.com/prometheus/client_golang/prometheus"

	m "github.com/lodenet/lode/pkg/metrics"
)

type metrics struct {
	// all metrics fields must be exported
	// to be able to return them by Metrics()
	// using reflection
	SignalCount    prometheus.Counter
	PricedRequests prometheus.Counter
	RaiseTicks     prometheus.Counter
	LowerTicks     prometheus.Counter
}

func newMetrics() metrics {
	subsystem := "admission"

	return metrics{
		SignalCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "signal_count",
			Help:      "Number of overload signals reported by the transaction pipeline.",
		}),
		PricedRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "priced_requests",
			Help:      "Number of transactions priced at the load rate.",
		}),
		RaiseTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "raise_ticks",
			Help:      "Number of update ticks that requested a level raise.",
		}),
		LowerTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "lower_ticks",
			Help:      "Number of update ticks that requested a level lowering.",
		}),
	}
}

// Metrics returns the prometheus collectors for the service.
func (s *Service) Metrics() []prometheus.Collector {
	return m.PrometheusCollectorsFromFields(s.metrics)
}
