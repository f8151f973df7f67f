// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadsync

import (
	"github.com/prometheus/client_golang/prometheus"

	m "github.com/lodenet/lode/pkg/metrics"
)

type metrics struct {
	// all metrics fields must be exported
	// to be able to return them by Metrics()
	// using reflection
	SentAnnouncements     prometheus.Counter
	ReceivedAnnouncements prometheus.Counter
}

func newMetrics() metrics {
	subsystem := "loadsync"

	return metrics{
		SentAnnouncements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "sent_announcements",
			Help:      "Number of load level announcements sent to peers.",
		}),
		ReceivedAnnouncements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "received_announcements",
			Help:      "Number of load level announcements received from peers.",
		}),
	}
}

// Metrics returns the prometheus collectors for the service.
func (s *Service) Metrics() []prometheus.Collector {
	return m.PrometheusCollectorsFromFields(s.metrics)
}
