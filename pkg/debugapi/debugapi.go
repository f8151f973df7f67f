// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package debugapi exposes the debug API used to control and analyze
// low-level and runtime features and functionalities of Lode.
package debugapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lodenet/lode/pkg/loadfee"
	"github.com/lodenet/lode/pkg/logging"
)

// Service implements http.Handler interface to be used in HTTP server.
type Service struct {
	tracker            loadfee.Interface
	baseFee            uint64
	logger             logging.Logger
	corsAllowedOrigins []string
	metricsRegistry    *prometheus.Registry
	handler            http.Handler
}

// New creates a new debug API service. The base fee is echoed in the fee
// snapshot endpoint and scaled by the current load.
func New(tracker loadfee.Interface, baseFee uint64, logger logging.Logger, corsAllowedOrigins []string) *Service {
	s := &Service{
		tracker:            tracker,
		baseFee:            baseFee,
		logger:             logger,
		corsAllowedOrigins: corsAllowedOrigins,
		metricsRegistry:    newMetricsRegistry(),
	}
	s.setupRouting()

	return s
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
