// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace is prefixed before every metric. If it is changed, it must be done
// before any metrics collector is registered.
var Namespace = "lode"

type Collector interface {
	Metrics() []prometheus.Collector
}

// PrometheusCollectorsFromFields returns all the exported struct fields of i
// that implement the prometheus.Collector interface. It is meant to be used
// with the per-service metrics struct convention, where every service holds
// its collectors as fields of an unexported metrics struct.
func PrometheusCollectorsFromFields(i interface{}) (collectors []prometheus.Collector) {
	v := reflect.Indirect(reflect.ValueOf(i))
	for n := 0; n < v.NumField(); n++ {
		f := v.Field(n)
		if !f.CanInterface() {
			continue
		}
		if u, ok := f.Interface().(prometheus.Collector); ok {
			collectors = append(collectors, u)
		}
	}
	return collectors
}
