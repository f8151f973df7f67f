// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi

import (
	"net/http"

	"github.com/lodenet/lode/pkg/jsonhttp"
)

type loadStatusResponse struct {
	LocalLevel    uint32 `json:"local_level"`
	RemoteLevel   uint32 `json:"remote_level"`
	ClusterLevel  uint32 `json:"cluster_level"`
	LoadBase      uint32 `json:"load_base"`
	LoadFactor    uint32 `json:"load_factor"`
	LoadedLocal   bool   `json:"loaded_local"`
	LoadedCluster bool   `json:"loaded_cluster"`
}

// loadFeeHandler serves the fee snapshot. The base_fee and load_fee field
// names are a wire contract with existing consumers.
func (s *Service) loadFeeHandler(w http.ResponseWriter, _ *http.Request) {
	jsonhttp.OK(w, s.tracker.Fees(s.baseFee))
}

func (s *Service) loadHandler(w http.ResponseWriter, _ *http.Request) {
	jsonhttp.OK(w, loadStatusResponse{
		LocalLevel:    s.tracker.LocalLevel(),
		RemoteLevel:   s.tracker.RemoteLevel(),
		ClusterLevel:  s.tracker.ClusterLevel(),
		LoadBase:      s.tracker.LoadBase(),
		LoadFactor:    s.tracker.LoadFactor(),
		LoadedLocal:   s.tracker.IsLoadedLocal(),
		LoadedCluster: s.tracker.IsLoadedCluster(),
	})
}
