// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mock provides a mock implementation of the load fee tracker for
// use in consumer tests.
package mock

import (
	"sync"

	"github.com/lodenet/lode/pkg/loadfee"
)

var _ loadfee.Interface = (*Service)(nil)

// Service is a configurable in-memory stand-in for the load fee tracker.
type Service struct {
	mu           sync.Mutex
	localLevel   uint32
	remoteLevel  uint32
	clusterLevel uint32
	raiseCalls   int
	lowerCalls   int
	raiseChanges bool
	lowerChanges bool
}

// Option configures the mock Service.
type Option interface {
	apply(*Service)
}

type optionFunc func(*Service)

func (f optionFunc) apply(s *Service) { f(s) }

// WithLocalLevel sets the initial local level.
func WithLocalLevel(level uint32) Option {
	return optionFunc(func(s *Service) {
		s.localLevel = level
	})
}

// WithRemoteLevel sets the initial remote level.
func WithRemoteLevel(level uint32) Option {
	return optionFunc(func(s *Service) {
		s.remoteLevel = level
	})
}

// WithClusterLevel sets the initial cluster level.
func WithClusterLevel(level uint32) Option {
	return optionFunc(func(s *Service) {
		s.clusterLevel = level
	})
}

// WithRaiseChanges makes RaiseLocal report a level change.
func WithRaiseChanges() Option {
	return optionFunc(func(s *Service) {
		s.raiseChanges = true
	})
}

// WithLowerChanges makes LowerLocal report a level change.
func WithLowerChanges() Option {
	return optionFunc(func(s *Service) {
		s.lowerChanges = true
	})
}

// NewService creates a mock tracker with all levels at Reference unless
// overridden by options.
func NewService(opts ...Option) *Service {
	s := &Service{
		localLevel:   loadfee.Reference,
		remoteLevel:  loadfee.Reference,
		clusterLevel: loadfee.Reference,
	}
	for _, o := range opts {
		o.apply(s)
	}
	return s
}

func (s *Service) RaiseLocal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.raiseCalls++
	return s.raiseChanges
}

func (s *Service) LowerLocal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lowerCalls++
	return s.lowerChanges
}

func (s *Service) SetRemote(level uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remoteLevel = level
}

func (s *Service) SetCluster(level uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clusterLevel = level
}

func (s *Service) LocalLevel() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.localLevel
}

func (s *Service) RemoteLevel() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remoteLevel
}

func (s *Service) ClusterLevel() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clusterLevel
}

func (s *Service) LoadBase() uint32 {
	return loadfee.Reference
}

func (s *Service) LoadFactor() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return max32(s.clusterLevel, max32(s.localLevel, s.remoteLevel))
}

func (s *Service) IsLoadedLocal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.localLevel != loadfee.Reference
}

func (s *Service) IsLoadedCluster() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.localLevel != loadfee.Reference || s.clusterLevel != loadfee.Reference
}

func (s *Service) ScaleFeeLoad(fee, baseFee uint64, refFeeUnits uint32, privileged bool) uint64 {
	s.mu.Lock()
	factor := max32(s.localLevel, s.remoteLevel)
	s.mu.Unlock()

	return fee * baseFee * uint64(factor) / uint64(loadfee.Reference) / uint64(refFeeUnits)
}

func (s *Service) ScaleFeeBase(fee, baseFee uint64, refFeeUnits uint32) uint64 {
	return fee * baseFee / uint64(refFeeUnits)
}

func (s *Service) Fees(baseFee uint64) loadfee.FeeInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return loadfee.FeeInfo{
		BaseFee: baseFee,
		LoadFee: baseFee * uint64(max32(s.localLevel, s.remoteLevel)) / uint64(loadfee.Reference),
	}
}

// RaiseCalls returns the number of RaiseLocal calls.
func (s *Service) RaiseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.raiseCalls
}

// LowerCalls returns the number of LowerLocal calls.
func (s *Service) LowerCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lowerCalls
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
