// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package admission prices incoming transactions using the load fee tracker
// and owns the trigger policy that moves the local load level: overload
// signals reported by the validation pipeline raise it, quiet ticks let it
// decay back to the baseline.
package admission

import (
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/lodenet/lode/pkg/loadfee"
	"github.com/lodenet/lode/pkg/logging"
)

const (
	// DefaultRaiseThreshold is the number of overload signals within one
	// tick that raises the local load level.
	DefaultRaiseThreshold = 3
	// DefaultTickInterval is the default cadence of the level update loop.
	DefaultTickInterval = 10 * time.Second
)

var _ Interface = (*Service)(nil)

// Interface is the pricing interface used by the transaction pipeline.
type Interface interface {
	// Price converts a transaction's fee units into monetary units at the
	// current load factor. Privileged callers get the relief the tracker
	// grants them.
	Price(feeUnits uint64, privileged bool) uint64
	// BasePrice converts fee units into monetary units at the zero-load
	// rate.
	BasePrice(feeUnits uint64) uint64
	// Signal records one overload observation, for example a rejected
	// transaction or a saturated queue.
	Signal()
	// Fees returns the fee snapshot for status reporting.
	Fees() loadfee.FeeInfo
}

// LevelObserver is notified after the local load level changed, so that the
// new level can be announced to connected peers.
type LevelObserver interface {
	NotifyLocalLevel(level uint32)
}

// Options for the admission service.
type Options struct {
	Tracker        loadfee.Interface
	Logger         logging.Logger
	BaseFee        uint64
	RefFeeUnits    uint32
	RaiseThreshold int
	TickInterval   time.Duration
}

type Service struct {
	tracker        loadfee.Interface
	logger         logging.Logger
	baseFee        uint64
	refFeeUnits    uint32
	raiseThreshold int
	signals        atomic.Int64
	metrics        metrics

	// observerMu guards observer, which may be set after the level
	// update loop is already running.
	observerMu sync.Mutex
	observer   LevelObserver

	quit chan struct{}
	done chan struct{}
}

// New creates the admission service and starts its level update loop.
func New(o Options) *Service {
	if o.RaiseThreshold <= 0 {
		o.RaiseThreshold = DefaultRaiseThreshold
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	s := &Service{
		tracker:        o.Tracker,
		logger:         o.Logger,
		baseFee:        o.BaseFee,
		refFeeUnits:    o.RefFeeUnits,
		raiseThreshold: o.RaiseThreshold,
		metrics:        newMetrics(),
		quit:           make(chan struct{}),
		done:           make(chan struct{}),
	}
	go s.manage(o.TickInterval)
	return s
}

func (s *Service) manage(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Service) tick() {
	n := s.signals.Swap(0)

	var changed bool
	if n >= int64(s.raiseThreshold) {
		changed = s.tracker.RaiseLocal()
		s.metrics.RaiseTicks.Inc()
	} else {
		changed = s.tracker.LowerLocal()
		s.metrics.LowerTicks.Inc()
	}

	if !changed {
		return
	}

	s.observerMu.Lock()
	observer := s.observer
	s.observerMu.Unlock()

	if observer != nil {
		observer.NotifyLocalLevel(s.tracker.LocalLevel())
	}
}

// Price converts fee units into monetary units at the current load factor.
func (s *Service) Price(feeUnits uint64, privileged bool) uint64 {
	s.metrics.PricedRequests.Inc()
	return s.tracker.ScaleFeeLoad(feeUnits, s.baseFee, s.refFeeUnits, privileged)
}

// BasePrice converts fee units into monetary units at the zero-load rate.
func (s *Service) BasePrice(feeUnits uint64) uint64 {
	return s.tracker.ScaleFeeBase(feeUnits, s.baseFee, s.refFeeUnits)
}

// Signal records one overload observation.
func (s *Service) Signal() {
	s.signals.Inc()
	s.metrics.SignalCount.Inc()
}

// Fees returns the fee snapshot for status reporting.
func (s *Service) Fees() loadfee.FeeInfo {
	return s.tracker.Fees(s.baseFee)
}

// SetLevelObserver sets the observer notified after local level changes.
// It is safe to call while the level update loop is running.
func (s *Service) SetLevelObserver(observer LevelObserver) {
	s.observerMu.Lock()
	defer s.observerMu.Unlock()
	s.observer = observer
}

// Close stops the level update loop.
func (s *Service) Close() error {
	close(s.quit)
	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		s.logger.Warning("admission: level update loop did not stop in time")
	}
	return nil
}
