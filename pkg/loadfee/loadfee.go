// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loadfee tracks the load level of the local node together with the
// levels reported by counterparty peers and trusted cluster members, and
// scales transaction fees by the resulting load factor. It is the price
// signal for admission control: the accept/reject policy lives with the
// callers.
package loadfee

import (
	"sync"

	"github.com/lodenet/lode/pkg/logging"
)

const (
	// Reference is the minimum and normal load level, a fixed-point scale
	// factor of 1.0.
	Reference uint32 = 256
	// MaxLevel is the hard ceiling for the local load level.
	MaxLevel uint32 = Reference * 1_000_000

	levelIncFraction = 4 // raise the level by 1/4
	levelDecFraction = 4 // lower the level by 1/4

	// Values above this boundary divide before multiplying in mulDiv to
	// avoid 64-bit overflow. Changing it changes observable rounding.
	midrange uint64 = 0x00000000FFFFFFFF
)

var _ Interface = (*Tracker)(nil)

// Interface is the main interface of the load fee tracker.
type Interface interface {
	// RaiseLocal raises the local load level by one step. Consecutive raise
	// requests below the debounce threshold are ignored. It reports whether
	// the stored level changed.
	RaiseLocal() bool
	// LowerLocal lowers the local load level by one step, never below
	// Reference, and resets the raise streak. It reports whether the stored
	// level changed.
	LowerLocal() bool
	// SetRemote stores the load level last reported by a counterparty peer.
	SetRemote(level uint32)
	// SetCluster stores the load level reported by a trusted cluster member.
	SetCluster(level uint32)
	LocalLevel() uint32
	RemoteLevel() uint32
	ClusterLevel() uint32
	// LoadBase returns the Reference level.
	LoadBase() uint32
	// LoadFactor returns the effective scale factor, the maximum of the
	// local, remote and cluster levels.
	LoadFactor() uint32
	// IsLoadedLocal reports whether the local node is under load.
	IsLoadedLocal() bool
	// IsLoadedCluster reports whether the local node or the cluster is
	// under load.
	IsLoadedCluster() bool
	// ScaleFeeLoad scales fee from fee units to monetary units, weighted by
	// the current load factor. Privileged callers are shielded from
	// local-only load spikes up to a 4x band.
	ScaleFeeLoad(fee, baseFee uint64, refFeeUnits uint32, privileged bool) uint64
	// ScaleFeeBase scales fee from fee units to monetary units at the base
	// rate, without load weighting.
	ScaleFeeBase(fee, baseFee uint64, refFeeUnits uint32) uint64
	// Fees returns the current fee snapshot for status reporting.
	Fees(baseFee uint64) FeeInfo
}

// FeeInfo is the status snapshot of the current fee schedule. The field
// names are part of the wire contract and must not change.
type FeeInfo struct {
	// BaseFee is the cost of a reference transaction under no load.
	BaseFee uint64 `json:"base_fee"`
	// LoadFee is the cost of a reference transaction now.
	LoadFee uint64 `json:"load_fee"`
}

// Tracker is the process-wide load fee state. A single instance is created
// at node startup and shared by reference; one mutex guards all four fields
// as a unit so that every operation sees a consistent joint snapshot.
type Tracker struct {
	mu           sync.Mutex
	localLevel   uint32
	remoteLevel  uint32
	clusterLevel uint32
	raiseStreak  int

	logger  logging.Logger
	metrics metrics
}

// New creates a Tracker with all levels at Reference.
func New(logger logging.Logger) *Tracker {
	t := &Tracker{
		localLevel:   Reference,
		remoteLevel:  Reference,
		clusterLevel: Reference,
		logger:       logger,
		metrics:      newMetrics(),
	}
	t.metrics.LocalLevel.Set(float64(Reference))
	t.metrics.RemoteLevel.Set(float64(Reference))
	t.metrics.ClusterLevel.Set(float64(Reference))
	return t
}

// RaiseLocal raises the local load level by a quarter of the greater of the
// local and remote levels, clamped to MaxLevel. A lone raise request is
// ignored so that a single transient spike does not move the level.
func (t *Tracker) RaiseLocal() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.RaiseRequestCount.Inc()

	t.raiseStreak++
	if t.raiseStreak < 2 {
		return false
	}

	origLevel := t.localLevel

	if t.localLevel < t.remoteLevel {
		t.localLevel = t.remoteLevel
	}
	t.localLevel += t.localLevel / levelIncFraction
	if t.localLevel > MaxLevel {
		t.localLevel = MaxLevel
	}

	if origLevel == t.localLevel {
		return false
	}

	t.metrics.LocalLevel.Set(float64(t.localLevel))
	t.metrics.RaiseCount.Inc()
	t.logger.Debugf("loadfee: local load level raised from %d to %d", origLevel, t.localLevel)
	return true
}

// LowerLocal lowers the local load level by a quarter, never below Reference,
// and unconditionally resets the raise streak.
func (t *Tracker) LowerLocal() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	origLevel := t.localLevel
	t.raiseStreak = 0

	t.localLevel -= t.localLevel / levelDecFraction
	if t.localLevel < Reference {
		t.localLevel = Reference
	}

	if origLevel == t.localLevel {
		return false
	}

	t.metrics.LocalLevel.Set(float64(t.localLevel))
	t.metrics.LowerCount.Inc()
	t.logger.Debugf("loadfee: local load level lowered from %d to %d", origLevel, t.localLevel)
	return true
}

// SetRemote stores the peer-reported level. The value is taken as ground
// truth; plausibility checks are the caller's responsibility.
func (t *Tracker) SetRemote(level uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.remoteLevel = level
	t.metrics.RemoteLevel.Set(float64(level))
}

// SetCluster stores the cluster-reported level. The value is taken as ground
// truth; plausibility checks are the caller's responsibility.
func (t *Tracker) SetCluster(level uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clusterLevel = level
	t.metrics.ClusterLevel.Set(float64(level))
}

func (t *Tracker) LocalLevel() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.localLevel
}

func (t *Tracker) RemoteLevel() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.remoteLevel
}

func (t *Tracker) ClusterLevel() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.clusterLevel
}

// LoadBase returns the Reference level.
func (t *Tracker) LoadBase() uint32 {
	return Reference
}

// LoadFactor returns the maximum of the local, remote and cluster levels.
func (t *Tracker) LoadFactor() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return max32(t.clusterLevel, max32(t.localLevel, t.remoteLevel))
}

// IsLoadedLocal reports whether a raise streak is in progress or the local
// level is above Reference.
func (t *Tracker) IsLoadedLocal() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.raiseStreak != 0 || t.localLevel != Reference
}

// IsLoadedCluster reports whether the local node or a cluster member is
// above Reference.
func (t *Tracker) IsLoadedCluster() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.raiseStreak != 0 || t.localLevel != Reference || t.clusterLevel != Reference
}

// ScaleFeeLoad computes fee * baseFee * loadFactor / (refFeeUnits * Reference)
// without overflowing 64 bits. Fees above the midrange boundary divide by
// refFeeUnits up front and multiply by baseFee at the end; smaller fees run
// in the opposite order for maximal precision. A privileged caller pays the
// remote rate as long as the local level stays below four times the greater
// of the remote and cluster levels; severe local spikes and remote or
// cluster reported load are never waived.
func (t *Tracker) ScaleFeeLoad(fee, baseFee uint64, refFeeUnits uint32, privileged bool) uint64 {
	big := fee > midrange

	if big { // big fee, divide first to avoid overflow
		fee /= uint64(refFeeUnits)
	} else { // normal fee, multiply first for accuracy
		fee *= baseFee
	}

	t.mu.Lock()
	feeFactor := max32(t.localLevel, t.remoteLevel)
	remFee := max32(t.remoteLevel, t.clusterLevel)
	t.mu.Unlock()

	if privileged && feeFactor > remFee && feeFactor < 4*remFee {
		feeFactor = remFee
	}

	fee = mulDiv(fee, uint64(feeFactor), uint64(Reference))

	if big { // fee was big to start, must now multiply
		fee *= baseFee
	} else { // fee was small to start, must now divide
		fee /= uint64(refFeeUnits)
	}

	return fee
}

// ScaleFeeBase scales fee from fee units to monetary units, ignoring load.
func (t *Tracker) ScaleFeeBase(fee, baseFee uint64, refFeeUnits uint32) uint64 {
	return mulDiv(fee, baseFee, uint64(refFeeUnits))
}

// Fees returns the snapshot served by the status api: the supplied base fee
// and the base fee scaled by the greater of the local and remote levels.
func (t *Tracker) Fees(baseFee uint64) FeeInfo {
	t.mu.Lock()
	defer t.mu.Unlock()

	return FeeInfo{
		BaseFee: baseFee,
		LoadFee: mulDiv(baseFee, uint64(max32(t.localLevel, t.remoteLevel)), uint64(Reference)),
	}
}

// mulDiv computes value*mul/div, where mul must fit in 32 bits. Values above
// the midrange boundary divide first, trading fractional precision for
// overflow safety; smaller values multiply first to preserve accuracy.
func mulDiv(value, mul, div uint64) uint64 {
	if value > midrange {
		return (value / div) * mul
	}
	return (value * mul) / div
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
