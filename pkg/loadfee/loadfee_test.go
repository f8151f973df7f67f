// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadfee_test

import (
	"encoding/json"
	"io"
	"sync"
	"testing"

	"github.com/lodenet/lode/pkg/loadfee"
	"github.com/lodenet/lode/pkg/logging"
)

func newTracker() *loadfee.Tracker {
	return loadfee.New(logging.New(io.Discard, 0))
}

func TestRaiseLocalDebounce(t *testing.T) {
	tracker := newTracker()

	if tracker.RaiseLocal() {
		t.Error("first raise request should be debounced")
	}
	if l := tracker.LocalLevel(); l != loadfee.Reference {
		t.Errorf("got local level %d, want %d", l, loadfee.Reference)
	}

	if !tracker.RaiseLocal() {
		t.Error("second raise request should change the level")
	}
	if l := tracker.LocalLevel(); l != 320 {
		t.Errorf("got local level %d, want %d", l, 320)
	}
	if !tracker.IsLoadedLocal() {
		t.Error("tracker should report local load")
	}
}

func TestRaiseLocalClamp(t *testing.T) {
	tracker := newTracker()

	for i := 0; i < 200; i++ {
		tracker.RaiseLocal()
		if l := tracker.LocalLevel(); l > loadfee.MaxLevel {
			t.Fatalf("local level %d exceeded maximum %d", l, loadfee.MaxLevel)
		}
	}

	if l := tracker.LocalLevel(); l != loadfee.MaxLevel {
		t.Errorf("got local level %d, want maximum %d", l, loadfee.MaxLevel)
	}
	if tracker.RaiseLocal() {
		t.Error("raise at the ceiling should report no change")
	}
}

func TestLowerLocalResetsStreak(t *testing.T) {
	tracker := newTracker()

	tracker.RaiseLocal()
	tracker.RaiseLocal()
	if !tracker.LowerLocal() {
		t.Error("lowering a raised level should change it")
	}

	if tracker.RaiseLocal() {
		t.Error("single raise after lowering should be debounced again")
	}
}

func TestLowerLocalAtFloor(t *testing.T) {
	tracker := newTracker()

	if tracker.LowerLocal() {
		t.Error("lowering at the floor should report no change")
	}
	if l := tracker.LocalLevel(); l != loadfee.Reference {
		t.Errorf("got local level %d, want %d", l, loadfee.Reference)
	}
	if tracker.IsLoadedLocal() {
		t.Error("tracker should not report local load")
	}

	tracker.SetLocal(loadfee.MaxLevel)
	for i := 0; i < 200; i++ {
		tracker.LowerLocal()
		if l := tracker.LocalLevel(); l < loadfee.Reference {
			t.Fatalf("local level %d dropped below reference %d", l, loadfee.Reference)
		}
	}
	if l := tracker.LocalLevel(); l != loadfee.Reference {
		t.Errorf("got local level %d, want %d", l, loadfee.Reference)
	}
}

func TestScaleFeeBaselineIdentity(t *testing.T) {
	tracker := newTracker()

	for _, tc := range []struct {
		fee, baseFee uint64
		refFeeUnits  uint32
	}{
		{fee: 1, baseFee: 1, refFeeUnits: 1},
		{fee: 10, baseFee: 10, refFeeUnits: 10},
		{fee: 12345, baseFee: 678, refFeeUnits: 9},
		{fee: 0xFFFFFFFF, baseFee: 3, refFeeUnits: 7},
	} {
		got := tracker.ScaleFeeLoad(tc.fee, tc.baseFee, tc.refFeeUnits, false)
		want := tracker.ScaleFeeBase(tc.fee, tc.baseFee, tc.refFeeUnits)
		if got != want {
			t.Errorf("fee %d: load scaled %d differs from base scaled %d at baseline", tc.fee, got, want)
		}
	}
}

func TestScaleFeeLoadPrivilegedRelief(t *testing.T) {
	const (
		fee         = 1000
		baseFee     = 10
		refFeeUnits = 10
	)

	tracker := newTracker()
	tracker.SetRemote(300)
	tracker.SetCluster(300)

	// Local spike within the 4x band: a privileged caller pays the remote rate.
	tracker.SetLocal(1000)
	if got := tracker.ScaleFeeLoad(fee, baseFee, refFeeUnits, true); got != 1171 { // factor 300
		t.Errorf("got fee %d, want %d", got, 1171)
	}
	if got := tracker.ScaleFeeLoad(fee, baseFee, refFeeUnits, false); got != 3906 { // factor 1000
		t.Errorf("got fee %d, want %d", got, 3906)
	}

	// Severe local spike beyond the band: no relief.
	tracker.SetLocal(1300)
	if got := tracker.ScaleFeeLoad(fee, baseFee, refFeeUnits, true); got != 5078 { // factor 1300
		t.Errorf("got fee %d, want %d", got, 5078)
	}

	// Exactly at the 4x multiple: relief does not apply.
	tracker.SetLocal(1200)
	if got := tracker.ScaleFeeLoad(fee, baseFee, refFeeUnits, true); got != 4687 { // factor 1200
		t.Errorf("got fee %d, want %d", got, 4687)
	}
}

func TestScaleFeeLoadOverflow(t *testing.T) {
	tracker := newTracker()

	// Naive multiply-then-divide would need 66 bits here; the divide-first
	// path must return the exact unwrapped result.
	var (
		fee         uint64 = 1 << 62
		baseFee     uint64 = 16
		refFeeUnits uint32 = 16
	)
	if got := tracker.ScaleFeeLoad(fee, baseFee, refFeeUnits, false); got != 1<<62 {
		t.Errorf("got fee %d, want %d", got, uint64(1)<<62)
	}
}

func TestMulDiv(t *testing.T) {
	// small value multiplies first
	if got := loadfee.MulDiv(10, 3, 4); got != 7 {
		t.Errorf("got %d, want %d", got, 7)
	}
	// large value divides first
	if got := loadfee.MulDiv(1<<63, 2, 4); got != 1<<62 {
		t.Errorf("got %d, want %d", got, uint64(1)<<62)
	}
}

func TestFees(t *testing.T) {
	tracker := newTracker()
	tracker.SetLocal(512)

	info := tracker.Fees(10)
	if info.BaseFee != 10 {
		t.Errorf("got base fee %d, want %d", info.BaseFee, 10)
	}
	if info.LoadFee != 20 {
		t.Errorf("got load fee %d, want %d", info.LoadFee, 20)
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"base_fee":10,"load_fee":20}`; string(data) != want {
		t.Errorf("got json %s, want %s", string(data), want)
	}
}

func TestLoadFactor(t *testing.T) {
	tracker := newTracker()

	if f := tracker.LoadFactor(); f != loadfee.Reference {
		t.Errorf("got load factor %d, want %d", f, loadfee.Reference)
	}

	tracker.SetRemote(500)
	if f := tracker.LoadFactor(); f != 500 {
		t.Errorf("got load factor %d, want %d", f, 500)
	}

	tracker.SetCluster(900)
	if f := tracker.LoadFactor(); f != 900 {
		t.Errorf("got load factor %d, want %d", f, 900)
	}
	if !tracker.IsLoadedCluster() {
		t.Error("tracker should report cluster load")
	}
	if tracker.IsLoadedLocal() {
		t.Error("tracker should not report local load")
	}
}

func TestTrackerConcurrency(t *testing.T) {
	tracker := newTracker()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				tracker.RaiseLocal()
				tracker.SetRemote(uint32(j))
				tracker.SetCluster(uint32(j))
				_ = tracker.LoadFactor()
				_ = tracker.ScaleFeeLoad(10, 10, 10, false)
				_ = tracker.Fees(10)
				tracker.LowerLocal()
			}
		}()
	}
	wg.Wait()

	if l := tracker.LocalLevel(); l < loadfee.Reference || l > loadfee.MaxLevel {
		t.Errorf("local level %d out of bounds", l)
	}
}
