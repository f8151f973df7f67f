// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package admission_test

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/lodenet/lode/pkg/admission"
	"github.com/lodenet/lode/pkg/loadfee/mock"
	"github.com/lodenet/lode/pkg/logging"
)

type testLevelObserver struct {
	called bool
	level  uint32
}

func (t *testLevelObserver) NotifyLocalLevel(level uint32) {
	t.called = true
	t.level = level
}

func newService(t *testing.T, tracker *mock.Service) *admission.Service {
	t.Helper()

	s := admission.New(admission.Options{
		Tracker:        tracker,
		Logger:         logging.New(io.Discard, 0),
		BaseFee:        10,
		RefFeeUnits:    10,
		RaiseThreshold: 3,
		TickInterval:   time.Hour, // ticks are driven manually in tests
	})
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatal(err)
		}
	})
	return s
}

func TestPrice(t *testing.T) {
	tracker := mock.NewService(mock.WithLocalLevel(512))
	s := newService(t, tracker)

	if got := s.Price(1000, false); got != 2000 {
		t.Errorf("got price %d, want %d", got, 2000)
	}
	if got := s.BasePrice(1000); got != 1000 {
		t.Errorf("got base price %d, want %d", got, 1000)
	}

	info := s.Fees()
	if info.BaseFee != 10 {
		t.Errorf("got base fee %d, want %d", info.BaseFee, 10)
	}
	if info.LoadFee != 20 {
		t.Errorf("got load fee %d, want %d", info.LoadFee, 20)
	}
}

func TestSignalsRaiseLevel(t *testing.T) {
	tracker := mock.NewService(mock.WithRaiseChanges())
	observer := &testLevelObserver{}

	s := newService(t, tracker)
	s.SetLevelObserver(observer)

	s.Signal()
	s.Signal()
	s.Signal()
	s.Tick()

	if c := tracker.RaiseCalls(); c != 1 {
		t.Errorf("got %d raise calls, want %d", c, 1)
	}
	if c := tracker.LowerCalls(); c != 0 {
		t.Errorf("got %d lower calls, want %d", c, 0)
	}
	if !observer.called {
		t.Error("expected observer to be called after a level change")
	}
}

func TestQuietTicksLowerLevel(t *testing.T) {
	tracker := mock.NewService()
	observer := &testLevelObserver{}

	s := newService(t, tracker)
	s.SetLevelObserver(observer)

	// Signals below the threshold must not raise.
	s.Signal()
	s.Tick()
	s.Tick()

	if c := tracker.RaiseCalls(); c != 0 {
		t.Errorf("got %d raise calls, want %d", c, 0)
	}
	if c := tracker.LowerCalls(); c != 2 {
		t.Errorf("got %d lower calls, want %d", c, 2)
	}
	if observer.called {
		t.Error("observer must not be called when the level did not change")
	}
}

type chanLevelObserver struct {
	levels chan uint32
}

func (o *chanLevelObserver) NotifyLocalLevel(level uint32) {
	select {
	case o.levels <- level:
	default:
	}
}

// The observer is wired after the level update loop is already running, so
// setting it must synchronize with the loop's reads.
func TestSetLevelObserverWhileRunning(t *testing.T) {
	tracker := mock.NewService(mock.WithRaiseChanges())

	s := admission.New(admission.Options{
		Tracker:        tracker,
		Logger:         logging.New(io.Discard, 0),
		BaseFee:        10,
		RefFeeUnits:    10,
		RaiseThreshold: 1,
		TickInterval:   time.Millisecond,
	})
	defer func() {
		if err := s.Close(); err != nil {
			t.Fatal(err)
		}
	}()

	quit := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-quit:
				return
			default:
				s.Signal()
			}
		}
	}()
	defer func() {
		close(quit)
		wg.Wait()
	}()

	// Let the loop run a few ticks without an observer first.
	time.Sleep(5 * time.Millisecond)

	observer := &chanLevelObserver{levels: make(chan uint32, 1)}
	s.SetLevelObserver(observer)

	select {
	case <-observer.levels:
	case <-time.After(time.Second):
		t.Fatal("observer was not notified after a level change")
	}
}

func TestSignalsResetBetweenTicks(t *testing.T) {
	tracker := mock.NewService()
	s := newService(t, tracker)

	s.Signal()
	s.Signal()
	s.Tick()
	s.Signal()
	s.Tick()

	if c := tracker.RaiseCalls(); c != 0 {
		t.Errorf("got %d raise calls, want %d", c, 0)
	}
}
