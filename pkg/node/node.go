// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package node wires the load fee tracker, the admission service, the
// loadsync protocol and the debug API into a running node.
package node

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/lodenet/lode/pkg/admission"
	"github.com/lodenet/lode/pkg/debugapi"
	"github.com/lodenet/lode/pkg/loadfee"
	"github.com/lodenet/lode/pkg/loadsync"
	"github.com/lodenet/lode/pkg/logging"
	"github.com/lodenet/lode/pkg/metrics"
	"github.com/lodenet/lode/pkg/overlay"
	"github.com/lodenet/lode/pkg/p2p"
)

// Options for constructing a node.
type Options struct {
	// P2P and Streamer are provided by the embedding transport. They may be
	// nil, in which case load levels are tracked locally only.
	P2P      p2p.Service
	Streamer p2p.Streamer

	DebugAPIAddr       string
	CORSAllowedOrigins []string

	BaseFee        uint64
	RefFeeUnits    uint32
	RaiseThreshold int
	TickInterval   time.Duration

	// ClusterPeers are the overlay addresses of trusted cluster members.
	// Their load announcements update the cluster level; announcements
	// from any other peer update the remote level.
	ClusterPeers []overlay.Address
}

// Lode is the assembled node.
type Lode struct {
	tracker     *loadfee.Tracker
	admission   *admission.Service
	loadSync    *loadsync.Service
	debugAPI    *debugapi.Service
	debugServer *http.Server
	logger      logging.Logger
}

// New constructs and starts a node.
func New(logger logging.Logger, o Options) (*Lode, error) {
	tracker := loadfee.New(logger)

	admissionService := admission.New(admission.Options{
		Tracker:        tracker,
		Logger:         logger,
		BaseFee:        o.BaseFee,
		RefFeeUnits:    o.RefFeeUnits,
		RaiseThreshold: o.RaiseThreshold,
		TickInterval:   o.TickInterval,
	})

	l := &Lode{
		tracker:   tracker,
		admission: admissionService,
		logger:    logger,
	}

	if o.Streamer != nil {
		loadSyncService := loadsync.New(o.Streamer, logger, tracker)
		loadSyncService.SetLoadLevelObserver(newLoadLevelObserver(tracker, o.ClusterPeers))
		admissionService.SetLevelObserver(newLevelAnnouncer(loadSyncService, o.ClusterPeers, logger))
		l.loadSync = loadSyncService

		if o.P2P != nil {
			if err := o.P2P.AddProtocol(loadSyncService.Protocol()); err != nil {
				return nil, fmt.Errorf("loadsync service: %w", err)
			}
		}
	}

	if o.DebugAPIAddr != "" {
		debugAPIService := debugapi.New(tracker, o.BaseFee, logger, o.CORSAllowedOrigins)
		debugAPIService.MustRegisterMetrics(tracker.Metrics()...)
		debugAPIService.MustRegisterMetrics(admissionService.Metrics()...)
		if l.loadSync != nil {
			debugAPIService.MustRegisterMetrics(l.loadSync.Metrics()...)
		}
		if lg, ok := logger.(metrics.Collector); ok {
			debugAPIService.MustRegisterMetrics(lg.Metrics()...)
		}

		listener, err := net.Listen("tcp", o.DebugAPIAddr)
		if err != nil {
			return nil, fmt.Errorf("debug api listener: %w", err)
		}

		debugServer := &http.Server{
			IdleTimeout:       30 * time.Second,
			ReadHeaderTimeout: 3 * time.Second,
			Handler:           debugAPIService,
		}

		go func() {
			logger.Infof("debug api address: %s", listener.Addr())

			if err := debugServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				logger.Debugf("debug api server: %v", err)
				logger.Error("unable to serve debug api")
			}
		}()

		l.debugAPI = debugAPIService
		l.debugServer = debugServer
	}

	return l, nil
}

// Tracker returns the shared load fee tracker.
func (l *Lode) Tracker() *loadfee.Tracker {
	return l.tracker
}

// Admission returns the admission service.
func (l *Lode) Admission() *admission.Service {
	return l.admission
}

// Close shuts the node down, aggregating all component errors.
func (l *Lode) Close() error {
	var mErr error

	tryClose := func(c io.Closer, errMsg string) {
		if c == nil {
			return
		}
		if err := c.Close(); err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("%s: %w", errMsg, err))
		}
	}

	if l.debugServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := l.debugServer.Shutdown(ctx); err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("debug api server: %w", err))
		}
	}

	tryClose(l.admission, "admission")

	return mErr
}

// loadLevelObserver routes load announcements to the cluster level for
// trusted cluster members and to the remote level for everyone else.
type loadLevelObserver struct {
	tracker loadfee.Interface
	cluster map[string]struct{}
}

func newLoadLevelObserver(tracker loadfee.Interface, clusterPeers []overlay.Address) *loadLevelObserver {
	cluster := make(map[string]struct{}, len(clusterPeers))
	for _, p := range clusterPeers {
		cluster[p.String()] = struct{}{}
	}
	return &loadLevelObserver{
		tracker: tracker,
		cluster: cluster,
	}
}

func (o *loadLevelObserver) NotifyLoadLevel(peer overlay.Address, level uint32) error {
	if _, ok := o.cluster[peer.String()]; ok {
		o.tracker.SetCluster(level)
	} else {
		o.tracker.SetRemote(level)
	}
	return nil
}

// levelAnnouncer pushes the new local level to cluster peers after it
// changed.
type levelAnnouncer struct {
	sync   loadsync.Interface
	peers  []overlay.Address
	logger logging.Logger
}

func newLevelAnnouncer(sync loadsync.Interface, peers []overlay.Address, logger logging.Logger) *levelAnnouncer {
	return &levelAnnouncer{
		sync:   sync,
		peers:  peers,
		logger: logger,
	}
}

func (a *levelAnnouncer) NotifyLocalLevel(level uint32) {
	for _, peer := range a.peers {
		go func(peer overlay.Address) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := a.sync.Announce(ctx, peer); err != nil {
				a.logger.Debugf("node: could not announce load level %d to peer %v: %v", level, peer, err)
			}
		}(peer)
	}
}
