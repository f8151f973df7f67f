// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loadsync exposes the protocol with which peers announce their
// current load level to each other. Received announcements are forwarded to
// an observer; deciding whether the announcing peer is a trusted cluster
// member is the observer's responsibility.
package loadsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lodenet/lode/pkg/loadfee"
	"github.com/lodenet/lode/pkg/loadsync/pb"
	"github.com/lodenet/lode/pkg/logging"
	"github.com/lodenet/lode/pkg/overlay"
	"github.com/lodenet/lode/pkg/p2p"
	"github.com/lodenet/lode/pkg/p2p/protobuf"
)

const (
	protocolName    = "loadsync"
	protocolVersion = "1.0.0"
	streamName      = "announce"
)

// ErrInvalidLevel says that the announced load level is not a valid scale
// factor.
var ErrInvalidLevel = errors.New("invalid load level")

var _ Interface = (*Service)(nil)

// Interface is the main interface of the loadsync protocol.
type Interface interface {
	// Announce sends the current local load level to the given peer.
	Announce(ctx context.Context, peer overlay.Address) error
}

// LoadLevelObserver is notified of load level announcements from peers.
type LoadLevelObserver interface {
	NotifyLoadLevel(peer overlay.Address, level uint32) error
}

type Service struct {
	streamer p2p.Streamer
	logger   logging.Logger
	tracker  loadfee.Interface
	metrics  metrics

	// observerMu guards observer, which may be set after the protocol
	// handlers are already reachable.
	observerMu sync.Mutex
	observer   LoadLevelObserver
}

func New(streamer p2p.Streamer, logger logging.Logger, tracker loadfee.Interface) *Service {
	return &Service{
		streamer: streamer,
		logger:   logger,
		tracker:  tracker,
		metrics:  newMetrics(),
	}
}

func (s *Service) Protocol() p2p.ProtocolSpec {
	return p2p.ProtocolSpec{
		Name:    protocolName,
		Version: protocolVersion,
		StreamSpecs: []p2p.StreamSpec{
			{
				Name:    streamName,
				Handler: s.handler,
			},
		},
		ConnectIn:  s.init,
		ConnectOut: s.init,
	}
}

func (s *Service) handler(ctx context.Context, p p2p.Peer, stream p2p.Stream) (err error) {
	r := protobuf.NewReader(stream)
	defer func() {
		if err != nil {
			_ = stream.Reset()
		} else {
			_ = stream.FullClose()
		}
	}()

	var req pb.LoadAnnouncement
	if err := r.ReadMsgWithContext(ctx, &req); err != nil {
		s.logger.Debugf("loadsync: could not receive load announcement from peer %v", p.Address)
		return fmt.Errorf("read request from peer %v: %w", p.Address, err)
	}

	s.metrics.ReceivedAnnouncements.Inc()
	s.logger.Tracef("loadsync: received load level announcement from peer %v of %d", p.Address, req.LoadLevel)

	if req.LoadLevel == 0 {
		return p2p.NewDisconnectError(ErrInvalidLevel)
	}

	s.observerMu.Lock()
	observer := s.observer
	s.observerMu.Unlock()

	if observer == nil {
		return nil
	}
	return observer.NotifyLoadLevel(p.Address, req.LoadLevel)
}

func (s *Service) init(ctx context.Context, p p2p.Peer) error {
	err := s.Announce(ctx, p.Address)
	if err != nil {
		s.logger.Warningf("loadsync: could not send load level announcement to peer %v", p.Address)
	}
	return err
}

// Announce sends the current local load level to the given peer.
func (s *Service) Announce(ctx context.Context, peer overlay.Address) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	stream, err := s.streamer.NewStream(ctx, peer, protocolName, protocolVersion, streamName)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = stream.Reset()
		} else {
			go stream.FullClose()
		}
	}()

	level := s.tracker.LocalLevel()
	s.logger.Tracef("loadsync: sending load level announcement to peer %v of %d", peer, level)
	w := protobuf.NewWriter(stream)
	err = w.WriteMsgWithContext(ctx, &pb.LoadAnnouncement{
		LoadLevel: level,
	})
	if err == nil {
		s.metrics.SentAnnouncements.Inc()
	}

	return err
}

// SetLoadLevelObserver sets the LoadLevelObserver to be used when receiving
// a new load level announcement. It is safe to call while handlers are
// running.
func (s *Service) SetLoadLevelObserver(observer LoadLevelObserver) {
	s.observerMu.Lock()
	defer s.observerMu.Unlock()
	s.observer = observer
}
