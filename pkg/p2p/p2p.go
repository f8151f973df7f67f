// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package p2p provides the protocol abstractions implemented by the
// underlying transport and consumed by protocol services.
package p2p

import (
	"context"
	"io"

	"github.com/lodenet/lode/pkg/overlay"
)

// Service is implemented by the transport layer and used by protocol
// services to register themselves.
type Service interface {
	AddProtocol(ProtocolSpec) error
	Disconnect(overlay.Address) error
}

// Streamer opens streams to connected peers.
type Streamer interface {
	NewStream(ctx context.Context, address overlay.Address, protocol, version, stream string) (Stream, error)
}

// Stream represents a stream of a protocol between two peers. Close closes
// only the local side, FullClose waits for the remote side to close as well
// and Reset aborts the stream signalling an error to the remote side.
type Stream interface {
	io.ReadWriter
	io.Closer
	FullClose() error
	Reset() error
}

// ProtocolSpec defines a collection of streams with handlers and the hooks
// run when a peer connects.
type ProtocolSpec struct {
	Name        string
	Version     string
	StreamSpecs []StreamSpec
	ConnectIn   func(context.Context, Peer) error
	ConnectOut  func(context.Context, Peer) error
}

// StreamSpec defines a stream handler within a protocol.
type StreamSpec struct {
	Name    string
	Handler HandlerFunc
}

// Peer holds information about a connected peer.
type Peer struct {
	Address overlay.Address
}

type HandlerFunc func(context.Context, Peer, Stream) error

type HandlerMiddleware func(HandlerFunc) HandlerFunc

// NewStreamName constructs a full stream name from the protocol name and
// version and the stream name.
func NewStreamName(protocol, version, stream string) string {
	return "/lode/" + protocol + "/" + version + "/" + stream
}
