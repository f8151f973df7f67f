// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package streamtest provides an in-memory stream recorder for testing
// protocol services without a transport.
package streamtest

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/lodenet/lode/pkg/overlay"
	"github.com/lodenet/lode/pkg/p2p"
)

var (
	ErrRecordsNotFound    = errors.New("records not found")
	ErrStreamNotSupported = errors.New("stream not supported")
	ErrStreamClosed       = errors.New("stream closed")

	noopMiddleware = func(f p2p.HandlerFunc) p2p.HandlerFunc {
		return f
	}
)

// Recorder implements p2p.Streamer. Every opened stream is served by the
// registered protocol handler and its traffic is recorded for inspection.
type Recorder struct {
	base        overlay.Address
	records     map[string][]*Record
	recordsMu   sync.Mutex
	protocols   []p2p.ProtocolSpec
	middlewares []p2p.HandlerMiddleware
	streamErr   func(overlay.Address, string, string, string) error
}

type Option interface {
	apply(*Recorder)
}

type optionFunc func(*Recorder)

func (f optionFunc) apply(r *Recorder) { f(r) }

func WithProtocols(protocols ...p2p.ProtocolSpec) Option {
	return optionFunc(func(r *Recorder) {
		r.protocols = append(r.protocols, protocols...)
	})
}

func WithMiddlewares(middlewares ...p2p.HandlerMiddleware) Option {
	return optionFunc(func(r *Recorder) {
		r.middlewares = append(r.middlewares, middlewares...)
	})
}

func WithBaseAddr(a overlay.Address) Option {
	return optionFunc(func(r *Recorder) {
		r.base = a
	})
}

func WithStreamError(streamErr func(overlay.Address, string, string, string) error) Option {
	return optionFunc(func(r *Recorder) {
		r.streamErr = streamErr
	})
}

func New(opts ...Option) *Recorder {
	r := &Recorder{
		records: make(map[string][]*Record),
	}

	r.middlewares = append(r.middlewares, noopMiddleware)

	for _, o := range opts {
		o.apply(r)
	}
	return r
}

func (r *Recorder) NewStream(ctx context.Context, addr overlay.Address, protocolName, protocolVersion, streamName string) (p2p.Stream, error) {
	if r.streamErr != nil {
		if err := r.streamErr(addr, protocolName, protocolVersion, streamName); err != nil {
			return nil, err
		}
	}

	recordIn := newRecord()
	recordOut := newRecord()
	streamOut := newStream(recordIn, recordOut)
	streamIn := newStream(recordOut, recordIn)

	var handler p2p.HandlerFunc
	for _, p := range r.protocols {
		if p.Name != protocolName || p.Version != protocolVersion {
			continue
		}
		for _, s := range p.StreamSpecs {
			if s.Name == streamName {
				handler = s.Handler
			}
		}
	}
	if handler == nil {
		return nil, ErrStreamNotSupported
	}
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}

	record := &Record{in: recordIn, out: recordOut, done: make(chan struct{})}
	go func() {
		defer close(record.done)

		// pass a new context to the handler,
		// do not cancel it with the client stream context
		err := handler(context.Background(), p2p.Peer{Address: r.base}, streamIn)
		if err != nil && !errors.Is(err, io.EOF) {
			record.setErr(err)
		}
	}()

	id := addr.String() + p2p.NewStreamName(protocolName, protocolVersion, streamName)

	r.recordsMu.Lock()
	defer r.recordsMu.Unlock()

	r.records[id] = append(r.records[id], record)
	return streamOut, nil
}

func (r *Recorder) Records(addr overlay.Address, protocolName, protocolVersion, streamName string) ([]*Record, error) {
	id := addr.String() + p2p.NewStreamName(protocolName, protocolVersion, streamName)

	r.recordsMu.Lock()
	defer r.recordsMu.Unlock()

	records, ok := r.records[id]
	if !ok {
		return nil, ErrRecordsNotFound
	}
	// wait for all records goroutines to terminate
	for _, r := range records {
		<-r.done
	}
	return records, nil
}

type Record struct {
	in    *record
	out   *record
	err   error
	errMu sync.Mutex
	done  chan struct{}
}

func (r *Record) In() []byte {
	return r.in.bytes()
}

func (r *Record) Out() []byte {
	return r.out.bytes()
}

func (r *Record) Err() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()

	return r.err
}

func (r *Record) setErr(err error) {
	r.errMu.Lock()
	defer r.errMu.Unlock()

	r.err = err
}

type stream struct {
	in     *record
	out    *record
	closed bool
	lock   sync.Mutex
}

func newStream(in, out *record) *stream {
	return &stream{in: in, out: out}
}

func (s *stream) Read(p []byte) (int, error) {
	if s.isClosed() {
		return 0, ErrStreamClosed
	}

	return s.out.Read(p)
}

func (s *stream) Write(p []byte) (int, error) {
	if s.isClosed() {
		return 0, ErrStreamClosed
	}

	return s.in.Write(p)
}

func (s *stream) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return ErrStreamClosed
	}

	s.closed = true
	s.in.close()

	return nil
}

func (s *stream) FullClose() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return ErrStreamClosed
	}

	s.closed = true
	s.in.close()
	s.out.close()

	return nil
}

func (s *stream) Reset() error {
	return s.FullClose()
}

func (s *stream) isClosed() bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.closed
}

type record struct {
	b        []byte
	c        int
	lock     sync.Mutex
	dataSigC chan struct{}
	closed   bool
}

func newRecord() *record {
	return &record{
		dataSigC: make(chan struct{}, 16),
	}
}

func (r *record) Read(p []byte) (n int, err error) {
	for r.c == r.bytesSize() {
		_, ok := <-r.dataSigC
		if !ok {
			return 0, io.EOF
		}
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	end := r.c + len(p)
	if end > len(r.b) {
		end = len(r.b)
	}
	n = copy(p, r.b[r.c:end])
	r.c += n

	return n, nil
}

func (r *record) Write(p []byte) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return 0, ErrStreamClosed
	}

	r.b = append(r.b, p...)
	r.dataSigC <- struct{}{}

	return len(p), nil
}

func (r *record) close() {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return
	}

	r.closed = true
	close(r.dataSigC)
}

func (r *record) bytes() []byte {
	return r.b
}

func (r *record) bytesSize() int {
	r.lock.Lock()
	defer r.lock.Unlock()

	return len(r.b)
}
