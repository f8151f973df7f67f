// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package protobuf provides delimited protobuf readers and writers for
// protocol streams.
package protobuf

import (
	"context"
	"io"

	ggio "github.com/gogo/protobuf/io"
	"github.com/gogo/protobuf/proto"

	"github.com/lodenet/lode/pkg/p2p"
)

const delimitedReaderMaxSize = 32 * 1024 // max message size

type Message = proto.Message

func NewWriterAndReader(s p2p.Stream) (Writer, Reader) {
	return NewWriter(s), NewReader(s)
}

func NewReader(r io.Reader) Reader {
	return Reader{ggio.NewDelimitedReader(r, delimitedReaderMaxSize)}
}

func NewWriter(w io.Writer) Writer {
	return Writer{ggio.NewDelimitedWriter(w)}
}

// ReadMessages reads all messages from the reader until EOF. It is meant for
// inspecting recorded streams in tests.
func ReadMessages(r io.Reader, newMessage func() Message) (m []Message, err error) {
	pr := NewReader(r)
	for {
		msg := newMessage()
		if err := pr.ReadMsg(msg); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		m = append(m, msg)
	}
	return m, nil
}

type Reader struct {
	ggio.Reader
}

// ReadMsgWithContext reads a message, aborting when the context is done.
func (r Reader) ReadMsgWithContext(ctx context.Context, msg proto.Message) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- r.ReadMsg(msg)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Writer struct {
	ggio.Writer
}

// WriteMsgWithContext writes a message, aborting when the context is done.
func (w Writer) WriteMsgWithContext(ctx context.Context, msg proto.Message) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- w.WriteMsg(msg)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
