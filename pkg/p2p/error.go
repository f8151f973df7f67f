// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package p2p

// DisconnectError is an error that is specifically handled inside p2p. If
// returned by a protocol handler it causes the peer to be disconnected.
type DisconnectError struct {
	err error
}

// NewDisconnectError wraps an error to signal the transport that the peer
// must be disconnected.
func NewDisconnectError(err error) error {
	return &DisconnectError{
		err: err,
	}
}

// Unwrap returns an underlying error.
func (e *DisconnectError) Unwrap() error { return e.err }

// Error implements function of the standard go error interface.
func (e *DisconnectError) Error() string {
	return e.err.Error()
}
