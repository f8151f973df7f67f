// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lode

var (
	version    = "0.4.0" // manually set semantic version number
	commitHash string    // automatically set git commit hash

	// Version is the reported version string, set at build time.
	Version = func() string {
		if commitHash != "" {
			return version + "-" + commitHash
		}
		return version + "-dev"
	}()
)
