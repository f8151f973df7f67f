// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loadfee

// SetLocal sets the local level directly, bypassing the raise and lower
// stepping, so that tests can construct exact level combinations.
func (t *Tracker) SetLocal(level uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.localLevel = level
}

var MulDiv = mulDiv
