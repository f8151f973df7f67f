// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package admission

// Tick runs one iteration of the level update loop so that tests do not
// depend on timing.
func (s *Service) Tick() {
	s.tick()
}
