// Copyright 2021 The Lode Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi

import (
	"fmt"
	"net/http"
)

func (s *Service) statusHandler(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintln(w, `{"status":"ok"}`)
}
